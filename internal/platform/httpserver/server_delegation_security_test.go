package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	delegationhttp "chancery/contexts/correspondence/delegation-service/transport/http"
)

func assignTestAssistant(t *testing.T, server *Server, executiveID string, req delegationhttp.AssignAssistantRequest) delegationhttp.AssignmentDTO {
	t.Helper()
	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal assign request: %v", err)
	}

	httpReq := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/assignments", bytes.NewReader(payload))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-User-Id", executiveID)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, httpReq)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 assign, got %d body=%s", rr.Code, rr.Body.String())
	}

	var created delegationhttp.AssignmentDTO
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	return created
}

func TestAssignAssistantRequiresIdentity(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"assistant_id":"user-officer-dev","type":"technical","permissions":["forward"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAssignAssistantRejectsUnknownType(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"assistant_id":"user-officer-dev","type":"butler","permissions":["forward"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown assistant type, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDelegateWithoutAssignmentIsUnprocessable(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"correspondence_id":"corr-1","assistant_id":"user-officer-dev"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/delegations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without standing assignment, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDuplicateAssignmentConflicts(t *testing.T) {
	server := newTestServer()
	req := delegationhttp.AssignAssistantRequest{
		AssistantID: "user-officer-dev",
		Type:        "technical",
		Permissions: []string{"forward"},
	}
	assignTestAssistant(t, server, "user-gm-ict", req)

	payload, _ := json.Marshal(req)
	dup := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/assignments", bytes.NewReader(payload))
	dup.Header.Set("Content-Type", "application/json")
	dup.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, dup)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 duplicate assignment, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDelegateAndLookupActiveDelegation(t *testing.T) {
	server := newTestServer()
	assignTestAssistant(t, server, "user-gm-ict", delegationhttp.AssignAssistantRequest{
		AssistantID: "user-officer-dev",
		Type:        "technical",
		Permissions: []string{"forward"},
	})

	body := []byte(`{"correspondence_id":"corr-42","assistant_id":"user-officer-dev","notes":"handle the vendor reply"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/delegations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 delegate, got %d body=%s", rr.Code, rr.Body.String())
	}

	lookup := httptest.NewRequest(http.MethodGet, "/api/delegation/v1/correspondences/corr-42/active", nil)
	lookupRR := httptest.NewRecorder()
	server.mux.ServeHTTP(lookupRR, lookup)
	if lookupRR.Code != http.StatusOK {
		t.Fatalf("expected 200 active lookup, got %d body=%s", lookupRR.Code, lookupRR.Body.String())
	}
	var active delegationhttp.ActiveDelegationResponse
	if err := json.NewDecoder(lookupRR.Body).Decode(&active); err != nil {
		t.Fatalf("decode active response: %v", err)
	}
	if !active.Active {
		t.Fatalf("expected an active delegation on corr-42")
	}
	if active.Delegation == nil || active.Delegation.AssistantID != "user-officer-dev" {
		t.Fatalf("unexpected delegation in active response: %+v", active.Delegation)
	}
}

func TestRevokeUnknownDelegation(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/delegation/v1/delegations/missing-1/revoke", nil)
	req.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
