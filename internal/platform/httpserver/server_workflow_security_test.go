package httpserver

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	delegation "chancery/contexts/correspondence/delegation-service"
	workflow "chancery/contexts/correspondence/workflow-service"
	"chancery/contexts/correspondence/workflow-service/adapters/local"
	workflowhttp "chancery/contexts/correspondence/workflow-service/transport/http"
	profile "chancery/contexts/identity-access/profile-service"
	notifications "chancery/contexts/notifications/notification-service"
	"chancery/internal/platform/messaging"
	"chancery/internal/shared/keylock"
)

func newTestServer() *Server {
	logger := slog.Default()
	locker := keylock.NewRegistry()
	bus := messaging.NewBus(logger)

	profiles := profile.NewInMemoryModule(logger)
	delegationModule := delegation.NewInMemoryModule(locker, bus, logger)
	workflowModule := workflow.NewInMemoryModule(
		local.ProfileGateway{
			Profiles:    profiles.ResolveProfile,
			Delegations: delegationModule.ActiveFor,
			Logger:      logger,
		},
		local.DelegationGateway{CompleteUseCase: delegationModule.Complete},
		locker,
		bus,
		logger,
	)
	notificationsModule := notifications.NewInMemoryModule(8, logger)

	return New(
		profiles,
		workflowModule,
		delegationModule,
		notificationsModule,
		25*time.Millisecond,
		logger,
		":0",
	)
}

func registerTestCorrespondence(t *testing.T, server *Server, actorID string, plan []string) workflowhttp.CorrespondenceDTO {
	t.Helper()
	payload, err := json.Marshal(workflowhttp.RegisterCorrespondenceRequest{
		Subject:     "Annual procurement plan",
		SenderName:  "Procurement Unit",
		Direction:   "inbound",
		RoutingPlan: plan,
	})
	if err != nil {
		t.Fatalf("marshal register request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", actorID)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", rr.Code, rr.Body.String())
	}

	var created workflowhttp.CorrespondenceDTO
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return created
}

func TestRegisterCorrespondenceRequiresIdentity(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"subject":"Annual procurement plan","sender_name":"Procurement Unit","direction":"inbound"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterCorrespondenceForbiddenWithoutCapability(t *testing.T) {
	server := newTestServer()
	body := []byte(`{"subject":"Annual procurement plan","sender_name":"Procurement Unit","direction":"inbound"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "intruder-99")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown directory user, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestApplyMinuteSpoofedApproverIsRejected(t *testing.T) {
	server := newTestServer()
	created := registerTestCorrespondence(t, server, "user-registry", []string{"user-sm-finance"})

	body := []byte(`{"action":"approve"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences/"+created.CorrespondenceID+"/minutes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-pm-audit")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for non-approver, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestApplyMinuteForwardForbiddenForStaff(t *testing.T) {
	server := newTestServer()
	created := registerTestCorrespondence(t, server, "user-registry", []string{"user-sm-finance"})

	body := []byte(`{"action":"forward","to_user_id":"user-pm-audit"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences/"+created.CorrespondenceID+"/minutes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-staff-records")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff forward, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegistryListingGatedOnProfile(t *testing.T) {
	server := newTestServer()

	denied := httptest.NewRequest(http.MethodGet, "/api/correspondence/v1/registry", nil)
	denied.Header.Set("X-User-Id", "user-sm-finance")
	deniedRR := httptest.NewRecorder()
	server.mux.ServeHTTP(deniedRR, denied)
	if deniedRR.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for senior manager, got %d body=%s", deniedRR.Code, deniedRR.Body.String())
	}

	allowed := httptest.NewRequest(http.MethodGet, "/api/correspondence/v1/registry", nil)
	allowed.Header.Set("X-User-Id", "user-registry")
	allowedRR := httptest.NewRecorder()
	server.mux.ServeHTTP(allowedRR, allowed)
	if allowedRR.Code != http.StatusOK {
		t.Fatalf("expected 200 for registry officer, got %d body=%s", allowedRR.Code, allowedRR.Body.String())
	}
}

func TestApplyMinuteUnknownCorrespondence(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"action":"approve"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/correspondence/v1/correspondences/missing-1/minutes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "user-sm-finance")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
