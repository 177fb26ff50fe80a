package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chancery/contexts/notifications/notification-service/application/commands"
	notificationhttp "chancery/contexts/notifications/notification-service/transport/http"
)

func TestListNotificationsRequiresIdentity(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/v1/notifications", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNotificationStreamRequiresIdentity(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/v1/stream", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMarkUnknownNotificationRead(t *testing.T) {
	server := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/v1/notifications/missing-1/read", nil)
	req.Header.Set("X-User-Id", "user-gm-ict")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestNotificationListAndUnreadCount(t *testing.T) {
	server := newTestServer()
	_, err := server.notifications.Create.Execute(context.Background(), commands.CreateNotificationCommand{
		RecipientID:   "user-gm-ict",
		Title:         "Correspondence forwarded to you",
		Message:       "Annual procurement plan (REF-2026-0001)",
		Type:          "correspondence",
		SourceEventID: "evt-1",
	})
	if err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	list := httptest.NewRequest(http.MethodGet, "/api/notifications/v1/notifications", nil)
	list.Header.Set("X-User-Id", "user-gm-ict")
	listRR := httptest.NewRecorder()
	server.mux.ServeHTTP(listRR, list)
	if listRR.Code != http.StatusOK {
		t.Fatalf("expected 200 list, got %d body=%s", listRR.Code, listRR.Body.String())
	}
	var items []notificationhttp.NotificationDTO
	if err := json.NewDecoder(listRR.Body).Decode(&items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0].Status != "unread" {
		t.Fatalf("unexpected list payload: %+v", items)
	}

	count := httptest.NewRequest(http.MethodGet, "/api/notifications/v1/notifications/unread-count", nil)
	count.Header.Set("X-User-Id", "user-gm-ict")
	countRR := httptest.NewRecorder()
	server.mux.ServeHTTP(countRR, count)
	if countRR.Code != http.StatusOK {
		t.Fatalf("expected 200 count, got %d body=%s", countRR.Code, countRR.Body.String())
	}
	var counted notificationhttp.UnreadCountResponse
	if err := json.NewDecoder(countRR.Body).Decode(&counted); err != nil {
		t.Fatalf("decode count: %v", err)
	}
	if counted.Count != 1 {
		t.Fatalf("expected 1 unread, got %d", counted.Count)
	}
}

func TestNotificationStreamDeliversEvent(t *testing.T) {
	server := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/notifications/v1/stream", nil).WithContext(ctx)
	req.Header.Set("X-User-Id", "user-gm-ict")
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		server.mux.ServeHTTP(rr, req)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for server.notifications.Hub.SubscriberCount("user-gm-ict") == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("stream handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := server.notifications.Create.Execute(context.Background(), commands.CreateNotificationCommand{
		RecipientID:   "user-gm-ict",
		Title:         "Correspondence forwarded to you",
		Message:       "Annual procurement plan (REF-2026-0001)",
		Type:          "correspondence",
		SourceEventID: "evt-stream-1",
	}); err != nil {
		cancel()
		t.Fatalf("push notification: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rr.Body.String()
	if !strings.Contains(body, "event: notification") {
		t.Fatalf("expected an event frame on the stream, body=%q", body)
	}
	if !strings.Contains(body, "Correspondence forwarded to you") {
		t.Fatalf("expected the notification payload on the stream, body=%q", body)
	}
	if contentType := rr.Header().Get("Content-Type"); contentType != "text/event-stream" {
		t.Fatalf("expected text/event-stream, got %q", contentType)
	}
}
