package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	notificationerrors "chancery/contexts/notifications/notification-service/domain/errors"
	notificationhttp "chancery/contexts/notifications/notification-service/transport/http"
)

func (s *Server) registerNotificationRoutes() {
	s.mux.HandleFunc("GET /api/notifications/v1/notifications", s.handleListNotifications)
	s.mux.HandleFunc("GET /api/notifications/v1/notifications/unread-count", s.handleUnreadCount)
	s.mux.HandleFunc("POST /api/notifications/v1/notifications/{notification_id}/read", s.handleMarkNotificationRead)
	s.mux.HandleFunc("POST /api/notifications/v1/notifications/{notification_id}/archive", s.handleMarkNotificationArchived)
	s.mux.HandleFunc("GET /api/notifications/v1/stream", s.handleNotificationStream)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeNotificationError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
		return
	}
	resp, err := s.notifications.Handler.ListHandler(r.Context(), userID, r.URL.Query().Get("status"), limit)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	resp, err := s.notifications.Handler.UnreadCountHandler(r.Context(), userID)
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireNotificationUser(w, r); !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkReadHandler(r.Context(), r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkNotificationArchived(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireNotificationUser(w, r); !ok {
		return
	}
	resp, err := s.notifications.Handler.MarkArchivedHandler(r.Context(), r.PathValue("notification_id"))
	if err != nil {
		writeNotificationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleNotificationStream serves the SSE push channel. A comment line is
// written every ping interval so proxies and clients can tell a quiet stream
// from a dead one.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireNotificationUser(w, r)
	if !ok {
		return
	}
	if s.notifications.Hub == nil {
		writeNotificationError(w, http.StatusServiceUnavailable, "stream_unavailable", "push channel is not enabled")
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeNotificationError(w, http.StatusInternalServerError, "stream_unsupported", "response writer does not support streaming")
		return
	}

	notifications, cancel := s.notifications.Hub.Subscribe(userID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case notification, open := <-notifications:
			if !open {
				return
			}
			payload, err := json.Marshal(notification)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}

func requireNotificationUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := resolveUser(r)
	if userID == "" {
		writeNotificationError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func writeNotificationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeNotificationError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, notificationerrors.ErrInvalidRequest):
		writeNotificationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeNotificationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeNotificationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, notificationhttp.ErrorResponse{Code: code, Message: message})
}
