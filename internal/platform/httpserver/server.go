package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	delegation "chancery/contexts/correspondence/delegation-service"
	workflow "chancery/contexts/correspondence/workflow-service"
	profile "chancery/contexts/identity-access/profile-service"
	notifications "chancery/contexts/notifications/notification-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "chancery/internal/platform/httpserver/docs"
)

type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	profiles      profile.Module
	workflow      workflow.Module
	delegation    delegation.Module
	notifications notifications.Module
	pingInterval  time.Duration
}

func New(
	profiles profile.Module,
	workflowModule workflow.Module,
	delegationModule delegation.Module,
	notificationsModule notifications.Module,
	pingInterval time.Duration,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		profiles:      profiles,
		workflow:      workflowModule,
		delegation:    delegationModule,
		notifications: notificationsModule,
		pingInterval:  pingInterval,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerProfileRoutes()
	s.registerWorkflowRoutes()
	s.registerDelegationRoutes()
	s.registerNotificationRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveUser extracts the authenticated caller id the edge proxy injects.
func resolveUser(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false
	}
	return limit, true
}
