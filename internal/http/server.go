// Package http exposes the fulfillment backend as a JSON API for the
// warehouse frontend.
package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/app/dashboard"
	"github.com/packflow/packflow/internal/app/staff"
	"github.com/packflow/packflow/internal/app/taskaction"
	"github.com/packflow/packflow/internal/app/taskinfo"
	"github.com/packflow/packflow/internal/log"
)

// ServerConfig is the configuration for the API server.
type ServerConfig struct {
	TaskAction *taskaction.Service
	TaskInfo   *taskinfo.Service
	Dashboard  *dashboard.Service
	Staff      *staff.Service
	AuditSync  *auditsync.Service
	Logger     log.Logger
	// DevMode exposes internal error details in 500 responses.
	DevMode bool
	Now     func() time.Time
}

func (c *ServerConfig) defaults() error {
	if c.TaskAction == nil {
		return fmt.Errorf("task action service is required")
	}
	if c.TaskInfo == nil {
		return fmt.Errorf("task info service is required")
	}
	if c.Dashboard == nil {
		return fmt.Errorf("dashboard service is required")
	}
	if c.Staff == nil {
		return fmt.Errorf("staff service is required")
	}
	if c.AuditSync == nil {
		return fmt.Errorf("audit sync service is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "http.Server"})
	return nil
}

// Server routes API requests to the application services.
type Server struct {
	taskAction *taskaction.Service
	taskInfo   *taskinfo.Service
	dashboard  *dashboard.Service
	staff      *staff.Service
	auditSync  *auditsync.Service
	logger     log.Logger
	devMode    bool
	now        func() time.Time
}

// NewServer creates a new API server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Server{
		taskAction: cfg.TaskAction,
		taskInfo:   cfg.TaskInfo,
		dashboard:  cfg.Dashboard,
		staff:      cfg.Staff,
		auditSync:  cfg.AuditSync,
		logger:     cfg.Logger,
		devMode:    cfg.DevMode,
		now:        cfg.Now,
	}, nil
}

// Handler builds the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.serverTimestamp)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)

		r.Route("/tasks", func(r chi.Router) {
			r.Post("/action", s.handleTaskAction)
			r.Get("/{id}", s.handleGetTask)
			r.Put("/{id}/checklist", s.handleUpdateChecklist)
			r.Get("/{id}/history", s.handleTaskHistory)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", s.handleListStaff)
			r.Post("/", s.handleCreateStaff)
			r.Post("/checkin", s.handleStaffCheckIn)
			r.Get("/{id}", s.handleGetStaff)
			r.Put("/{id}", s.handleUpdateStaff)
			r.Delete("/{id}", s.handleDeleteStaff)
		})

		r.Post("/issues/report", s.handleReportIssue)
		r.Post("/audit-logs/sync", s.handleAuditSync)
	})

	return r
}

// serverTimestamp stamps every response with the server time, the frontend
// uses it to detect clock drift.
func (s *Server) serverTimestamp(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Server-Timestamp", s.now().Format(time.RFC3339))
		next.ServeHTTP(w, r)
	})
}

// noStore disables client and proxy caching for volatile listings.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
}
