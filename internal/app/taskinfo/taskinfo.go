package taskinfo

import (
	"context"
	"fmt"
	"time"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// ServiceConfig is the configuration for the task info service.
type ServiceConfig struct {
	Tasks  storage.TasksRepository
	Audit  storage.AuditRepository
	Logger log.Logger
	Now    func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Tasks == nil {
		return fmt.Errorf("tasks repository is required")
	}
	if c.Audit == nil {
		return fmt.Errorf("audit repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.TaskInfo"})
	return nil
}

// Service reads tasks and their history and updates task checklists.
type Service struct {
	tasks  storage.TasksRepository
	audit  storage.AuditRepository
	logger log.Logger
	now    func() time.Time
}

// NewService creates a new task info service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tasks:  cfg.Tasks,
		audit:  cfg.Audit,
		logger: cfg.Logger,
		now:    cfg.Now,
	}, nil
}

// Get retrieves a single task.
func (s *Service) Get(ctx context.Context, id string) (*model.FulfillmentTask, error) {
	if id == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	return task, nil
}

// History returns the audit entries of a task, newest first. The task must
// exist.
func (s *Service) History(ctx context.Context, id string) ([]model.AuditEntry, error) {
	if id == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	if _, err := s.tasks.GetTask(ctx, id); err != nil {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	entries, err := s.audit.ListAuditEntriesByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not list audit entries: %w", err)
	}

	return entries, nil
}

// UpdateChecklist replaces a task's checklist. The checklist is opaque to the
// server beyond being a JSON array. The update is recorded in the audit log,
// a failed audit write is logged and does not block the update.
func (s *Service) UpdateChecklist(ctx context.Context, id, checklistJSON string) (*model.FulfillmentTask, error) {
	if id == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	if err := model.ValidateChecklistJSON(checklistJSON); err != nil {
		return nil, err
	}

	if _, err := s.audit.CreateAuditEntry(ctx, model.AuditEntry{
		Timestamp: s.now(),
		TaskID:    id,
		Action:    model.AuditActionChecklistUpdated,
	}); err != nil {
		s.logger.Warningf("Could not write audit entry for checklist update on task %s: %s", id, err)
	}

	task, err := s.tasks.UpdateTask(ctx, id, storage.TaskUpdate{ChecklistJSON: &checklistJSON})
	if err != nil {
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	s.logger.Infof("Updated checklist for task %s", id)

	return task, nil
}
