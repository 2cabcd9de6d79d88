package taskaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// ServiceConfig is the configuration for the task action service.
type ServiceConfig struct {
	Tasks  storage.TasksRepository
	Staff  storage.StaffRepository
	Audit  storage.AuditRepository
	Logger log.Logger
	Now    func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Tasks == nil {
		return fmt.Errorf("tasks repository is required")
	}
	if c.Staff == nil {
		return fmt.Errorf("staff repository is required")
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.TaskAction"})
	return nil
}

// Service applies lifecycle actions to fulfillment tasks. Every applied
// action writes an audit entry before mutating the task.
type Service struct {
	tasks  storage.TasksRepository
	staff  storage.StaffRepository
	audit  storage.AuditRepository
	logger log.Logger
	now    func() time.Time
}

// NewService creates a new task action service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		tasks:  cfg.Tasks,
		staff:  cfg.Staff,
		audit:  cfg.Audit,
		logger: cfg.Logger,
		now:    cfg.Now,
	}, nil
}

// ApplyOptions are the options for applying a lifecycle action.
type ApplyOptions struct {
	TaskID     string
	Action     model.TaskAction
	OperatorID string
	Payload    model.ActionPayload
}

// AuditOutcome is the result of the audit write phase of an action.
type AuditOutcome string

const (
	// AuditRecorded means the audit entry was written before the task update.
	AuditRecorded AuditOutcome = "recorded"
	// AuditFailed means the audit write failed and the task update went ahead
	// anyway.
	AuditFailed AuditOutcome = "failed"
)

// ApplyResult is the outcome of applying an action. The two write phases are
// reported separately: a failed task update returns an error from Apply, a
// failed audit write is reported here while the action still succeeds.
type ApplyResult struct {
	Task  *model.FulfillmentTask
	Audit AuditOutcome
}

// Apply validates that the action is legal for the task's current status,
// writes the audit entry and then updates the task.
func (s *Service) Apply(ctx context.Context, opts ApplyOptions) (*ApplyResult, error) {
	if opts.TaskID == "" {
		return nil, fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	task, err := s.tasks.GetTask(ctx, opts.TaskID)
	if err != nil {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	tr, err := model.ResolveTransition(*task, opts.Action, opts.Payload, s.now())
	if err != nil {
		return nil, err
	}

	if tr.RequiresOperator && opts.OperatorID == "" {
		return nil, fmt.Errorf("action %s requires an operator: %w", opts.Action, model.ErrNotValid)
	}

	entry := s.buildAuditEntry(ctx, *tr, opts)

	// Audit first. A failed audit write is logged and reported in the result
	// but never blocks the action.
	outcome := AuditRecorded
	if _, err := s.audit.CreateAuditEntry(ctx, entry); err != nil {
		outcome = AuditFailed
		s.logger.Warningf("Could not write audit entry for task %s action %s: %s", opts.TaskID, opts.Action, err)
	}

	updated, err := s.tasks.UpdateTask(ctx, opts.TaskID, transitionUpdate(*tr, opts.OperatorID))
	if err != nil {
		return nil, fmt.Errorf("could not update task after audit write: %w", err)
	}

	s.logger.Infof("Applied action %s to task %s: %s -> %s", opts.Action, opts.TaskID, tr.From, tr.To)

	return &ApplyResult{Task: updated, Audit: outcome}, nil
}

// buildAuditEntry assembles the audit entry for a transition. Operator
// resolution is best effort, an unresolved operator is carried in the free
// text details instead of the staff reference.
func (s *Service) buildAuditEntry(ctx context.Context, tr model.Transition, opts ApplyOptions) model.AuditEntry {
	entry := model.AuditEntry{
		Timestamp: s.now(),
		TaskID:    opts.TaskID,
		Action:    tr.AuditAction,
		OldValue:  string(tr.From),
		NewValue:  string(tr.To),
	}

	var details []string
	if opts.OperatorID != "" {
		member, err := s.staff.GetStaffByStaffID(ctx, opts.OperatorID)
		if err != nil {
			s.logger.Warningf("Could not resolve operator %s: %s", opts.OperatorID, err)
			details = append(details, fmt.Sprintf("operator: %s", opts.OperatorID))
		} else {
			entry.StaffID = member.StaffID
		}
	}
	if opts.Payload.Weight != "" || opts.Payload.Dimensions != "" {
		details = append(details, fmt.Sprintf("weight: %s, dimensions: %s", opts.Payload.Weight, opts.Payload.Dimensions))
	}
	if opts.Payload.ErrorType != "" {
		details = append(details, fmt.Sprintf("error type: %s", opts.Payload.ErrorType))
	}
	if opts.Payload.Reason != "" {
		details = append(details, fmt.Sprintf("reason: %s", opts.Payload.Reason))
	}
	if opts.Payload.Notes != "" {
		details = append(details, opts.Payload.Notes)
	}
	entry.Details = strings.Join(details, "; ")

	return entry
}

// ReportIssueOptions are the options for flagging a task with an issue.
type ReportIssueOptions struct {
	TaskID      string
	OperatorID  string
	IssueType   string
	Description string
}

// ReportIssue moves a task to the exception pool. It is the issue reporting
// surface over the REPORT_EXCEPTION action.
func (s *Service) ReportIssue(ctx context.Context, opts ReportIssueOptions) (*ApplyResult, error) {
	return s.Apply(ctx, ApplyOptions{
		TaskID:     opts.TaskID,
		Action:     model.ActionReportException,
		OperatorID: opts.OperatorID,
		Payload: model.ActionPayload{
			Reason: opts.IssueType,
			Notes:  opts.Description,
		},
	})
}

func transitionUpdate(tr model.Transition, operatorID string) storage.TaskUpdate {
	status := tr.To
	upd := storage.TaskUpdate{Status: &status}

	operator := ""
	if tr.Operator == model.OperatorSet {
		operator = operatorID
	}
	upd.OperatorStaffID = &operator

	if tr.SetPaused != nil {
		paused := *tr.SetPaused
		upd.IsPaused = &paused
	}

	if tr.Exception != nil {
		inPool := true
		loggedAt := tr.Exception.LoggedAt
		upd.InExceptionPool = &inPool
		upd.ExceptionReason = &tr.Exception.Reason
		upd.ExceptionNotes = &tr.Exception.Notes
		upd.ExceptionLoggedAt = &loggedAt
	}

	return upd
}
