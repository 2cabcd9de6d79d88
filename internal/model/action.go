package model

import (
	"fmt"
	"time"
)

// TaskAction is a requested operation on a task's lifecycle.
type TaskAction string

const (
	ActionStartPicking       TaskAction = "START_PICKING"
	ActionStartPacking       TaskAction = "START_PACKING"
	ActionStartInspection    TaskAction = "START_INSPECTION"
	ActionCompleteInspection TaskAction = "COMPLETE_INSPECTION"
	ActionEnterCorrection    TaskAction = "ENTER_CORRECTION"
	ActionStartCorrection    TaskAction = "START_CORRECTION"
	ActionResolveCorrection  TaskAction = "RESOLVE_CORRECTION"
	ActionLabelCreated       TaskAction = "LABEL_CREATED"
	ActionPauseTask          TaskAction = "PAUSE_TASK"
	ActionResumeTask         TaskAction = "RESUME_TASK"
	ActionCancelTask         TaskAction = "CANCEL_TASK"
	ActionReportException    TaskAction = "REPORT_EXCEPTION"
)

// ActionPayload carries the optional per-action request data.
type ActionPayload struct {
	Weight     string
	Dimensions string
	ErrorType  string
	Reason     string
	Notes      string
}

// OperatorEffect describes what applying an action does to the task's
// current operator.
type OperatorEffect int

const (
	// OperatorClear leaves the task unowned, open to anyone.
	OperatorClear OperatorEffect = iota
	// OperatorSet assigns the acting operator.
	OperatorSet
)

// ExceptionDetails are the exception pool fields set by REPORT_EXCEPTION.
type ExceptionDetails struct {
	Reason   string
	Notes    string
	LoggedAt time.Time
}

// Transition is the computed effect of applying an action to a task.
type Transition struct {
	Action           TaskAction
	From             TaskStatus
	To               TaskStatus
	Operator         OperatorEffect
	RequiresOperator bool
	// SetPaused changes the pause overlay when non-nil.
	SetPaused *bool
	// Exception is set for actions that move the task to the exception pool.
	Exception   *ExceptionDetails
	AuditAction AuditAction
}

// fromScope bounds which current statuses may take an action.
type fromScope int

const (
	fromListed fromScope = iota
	// fromActive allows any non-terminal status.
	fromActive
	// fromNotCancelled allows any status but Cancelled.
	fromNotCancelled
	// fromAny allows any status.
	fromAny
)

type actionSpec struct {
	scope fromScope
	from  []TaskStatus
	// to keeps the current status when empty.
	to               TaskStatus
	operator         OperatorEffect
	requiresOperator bool
	paused           *bool
	exception        bool
	audit            AuditAction
	needs            func(p ActionPayload) error
}

var (
	pausedOn  = true
	pausedOff = false
)

var actionSpecs = map[TaskAction]actionSpec{
	ActionStartPicking: {
		from:     []TaskStatus{TaskStatusPending, TaskStatusPicking},
		to:       TaskStatusPicking,
		operator: OperatorSet,
		audit:    AuditActionTaskStarted,
	},
	ActionStartPacking: {
		from:     []TaskStatus{TaskStatusPicking},
		to:       TaskStatusPacked,
		operator: OperatorClear,
		audit:    AuditActionStatusChanged,
		needs: func(p ActionPayload) error {
			if p.Weight == "" || p.Dimensions == "" {
				return fmt.Errorf("weight and dimensions are required: %w", ErrNotValid)
			}
			return nil
		},
	},
	ActionStartInspection: {
		from:     []TaskStatus{TaskStatusPacked, TaskStatusInspecting},
		to:       TaskStatusInspecting,
		operator: OperatorSet,
		audit:    AuditActionTaskStarted,
	},
	ActionCompleteInspection: {
		from:     []TaskStatus{TaskStatusInspecting},
		to:       TaskStatusCompleted,
		operator: OperatorClear,
		audit:    AuditActionTaskCompleted,
	},
	ActionEnterCorrection: {
		from:     []TaskStatus{TaskStatusInspecting},
		to:       TaskStatusCorrectionNeeded,
		operator: OperatorSet,
		audit:    AuditActionStatusChanged,
		needs: func(p ActionPayload) error {
			if p.ErrorType == "" {
				return fmt.Errorf("error type is required: %w", ErrNotValid)
			}
			return nil
		},
	},
	ActionStartCorrection: {
		from:     []TaskStatus{TaskStatusCorrectionNeeded},
		to:       TaskStatusCorrecting,
		operator: OperatorSet,
		audit:    AuditActionStatusChanged,
	},
	ActionResolveCorrection: {
		from:     []TaskStatus{TaskStatusCorrecting},
		to:       TaskStatusCompleted,
		operator: OperatorClear,
		audit:    AuditActionTaskCompleted,
	},
	ActionLabelCreated: {
		scope:    fromNotCancelled,
		to:       TaskStatusCompleted,
		operator: OperatorClear,
		audit:    AuditActionTaskCompleted,
	},
	ActionPauseTask: {
		scope:    fromActive,
		operator: OperatorClear,
		paused:   &pausedOn,
		audit:    AuditActionTaskPaused,
	},
	ActionResumeTask: {
		scope:            fromAny,
		operator:         OperatorSet,
		requiresOperator: true,
		paused:           &pausedOff,
		audit:            AuditActionTaskResumed,
	},
	ActionCancelTask: {
		scope:    fromActive,
		to:       TaskStatusCancelled,
		operator: OperatorSet,
		audit:    AuditActionTaskCancelled,
	},
	ActionReportException: {
		scope:     fromAny,
		to:        TaskStatusPending,
		operator:  OperatorClear,
		exception: true,
		audit:     AuditActionExceptionReported,
		needs: func(p ActionPayload) error {
			if p.Reason == "" {
				return fmt.Errorf("a reason is required: %w", ErrNotValid)
			}
			return nil
		},
	},
}

// ResolveTransition validates that action may be applied to the task in its
// current state and computes the resulting transition. now is used for the
// exception pool logged-at timestamp.
func ResolveTransition(t FulfillmentTask, action TaskAction, p ActionPayload, now time.Time) (*Transition, error) {
	spec, ok := actionSpecs[action]
	if !ok {
		return nil, fmt.Errorf("unknown action %q: %w", action, ErrNotValid)
	}

	if spec.needs != nil {
		if err := spec.needs(p); err != nil {
			return nil, fmt.Errorf("action %s: %w", action, err)
		}
	}

	if err := checkActionScope(spec, t.Status, action); err != nil {
		return nil, err
	}

	to := spec.to
	if to == "" {
		to = t.Status
	}

	tr := &Transition{
		Action:           action,
		From:             t.Status,
		To:               to,
		Operator:         spec.operator,
		RequiresOperator: spec.requiresOperator,
		SetPaused:        spec.paused,
		AuditAction:      spec.audit,
	}

	if spec.exception {
		tr.Exception = &ExceptionDetails{
			Reason:   p.Reason,
			Notes:    p.Notes,
			LoggedAt: now,
		}
	}

	return tr, nil
}

func checkActionScope(spec actionSpec, current TaskStatus, action TaskAction) error {
	switch spec.scope {
	case fromAny:
		return nil
	case fromNotCancelled:
		if current == TaskStatusCancelled {
			return fmt.Errorf("action %s not allowed on a cancelled task: %w", action, ErrNotValid)
		}
		return nil
	case fromActive:
		if current.Terminal() {
			return fmt.Errorf("action %s not allowed from status %s: %w", action, current, ErrNotValid)
		}
		return nil
	}

	for _, s := range spec.from {
		if current == s {
			return nil
		}
	}
	return fmt.Errorf("action %s not allowed from status %s: %w", action, current, ErrNotValid)
}

// AuditActionFor maps a task action to its audit label, AuditActionOther for
// unrecognized actions.
func AuditActionFor(action TaskAction) AuditAction {
	if spec, ok := actionSpecs[action]; ok {
		return spec.audit
	}
	return AuditActionOther
}
