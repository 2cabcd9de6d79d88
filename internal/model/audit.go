package model

import (
	"fmt"
	"time"
)

// AuditAction is the closed vocabulary of audit log labels. High level task
// actions are mapped into it, unrecognized actions map to AuditActionOther.
type AuditAction string

const (
	AuditActionTaskStarted       AuditAction = "Task_Started"
	AuditActionStatusChanged     AuditAction = "Status_Changed"
	AuditActionTaskCompleted     AuditAction = "Task_Completed"
	AuditActionTaskPaused        AuditAction = "Task_Paused"
	AuditActionTaskResumed       AuditAction = "Task_Resumed"
	AuditActionTaskCancelled     AuditAction = "Task_Cancelled"
	AuditActionExceptionReported AuditAction = "Exception_Reported"
	AuditActionChecklistUpdated  AuditAction = "Checklist_Updated"
	AuditActionOther             AuditAction = "Other"
)

// AuditEntry is an append-only record of an action taken on a task. Entries
// are never mutated or deleted by this system.
type AuditEntry struct {
	ID        string
	Timestamp time.Time
	TaskID    string
	Action    AuditAction
	// StaffID is the optional staff reference (domain code, not record ID).
	StaffID  string
	OldValue string
	NewValue string
	// Details is free text for history display. When the staff reference
	// cannot be established it carries the raw operator value as a fallback.
	Details string
}

// Validate validates the audit entry.
func (e *AuditEntry) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("task reference is required: %w", ErrNotValid)
	}
	if e.Action == "" {
		return fmt.Errorf("action type is required: %w", ErrNotValid)
	}
	return nil
}

// NormalizeAuditAction maps a raw action label into the closed audit
// vocabulary, falling back to AuditActionOther. Client buffered entries may
// use either the audit labels or the task action names directly.
func NormalizeAuditAction(raw string) AuditAction {
	switch a := AuditAction(raw); a {
	case AuditActionTaskStarted, AuditActionStatusChanged, AuditActionTaskCompleted,
		AuditActionTaskPaused, AuditActionTaskResumed, AuditActionTaskCancelled,
		AuditActionExceptionReported, AuditActionChecklistUpdated:
		return a
	}

	return AuditActionFor(TaskAction(raw))
}
