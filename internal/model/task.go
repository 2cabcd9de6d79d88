package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TaskStatus represents the status of a fulfillment task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is waiting to be picked up.
	TaskStatusPending TaskStatus = "Pending"
	// TaskStatusPicking indicates an operator is picking the order items.
	TaskStatusPicking TaskStatus = "Picking"
	// TaskStatusPacked indicates the order has been packed and is unowned.
	TaskStatusPacked TaskStatus = "Packed"
	// TaskStatusInspecting indicates an inspector is checking the package.
	TaskStatusInspecting TaskStatus = "Inspecting"
	// TaskStatusCorrectionNeeded indicates inspection found a problem.
	TaskStatusCorrectionNeeded TaskStatus = "Correction_Needed"
	// TaskStatusCorrecting indicates an operator is fixing the problem.
	TaskStatusCorrecting TaskStatus = "Correcting"
	// TaskStatusCompleted indicates the task is done.
	TaskStatusCompleted TaskStatus = "Completed"
	// TaskStatusCancelled indicates the task was cancelled.
	TaskStatusCancelled TaskStatus = "Cancelled"
)

// AllTaskStatuses is the closed set of valid task statuses.
var AllTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusPicking,
	TaskStatusPacked,
	TaskStatusInspecting,
	TaskStatusCorrectionNeeded,
	TaskStatusCorrecting,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// Valid returns whether the status is one of the enumerated values.
func (s TaskStatus) Valid() bool {
	for _, known := range AllTaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal returns whether the status admits no further pipeline work.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// ShippingAddress groups the optional shipping fields of a task.
type ShippingAddress struct {
	Name     string
	Address1 string
	Address2 string
	City     string
	Province string
	Zip      string
	Country  string
	Phone    string
}

// FulfillmentTask represents a unit of order-fulfillment work moving through
// the status pipeline. The pause flag is an overlay on top of the status, a
// paused task keeps its current status.
type FulfillmentTask struct {
	ID              string
	OrderName       string
	Status          TaskStatus
	Shipping        ShippingAddress
	CreatedAt       time.Time
	ChecklistJSON   string
	CurrentOperator *StaffMember
	IsPaused        bool

	// Exception pool fields.
	InExceptionPool   bool
	ExceptionReason   string
	ExceptionNotes    string
	ExceptionLoggedAt *time.Time

	// LastModified is informational only, there is no conflict detection.
	LastModified time.Time
}

// Validate validates the task invariants.
func (t *FulfillmentTask) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", t.Status, ErrNotValid)
	}
	return nil
}

// ValidateChecklistJSON checks that a raw checklist payload is a well formed
// JSON array. The line items themselves are opaque to the server.
func ValidateChecklistJSON(raw string) error {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("checklist must be a JSON array: %w", ErrNotValid)
	}
	return nil
}
