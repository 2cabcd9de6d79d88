package storage

import (
	"context"
	"time"

	"github.com/packflow/packflow/internal/model"
)

// TaskUpdate is a partial update applied to a task record. Nil fields are
// left untouched by the store.
type TaskUpdate struct {
	Status *model.TaskStatus
	// OperatorStaffID sets the current operator by staff code, the empty
	// string clears it.
	OperatorStaffID   *string
	IsPaused          *bool
	ChecklistJSON     *string
	InExceptionPool   *bool
	ExceptionReason   *string
	ExceptionNotes    *string
	ExceptionLoggedAt *time.Time
}

// TasksRepository is the interface for task persistence. Tasks are created
// externally in the store and never deleted by this system.
type TasksRepository interface {
	GetTask(ctx context.Context, id string) (*model.FulfillmentTask, error)
	ListTasks(ctx context.Context) ([]model.FulfillmentTask, error)
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) (*model.FulfillmentTask, error)
}

// StaffRepository is the interface for staff persistence. All lookups use
// the human-assigned staff code, never the store's record identifier.
type StaffRepository interface {
	ListStaff(ctx context.Context) ([]model.StaffMember, error)
	GetStaffByStaffID(ctx context.Context, staffID string) (*model.StaffMember, error)
	CreateStaff(ctx context.Context, s model.StaffMember) (*model.StaffMember, error)
	UpdateStaff(ctx context.Context, staffID, name string) (*model.StaffMember, error)
	DeleteStaff(ctx context.Context, staffID string) error
}

// AuditRepository is the interface for the append-only audit log.
type AuditRepository interface {
	CreateAuditEntry(ctx context.Context, e model.AuditEntry) (*model.AuditEntry, error)
	ListAuditEntriesByTask(ctx context.Context, taskID string) ([]model.AuditEntry, error)
}
