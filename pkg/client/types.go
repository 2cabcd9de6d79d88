package client

import "time"

// ShippingAddress is a task's destination address.
type ShippingAddress struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

// StaffMember is a warehouse staff member.
type StaffMember struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
}

// Task is a fulfillment task.
type Task struct {
	ID                string          `json:"id"`
	OrderName         string          `json:"order_name"`
	Status            string          `json:"status"`
	Shipping          ShippingAddress `json:"shipping_address"`
	CreatedAt         time.Time       `json:"created_at"`
	ChecklistJSON     string          `json:"checklist_json"`
	CurrentOperator   *StaffMember    `json:"current_operator,omitempty"`
	IsPaused          bool            `json:"is_paused"`
	InExceptionPool   bool            `json:"in_exception_pool"`
	ExceptionReason   string          `json:"exception_reason,omitempty"`
	ExceptionNotes    string          `json:"exception_notes,omitempty"`
	ExceptionLoggedAt *time.Time      `json:"exception_logged_at,omitempty"`
	LastModified      time.Time       `json:"last_modified"`
}

// AuditEntry is one audit log record of a task.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action_type"`
	StaffID   string    `json:"staff_id,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Bucket is one dashboard group.
type Bucket struct {
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// Dashboard is the grouped view of all tasks.
type Dashboard struct {
	Pending    Bucket `json:"pending"`
	Picking    Bucket `json:"picking"`
	Packed     Bucket `json:"packed"`
	Inspecting Bucket `json:"inspecting"`
	Completed  Bucket `json:"completed"`
	Paused     Bucket `json:"paused"`
	Cancelled  Bucket `json:"cancelled"`
}

// ActionPayload carries the optional per-action request data.
type ActionPayload struct {
	Weight     string `json:"weight,omitempty"`
	Dimensions string `json:"dimensions,omitempty"`
	ErrorType  string `json:"error_type,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// ActionRequest applies a lifecycle action to a task.
type ActionRequest struct {
	TaskID     string        `json:"task_id"`
	Action     string        `json:"action"`
	OperatorID string        `json:"operator_id,omitempty"`
	Payload    ActionPayload `json:"payload"`
}

// ActionResult is the outcome of a lifecycle action. AuditStatus reports
// whether the audit entry made it to the store ("recorded" or "failed").
type ActionResult struct {
	Task        Task   `json:"task"`
	AuditStatus string `json:"audit_status"`
}

// CheckEvent is the acknowledgement of a staff check in/out.
type CheckEvent struct {
	StaffID   string    `json:"staff_id"`
	Name      string    `json:"name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// IssueReport flags a task with a problem.
type IssueReport struct {
	TaskID      string `json:"task_id"`
	OperatorID  string `json:"operator_id,omitempty"`
	IssueType   string `json:"issue_type"`
	Description string `json:"description,omitempty"`
}

// AuditLog is one client-buffered audit entry for bulk sync.
type AuditLog struct {
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action_type"`
	StaffID   string    `json:"staff_id,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// SyncEntryResult is the per-entry outcome of a bulk sync.
type SyncEntryResult struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// SyncResult summarizes a bulk audit sync.
type SyncResult struct {
	Synced  int               `json:"synced"`
	Failed  int               `json:"failed"`
	Results []SyncEntryResult `json:"results"`
}
