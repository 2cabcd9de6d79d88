package airtable

import "fmt"

// Default table names in the Airtable base.
const (
	DefaultTasksTable = "Tasks"
	DefaultStaffTable = "Staff"
	DefaultAuditTable = "Audit_Log"
)

// Task column names.
const (
	fieldOrderName         = "order_name"
	fieldStatus            = "status"
	fieldShippingName      = "shipping_name"
	fieldAddress1          = "address1"
	fieldAddress2          = "address2"
	fieldCity              = "city"
	fieldProvince          = "province"
	fieldZip               = "zip"
	fieldCountry           = "country"
	fieldPhone             = "phone"
	fieldCreatedAt         = "created_at"
	fieldChecklistJSON     = "checklist_json"
	fieldCurrentOperator   = "current_operator"
	fieldIsPaused          = "is_paused"
	fieldInExceptionPool   = "in_exception_pool"
	fieldExceptionReason   = "exception_reason"
	fieldExceptionNotes    = "exception_notes"
	fieldExceptionLoggedAt = "exception_logged_at"
	fieldLastModified      = "last_modified"
)

// Staff column names.
const (
	fieldStaffID   = "staff_id"
	fieldStaffName = "name"
)

// Audit log column names.
const (
	fieldAuditTimestamp = "timestamp"
	fieldAuditTaskID    = "task_id"
	fieldAuditAction    = "action_type"
	fieldAuditStaffID   = "staff_id"
	fieldAuditOldValue  = "old_value"
	fieldAuditNewValue  = "new_value"
	fieldAuditDetails   = "details"
)

// Schema describes which tables of the Airtable base back each repository.
// Column names are fixed, table names can be overridden per deployment.
type Schema struct {
	TasksTable string
	StaffTable string
	AuditTable string
}

func (s *Schema) defaults() error {
	if s.TasksTable == "" {
		s.TasksTable = DefaultTasksTable
	}
	if s.StaffTable == "" {
		s.StaffTable = DefaultStaffTable
	}
	if s.AuditTable == "" {
		s.AuditTable = DefaultAuditTable
	}
	return nil
}

// Validate validates the schema.
func (s Schema) Validate() error {
	if s.TasksTable == s.StaffTable || s.TasksTable == s.AuditTable || s.StaffTable == s.AuditTable {
		return fmt.Errorf("table names must be distinct")
	}
	return nil
}
