package airtable

import (
	"strconv"
	"time"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// timeFormats are tried in order when parsing store timestamps. Airtable
// normally returns RFC 3339 but manually edited cells show up in looser
// shapes.
var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// mapper translates between raw store rows and domain objects. Reads never
// fail on malformed data: missing strings become empty, missing booleans
// become false and unparsable dates fall back to the current time with a
// warning.
type mapper struct {
	logger log.Logger
	now    func() time.Time
}

func newMapper(logger log.Logger) mapper {
	return mapper{logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// taskFromFields maps a raw row into a task. The returned operator code is
// the raw current_operator cell value, resolution to a staff member happens
// at the repository level.
func (m mapper) taskFromFields(id string, fields map[string]any) (task model.FulfillmentTask, operatorCode string) {
	task = model.FulfillmentTask{
		ID:            id,
		OrderName:     stringField(fields, fieldOrderName),
		Status:        model.TaskStatus(stringField(fields, fieldStatus)),
		ChecklistJSON: stringField(fields, fieldChecklistJSON),
		Shipping: model.ShippingAddress{
			Name:     stringField(fields, fieldShippingName),
			Address1: stringField(fields, fieldAddress1),
			Address2: stringField(fields, fieldAddress2),
			City:     stringField(fields, fieldCity),
			Province: stringField(fields, fieldProvince),
			Zip:      stringField(fields, fieldZip),
			Country:  stringField(fields, fieldCountry),
			Phone:    stringField(fields, fieldPhone),
		},
		IsPaused:        boolField(fields, fieldIsPaused),
		InExceptionPool: boolField(fields, fieldInExceptionPool),
		ExceptionReason: stringField(fields, fieldExceptionReason),
		ExceptionNotes:  stringField(fields, fieldExceptionNotes),
	}

	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}

	task.CreatedAt = m.timeField(fields, fieldCreatedAt, id)
	if raw := stringField(fields, fieldExceptionLoggedAt); raw != "" {
		t := m.timeField(fields, fieldExceptionLoggedAt, id)
		task.ExceptionLoggedAt = &t
	}
	if raw := stringField(fields, fieldLastModified); raw != "" {
		task.LastModified = m.timeField(fields, fieldLastModified, id)
	}

	return task, referenceField(fields, fieldCurrentOperator)
}

func (m mapper) staffFromFields(recordID string, fields map[string]any) model.StaffMember {
	return model.StaffMember{
		RecordID: recordID,
		StaffID:  stringField(fields, fieldStaffID),
		Name:     stringField(fields, fieldStaffName),
	}
}

func (m mapper) auditFromFields(id string, fields map[string]any) model.AuditEntry {
	return model.AuditEntry{
		ID:        id,
		Timestamp: m.timeField(fields, fieldAuditTimestamp, id),
		TaskID:    referenceField(fields, fieldAuditTaskID),
		Action:    model.NormalizeAuditAction(stringField(fields, fieldAuditAction)),
		StaffID:   referenceField(fields, fieldAuditStaffID),
		OldValue:  stringField(fields, fieldAuditOldValue),
		NewValue:  stringField(fields, fieldAuditNewValue),
		Details:   stringField(fields, fieldAuditDetails),
	}
}

func (m mapper) auditToFields(e model.AuditEntry) map[string]any {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = m.now()
	}

	fields := map[string]any{
		fieldAuditTimestamp: ts.Format(time.RFC3339),
		fieldAuditTaskID:    e.TaskID,
		fieldAuditAction:    string(e.Action),
	}
	if e.StaffID != "" {
		fields[fieldAuditStaffID] = e.StaffID
	}
	if e.OldValue != "" {
		fields[fieldAuditOldValue] = e.OldValue
	}
	if e.NewValue != "" {
		fields[fieldAuditNewValue] = e.NewValue
	}
	if e.Details != "" {
		fields[fieldAuditDetails] = e.Details
	}

	return fields
}

// updateToFields converts a partial task update into the store cells to
// write. Nil update fields produce no cell at all, so untouched columns are
// preserved by the store.
func (m mapper) updateToFields(upd storage.TaskUpdate) map[string]any {
	fields := map[string]any{}

	if upd.Status != nil {
		fields[fieldStatus] = string(*upd.Status)
	}
	if upd.OperatorStaffID != nil {
		fields[fieldCurrentOperator] = *upd.OperatorStaffID
	}
	if upd.IsPaused != nil {
		fields[fieldIsPaused] = *upd.IsPaused
	}
	if upd.ChecklistJSON != nil {
		fields[fieldChecklistJSON] = *upd.ChecklistJSON
	}
	if upd.InExceptionPool != nil {
		fields[fieldInExceptionPool] = *upd.InExceptionPool
	}
	if upd.ExceptionReason != nil {
		fields[fieldExceptionReason] = *upd.ExceptionReason
	}
	if upd.ExceptionNotes != nil {
		fields[fieldExceptionNotes] = *upd.ExceptionNotes
	}
	if upd.ExceptionLoggedAt != nil {
		fields[fieldExceptionLoggedAt] = upd.ExceptionLoggedAt.Format(time.RFC3339)
	}
	fields[fieldLastModified] = m.now().Format(time.RFC3339)

	return fields
}

func (m mapper) timeField(fields map[string]any, name, recordID string) time.Time {
	raw := stringField(fields, name)
	for _, format := range timeFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t.UTC()
		}
	}

	now := m.now()
	m.logger.Warningf("Record %s has unparsable %s %q, falling back to current time", recordID, name, raw)
	return now
}

func stringField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func boolField(fields map[string]any, name string) bool {
	v, _ := fields[name].(bool)
	return v
}

// referenceField reads a cell that holds either a plain value or a
// single-element reference list, both forms are produced by the store
// depending on the column type.
func referenceField(fields map[string]any, name string) string {
	switch v := fields[name].(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
