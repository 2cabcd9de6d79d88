package airtable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

func testMapper(now time.Time) mapper {
	return mapper{logger: log.Noop, now: func() time.Time { return now }}
}

func TestTaskFromFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		id          string
		fields      map[string]any
		expTask     func(t *testing.T, task model.FulfillmentTask)
		expOperator string
	}{
		"A complete row maps every field": {
			id: "rec001",
			fields: map[string]any{
				"order_name":       "#1042",
				"status":           "Picking",
				"shipping_name":    "Jamie Doe",
				"address1":         "1 Warehouse Way",
				"city":             "Rotterdam",
				"zip":              "3011",
				"country":          "NL",
				"created_at":       "2025-05-30T08:15:00Z",
				"checklist_json":   `[{"sku":"A-1","qty":2}]`,
				"current_operator": "ST-0007",
				"is_paused":        true,
			},
			expTask: func(t *testing.T, task model.FulfillmentTask) {
				assert.Equal(t, "#1042", task.OrderName)
				assert.Equal(t, model.TaskStatusPicking, task.Status)
				assert.Equal(t, "Jamie Doe", task.Shipping.Name)
				assert.Equal(t, "Rotterdam", task.Shipping.City)
				assert.Equal(t, time.Date(2025, 5, 30, 8, 15, 0, 0, time.UTC), task.CreatedAt)
				assert.True(t, task.IsPaused)
			},
			expOperator: "ST-0007",
		},

		"Missing fields default instead of failing": {
			id:     "rec002",
			fields: map[string]any{"created_at": "2025-05-30T08:15:00Z"},
			expTask: func(t *testing.T, task model.FulfillmentTask) {
				assert.Equal(t, "", task.OrderName)
				assert.Equal(t, model.TaskStatusPending, task.Status)
				assert.False(t, task.IsPaused)
				assert.False(t, task.InExceptionPool)
				assert.Nil(t, task.ExceptionLoggedAt)
			},
		},

		"An unparsable creation timestamp falls back to the current time": {
			id: "rec003",
			fields: map[string]any{
				"status":     "Packed",
				"created_at": "yesterday-ish",
			},
			expTask: func(t *testing.T, task model.FulfillmentTask) {
				assert.Equal(t, now, task.CreatedAt)
			},
		},

		"A missing creation timestamp falls back to the current time": {
			id:     "rec004",
			fields: map[string]any{"status": "Packed"},
			expTask: func(t *testing.T, task model.FulfillmentTask) {
				assert.Equal(t, now, task.CreatedAt)
			},
		},

		"An operator stored as a single-element reference list is accepted": {
			id: "rec005",
			fields: map[string]any{
				"status":           "Inspecting",
				"created_at":       "2025-05-30T08:15:00Z",
				"current_operator": []any{"ST-0009"},
			},
			expOperator: "ST-0009",
		},

		"Exception pool fields map together": {
			id: "rec006",
			fields: map[string]any{
				"status":              "Pending",
				"created_at":          "2025-05-30T08:15:00Z",
				"in_exception_pool":   true,
				"exception_reason":    "damaged_item",
				"exception_notes":     "crushed box",
				"exception_logged_at": "2025-05-31T10:00:00Z",
			},
			expTask: func(t *testing.T, task model.FulfillmentTask) {
				assert.True(t, task.InExceptionPool)
				assert.Equal(t, "damaged_item", task.ExceptionReason)
				assert.Equal(t, "crushed box", task.ExceptionNotes)
				require.NotNil(t, task.ExceptionLoggedAt)
				assert.Equal(t, time.Date(2025, 5, 31, 10, 0, 0, 0, time.UTC), *task.ExceptionLoggedAt)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := testMapper(now)
			task, operator := m.taskFromFields(tt.id, tt.fields)

			assert.Equal(t, tt.id, task.ID)
			assert.Equal(t, tt.expOperator, operator)
			if tt.expTask != nil {
				tt.expTask(t, task)
			}
		})
	}
}

func TestUpdateToFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	packed := model.TaskStatusPacked
	noOperator := ""
	paused := true

	tests := map[string]struct {
		upd       storage.TaskUpdate
		expFields map[string]any
	}{
		"Only changed cells are written, untouched columns survive the update": {
			upd: storage.TaskUpdate{Status: &packed, OperatorStaffID: &noOperator},
			expFields: map[string]any{
				"status":           "Packed",
				"current_operator": "",
				"last_modified":    "2025-06-01T12:00:00Z",
			},
		},

		"The pause overlay writes without touching the status": {
			upd: storage.TaskUpdate{IsPaused: &paused},
			expFields: map[string]any{
				"is_paused":     true,
				"last_modified": "2025-06-01T12:00:00Z",
			},
		},

		"An empty update still bumps last modified": {
			upd: storage.TaskUpdate{},
			expFields: map[string]any{
				"last_modified": "2025-06-01T12:00:00Z",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := testMapper(now)
			assert.Equal(t, tt.expFields, m.updateToFields(tt.upd))
		})
	}
}

func TestAuditFieldsRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := testMapper(now)

	entry := model.AuditEntry{
		Timestamp: now,
		TaskID:    "rec001",
		Action:    model.AuditActionTaskStarted,
		StaffID:   "ST-0007",
		OldValue:  "Pending",
		NewValue:  "Picking",
		Details:   "START_PICKING by Jamie",
	}

	got := m.auditFromFields("recA1", m.auditToFields(entry))

	entry.ID = "recA1"
	assert.Equal(t, entry, got)
}

func TestReferenceField(t *testing.T) {
	tests := map[string]struct {
		value any
		exp   string
	}{
		"Plain string value":          {value: "ST-1", exp: "ST-1"},
		"Single-element list":         {value: []any{"ST-2"}, exp: "ST-2"},
		"Typed string list":           {value: []string{"ST-3"}, exp: "ST-3"},
		"Empty list yields no value":  {value: []any{}, exp: ""},
		"Missing cell yields nothing": {value: nil, exp: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			fields := map[string]any{}
			if tt.value != nil {
				fields["current_operator"] = tt.value
			}
			assert.Equal(t, tt.exp, referenceField(fields, "current_operator"))
		})
	}
}
