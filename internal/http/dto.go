package http

import (
	"time"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/app/dashboard"
	"github.com/packflow/packflow/internal/app/staff"
	"github.com/packflow/packflow/internal/model"
)

type shippingJSON struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone,omitempty"`
}

type staffJSON struct {
	StaffID string `json:"staff_id"`
	Name    string `json:"name"`
}

type taskJSON struct {
	ID                string       `json:"id"`
	OrderName         string       `json:"order_name"`
	Status            string       `json:"status"`
	Shipping          shippingJSON `json:"shipping_address"`
	CreatedAt         time.Time    `json:"created_at"`
	ChecklistJSON     string       `json:"checklist_json"`
	CurrentOperator   *staffJSON   `json:"current_operator,omitempty"`
	IsPaused          bool         `json:"is_paused"`
	InExceptionPool   bool         `json:"in_exception_pool"`
	ExceptionReason   string       `json:"exception_reason,omitempty"`
	ExceptionNotes    string       `json:"exception_notes,omitempty"`
	ExceptionLoggedAt *time.Time   `json:"exception_logged_at,omitempty"`
	LastModified      time.Time    `json:"last_modified"`
}

type auditEntryJSON struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	TaskID    string    `json:"task_id"`
	Action    string    `json:"action_type"`
	StaffID   string    `json:"staff_id,omitempty"`
	OldValue  string    `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value,omitempty"`
	Details   string    `json:"details,omitempty"`
}

type bucketJSON struct {
	Count int        `json:"count"`
	Tasks []taskJSON `json:"tasks"`
}

type dashboardJSON struct {
	Pending    bucketJSON `json:"pending"`
	Picking    bucketJSON `json:"picking"`
	Packed     bucketJSON `json:"packed"`
	Inspecting bucketJSON `json:"inspecting"`
	Completed  bucketJSON `json:"completed"`
	Paused     bucketJSON `json:"paused"`
	Cancelled  bucketJSON `json:"cancelled"`
}

type actionResultJSON struct {
	Task        taskJSON `json:"task"`
	AuditStatus string   `json:"audit_status"`
}

type checkEventJSON struct {
	StaffID   string    `json:"staff_id"`
	Name      string    `json:"name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type syncEntryResultJSON struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

type syncResultJSON struct {
	Synced  int                   `json:"synced"`
	Failed  int                   `json:"failed"`
	Results []syncEntryResultJSON `json:"results"`
}

func mapTask(t model.FulfillmentTask) taskJSON {
	out := taskJSON{
		ID:        t.ID,
		OrderName: t.OrderName,
		Status:    string(t.Status),
		Shipping: shippingJSON{
			Name:     t.Shipping.Name,
			Address1: t.Shipping.Address1,
			Address2: t.Shipping.Address2,
			City:     t.Shipping.City,
			Province: t.Shipping.Province,
			Zip:      t.Shipping.Zip,
			Country:  t.Shipping.Country,
			Phone:    t.Shipping.Phone,
		},
		CreatedAt:         t.CreatedAt,
		ChecklistJSON:     t.ChecklistJSON,
		IsPaused:          t.IsPaused,
		InExceptionPool:   t.InExceptionPool,
		ExceptionReason:   t.ExceptionReason,
		ExceptionNotes:    t.ExceptionNotes,
		ExceptionLoggedAt: t.ExceptionLoggedAt,
		LastModified:      t.LastModified,
	}
	if t.CurrentOperator != nil {
		out.CurrentOperator = &staffJSON{StaffID: t.CurrentOperator.StaffID, Name: t.CurrentOperator.Name}
	}
	return out
}

func mapTasks(tasks []model.FulfillmentTask) []taskJSON {
	out := make([]taskJSON, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, mapTask(t))
	}
	return out
}

func mapStaff(m model.StaffMember) staffJSON {
	return staffJSON{StaffID: m.StaffID, Name: m.Name}
}

func mapAuditEntry(e model.AuditEntry) auditEntryJSON {
	return auditEntryJSON{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		TaskID:    e.TaskID,
		Action:    string(e.Action),
		StaffID:   e.StaffID,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		Details:   e.Details,
	}
}

func mapBucket(b dashboard.Bucket) bucketJSON {
	return bucketJSON{Count: b.Count, Tasks: mapTasks(b.Tasks)}
}

func mapDashboard(d dashboard.Dashboard) dashboardJSON {
	return dashboardJSON{
		Pending:    mapBucket(d.Pending),
		Picking:    mapBucket(d.Picking),
		Packed:     mapBucket(d.Packed),
		Inspecting: mapBucket(d.Inspecting),
		Completed:  mapBucket(d.Completed),
		Paused:     mapBucket(d.Paused),
		Cancelled:  mapBucket(d.Cancelled),
	}
}

func mapCheckEvent(e staff.CheckEvent) checkEventJSON {
	return checkEventJSON{StaffID: e.StaffID, Name: e.Name, Action: e.Action, Timestamp: e.Timestamp}
}

func mapSyncResult(r auditsync.SyncResult) syncResultJSON {
	out := syncResultJSON{Synced: r.Synced, Failed: r.Failed, Results: make([]syncEntryResultJSON, 0, len(r.Results))}
	for _, er := range r.Results {
		item := syncEntryResultJSON{Index: er.Index, ID: er.ID}
		if er.Err != nil {
			item.Error = er.Err.Error()
		}
		out.Results = append(out.Results, item)
	}
	return out
}
