package airtable

import (
	"context"
	"fmt"
	"sort"

	"github.com/mehanizm/airtable"

	"github.com/packflow/packflow/internal/model"
)

// CreateAuditEntry appends an audit entry. The audit table is append-only,
// entries are never mutated or deleted by this system.
func (r *Repository) CreateAuditEntry(ctx context.Context, e model.AuditEntry) (*model.AuditEntry, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit entry: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created, err := r.auditTable.AddRecords(&airtable.Records{
		Records: []*airtable.Record{
			{Fields: r.mapper.auditToFields(e)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create audit entry: %w", err)
	}
	if len(created.Records) == 0 {
		return nil, fmt.Errorf("store returned no created audit record")
	}

	entry := r.mapper.auditFromFields(created.Records[0].ID, created.Records[0].Fields)
	r.logger.Debugf("Created audit entry in store: %s (%s)", entry.ID, entry.Action)

	return &entry, nil
}

// ListAuditEntriesByTask returns the audit entries for a task, newest first.
func (r *Repository) ListAuditEntriesByTask(ctx context.Context, taskID string) ([]model.AuditEntry, error) {
	records, err := r.listAllRecords(ctx, r.auditTable, listQuery{formula: formulaEq(fieldAuditTaskID, taskID)})
	if err != nil {
		return nil, fmt.Errorf("could not list audit entries: %w", err)
	}

	entries := make([]model.AuditEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, r.mapper.auditFromFields(record.ID, record.Fields))
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })

	return entries, nil
}
