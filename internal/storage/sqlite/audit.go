package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/packflow/packflow/internal/model"
)

// CreateAuditEntry appends an audit entry.
func (r *Repository) CreateAuditEntry(ctx context.Context, e model.AuditEntry) (*model.AuditEntry, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit entry: %w", err)
	}

	if e.ID == "" {
		e.ID = "rec" + ulid.Make().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO audit_log (id, ts, task_id, action_type, staff_id, old_value, new_value, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		e.ID,
		e.Timestamp.Unix(),
		e.TaskID,
		string(e.Action),
		e.StaffID,
		e.OldValue,
		e.NewValue,
		e.Details,
	)
	if err != nil {
		return nil, fmt.Errorf("could not insert audit entry: %w", err)
	}

	r.logger.Debugf("Created audit entry in repository: %s (%s)", e.ID, e.Action)

	entryCopy := e
	return &entryCopy, nil
}

// ListAuditEntriesByTask returns the audit entries for a task, newest first.
func (r *Repository) ListAuditEntriesByTask(ctx context.Context, taskID string) ([]model.AuditEntry, error) {
	query := `
		SELECT id, ts, task_id, action_type, staff_id, old_value, new_value, details
		FROM audit_log
		WHERE task_id = ?
		ORDER BY ts DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("could not query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var ts int64
		var action string
		if err := rows.Scan(&e.ID, &ts, &e.TaskID, &action, &e.StaffID, &e.OldValue, &e.NewValue, &e.Details); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		e.Timestamp = timeFromUnix(ts)
		e.Action = model.AuditAction(action)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}
