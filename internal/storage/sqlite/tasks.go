package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

const taskColumns = `
	t.id, t.order_name, t.status,
	t.shipping_name, t.address1, t.address2, t.city, t.province, t.zip, t.country, t.phone,
	t.created_at, t.checklist_json, t.current_operator,
	t.is_paused, t.in_exception_pool, t.exception_reason, t.exception_notes, t.exception_logged_at,
	t.last_modified,
	s.record_id, s.name
`

const taskFrom = `FROM tasks t LEFT JOIN staff s ON s.staff_id = t.current_operator`

// GetTask retrieves a task by ID with its operator resolved.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.FulfillmentTask, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE t.id = ?`, taskColumns, taskFrom)

	row := r.db.QueryRowContext(ctx, query, id)
	task, err := r.scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query task: %w", err)
	}

	return &task, nil
}

// ListTasks returns all tasks, newest first.
func (r *Repository) ListTasks(ctx context.Context) ([]model.FulfillmentTask, error) {
	query := fmt.Sprintf(`SELECT %s %s ORDER BY t.created_at DESC`, taskColumns, taskFrom)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.FulfillmentTask
	for rows.Next() {
		task, err := r.scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies a partial update to a task.
func (r *Repository) UpdateTask(ctx context.Context, id string, upd storage.TaskUpdate) (*model.FulfillmentTask, error) {
	sets := []string{"last_modified = ?"}
	args := []any{time.Now().UTC().Unix()}

	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.OperatorStaffID != nil {
		sets = append(sets, "current_operator = ?")
		args = append(args, *upd.OperatorStaffID)
	}
	if upd.IsPaused != nil {
		sets = append(sets, "is_paused = ?")
		args = append(args, *upd.IsPaused)
	}
	if upd.ChecklistJSON != nil {
		sets = append(sets, "checklist_json = ?")
		args = append(args, *upd.ChecklistJSON)
	}
	if upd.InExceptionPool != nil {
		sets = append(sets, "in_exception_pool = ?")
		args = append(args, *upd.InExceptionPool)
	}
	if upd.ExceptionReason != nil {
		sets = append(sets, "exception_reason = ?")
		args = append(args, *upd.ExceptionReason)
	}
	if upd.ExceptionNotes != nil {
		sets = append(sets, "exception_notes = ?")
		args = append(args, *upd.ExceptionNotes)
	}
	if upd.ExceptionLoggedAt != nil {
		sets = append(sets, "exception_logged_at = ?")
		args = append(args, upd.ExceptionLoggedAt.Unix())
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = ?`, strings.Join(sets, ", "))
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	r.logger.Debugf("Updated task in repository: %s", id)

	return r.GetTask(ctx, id)
}

// SeedTask inserts a task directly. Tasks are normally created externally in
// the store, this is for tests and local development fixtures.
func (r *Repository) SeedTask(ctx context.Context, t model.FulfillmentTask) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	operator := ""
	if t.CurrentOperator != nil {
		operator = t.CurrentOperator.StaffID
	}
	var exceptionLoggedAt *int64
	if t.ExceptionLoggedAt != nil {
		u := t.ExceptionLoggedAt.Unix()
		exceptionLoggedAt = &u
	}
	lastModified := t.LastModified
	if lastModified.IsZero() {
		lastModified = time.Now().UTC()
	}

	query := `
		INSERT INTO tasks (
			id, order_name, status,
			shipping_name, address1, address2, city, province, zip, country, phone,
			created_at, checklist_json, current_operator,
			is_paused, in_exception_pool, exception_reason, exception_notes, exception_logged_at,
			last_modified
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		t.ID,
		t.OrderName,
		string(t.Status),
		t.Shipping.Name,
		t.Shipping.Address1,
		t.Shipping.Address2,
		t.Shipping.City,
		t.Shipping.Province,
		t.Shipping.Zip,
		t.Shipping.Country,
		t.Shipping.Phone,
		t.CreatedAt.Unix(),
		t.ChecklistJSON,
		operator,
		t.IsPaused,
		t.InExceptionPool,
		t.ExceptionReason,
		t.ExceptionNotes,
		exceptionLoggedAt,
		lastModified.Unix(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.") {
			return fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
		}
		return fmt.Errorf("could not insert task: %w", err)
	}

	return nil
}

func (r *Repository) scanTask(s scanner) (model.FulfillmentTask, error) {
	var t model.FulfillmentTask
	var status, operator string
	var createdAt, lastModified int64
	var exceptionLoggedAt sql.NullInt64
	var staffRecordID, staffName sql.NullString

	err := s.Scan(
		&t.ID,
		&t.OrderName,
		&status,
		&t.Shipping.Name,
		&t.Shipping.Address1,
		&t.Shipping.Address2,
		&t.Shipping.City,
		&t.Shipping.Province,
		&t.Shipping.Zip,
		&t.Shipping.Country,
		&t.Shipping.Phone,
		&createdAt,
		&t.ChecklistJSON,
		&operator,
		&t.IsPaused,
		&t.InExceptionPool,
		&t.ExceptionReason,
		&t.ExceptionNotes,
		&exceptionLoggedAt,
		&lastModified,
		&staffRecordID,
		&staffName,
	)
	if err != nil {
		return model.FulfillmentTask{}, err
	}

	t.Status = model.TaskStatus(status)
	t.CreatedAt = timeFromUnix(createdAt)
	t.LastModified = timeFromUnix(lastModified)
	if exceptionLoggedAt.Valid {
		ts := timeFromUnix(exceptionLoggedAt.Int64)
		t.ExceptionLoggedAt = &ts
	}

	// An operator code with no matching staff row is treated as absent.
	if operator != "" && staffRecordID.Valid {
		t.CurrentOperator = &model.StaffMember{
			RecordID: staffRecordID.String,
			StaffID:  operator,
			Name:     staffName.String,
		}
	}

	return t, nil
}

func timeFromUnix(unix int64) time.Time { return time.Unix(unix, 0).UTC() }
