package airtable

import (
	"context"
	"fmt"
	"sync"

	"github.com/mehanizm/airtable"

	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// GetTask retrieves a task by record ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.FulfillmentTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := r.tasksTable.GetRecord(id)
	if err != nil {
		if nfErr := asNotFound(err, "task", id); nfErr != nil {
			return nil, nfErr
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	task := r.mapTask(ctx, record)
	return &task, nil
}

// ListTasks returns all tasks, newest first, with their operators resolved.
// The dashboard depends on this ordering to cap its terminal buckets to the
// most recent tasks.
func (r *Repository) ListTasks(ctx context.Context) ([]model.FulfillmentTask, error) {
	records, err := r.listAllRecords(ctx, r.tasksTable, listQuery{sortField: fieldCreatedAt, sortDirection: "desc"})
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	return r.mapTasks(ctx, records), nil
}

// UpdateTask applies a partial update to a task record.
func (r *Repository) UpdateTask(ctx context.Context, id string, upd storage.TaskUpdate) (*model.FulfillmentTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record, err := r.tasksTable.GetRecord(id)
	if err != nil {
		if nfErr := asNotFound(err, "task", id); nfErr != nil {
			return nil, nfErr
		}
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	updated, err := record.UpdateRecordPartial(r.mapper.updateToFields(upd))
	if err != nil {
		return nil, fmt.Errorf("could not update task: %w", err)
	}

	r.logger.Debugf("Updated task in store: %s", id)

	task := r.mapTask(ctx, updated)
	return &task, nil
}

// mapTask maps a single record resolving its operator.
func (r *Repository) mapTask(ctx context.Context, record *airtable.Record) model.FulfillmentTask {
	task, operatorCode := r.mapper.taskFromFields(record.ID, record.Fields)
	if operatorCode != "" {
		// Unresolved lookups yield an absent operator, never an error.
		task.CurrentOperator = r.resolveStaff(ctx, operatorCode)
	}
	return task
}

// mapTasks maps a batch of records. Operator lookups are independent and
// order-insensitive, so they run concurrently.
func (r *Repository) mapTasks(ctx context.Context, records []*airtable.Record) []model.FulfillmentTask {
	tasks := make([]model.FulfillmentTask, len(records))

	var wg sync.WaitGroup
	for i, record := range records {
		wg.Add(1)
		go func(i int, record *airtable.Record) {
			defer wg.Done()
			tasks[i] = r.mapTask(ctx, record)
		}(i, record)
	}
	wg.Wait()

	return tasks
}
