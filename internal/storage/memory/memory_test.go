package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
	"github.com/packflow/packflow/internal/storage/memory"
)

func newRepo(t *testing.T) *memory.Repository {
	t.Helper()

	repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
	require.NoError(t, err)
	return repo
}

func TestRepositoryTasks(t *testing.T) {
	tests := map[string]struct {
		actions func(ctx context.Context, t *testing.T, repo *memory.Repository) error
		expErr  bool
	}{
		"Seeding and retrieving a task should work": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				repo.SeedTask(model.FulfillmentTask{
					ID:        "rec-1",
					OrderName: "#1001",
					Status:    model.TaskStatusPending,
					CreatedAt: time.Now().UTC(),
				})

				task, err := repo.GetTask(ctx, "rec-1")
				require.NoError(t, err)
				assert.Equal(t, "#1001", task.OrderName)
				assert.Equal(t, model.TaskStatusPending, task.Status)

				return nil
			},
		},

		"Seeding without an ID should generate one": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				repo.SeedTask(model.FulfillmentTask{Status: model.TaskStatusPending, CreatedAt: time.Now().UTC()})

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 1)
				assert.NotEmpty(t, tasks[0].ID)

				return nil
			},
		},

		"Retrieving a missing task should fail with not found": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				_, err := repo.GetTask(ctx, "rec-missing")
				assert.ErrorIs(t, err, model.ErrNotFound)
				return err
			},
			expErr: true,
		},

		"Listing tasks should return newest first": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				base := time.Now().UTC()
				repo.SeedTask(model.FulfillmentTask{ID: "rec-old", Status: model.TaskStatusPending, CreatedAt: base.Add(-time.Hour)})
				repo.SeedTask(model.FulfillmentTask{ID: "rec-new", Status: model.TaskStatusPending, CreatedAt: base})

				tasks, err := repo.ListTasks(ctx)
				require.NoError(t, err)
				require.Len(t, tasks, 2)
				assert.Equal(t, "rec-new", tasks[0].ID)
				assert.Equal(t, "rec-old", tasks[1].ID)

				return nil
			},
		},

		"Updating a missing task should fail with not found": {
			actions: func(ctx context.Context, t *testing.T, repo *memory.Repository) error {
				status := model.TaskStatusPicking
				_, err := repo.UpdateTask(ctx, "rec-missing", storage.TaskUpdate{Status: &status})
				assert.ErrorIs(t, err, model.ErrNotFound)
				return err
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)

			err := test.actions(ctx, t, repo)
			if test.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepositoryTaskUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-001", Name: "Alex"})
	require.NoError(t, err)

	repo.SeedTask(model.FulfillmentTask{ID: "rec-1", Status: model.TaskStatusPending, CreatedAt: time.Now().UTC()})

	// Status change plus operator assignment resolves the staff member.
	status := model.TaskStatusPicking
	operator := "ST-001"
	task, err := repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{Status: &status, OperatorStaffID: &operator})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPicking, task.Status)
	require.NotNil(t, task.CurrentOperator)
	assert.Equal(t, "Alex", task.CurrentOperator.Name)
	assert.False(t, task.LastModified.IsZero())

	// Untouched fields survive a partial update.
	paused := true
	task, err = repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{IsPaused: &paused})
	require.NoError(t, err)
	assert.True(t, task.IsPaused)
	assert.Equal(t, model.TaskStatusPicking, task.Status)
	require.NotNil(t, task.CurrentOperator)

	// Empty operator code clears the assignment.
	clear := ""
	task, err = repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{OperatorStaffID: &clear})
	require.NoError(t, err)
	assert.Nil(t, task.CurrentOperator)

	// Unknown operator codes are treated as absent.
	ghost := "ST-GHOST"
	task, err = repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{OperatorStaffID: &ghost})
	require.NoError(t, err)
	assert.Nil(t, task.CurrentOperator)

	// Exception fields land together.
	inPool := true
	reason := "damaged_item"
	notes := "box crushed"
	loggedAt := time.Now().UTC()
	task, err = repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{
		InExceptionPool:   &inPool,
		ExceptionReason:   &reason,
		ExceptionNotes:    &notes,
		ExceptionLoggedAt: &loggedAt,
	})
	require.NoError(t, err)
	assert.True(t, task.InExceptionPool)
	assert.Equal(t, "damaged_item", task.ExceptionReason)
	assert.Equal(t, "box crushed", task.ExceptionNotes)
	require.NotNil(t, task.ExceptionLoggedAt)
	assert.True(t, task.ExceptionLoggedAt.Equal(loggedAt))
}

func TestRepositoryTaskOperatorResolvedAtRead(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-001", Name: "Alex"})
	require.NoError(t, err)

	repo.SeedTask(model.FulfillmentTask{
		ID:              "rec-1",
		Status:          model.TaskStatusPicking,
		CreatedAt:       time.Now().UTC(),
		CurrentOperator: &model.StaffMember{StaffID: "ST-001"},
	})

	task, err := repo.GetTask(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, task.CurrentOperator)
	assert.Equal(t, "Alex", task.CurrentOperator.Name)

	// A rename shows up on the next read.
	_, err = repo.UpdateStaff(ctx, "ST-001", "Alexandra")
	require.NoError(t, err)

	task, err = repo.GetTask(ctx, "rec-1")
	require.NoError(t, err)
	require.NotNil(t, task.CurrentOperator)
	assert.Equal(t, "Alexandra", task.CurrentOperator.Name)

	// A deleted member leaves the task unowned.
	require.NoError(t, repo.DeleteStaff(ctx, "ST-001"))

	task, err = repo.GetTask(ctx, "rec-1")
	require.NoError(t, err)
	assert.Nil(t, task.CurrentOperator)
}

func TestRepositoryStaff(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-002", Name: "Blake"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)

	_, err = repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-001", Name: "Alex"})
	require.NoError(t, err)

	// Duplicate staff codes are rejected.
	_, err = repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-001", Name: "Imposter"})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)

	// Invalid members never reach the store.
	_, err = repo.CreateStaff(ctx, model.StaffMember{StaffID: "ST-003"})
	assert.ErrorIs(t, err, model.ErrNotValid)

	members, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "ST-001", members[0].StaffID)
	assert.Equal(t, "ST-002", members[1].StaffID)

	member, err := repo.GetStaffByStaffID(ctx, "ST-001")
	require.NoError(t, err)
	assert.Equal(t, "Alex", member.Name)

	member, err = repo.UpdateStaff(ctx, "ST-001", "Alexandra")
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", member.Name)

	err = repo.DeleteStaff(ctx, "ST-001")
	require.NoError(t, err)

	_, err = repo.GetStaffByStaffID(ctx, "ST-001")
	assert.ErrorIs(t, err, model.ErrNotFound)

	err = repo.DeleteStaff(ctx, "ST-001")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestRepositoryAudit(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Now().UTC()

	first, err := repo.CreateAuditEntry(ctx, model.AuditEntry{
		TaskID:    "rec-1",
		Action:    model.AuditActionTaskStarted,
		StaffID:   "ST-001",
		Timestamp: base.Add(-time.Minute),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	second, err := repo.CreateAuditEntry(ctx, model.AuditEntry{
		TaskID:    "rec-1",
		Action:    model.AuditActionStatusChanged,
		OldValue:  "Pending",
		NewValue:  "Picking",
		Timestamp: base,
	})
	require.NoError(t, err)

	// Entries without a timestamp get one assigned.
	other, err := repo.CreateAuditEntry(ctx, model.AuditEntry{TaskID: "rec-2", Action: model.AuditActionOther})
	require.NoError(t, err)
	assert.False(t, other.Timestamp.IsZero())

	// Invalid entries are rejected before the append.
	_, err = repo.CreateAuditEntry(ctx, model.AuditEntry{Action: model.AuditActionOther})
	assert.ErrorIs(t, err, model.ErrNotValid)

	entries, err := repo.ListAuditEntriesByTask(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	entries, err = repo.ListAuditEntriesByTask(ctx, "rec-none")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
