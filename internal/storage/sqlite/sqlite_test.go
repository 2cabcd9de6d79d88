package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
	"github.com/packflow/packflow/internal/storage/sqlite"
)

func taskFixture(id, orderName string, status model.TaskStatus) model.FulfillmentTask {
	now := time.Now().UTC().Truncate(time.Second)
	return model.FulfillmentTask{
		ID:        id,
		OrderName: orderName,
		Status:    status,
		Shipping: model.ShippingAddress{
			Name:     "Jordan Doe",
			Address1: "1 Warehouse Way",
			City:     "Springfield",
			Zip:      "12345",
			Country:  "US",
		},
		CreatedAt:     now,
		ChecklistJSON: `[{"sku":"SKU-1","qty":2}]`,
		LastModified:  now,
	}
}

func staffFixture(staffID, name string) model.StaffMember {
	return model.StaffMember{StaffID: staffID, Name: name}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepositoryTasks(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	task := taskFixture("rec-1", "#1001", model.TaskStatusPending)
	require.NoError(t, repo.SeedTask(ctx, task))

	got, err := repo.GetTask(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "#1001", got.OrderName)
	assert.Equal(t, model.TaskStatusPending, got.Status)
	assert.Equal(t, "Jordan Doe", got.Shipping.Name)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
	assert.Nil(t, got.CurrentOperator)

	all, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.GetTask(ctx, "rec-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryTaskUpdate(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.CreateStaff(ctx, staffFixture("ST-001", "Alex"))
	require.NoError(t, err)
	require.NoError(t, repo.SeedTask(ctx, taskFixture("rec-1", "#1001", model.TaskStatusPending)))

	status := model.TaskStatusPicking
	operator := "ST-001"
	paused := false
	updated, err := repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{
		Status:          &status,
		OperatorStaffID: &operator,
		IsPaused:        &paused,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusPicking, updated.Status)
	require.NotNil(t, updated.CurrentOperator)
	assert.Equal(t, "ST-001", updated.CurrentOperator.StaffID)
	assert.Equal(t, "Alex", updated.CurrentOperator.Name)
	assert.False(t, updated.LastModified.IsZero())

	clear := ""
	updated, err = repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{OperatorStaffID: &clear})
	require.NoError(t, err)
	assert.Nil(t, updated.CurrentOperator)

	_, err = repo.UpdateTask(ctx, "rec-x", storage.TaskUpdate{Status: &status})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryTaskUnknownOperator(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.SeedTask(ctx, taskFixture("rec-1", "#1001", model.TaskStatusPending)))

	operator := "ST-GHOST"
	updated, err := repo.UpdateTask(ctx, "rec-1", storage.TaskUpdate{OperatorStaffID: &operator})
	require.NoError(t, err)
	assert.Nil(t, updated.CurrentOperator)
}

func TestRepositoryStaff(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	created, err := repo.CreateStaff(ctx, staffFixture("ST-001", "Alex"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.RecordID)

	got, err := repo.GetStaffByStaffID(ctx, "ST-001")
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.Name)

	_, err = repo.CreateStaff(ctx, staffFixture("ST-001", "Other"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))

	_, err = repo.CreateStaff(ctx, staffFixture("", "Nameless"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotValid))

	updated, err := repo.UpdateStaff(ctx, "ST-001", "Alexandra")
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", updated.Name)

	_, err = repo.CreateStaff(ctx, staffFixture("ST-002", "Sam"))
	require.NoError(t, err)
	all, err := repo.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ST-001", all[0].StaffID)

	require.NoError(t, repo.DeleteStaff(ctx, "ST-002"))
	err = repo.DeleteStaff(ctx, "ST-002")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = repo.UpdateStaff(ctx, "ST-x", "Nobody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRepositoryAudit(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	base := time.Now().UTC().Truncate(time.Second)
	for i, action := range []model.AuditAction{model.AuditActionTaskStarted, model.AuditActionStatusChanged} {
		_, err := repo.CreateAuditEntry(ctx, model.AuditEntry{
			TaskID:    "rec-1",
			Action:    action,
			StaffID:   "ST-001",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.CreateAuditEntry(ctx, model.AuditEntry{TaskID: "rec-2", Action: model.AuditActionOther})
	require.NoError(t, err)

	entries, err := repo.ListAuditEntriesByTask(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditActionStatusChanged, entries[0].Action)
	assert.Equal(t, model.AuditActionTaskStarted, entries[1].Action)
	assert.NotEmpty(t, entries[0].ID)

	_, err = repo.CreateAuditEntry(ctx, model.AuditEntry{TaskID: "", Action: model.AuditActionOther})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotValid))

	empty, err := repo.ListAuditEntriesByTask(ctx, "rec-x")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
