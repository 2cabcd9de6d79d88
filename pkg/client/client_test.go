package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/app/dashboard"
	"github.com/packflow/packflow/internal/app/staff"
	"github.com/packflow/packflow/internal/app/taskaction"
	"github.com/packflow/packflow/internal/app/taskinfo"
	apihttp "github.com/packflow/packflow/internal/http"
	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage/memory"
	"github.com/packflow/packflow/pkg/client"
)

func newTestClient(t *testing.T) (*client.Client, *memory.Repository) {
	t.Helper()

	repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: log.Noop})
	require.NoError(t, err)

	actionSvc, err := taskaction.NewService(taskaction.ServiceConfig{Tasks: repo, Staff: repo, Audit: repo, Logger: log.Noop})
	require.NoError(t, err)
	infoSvc, err := taskinfo.NewService(taskinfo.ServiceConfig{Tasks: repo, Audit: repo, Logger: log.Noop})
	require.NoError(t, err)
	dashSvc, err := dashboard.NewService(dashboard.ServiceConfig{Tasks: repo, Logger: log.Noop})
	require.NoError(t, err)
	staffSvc, err := staff.NewService(staff.ServiceConfig{Staff: repo, Logger: log.Noop})
	require.NoError(t, err)
	syncSvc, err := auditsync.NewService(auditsync.ServiceConfig{Audit: repo, Logger: log.Noop})
	require.NoError(t, err)

	server, err := apihttp.NewServer(apihttp.ServerConfig{
		TaskAction: actionSvc,
		TaskInfo:   infoSvc,
		Dashboard:  dashSvc,
		Staff:      staffSvc,
		AuditSync:  syncSvc,
		Logger:     log.Noop,
		DevMode:    true,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(client.Config{BaseURL: ts.URL, HTTPClient: ts.Client()})
	require.NoError(t, err)

	return c, repo
}

func TestClientTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestClient(t)

	require.NoError(t, c.Health(ctx))

	member, err := c.CreateStaff(ctx, "Alex", "ST-001")
	require.NoError(t, err)
	assert.Equal(t, "ST-001", member.StaffID)

	repo.SeedTask(model.FulfillmentTask{ID: "rec-1", OrderName: "#1001", Status: model.TaskStatusPending, CreatedAt: time.Now().UTC()})

	res, err := c.ApplyAction(ctx, client.ActionRequest{TaskID: "rec-1", Action: "START_PICKING", OperatorID: "ST-001"})
	require.NoError(t, err)
	assert.Equal(t, "Picking", res.Task.Status)
	assert.Equal(t, "recorded", res.AuditStatus)
	require.NotNil(t, res.Task.CurrentOperator)
	assert.Equal(t, "ST-001", res.Task.CurrentOperator.StaffID)

	res, err = c.ApplyAction(ctx, client.ActionRequest{
		TaskID:     "rec-1",
		Action:     "START_PACKING",
		OperatorID: "ST-001",
		Payload:    client.ActionPayload{Weight: "2kg", Dimensions: "10x10x10"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Packed", res.Task.Status)
	assert.Nil(t, res.Task.CurrentOperator)

	history, err := c.TaskHistory(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Status_Changed", history[0].Action)

	d, err := c.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, d.Packed.Count)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestClient(t)

	_, err := c.GetTask(ctx, "rec-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrNotFound))

	repo.SeedTask(model.FulfillmentTask{ID: "rec-1", Status: model.TaskStatusPicking, CreatedAt: time.Now().UTC()})

	_, err = c.ApplyAction(ctx, client.ActionRequest{TaskID: "rec-1", Action: "START_PACKING", OperatorID: "ST-001"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrInvalidRequest))
}

func TestClientIssueAndSync(t *testing.T) {
	ctx := context.Background()
	c, repo := newTestClient(t)

	repo.SeedTask(model.FulfillmentTask{ID: "rec-1", Status: model.TaskStatusPacked, CreatedAt: time.Now().UTC()})

	res, err := c.ReportIssue(ctx, client.IssueReport{TaskID: "rec-1", IssueType: "damaged_item", Description: "box crushed"})
	require.NoError(t, err)
	assert.Equal(t, "Pending", res.Task.Status)
	assert.True(t, res.Task.InExceptionPool)

	sync, err := c.SyncAuditLogs(ctx, []client.AuditLog{
		{TaskID: "rec-1", Action: "Task_Started", StaffID: "ST-001"},
		{Action: "Task_Started"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sync.Synced)
	assert.Equal(t, 1, sync.Failed)
}
