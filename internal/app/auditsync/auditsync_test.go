package auditsync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage/storagemock"
)

var testNow = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func TestServiceSync(t *testing.T) {
	tests := map[string]struct {
		entries     []auditsync.IncomingEntry
		setupMocks  func(audit *storagemock.MockAuditRepository)
		validateRes func(t *testing.T, res *auditsync.SyncResult)
	}{
		"All entries syncing should report full success": {
			entries: []auditsync.IncomingEntry{
				{TaskID: "rec-1", Action: "Task_Started", StaffID: "ST-001"},
				{TaskID: "rec-1", Action: "START_PACKING", OldValue: "Picking", NewValue: "Packed"},
			},
			setupMocks: func(audit *storagemock.MockAuditRepository) {
				audit.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
					return e.Action == model.AuditActionTaskStarted && e.Timestamp.Equal(testNow)
				})).Return(&model.AuditEntry{ID: "recA1"}, nil).Once()
				audit.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
					return e.Action == model.AuditActionStatusChanged
				})).Return(&model.AuditEntry{ID: "recA2"}, nil).Once()
			},
			validateRes: func(t *testing.T, res *auditsync.SyncResult) {
				assert.Equal(t, 2, res.Synced)
				assert.Equal(t, 0, res.Failed)
				require.Len(t, res.Results, 2)
				assert.Equal(t, "recA1", res.Results[0].ID)
				assert.NoError(t, res.Results[0].Err)
			},
		},

		"A failing entry should not abort the rest": {
			entries: []auditsync.IncomingEntry{
				{TaskID: "", Action: "Task_Started"},
				{TaskID: "rec-1", Action: "Task_Completed"},
			},
			setupMocks: func(audit *storagemock.MockAuditRepository) {
				audit.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
					return e.TaskID == ""
				})).Return((*model.AuditEntry)(nil), model.ErrNotValid).Once()
				audit.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
					return e.TaskID == "rec-1"
				})).Return(&model.AuditEntry{ID: "recA1"}, nil).Once()
			},
			validateRes: func(t *testing.T, res *auditsync.SyncResult) {
				assert.Equal(t, 1, res.Synced)
				assert.Equal(t, 1, res.Failed)
				require.Len(t, res.Results, 2)
				assert.Error(t, res.Results[0].Err)
				assert.True(t, errors.Is(res.Results[0].Err, model.ErrNotValid))
				assert.Equal(t, "recA1", res.Results[1].ID)
			},
		},

		"Unrecognized actions should be normalized to Other": {
			entries: []auditsync.IncomingEntry{
				{TaskID: "rec-1", Action: "SOMETHING_NEW"},
			},
			setupMocks: func(audit *storagemock.MockAuditRepository) {
				audit.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e model.AuditEntry) bool {
					return e.Action == model.AuditActionOther
				})).Return(&model.AuditEntry{ID: "recA1"}, nil).Once()
			},
			validateRes: func(t *testing.T, res *auditsync.SyncResult) {
				assert.Equal(t, 1, res.Synced)
			},
		},

		"Empty batch should succeed with no results": {
			entries:    nil,
			setupMocks: func(audit *storagemock.MockAuditRepository) {},
			validateRes: func(t *testing.T, res *auditsync.SyncResult) {
				assert.Equal(t, 0, res.Synced)
				assert.Equal(t, 0, res.Failed)
				assert.Empty(t, res.Results)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			audit := storagemock.NewMockAuditRepository(t)
			tt.setupMocks(audit)

			svc, err := auditsync.NewService(auditsync.ServiceConfig{
				Audit:  audit,
				Logger: log.Noop,
				Now:    func() time.Time { return testNow },
			})
			require.NoError(t, err)

			res, err := svc.Sync(context.Background(), tt.entries)
			require.NoError(t, err)
			tt.validateRes(t, res)
		})
	}
}
