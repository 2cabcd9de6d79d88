package auditsync

import (
	"context"
	"fmt"
	"time"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// ServiceConfig is the configuration for the audit sync service.
type ServiceConfig struct {
	Audit  storage.AuditRepository
	Logger log.Logger
	Now    func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Audit == nil {
		return fmt.Errorf("audit repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.AuditSync"})
	return nil
}

// Service bulk-ingests client-buffered audit entries. Clients that work
// offline queue their audit writes locally and replay them here.
type Service struct {
	audit  storage.AuditRepository
	logger log.Logger
	now    func() time.Time
}

// NewService creates a new audit sync service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{audit: cfg.Audit, logger: cfg.Logger, now: cfg.Now}, nil
}

// IncomingEntry is one client-buffered audit entry. Action may be either an
// audit label or a task action name, both are normalized into the audit
// vocabulary.
type IncomingEntry struct {
	TaskID    string
	Action    string
	StaffID   string
	OldValue  string
	NewValue  string
	Details   string
	Timestamp time.Time
}

// EntryResult is the per-entry outcome of a sync.
type EntryResult struct {
	Index int
	// ID is the stored entry's identifier when Err is nil.
	ID  string
	Err error
}

// SyncResult summarizes a bulk sync.
type SyncResult struct {
	Synced  int
	Failed  int
	Results []EntryResult
}

// Sync stores the given entries one by one. A failing entry does not abort
// the rest, per-entry outcomes are reported in the result.
func (s *Service) Sync(ctx context.Context, entries []IncomingEntry) (*SyncResult, error) {
	res := &SyncResult{Results: make([]EntryResult, 0, len(entries))}

	for i, in := range entries {
		entry := model.AuditEntry{
			Timestamp: in.Timestamp,
			TaskID:    in.TaskID,
			Action:    model.NormalizeAuditAction(in.Action),
			StaffID:   in.StaffID,
			OldValue:  in.OldValue,
			NewValue:  in.NewValue,
			Details:   in.Details,
		}
		if entry.Timestamp.IsZero() {
			entry.Timestamp = s.now()
		}

		stored, err := s.audit.CreateAuditEntry(ctx, entry)
		if err != nil {
			s.logger.Warningf("Could not sync audit entry %d for task %s: %s", i, in.TaskID, err)
			res.Failed++
			res.Results = append(res.Results, EntryResult{Index: i, Err: err})
			continue
		}

		res.Synced++
		res.Results = append(res.Results, EntryResult{Index: i, ID: stored.ID})
	}

	s.logger.Infof("Synced %d audit entries, %d failed", res.Synced, res.Failed)

	return res, nil
}
