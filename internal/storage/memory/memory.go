package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of the task, staff and audit
// repositories. Used for tests and local development without a store.
type Repository struct {
	tasks map[string]model.FulfillmentTask
	// operators holds the raw operator code per task. Resolution to a staff
	// member happens at read time, so staff renames and deletes are
	// reflected, same as the other backends.
	operators map[string]string
	staff     map[string]model.StaffMember
	audit     []model.AuditEntry
	mu        sync.RWMutex

	logger log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		tasks:     map[string]model.FulfillmentTask{},
		operators: map[string]string{},
		staff:     map[string]model.StaffMember{},
		logger:    cfg.Logger,
	}, nil
}

// SeedTask inserts a task directly, bypassing the usual "tasks are created
// externally" rule. Intended for tests and local development fixtures.
func (r *Repository) SeedTask(t model.FulfillmentTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID == "" {
		t.ID = "rec" + ulid.Make().String()
	}
	if t.CurrentOperator != nil {
		r.operators[t.ID] = t.CurrentOperator.StaffID
		t.CurrentOperator = nil
	}
	r.tasks[t.ID] = t
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.FulfillmentTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	taskCopy := r.resolved(task)
	return &taskCopy, nil
}

// ListTasks returns all tasks.
func (r *Repository) ListTasks(ctx context.Context) ([]model.FulfillmentTask, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]model.FulfillmentTask, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, r.resolved(task))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.After(tasks[j].CreatedAt) })

	return tasks, nil
}

// UpdateTask applies a partial update to a task.
func (r *Repository) UpdateTask(ctx context.Context, id string, upd storage.TaskUpdate) (*model.FulfillmentTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.OperatorStaffID != nil {
		if *upd.OperatorStaffID == "" {
			delete(r.operators, id)
		} else {
			r.operators[id] = *upd.OperatorStaffID
		}
	}
	if upd.IsPaused != nil {
		task.IsPaused = *upd.IsPaused
	}
	if upd.ChecklistJSON != nil {
		task.ChecklistJSON = *upd.ChecklistJSON
	}
	if upd.InExceptionPool != nil {
		task.InExceptionPool = *upd.InExceptionPool
	}
	if upd.ExceptionReason != nil {
		task.ExceptionReason = *upd.ExceptionReason
	}
	if upd.ExceptionNotes != nil {
		task.ExceptionNotes = *upd.ExceptionNotes
	}
	if upd.ExceptionLoggedAt != nil {
		t := *upd.ExceptionLoggedAt
		task.ExceptionLoggedAt = &t
	}
	task.LastModified = time.Now().UTC()

	r.tasks[id] = task
	r.logger.Debugf("Updated task in repository: %s", id)

	taskCopy := r.resolved(task)
	return &taskCopy, nil
}

// resolved returns a copy of the task with its operator resolved against the
// current staff. Operator codes that don't resolve are treated as absent.
// Callers must hold the lock.
func (r *Repository) resolved(task model.FulfillmentTask) model.FulfillmentTask {
	task.CurrentOperator = nil
	if code, ok := r.operators[task.ID]; ok {
		if member, ok := r.staff[code]; ok {
			memberCopy := member
			task.CurrentOperator = &memberCopy
		}
	}
	return task
}

// ListStaff returns all staff members.
func (r *Repository) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]model.StaffMember, 0, len(r.staff))
	for _, member := range r.staff {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].StaffID < members[j].StaffID })

	return members, nil
}

// GetStaffByStaffID retrieves a staff member by staff code.
func (r *Repository) GetStaffByStaffID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.staff[staffID]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	memberCopy := member
	return &memberCopy, nil
}

// CreateStaff creates a new staff member.
func (r *Repository) CreateStaff(ctx context.Context, s model.StaffMember) (*model.StaffMember, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid staff member: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[s.StaffID]; ok {
		return nil, fmt.Errorf("staff %s: %w", s.StaffID, model.ErrAlreadyExists)
	}

	s.RecordID = "rec" + ulid.Make().String()
	r.staff[s.StaffID] = s
	r.logger.Debugf("Created staff member in repository: %s", s.StaffID)

	staffCopy := s
	return &staffCopy, nil
}

// UpdateStaff updates a staff member's display name.
func (r *Repository) UpdateStaff(ctx context.Context, staffID, name string) (*model.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	member, ok := r.staff[staffID]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	member.Name = name
	r.staff[staffID] = member
	r.logger.Debugf("Updated staff member in repository: %s", staffID)

	memberCopy := member
	return &memberCopy, nil
}

// DeleteStaff deletes a staff member by staff code.
func (r *Repository) DeleteStaff(ctx context.Context, staffID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.staff[staffID]; !ok {
		return fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	delete(r.staff, staffID)
	r.logger.Debugf("Deleted staff member from repository: %s", staffID)

	return nil
}

// CreateAuditEntry appends an audit entry.
func (r *Repository) CreateAuditEntry(ctx context.Context, e model.AuditEntry) (*model.AuditEntry, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audit entry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		e.ID = "rec" + ulid.Make().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	r.audit = append(r.audit, e)
	r.logger.Debugf("Created audit entry in repository: %s (%s)", e.ID, e.Action)

	entryCopy := e
	return &entryCopy, nil
}

// ListAuditEntriesByTask returns the audit entries for a task, newest first.
func (r *Repository) ListAuditEntriesByTask(ctx context.Context, taskID string) ([]model.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []model.AuditEntry
	for _, entry := range r.audit {
		if entry.TaskID == taskID {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp.After(entries[j].Timestamp) })

	return entries, nil
}
