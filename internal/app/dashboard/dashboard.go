package dashboard

import (
	"context"
	"fmt"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// ServiceConfig is the configuration for the dashboard service.
type ServiceConfig struct {
	Tasks  storage.TasksRepository
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Tasks == nil {
		return fmt.Errorf("tasks repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Dashboard"})
	return nil
}

// Service groups tasks into the dashboard buckets.
type Service struct {
	tasks  storage.TasksRepository
	logger log.Logger
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{tasks: cfg.Tasks, logger: cfg.Logger}, nil
}

// terminalBucketLimit caps how many completed or cancelled tasks the
// dashboard carries. Count still reflects the full total.
const terminalBucketLimit = 50

// Bucket is one dashboard group of tasks.
type Bucket struct {
	Count int
	Tasks []model.FulfillmentTask
	limit int
}

// Dashboard is the grouped view of all tasks. The inspecting bucket merges
// the Inspecting, Correction_Needed and Correcting statuses. A paused task
// lands only in the paused bucket, whatever its status.
type Dashboard struct {
	Pending    Bucket
	Picking    Bucket
	Packed     Bucket
	Inspecting Bucket
	Completed  Bucket
	Paused     Bucket
	Cancelled  Bucket
}

// Get builds the dashboard from all tasks.
func (s *Service) Get(ctx context.Context) (*Dashboard, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	var d Dashboard
	d.Completed.limit = terminalBucketLimit
	d.Cancelled.limit = terminalBucketLimit
	for _, task := range tasks {
		bucketFor(&d, task).add(task)
	}

	s.logger.Debugf("Built dashboard from %d tasks", len(tasks))

	return &d, nil
}

// add appends a task unless the bucket is full. Tasks arrive newest first,
// so a full bucket keeps the most recent ones.
func (b *Bucket) add(t model.FulfillmentTask) {
	b.Count++
	if b.limit > 0 && len(b.Tasks) >= b.limit {
		return
	}
	b.Tasks = append(b.Tasks, t)
}

func bucketFor(d *Dashboard, t model.FulfillmentTask) *Bucket {
	if t.IsPaused && !t.Status.Terminal() {
		return &d.Paused
	}

	switch t.Status {
	case model.TaskStatusPicking:
		return &d.Picking
	case model.TaskStatusPacked:
		return &d.Packed
	case model.TaskStatusInspecting, model.TaskStatusCorrectionNeeded, model.TaskStatusCorrecting:
		return &d.Inspecting
	case model.TaskStatusCompleted:
		return &d.Completed
	case model.TaskStatusCancelled:
		return &d.Cancelled
	default:
		return &d.Pending
	}
}
