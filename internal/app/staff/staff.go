package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
	"github.com/packflow/packflow/internal/storage"
)

// ServiceConfig is the configuration for the staff service.
type ServiceConfig struct {
	Staff  storage.StaffRepository
	Logger log.Logger
	Now    func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Staff == nil {
		return fmt.Errorf("staff repository is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = func() time.Time { return time.Now().UTC() }
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Staff"})
	return nil
}

// Service manages staff members. Staff are identified to clients by their
// staff code, never by the store's record identifier.
type Service struct {
	staff  storage.StaffRepository
	logger log.Logger
	now    func() time.Time
}

// NewService creates a new staff service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{staff: cfg.Staff, logger: cfg.Logger, now: cfg.Now}, nil
}

// List returns all staff members.
func (s *Service) List(ctx context.Context) ([]model.StaffMember, error) {
	members, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list staff: %w", err)
	}
	return members, nil
}

// Get retrieves a staff member by staff code.
func (s *Service) Get(ctx context.Context, staffID string) (*model.StaffMember, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id is required: %w", model.ErrNotValid)
	}

	member, err := s.staff.GetStaffByStaffID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("could not get staff member: %w", err)
	}
	return member, nil
}

// CreateOptions are the options for creating a staff member.
type CreateOptions struct {
	Name string
	// StaffID is optional, a code is generated when empty.
	StaffID string
}

// Create creates a new staff member, generating a staff code when none is
// given.
func (s *Service) Create(ctx context.Context, opts CreateOptions) (*model.StaffMember, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrNotValid)
	}

	staffID := opts.StaffID
	if staffID == "" {
		staffID = generateStaffID()
	}

	member, err := s.staff.CreateStaff(ctx, model.StaffMember{StaffID: staffID, Name: opts.Name})
	if err != nil {
		return nil, fmt.Errorf("could not create staff member: %w", err)
	}

	s.logger.Infof("Created staff member: %s (%s)", member.Name, member.StaffID)

	return member, nil
}

// Update updates a staff member's display name.
func (s *Service) Update(ctx context.Context, staffID, name string) (*model.StaffMember, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id is required: %w", model.ErrNotValid)
	}
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrNotValid)
	}

	member, err := s.staff.UpdateStaff(ctx, staffID, name)
	if err != nil {
		return nil, fmt.Errorf("could not update staff member: %w", err)
	}

	s.logger.Infof("Updated staff member: %s", staffID)

	return member, nil
}

// Delete deletes a staff member by staff code.
func (s *Service) Delete(ctx context.Context, staffID string) error {
	if staffID == "" {
		return fmt.Errorf("staff id is required: %w", model.ErrNotValid)
	}

	if err := s.staff.DeleteStaff(ctx, staffID); err != nil {
		return fmt.Errorf("could not delete staff member: %w", err)
	}

	s.logger.Infof("Deleted staff member: %s", staffID)

	return nil
}

// Check in/out actions.
const (
	CheckActionIn  = "CHECK_IN"
	CheckActionOut = "CHECK_OUT"
)

// CheckEvent is the acknowledgement of a check in/out. Nothing is persisted,
// clients keep their own attendance state.
type CheckEvent struct {
	StaffID   string
	Name      string
	Action    string
	Timestamp time.Time
}

// CheckIn acknowledges a staff check in or check out.
func (s *Service) CheckIn(ctx context.Context, staffID, action string) (*CheckEvent, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id is required: %w", model.ErrNotValid)
	}
	if action != CheckActionIn && action != CheckActionOut {
		return nil, fmt.Errorf("action must be %s or %s: %w", CheckActionIn, CheckActionOut, model.ErrNotValid)
	}

	member, err := s.staff.GetStaffByStaffID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("could not get staff member: %w", err)
	}

	s.logger.Infof("Staff %s: %s", action, staffID)

	return &CheckEvent{
		StaffID:   member.StaffID,
		Name:      member.Name,
		Action:    action,
		Timestamp: s.now(),
	}, nil
}

// generateStaffID derives a short staff code from a ULID.
func generateStaffID() string {
	id := ulid.Make().String()
	return "ST-" + id[len(id)-6:]
}
