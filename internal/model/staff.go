package model

import "fmt"

// StaffMember represents a warehouse staff member. StaffID is the domain
// code (e.g. "ST-001") used everywhere on the API surface, RecordID is the
// backing store identifier and never leaves the server.
type StaffMember struct {
	RecordID string
	StaffID  string
	Name     string
}

// Validate validates the staff member.
func (s *StaffMember) Validate() error {
	if s.StaffID == "" {
		return fmt.Errorf("staff id is required: %w", ErrNotValid)
	}
	if s.Name == "" {
		return fmt.Errorf("name is required: %w", ErrNotValid)
	}
	return nil
}
