package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/packflow/packflow/internal/model"
)

// ListStaff returns all staff members.
func (r *Repository) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	query := `SELECT record_id, staff_id, name FROM staff ORDER BY staff_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query staff: %w", err)
	}
	defer rows.Close()

	var members []model.StaffMember
	for rows.Next() {
		var m model.StaffMember
		if err := rows.Scan(&m.RecordID, &m.StaffID, &m.Name); err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, nil
}

// GetStaffByStaffID retrieves a staff member by staff code.
func (r *Repository) GetStaffByStaffID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	query := `SELECT record_id, staff_id, name FROM staff WHERE staff_id = ?`

	var m model.StaffMember
	err := r.db.QueryRowContext(ctx, query, staffID).Scan(&m.RecordID, &m.StaffID, &m.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query staff member: %w", err)
	}

	return &m, nil
}

// CreateStaff creates a new staff member.
func (r *Repository) CreateStaff(ctx context.Context, s model.StaffMember) (*model.StaffMember, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid staff member: %w", err)
	}

	s.RecordID = "rec" + ulid.Make().String()

	query := `INSERT INTO staff (record_id, staff_id, name) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, s.RecordID, s.StaffID, s.Name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: staff.") {
			return nil, fmt.Errorf("staff %s: %w", s.StaffID, model.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("could not insert staff member: %w", err)
	}

	r.logger.Debugf("Created staff member in repository: %s", s.StaffID)

	staffCopy := s
	return &staffCopy, nil
}

// UpdateStaff updates a staff member's display name.
func (r *Repository) UpdateStaff(ctx context.Context, staffID, name string) (*model.StaffMember, error) {
	query := `UPDATE staff SET name = ? WHERE staff_id = ?`

	result, err := r.db.ExecContext(ctx, query, name, staffID)
	if err != nil {
		return nil, fmt.Errorf("could not update staff member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	r.logger.Debugf("Updated staff member in repository: %s", staffID)

	return r.GetStaffByStaffID(ctx, staffID)
}

// DeleteStaff deletes a staff member by staff code.
func (r *Repository) DeleteStaff(ctx context.Context, staffID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE staff_id = ?`, staffID)
	if err != nil {
		return fmt.Errorf("could not delete staff member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted staff member from repository: %s", staffID)

	return nil
}
