package airtable

import (
	"context"
	"fmt"
	"sync"

	"github.com/mehanizm/airtable"

	"github.com/packflow/packflow/internal/model"
)

// staffIndex caches staff members keyed by their domain code, so operator
// resolution doesn't issue a filter query per task row. Mutations through
// this repository invalidate the affected entries.
type staffIndex struct {
	mu        sync.RWMutex
	byStaffID map[string]model.StaffMember
}

func newStaffIndex() *staffIndex {
	return &staffIndex{byStaffID: map[string]model.StaffMember{}}
}

func (i *staffIndex) get(staffID string) (model.StaffMember, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	s, ok := i.byStaffID[staffID]
	return s, ok
}

func (i *staffIndex) put(s model.StaffMember) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.byStaffID[s.StaffID] = s
}

func (i *staffIndex) drop(staffID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.byStaffID, staffID)
}

// ListStaff returns all staff members.
func (r *Repository) ListStaff(ctx context.Context) ([]model.StaffMember, error) {
	records, err := r.listAllRecords(ctx, r.staffTable, listQuery{sortField: fieldStaffID, sortDirection: "asc"})
	if err != nil {
		return nil, fmt.Errorf("could not list staff: %w", err)
	}

	members := make([]model.StaffMember, 0, len(records))
	for _, record := range records {
		member := r.mapper.staffFromFields(record.ID, record.Fields)
		r.staffIndex.put(member)
		members = append(members, member)
	}

	return members, nil
}

// GetStaffByStaffID retrieves a staff member by staff code.
func (r *Repository) GetStaffByStaffID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	if cached, ok := r.staffIndex.get(staffID); ok {
		return &cached, nil
	}

	records, err := r.listAllRecords(ctx, r.staffTable, listQuery{formula: formulaEq(fieldStaffID, staffID)})
	if err != nil {
		return nil, fmt.Errorf("could not query staff: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("staff %s: %w", staffID, model.ErrNotFound)
	}

	member := r.mapper.staffFromFields(records[0].ID, records[0].Fields)
	r.staffIndex.put(member)

	return &member, nil
}

// CreateStaff creates a new staff member.
func (r *Repository) CreateStaff(ctx context.Context, s model.StaffMember) (*model.StaffMember, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid staff member: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The staff code must stay unique, the store doesn't enforce it.
	_, err := r.GetStaffByStaffID(ctx, s.StaffID)
	if err == nil {
		return nil, fmt.Errorf("staff %s: %w", s.StaffID, model.ErrAlreadyExists)
	}

	created, err := r.staffTable.AddRecords(&airtable.Records{
		Records: []*airtable.Record{
			{Fields: map[string]any{
				fieldStaffID:   s.StaffID,
				fieldStaffName: s.Name,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create staff member: %w", err)
	}
	if len(created.Records) == 0 {
		return nil, fmt.Errorf("store returned no created staff record")
	}

	member := r.mapper.staffFromFields(created.Records[0].ID, created.Records[0].Fields)
	r.staffIndex.put(member)
	r.logger.Debugf("Created staff member in store: %s", member.StaffID)

	return &member, nil
}

// UpdateStaff updates a staff member's display name.
func (r *Repository) UpdateStaff(ctx context.Context, staffID, name string) (*model.StaffMember, error) {
	member, err := r.GetStaffByStaffID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	record, err := r.staffTable.GetRecord(member.RecordID)
	if err != nil {
		if nfErr := asNotFound(err, "staff", staffID); nfErr != nil {
			r.staffIndex.drop(staffID)
			return nil, nfErr
		}
		return nil, fmt.Errorf("could not get staff record: %w", err)
	}

	updated, err := record.UpdateRecordPartial(map[string]any{fieldStaffName: name})
	if err != nil {
		return nil, fmt.Errorf("could not update staff member: %w", err)
	}

	result := r.mapper.staffFromFields(updated.ID, updated.Fields)
	r.staffIndex.put(result)
	r.logger.Debugf("Updated staff member in store: %s", staffID)

	return &result, nil
}

// DeleteStaff deletes a staff member by staff code.
func (r *Repository) DeleteStaff(ctx context.Context, staffID string) error {
	member, err := r.GetStaffByStaffID(ctx, staffID)
	if err != nil {
		return err
	}

	if _, err := r.staffTable.DeleteRecords([]string{member.RecordID}); err != nil {
		return fmt.Errorf("could not delete staff member: %w", err)
	}

	r.staffIndex.drop(staffID)
	r.logger.Debugf("Deleted staff member from store: %s", staffID)

	return nil
}

// resolveStaff resolves an operator code to a staff member, returning nil
// when the lookup fails for any reason.
func (r *Repository) resolveStaff(ctx context.Context, staffID string) *model.StaffMember {
	member, err := r.GetStaffByStaffID(ctx, staffID)
	if err != nil {
		r.logger.Debugf("Operator %q could not be resolved: %s", staffID, err)
		return nil
	}
	return member
}
