package booking

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Staff errors.
var (
	ErrStaffNotFound  = errors.New("staff member not found")
	ErrDuplicateStaff = errors.New("a staff member with that name already exists")
)

// StaffStatus controls whether a staff member appears on the calendar.
type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffInactive StaffStatus = "inactive"
)

// StaffMember is a person appointments can be booked with.
type StaffMember struct {
	ID        string
	Name      string
	Role      string
	AvatarURL string
	Status    StaffStatus
}

// NewStaffMember creates an active staff member with a fresh ID.
func NewStaffMember(name, role string) (*StaffMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyStaff
	}
	return &StaffMember{
		ID:     uuid.NewString(),
		Name:   name,
		Role:   strings.TrimSpace(role),
		Status: StaffActive,
	}, nil
}

// IsActive returns true if the staff member is on the roster.
func (s *StaffMember) IsActive() bool {
	return s.Status == StaffActive
}

// ActiveRoster returns the active staff members in their original order.
func ActiveRoster(staff []*StaffMember) []*StaffMember {
	roster := make([]*StaffMember, 0, len(staff))
	for _, s := range staff {
		if s != nil && s.IsActive() {
			roster = append(roster, s)
		}
	}
	return roster
}

// Assigned reports whether the appointment belongs to this staff member.
// The staff ID is authoritative; appointments without one match by name.
func (s *StaffMember) Assigned(a *Appointment) bool {
	if a.StaffID != "" {
		return a.StaffID == s.ID
	}
	return a.StaffName == s.Name
}

// FindStaff returns the first staff member whose name matches case-insensitively.
func FindStaff(staff []*StaffMember, name string) *StaffMember {
	for _, s := range staff {
		if s != nil && strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s
		}
	}
	return nil
}
