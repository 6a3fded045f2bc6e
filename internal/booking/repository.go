package booking

import (
	"context"
	"time"
)

// Repository defines the storage interface for appointments and staff.
type Repository interface {
	// CreateAppointment adds a new appointment.
	// Returns ErrSlotTaken if it overlaps a live appointment of the same staff member.
	CreateAppointment(ctx context.Context, a *Appointment) error

	// GetAppointment retrieves an appointment by ID.
	// Returns ErrAppointmentNotFound if it does not exist.
	GetAppointment(ctx context.Context, id int64) (*Appointment, error)

	// ListAppointmentsByDate returns every appointment on the given day,
	// ordered by start time.
	ListAppointmentsByDate(ctx context.Context, date time.Time) ([]*Appointment, error)

	// UpdateAppointmentStatus changes the status of an appointment.
	UpdateAppointmentStatus(ctx context.Context, id int64, status Status) error

	// CreateStaff adds a staff member. Returns ErrDuplicateStaff on a name clash.
	CreateStaff(ctx context.Context, s *StaffMember) error

	// ListStaff returns every staff member, active or not, in creation order.
	ListStaff(ctx context.Context) ([]*StaffMember, error)

	// SetStaffStatus activates or deactivates a staff member by ID.
	SetStaffStatus(ctx context.Context, id string, status StaffStatus) error

	// Close releases any resources held by the repository.
	Close() error
}
