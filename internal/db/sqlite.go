// Package db stores appointments and staff. SQLite and PostgreSQL
// repositories implement booking.Repository, Open picks one by driver name,
// and Cached wraps any repository with a read cache.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

// SQLite implements booking.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ booking.Repository = (*SQLite)(nil)

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if needed.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const appointmentColumns = `
	id, staff_id, staff_name, appt_date, start_time, duration, status,
	customer_name, service_name, phone, notes, branch, created_at`

// CreateAppointment adds a new appointment.
// Returns booking.ErrSlotTaken if a live appointment of the same staff member overlaps it.
func (s *SQLite) CreateAppointment(ctx context.Context, a *booking.Appointment) error {
	start, ok := a.StartMinutes()
	if !ok {
		return fmt.Errorf("start time %q: %w", a.StartTime, booking.ErrInvalidTime)
	}
	if a.Status == "" {
		a.Status = booking.StatusScheduled
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if a.Status.Live() {
		if err := checkOverlap(ctx, tx, a, 0); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO appointments (
			staff_id, staff_name, appt_date, start_time, duration,
			start_minutes, duration_minutes, status,
			customer_name, service_name, phone, notes, branch, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		a.StaffID,
		a.StaffName,
		dateutil.FormatISO(a.Date),
		a.StartTime,
		a.Duration,
		start,
		a.DurationMinutes(),
		a.Status,
		a.CustomerName,
		a.ServiceName,
		a.Phone,
		a.Notes,
		a.Branch,
		a.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	a.ID = id

	return nil
}

// GetAppointment retrieves an appointment by ID.
func (s *SQLite) GetAppointment(ctx context.Context, id int64) (*booking.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`

	a, err := scanAppointment(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("appointment %d: %w", id, booking.ErrAppointmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment: %w", err)
	}
	return a, nil
}

// ListAppointmentsByDate returns every appointment on the given day, ordered by start time.
func (s *SQLite) ListAppointmentsByDate(ctx context.Context, date time.Time) ([]*booking.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE appt_date = ?
		ORDER BY start_minutes, id
	`

	rows, err := s.db.QueryContext(ctx, query, dateutil.FormatISO(date))
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var appts []*booking.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appointment: %w", err)
		}
		appts = append(appts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appointments: %w", err)
	}

	return appts, nil
}

// UpdateAppointmentStatus changes the status of an appointment.
// Reviving a cancelled or rejected appointment fails with booking.ErrSlotTaken
// if its time has been booked in the meantime.
func (s *SQLite) UpdateAppointmentStatus(ctx context.Context, id int64, status booking.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", booking.ErrInvalidStatus, status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`
	current, err := scanAppointment(tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("appointment %d: %w", id, booking.ErrAppointmentNotFound)
	}
	if err != nil {
		return fmt.Errorf("querying appointment: %w", err)
	}

	if status.Live() && !current.Status.Live() {
		if err := checkOverlap(ctx, tx, current, id); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE appointments SET status = ? WHERE id = ?`, status, id); err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateStaff adds a staff member.
func (s *SQLite) CreateStaff(ctx context.Context, m *booking.StaffMember) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff WHERE name = ?`, m.Name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking staff name: %w", err)
	}
	if exists > 0 {
		return fmt.Errorf("%w: %q", booking.ErrDuplicateStaff, m.Name)
	}

	if m.Status == "" {
		m.Status = booking.StaffActive
	}

	query := `INSERT INTO staff (id, name, role, avatar_url, status) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, m.ID, m.Name, m.Role, m.AvatarURL, m.Status); err != nil {
		return fmt.Errorf("inserting staff: %w", err)
	}
	return nil
}

// ListStaff returns every staff member in creation order.
func (s *SQLite) ListStaff(ctx context.Context) ([]*booking.StaffMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, avatar_url, status
		FROM staff
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying staff: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var staff []*booking.StaffMember
	for rows.Next() {
		var m booking.StaffMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.AvatarURL, &m.Status); err != nil {
			return nil, fmt.Errorf("scanning staff: %w", err)
		}
		staff = append(staff, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff: %w", err)
	}
	return staff, nil
}

// SetStaffStatus activates or deactivates a staff member.
func (s *SQLite) SetStaffStatus(ctx context.Context, id string, status booking.StaffStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE staff SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating staff status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("staff %s: %w", id, booking.ErrStaffNotFound)
	}
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (*booking.Appointment, error) {
	var (
		a         booking.Appointment
		apptDate  string
		createdAt string
	)

	err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.StaffName,
		&apptDate,
		&a.StartTime,
		&a.Duration,
		&a.Status,
		&a.CustomerName,
		&a.ServiceName,
		&a.Phone,
		&a.Notes,
		&a.Branch,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date, err = parseDate(apptDate)
	if err != nil {
		return nil, fmt.Errorf("parsing appointment date: %w", err)
	}

	a.CreatedAt, err = parseDate(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &a, nil
}

// checkOverlap looks for a live appointment of the same staff member on the
// same day whose range intersects a's. excludeID skips the appointment itself.
// Two ranges overlap if: start1 < end2 AND start2 < end1
func checkOverlap(ctx context.Context, tx *sql.Tx, a *booking.Appointment, excludeID int64) error {
	start, _ := a.StartMinutes()
	end := start + a.DurationMinutes()

	query := `
		SELECT id, start_time, duration, customer_name
		FROM appointments
		WHERE appt_date = ?
		  AND id != ?
		  AND status NOT IN (?, ?)
		  AND (staff_name = ? OR (? != '' AND staff_id = ?))
		  AND start_minutes < ?
		  AND start_minutes + duration_minutes > ?
		ORDER BY start_minutes
		LIMIT 1
	`

	var (
		id       int64
		existing booking.Appointment
	)

	err := tx.QueryRowContext(ctx, query,
		dateutil.FormatISO(a.Date),
		excludeID,
		booking.StatusCancelled,
		booking.StatusRejected,
		a.StaffName,
		a.StaffID,
		a.StaffID,
		end,
		start,
	).Scan(&id, &existing.StartTime, &existing.Duration, &existing.CustomerName)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking overlap: %w", err)
	}

	who := ""
	if existing.CustomerName != "" {
		who = " " + existing.CustomerName
	}
	return fmt.Errorf("%w: conflicts with #%d%s (%s)",
		booking.ErrSlotTaken, id, who, existing.TimeRange())
}

// parseDate parses a date string in the formats SQLite might return.
// Date-only values are parsed as local midnight to match dateutil.ParseDate.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateutil.DateLayout, s, time.Local); err == nil {
		return t, nil
	}

	// DATE columns may come back as "2006-01-02T00:00:00Z": keep the calendar day.
	if len(s) == 20 && s[10] == 'T' && s[19] == 'Z' && s[11:19] == "00:00:00" {
		if t, err := time.ParseInLocation(dateutil.DateLayout, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
