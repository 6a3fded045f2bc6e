package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

// Postgres implements booking.Repository on a PostgreSQL pool, for branches
// that share one calendar database.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ booking.Repository = (*Postgres)(nil)

// NewPostgres connects to dsn and runs migrations.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	return newPostgres(ctx, cfg)
}

func newPostgres(ctx context.Context, cfg *pgxpool.Config) (*Postgres, error) {
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return p, nil
}

// CreateAppointment adds a new appointment.
// Returns booking.ErrSlotTaken if a live appointment of the same staff member overlaps it.
func (p *Postgres) CreateAppointment(ctx context.Context, a *booking.Appointment) error {
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

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if a.Status.Live() {
		if err := pgCheckOverlap(ctx, tx, a, 0); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO appointments (
			staff_id, staff_name, appt_date, start_time, duration,
			start_minutes, duration_minutes, status,
			customer_name, service_name, phone, notes, branch, created_at
		) VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`,
		a.StaffID,
		a.StaffName,
		dateutil.FormatISO(a.Date),
		a.StartTime,
		a.Duration,
		start,
		a.DurationMinutes(),
		string(a.Status),
		a.CustomerName,
		a.ServiceName,
		a.Phone,
		a.Notes,
		a.Branch,
		a.CreatedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("inserting appointment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetAppointment retrieves an appointment by ID.
func (p *Postgres) GetAppointment(ctx context.Context, id int64) (*booking.Appointment, error) {
	query := `SELECT ` + pgAppointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := pgScanAppointment(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("appointment %d: %w", id, booking.ErrAppointmentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying appointment: %w", err)
	}
	return a, nil
}

// ListAppointmentsByDate returns every appointment on the given day, ordered by start time.
func (p *Postgres) ListAppointmentsByDate(ctx context.Context, date time.Time) ([]*booking.Appointment, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+pgAppointmentColumns+`
		FROM appointments
		WHERE appt_date = $1::date
		ORDER BY start_minutes, id
	`, dateutil.FormatISO(date))
	if err != nil {
		return nil, fmt.Errorf("querying appointments: %w", err)
	}
	defer rows.Close()

	var appts []*booking.Appointment
	for rows.Next() {
		a, err := pgScanAppointment(rows)
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
func (p *Postgres) UpdateAppointmentStatus(ctx context.Context, id int64, status booking.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", booking.ErrInvalidStatus, status)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `SELECT ` + pgAppointmentColumns + ` FROM appointments WHERE id = $1 FOR UPDATE`
	current, err := pgScanAppointment(tx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("appointment %d: %w", id, booking.ErrAppointmentNotFound)
	}
	if err != nil {
		return fmt.Errorf("querying appointment: %w", err)
	}

	if status.Live() && !current.Status.Live() {
		if err := pgCheckOverlap(ctx, tx, current, id); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE appointments SET status = $1 WHERE id = $2`, string(status), id); err != nil {
		return fmt.Errorf("updating appointment status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateStaff adds a staff member. Names are unique ignoring case.
func (p *Postgres) CreateStaff(ctx context.Context, m *booking.StaffMember) error {
	if m.Status == "" {
		m.Status = booking.StaffActive
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO staff (id, name, role, avatar_url, status) VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.Name, m.Role, m.AvatarURL, string(m.Status))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %q", booking.ErrDuplicateStaff, m.Name)
	}
	if err != nil {
		return fmt.Errorf("inserting staff: %w", err)
	}
	return nil
}

// ListStaff returns every staff member in creation order.
func (p *Postgres) ListStaff(ctx context.Context) ([]*booking.StaffMember, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, role, avatar_url, status
		FROM staff
		ORDER BY created_at, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying staff: %w", err)
	}
	defer rows.Close()

	var staff []*booking.StaffMember
	for rows.Next() {
		var (
			m      booking.StaffMember
			status string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.AvatarURL, &status); err != nil {
			return nil, fmt.Errorf("scanning staff: %w", err)
		}
		m.Status = booking.StaffStatus(status)
		staff = append(staff, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff: %w", err)
	}
	return staff, nil
}

// SetStaffStatus activates or deactivates a staff member.
func (p *Postgres) SetStaffStatus(ctx context.Context, id string, status booking.StaffStatus) error {
	tag, err := p.pool.Exec(ctx, `UPDATE staff SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating staff status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("staff %s: %w", id, booking.ErrStaffNotFound)
	}
	return nil
}

// Close releases the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS staff (
			seq         BIGSERIAL,
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			role        TEXT NOT NULL DEFAULT '',
			avatar_url  TEXT NOT NULL DEFAULT '',
			status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive')),
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_staff_name ON staff (lower(name));

		CREATE TABLE IF NOT EXISTS appointments (
			id               BIGSERIAL PRIMARY KEY,
			staff_id         TEXT NOT NULL DEFAULT '',
			staff_name       TEXT NOT NULL,
			appt_date        DATE NOT NULL,
			start_time       TEXT NOT NULL,
			duration         TEXT NOT NULL,
			start_minutes    INTEGER NOT NULL,
			duration_minutes INTEGER NOT NULL,
			status           TEXT NOT NULL DEFAULT 'scheduled',
			customer_name    TEXT NOT NULL DEFAULT '',
			service_name     TEXT NOT NULL DEFAULT '',
			phone            TEXT NOT NULL DEFAULT '',
			notes            TEXT NOT NULL DEFAULT '',
			branch           TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments (appt_date);
		CREATE INDEX IF NOT EXISTS idx_appointments_staff ON appointments (appt_date, staff_name);
	`
	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// appt_date is read back as text so the calendar day is kept in the local zone.
const pgAppointmentColumns = `
	id, staff_id, staff_name, appt_date::text, start_time, duration, status,
	customer_name, service_name, phone, notes, branch, created_at`

func pgScanAppointment(row pgx.Row) (*booking.Appointment, error) {
	var (
		a        booking.Appointment
		apptDate string
		status   string
	)
	err := row.Scan(
		&a.ID,
		&a.StaffID,
		&a.StaffName,
		&apptDate,
		&a.StartTime,
		&a.Duration,
		&status,
		&a.CustomerName,
		&a.ServiceName,
		&a.Phone,
		&a.Notes,
		&a.Branch,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = booking.Status(status)

	a.Date, err = parseDate(apptDate)
	if err != nil {
		return nil, fmt.Errorf("parsing appointment date: %w", err)
	}
	return &a, nil
}

// pgCheckOverlap serializes bookings per staff member and day with an advisory
// lock held until the transaction ends, then looks for a live overlapping row.
func pgCheckOverlap(ctx context.Context, tx pgx.Tx, a *booking.Appointment, excludeID int64) error {
	date := dateutil.FormatISO(a.Date)
	key := date + "/" + strings.ToLower(a.StaffName)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("locking staff day: %w", err)
	}

	start, _ := a.StartMinutes()
	end := start + a.DurationMinutes()

	var (
		id       int64
		existing booking.Appointment
	)
	err := tx.QueryRow(ctx, `
		SELECT id, start_time, duration, customer_name
		FROM appointments
		WHERE appt_date = $1::date
		  AND id <> $2
		  AND status NOT IN ($3, $4)
		  AND (lower(staff_name) = lower($5) OR ($6 <> '' AND staff_id = $6))
		  AND start_minutes < $7
		  AND start_minutes + duration_minutes > $8
		ORDER BY start_minutes
		LIMIT 1
	`,
		date,
		excludeID,
		string(booking.StatusCancelled),
		string(booking.StatusRejected),
		a.StaffName,
		a.StaffID,
		end,
		start,
	).Scan(&id, &existing.StartTime, &existing.Duration, &existing.CustomerName)

	if errors.Is(err, pgx.ErrNoRows) {
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
