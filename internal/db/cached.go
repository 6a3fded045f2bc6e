package db

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/javiermolinar/salon/internal/booking"
	"github.com/javiermolinar/salon/internal/dateutil"
)

const staffKey = "staff"

// Cached wraps a Repository with a short-lived cache of the roster and of day
// listings. Writes made through it drop the entries they affect; writes made
// by other processes show up once entries expire.
type Cached struct {
	booking.Repository
	cache *cache.Cache
}

// NewCached caches reads from repo for ttl.
func NewCached(repo booking.Repository, ttl time.Duration) *Cached {
	return &Cached{
		Repository: repo,
		cache:      cache.New(ttl, 2*ttl),
	}
}

func dayKey(date time.Time) string {
	return "day:" + dateutil.FormatISO(date)
}

// ListAppointmentsByDate serves the day from cache when possible.
func (c *Cached) ListAppointmentsByDate(ctx context.Context, date time.Time) ([]*booking.Appointment, error) {
	if v, ok := c.cache.Get(dayKey(date)); ok {
		return v.([]*booking.Appointment), nil
	}
	appts, err := c.Repository.ListAppointmentsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.Set(dayKey(date), appts, cache.DefaultExpiration)
	return appts, nil
}

// ListStaff serves the roster from cache when possible.
func (c *Cached) ListStaff(ctx context.Context) ([]*booking.StaffMember, error) {
	if v, ok := c.cache.Get(staffKey); ok {
		return v.([]*booking.StaffMember), nil
	}
	staff, err := c.Repository.ListStaff(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(staffKey, staff, cache.DefaultExpiration)
	return staff, nil
}

func (c *Cached) CreateAppointment(ctx context.Context, a *booking.Appointment) error {
	err := c.Repository.CreateAppointment(ctx, a)
	c.cache.Delete(dayKey(a.Date))
	return err
}

// UpdateAppointmentStatus drops every cached day, since the appointment's
// date is not known here.
func (c *Cached) UpdateAppointmentStatus(ctx context.Context, id int64, status booking.Status) error {
	err := c.Repository.UpdateAppointmentStatus(ctx, id, status)
	c.cache.Flush()
	return err
}

func (c *Cached) CreateStaff(ctx context.Context, m *booking.StaffMember) error {
	err := c.Repository.CreateStaff(ctx, m)
	c.cache.Delete(staffKey)
	return err
}

func (c *Cached) SetStaffStatus(ctx context.Context, id string, status booking.StaffStatus) error {
	err := c.Repository.SetStaffStatus(ctx, id, status)
	c.cache.Delete(staffKey)
	return err
}

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() {
	c.cache.Flush()
}
