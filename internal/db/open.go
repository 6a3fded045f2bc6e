package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/salon/internal/booking"
)

// Open returns the repository for driver. target is a file path for "sqlite"
// and a connection string for "postgres".
func Open(ctx context.Context, driver, target string) (booking.Repository, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite":
		return New(target)
	case "postgres":
		return NewPostgres(ctx, target)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}
