package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.Local)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestParseRelativeDate(t *testing.T) {
	// Wednesday
	ref := time.Date(2025, 1, 15, 14, 30, 0, 0, time.Local)

	tests := []struct {
		input string
		want  string
	}{
		{"", "2025-01-15"},
		{"today", "2025-01-15"},
		{"Tomorrow", "2025-01-16"},
		{"yesterday", "2025-01-14"},
		{"friday", "2025-01-17"},
		{"wednesday", "2025-01-22"},
		{"monday", "2025-01-20"},
		{"2024-12-31", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, ref)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if FormatISO(got) != tt.want {
				t.Errorf("ParseRelativeDate(%q) = %s, want %s", tt.input, FormatISO(got), tt.want)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseRelativeDate("next-fortnight", ref)
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestShiftDays(t *testing.T) {
	ref := time.Date(2025, 3, 31, 18, 45, 0, 0, time.UTC)

	next := ShiftDays(ref, 1)
	if FormatISO(next) != "2025-04-01" || next.Hour() != 0 {
		t.Errorf("ShiftDays(+1) = %v", next)
	}
	prev := ShiftDays(ref, -1)
	if FormatISO(prev) != "2025-03-30" {
		t.Errorf("ShiftDays(-1) = %v", prev)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 15, 23, 59, 0, 0, time.Local)
	c := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(a, c) {
		t.Error("expected different days")
	}
}

func TestNewDateRange(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		wantDays int
		wantErr  error
	}{
		{"single day", "2025-03-12", "", 1, nil},
		{"three days", "2025-03-12", "2025-03-14", 3, nil},
		{"across months", "2025-03-31", "2025-04-01", 2, nil},
		{"end before start", "2025-03-12", "2025-03-11", 0, ErrEndDateBeforeStart},
		{"bad end", "2025-03-12", "soon", 0, ErrInvalidDateFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewDateRange(tt.start, tt.end)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewDateRange() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			days := r.Days()
			if len(days) != tt.wantDays {
				t.Fatalf("got %d days, want %d", len(days), tt.wantDays)
			}
			if FormatISO(days[0]) != tt.start {
				t.Errorf("first day = %s, want %s", FormatISO(days[0]), tt.start)
			}
		})
	}
}
