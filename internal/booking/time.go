package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultDurationMinutes is used when a duration string cannot be parsed.
const DefaultDurationMinutes = 30

var durationPattern = regexp.MustCompile(`(\d+)\s*min`)

// To24Hour normalizes a wall-clock label to "HH:MM".
// It accepts 24-hour input ("14:30", "9:05") and 12-hour input ("2:15 PM", "12:00am").
// Labels that cannot be parsed are returned unchanged.
func To24Hour(label string) string {
	mins := TimeToMinutes(label)
	if mins < 0 {
		return label
	}
	return MinutesToTime(mins)
}

// TimeToMinutes converts a 24-hour or 12-hour label to minutes since midnight.
// Returns -1 for invalid input.
func TimeToMinutes(label string) int {
	s := strings.ToUpper(strings.TrimSpace(label))
	if s == "" {
		return -1
	}

	meridiem := ""
	switch {
	case strings.HasSuffix(s, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(s, "PM"):
		meridiem = "PM"
	}
	if meridiem != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, meridiem))
	}

	hourPart, minPart, ok := strings.Cut(s, ":")
	if !ok {
		// "2PM" style labels carry no minutes.
		if meridiem == "" {
			return -1
		}
		hourPart, minPart = s, "00"
	}
	if len(minPart) != 2 || len(hourPart) == 0 || len(hourPart) > 2 {
		return -1
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return -1
	}
	minute, err := strconv.Atoi(minPart)
	if err != nil || minute < 0 || minute > 59 {
		return -1
	}

	switch meridiem {
	case "AM", "PM":
		if hour < 1 || hour > 12 {
			return -1
		}
		hour %= 12
		if meridiem == "PM" {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return -1
		}
	}

	return hour*60 + minute
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDurationMinutes extracts the integer that precedes a "min" token
// ("30 min", "45mins", "90 minutes"). Anything else yields DefaultDurationMinutes.
func ParseDurationMinutes(text string) int {
	match := durationPattern.FindStringSubmatch(strings.ToLower(text))
	if match == nil {
		return DefaultDurationMinutes
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n <= 0 {
		return DefaultDurationMinutes
	}
	return n
}

// FormatDuration formats minutes the way durations are stored ("45 min").
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

// HumanDuration formats minutes as a short human-readable duration ("1h30m").
func HumanDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}
