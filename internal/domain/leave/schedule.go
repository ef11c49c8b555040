package leave

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// Schedule is the working-time policy every calculation runs against. It is
// built from configuration rather than package constants so alternate
// policies can be exercised in tests.
type Schedule struct {
	WorkHoursPerDay     float64
	WorkdayStartMinutes int
	WorkdayEndMinutes   int
	DefaultStartTime    string
	DefaultEndTime      string
}

// DefaultSchedule is the 06:30-15:00 eight-hour policy of the original system.
func DefaultSchedule() Schedule {
	return Schedule{
		WorkHoursPerDay:     8,
		WorkdayStartMinutes: 6*60 + 30,
		WorkdayEndMinutes:   15 * 60,
		DefaultStartTime:    "00:00",
		DefaultEndTime:      "23:59",
	}
}

var errBadClock = errors.New("invalid clock time")

// ParseDay parses an ISO YYYY-MM-DD date in UTC.
func ParseDay(value string) (time.Time, error) {
	return time.Parse(isoDate, value)
}

// ParseClock parses a 24-hour HH:MM string into minutes from midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, errBadClock
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errBadClock
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errBadClock
	}
	if hours < 0 || hours >= 24 || minutes < 0 || minutes >= 60 {
		return 0, errBadClock
	}
	return hours*60 + minutes, nil
}

// IsWorkday reports whether the day is neither a weekend nor a calendar holiday.
func IsWorkday(cal *Calendar, day time.Time) bool {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return cal == nil || !cal.Contains(day.Format(isoDate))
}

// NextWorkday returns the first working day strictly after the given ISO date,
// or "" when the input does not parse.
func NextWorkday(cal *Calendar, date string) string {
	day, err := ParseDay(date)
	if err != nil {
		return ""
	}
	for {
		day = day.AddDate(0, 0, 1)
		if IsWorkday(cal, day) {
			return day.Format(isoDate)
		}
	}
}
