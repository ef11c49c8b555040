package leave

import (
	"math"
	"time"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TotalHours computes the billable hours for an inclusive date range.
// Weekend and holiday days contribute nothing; boundary days contribute their
// clock-time portion; every day is capped at the full-day quota. Missing or
// unparseable inputs and non-positive spans yield 0, which callers treat as
// "cannot compute".
func (s Schedule) TotalHours(cal *Calendar, startDate, endDate, startTime, endTime string) float64 {
	if startDate == "" || endDate == "" {
		return 0
	}
	startDay, err := ParseDay(startDate)
	if err != nil {
		return 0
	}
	endDay, err := ParseDay(endDate)
	if err != nil {
		return 0
	}

	if startTime == "" {
		startTime = s.DefaultStartTime
	}
	if endTime == "" {
		endTime = s.DefaultEndTime
	}
	startMin, err := ParseClock(startTime)
	if err != nil {
		return 0
	}
	endMin, err := ParseClock(endTime)
	if err != nil {
		return 0
	}

	start := startDay.Add(time.Duration(startMin) * time.Minute)
	end := endDay.Add(time.Duration(endMin) * time.Minute)
	if startDay.Equal(endDay) && !end.After(start) {
		return 0
	}
	if endDay.Before(startDay) {
		return 0
	}

	total := 0.0
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		if !IsWorkday(cal, day) {
			continue
		}
		first := day.Equal(startDay)
		last := day.Equal(endDay)

		var hours float64
		switch {
		case first && last:
			hours = end.Sub(start).Hours()
		case first:
			hours = day.AddDate(0, 0, 1).Sub(start).Hours()
		case last:
			hours = end.Sub(day).Hours()
		default:
			hours = s.WorkHoursPerDay
		}
		if hours < 0 {
			hours = 0
		}
		if hours > s.WorkHoursPerDay {
			hours = s.WorkHoursPerDay
		}
		total += hours
	}
	return round2(total)
}

// TotalDays converts the computed hours for a range into days at the
// full-day quota.
func (s Schedule) TotalDays(cal *Calendar, startDate, endDate, startTime, endTime string) float64 {
	return s.DaysForHours(s.TotalHours(cal, startDate, endDate, startTime, endTime))
}

// DaysForHours converts billable hours to days, rounded to 2 decimals.
func (s Schedule) DaysForHours(hours float64) float64 {
	if s.WorkHoursPerDay <= 0 {
		return 0
	}
	return round2(hours / s.WorkHoursPerDay)
}

// HoursForApplication derives an application's total hours, preferring the
// stored value, then the stored day count, then a fresh computation from its
// date range. Stored records predating the hours field lack both numbers.
func (s Schedule) HoursForApplication(cal *Calendar, app Application) float64 {
	if app.TotalHours > 0 && !math.IsInf(app.TotalHours, 0) && !math.IsNaN(app.TotalHours) {
		return round2(app.TotalHours)
	}
	if app.TotalDays > 0 && !math.IsInf(app.TotalDays, 0) && !math.IsNaN(app.TotalDays) {
		return round2(app.TotalDays * s.WorkHoursPerDay)
	}
	return s.TotalHours(cal, app.StartDate, app.EndDate, app.StartTime, app.EndTime)
}
