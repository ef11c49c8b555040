package leave

// ReturnDate resolves the date an employee is expected back. A partial day
// means they return later the same day, unless the request runs to the close
// of the working day, in which case the return rolls to the next working day.
// endTime may be empty when the caller has no clock information.
func (s Schedule) ReturnDate(cal *Calendar, endDate string, totalHours float64, endTime string) string {
	if endDate == "" {
		return ""
	}
	if _, err := ParseDay(endDate); err != nil {
		return ""
	}

	partial := totalHours > 0 && totalHours < s.WorkHoursPerDay
	if partial && !s.endsAtClose(endTime) {
		return endDate
	}
	return NextWorkday(cal, endDate)
}

func (s Schedule) endsAtClose(endTime string) bool {
	if endTime == "" {
		return false
	}
	minutes, err := ParseClock(endTime)
	if err != nil {
		return false
	}
	return minutes >= s.WorkdayEndMinutes
}
