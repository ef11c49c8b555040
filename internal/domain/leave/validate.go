package leave

// ValidationCode classifies a working-time window check. The two
// outside-working-hours codes are advisory; the rest block submission.
type ValidationCode string

const (
	Valid                    ValidationCode = "VALID"
	InvalidTimeFormat        ValidationCode = "INVALID_TIME_FORMAT"
	StartOutsideWorkingHours ValidationCode = "START_OUTSIDE_WORKING_HOURS"
	EndOutsideWorkingHours   ValidationCode = "END_OUTSIDE_WORKING_HOURS"
	EndBeforeStart           ValidationCode = "END_BEFORE_START"
)

// Advisory reports whether a code should surface as a warning rather than
// block the request.
func (c ValidationCode) Advisory() bool {
	return c == StartOutsideWorkingHours || c == EndOutsideWorkingHours
}

// ValidateWindow checks the clock times of a single-day request against the
// configured working window. Multi-day spans are trivially valid; the window
// check only applies intraday.
func (s Schedule) ValidateWindow(startDate, endDate, startTime, endTime string) ValidationCode {
	if startDate == "" || endDate == "" || startDate != endDate {
		return Valid
	}
	if startTime == "" && endTime == "" {
		return Valid
	}
	startMin, err := ParseClock(startTime)
	if err != nil {
		return InvalidTimeFormat
	}
	endMin, err := ParseClock(endTime)
	if err != nil {
		return InvalidTimeFormat
	}
	if startMin < s.WorkdayStartMinutes || startMin > s.WorkdayEndMinutes {
		return StartOutsideWorkingHours
	}
	if endMin < s.WorkdayStartMinutes || endMin > s.WorkdayEndMinutes {
		return EndOutsideWorkingHours
	}
	if endMin <= startMin {
		return EndBeforeStart
	}
	return Valid
}
