package leave

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLeaveWithoutPayBlocked rejects an unpaid-leave request that still fits
// inside the remaining privilege balance: paid leave must be used first.
var ErrLeaveWithoutPayBlocked = errors.New(
	"you still have Privilege Leave remaining; use your available Privilege Leave before applying for Leave Without Pay")

var sickBalanceTypes = map[string]struct{}{
	"sick":                {},
	"medical appointment": {},
}

// BalanceTypeForLeaveType routes a leave type to the balance category it
// consumes. Sick and medical-appointment leave draw from the sick balance,
// everything else from privilege leave.
func BalanceTypeForLeaveType(leaveType string) string {
	if _, ok := sickBalanceTypes[NormalizeLeaveType(leaveType)]; ok {
		return BalanceSick
	}
	return BalancePrivilege
}

// AdjustsBalance reports whether approving an application of this type moves
// a balance at all. Leave without pay never does.
func AdjustsBalance(leaveType string) bool {
	return NormalizeLeaveType(leaveType) != leaveWithoutPay
}

// RemainingDays sums the remaining entitlement of one balance category.
func RemainingDays(balances []Balance, balanceType string) float64 {
	var remaining float64
	for _, b := range balances {
		if b.BalanceType == balanceType {
			remaining += b.RemainingDays
		}
	}
	return remaining
}

// EnsureLeaveWithoutPayAllowed gates a leave-without-pay request: it is only
// permitted once the requested days exceed the remaining privilege balance.
func EnsureLeaveWithoutPayAllowed(balances []Balance, requestedDays float64) error {
	if requestedDays <= 0 {
		return nil
	}
	if requestedDays <= RemainingDays(balances, BalancePrivilege) {
		return ErrLeaveWithoutPayBlocked
	}
	return nil
}

// EnsureCashOutBalance gates a cash-out request against the remaining
// privilege balance. preferredUnit selects whether requestedDays or
// requestedHours (converted at the full-day quota) drives the check.
func (s Schedule) EnsureCashOutBalance(balances []Balance, requestedDays, requestedHours float64, preferredUnit string) error {
	days := requestedDays
	if preferredUnit == "hours" && s.WorkHoursPerDay > 0 {
		days = requestedHours / s.WorkHoursPerDay
	}
	if days <= 0 {
		return nil
	}
	remaining := RemainingDays(balances, BalancePrivilege)
	if days > remaining {
		return fmt.Errorf("cash-out request of %.2f day(s) exceeds remaining Vacation Leave (VL) balance of %.2f day(s)", days, remaining)
	}
	return nil
}

var leaveTypeLabels = map[string]string{
	"leave without pay":   "Unpaid Leave",
	"vacation annual":     "Vacation / Annual Leave",
	"vacation leave":      "Vacation / Annual Leave",
	"annual leave":        "Vacation / Annual Leave",
	"personal":            "Personal Leave",
	"sick":                "Sick Leave",
	"medical appointment": "Medical Appointment",
	"cash out":            "Cash-Out",
	"family emergency":    "Family Emergency",
	"bereavement":         "Bereavement",
	"maternity paternity": "Maternity / Paternity",
	"study exam":          "Study / Exam Leave",
	"childcare":           "Childcare",
	"jury duty":           "Jury Duty",
}

// DisplayLeaveType maps a stored leave-type value to its human-facing label.
// Unknown types are title-cased from their normalized form.
func DisplayLeaveType(leaveType string) string {
	normalized := NormalizeLeaveType(leaveType)
	if label, ok := leaveTypeLabels[normalized]; ok {
		return label
	}
	words := strings.Fields(normalized)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
