package leave

import (
	"math"
	"strings"
)

// Split partitions an application's hours into the portion covered by an
// available balance and the portion that exceeded it.
type Split struct {
	PaidHours   float64 `json:"paid_hours"`
	UnpaidHours float64 `json:"unpaid_hours"`
}

const leaveWithoutPay = "leave without pay"

// unpaidEpsilon is the threshold under which a computed unpaid amount is
// treated as zero when applying the leave-without-pay override.
const unpaidEpsilon = 0.01

// NormalizeLeaveType folds a leave-type value ("Leave Without Pay",
// "leave-without-pay", "LEAVE_WITHOUT_PAY") to a canonical spaced lowercase
// form for comparisons.
func NormalizeLeaveType(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(value)
	return strings.Join(strings.Fields(value), " ")
}

// LedgerSplits replays deduction entries of the balance-history ledger into
// per-application paid/unpaid hour totals. Entries are filtered to DEDUCTION
// changes against the PRIVILEGE or SICK balances, and to one employee when
// employeeID is non-empty. Multiple entries for the same application sum.
// Malformed amounts are skipped so one bad row cannot poison the rest.
func (s Schedule) LedgerSplits(entries []HistoryEntry, employeeID string) map[string]Split {
	splits := make(map[string]Split)
	for _, e := range entries {
		if employeeID != "" && e.EmployeeID != employeeID {
			continue
		}
		if e.ChangeType != ChangeDeduction {
			continue
		}
		if e.BalanceType != BalancePrivilege && e.BalanceType != BalanceSick {
			continue
		}
		if e.ApplicationID == "" {
			continue
		}

		requested := math.Abs(e.ChangeAmount)
		if requested == 0 || math.IsNaN(requested) || math.IsInf(requested, 0) {
			continue
		}
		available := e.PreviousBalance
		if math.IsNaN(available) || math.IsInf(available, 0) || available < 0 {
			available = 0
		}

		paid := math.Min(requested, available)
		unpaid := requested - paid
		if unpaid < 0 {
			unpaid = 0
		}

		split := splits[e.ApplicationID]
		split.PaidHours += paid * s.WorkHoursPerDay
		split.UnpaidHours += unpaid * s.WorkHoursPerDay
		splits[e.ApplicationID] = split
	}
	return splits
}

// Annotate resolves the paid/unpaid hours of one application against the
// replayed ledger. Splits are matched by internal id first, then by the
// human-facing application identifier. Without a match the application is
// fully paid, except that a leave-without-pay application whose computed
// unpaid portion is effectively zero is forced to fully unpaid regardless of
// the ledger.
func (s Schedule) Annotate(cal *Calendar, app Application, splits map[string]Split) Split {
	total := s.HoursForApplication(cal, app)

	split, ok := splits[app.ID]
	if !ok {
		split, ok = splits[app.ApplicationID]
	}

	var paid, unpaid float64
	if ok {
		paid = split.PaidHours
		unpaid = split.UnpaidHours
		if remainder := total - paid; remainder > unpaid {
			unpaid = remainder
		}
		if unpaid < 0 {
			unpaid = 0
		}
	} else {
		paid = total
		unpaid = 0
	}

	if NormalizeLeaveType(app.LeaveType) == leaveWithoutPay && unpaid <= unpaidEpsilon {
		paid = 0
		unpaid = total
	}
	return Split{PaidHours: round2(paid), UnpaidHours: round2(unpaid)}
}

// AnnotateAll reconciles a set of applications against the ledger in one
// pass. The result depends only on the inputs; re-running it over the same
// ledger and applications yields identical output.
func (s Schedule) AnnotateAll(cal *Calendar, apps []Application, entries []HistoryEntry, employeeID string) map[string]Split {
	splits := s.LedgerSplits(entries, employeeID)
	out := make(map[string]Split, len(apps))
	for _, app := range apps {
		key := app.ID
		if key == "" {
			key = app.ApplicationID
		}
		out[key] = s.Annotate(cal, app, splits)
	}
	return out
}
