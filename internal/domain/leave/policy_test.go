package leave

import (
	"errors"
	"strings"
	"testing"
)

func TestBalanceTypeForLeaveType(t *testing.T) {
	cases := map[string]string{
		"personal":            BalancePrivilege,
		"vacation-annual":     BalancePrivilege,
		"cash-out":            BalancePrivilege,
		"family-emergency":    BalancePrivilege,
		"bereavement":         BalancePrivilege,
		"maternity-paternity": BalancePrivilege,
		"study-exam":          BalancePrivilege,
		"childcare":           BalancePrivilege,
		"jury-duty":           BalancePrivilege,
		"leave-without-pay":   BalancePrivilege,
		"other":               BalancePrivilege,
		"sick":                BalanceSick,
		"medical-appointment": BalanceSick,
	}
	for leaveType, want := range cases {
		if got := BalanceTypeForLeaveType(leaveType); got != want {
			t.Fatalf("BalanceTypeForLeaveType(%q) = %q, want %q", leaveType, got, want)
		}
	}
}

func TestAdjustsBalance(t *testing.T) {
	if AdjustsBalance("leave-without-pay") {
		t.Fatal("leave without pay must never adjust balances")
	}
	if !AdjustsBalance("sick") || !AdjustsBalance("personal") {
		t.Fatal("regular leave types must adjust balances")
	}
}

func TestEnsureLeaveWithoutPayAllowed(t *testing.T) {
	balances := []Balance{
		{EmployeeID: "emp-1", BalanceType: BalancePrivilege, RemainingDays: 10},
		{EmployeeID: "emp-1", BalanceType: BalanceSick, RemainingDays: 5},
	}

	err := EnsureLeaveWithoutPayAllowed(balances, 1)
	if !errors.Is(err, ErrLeaveWithoutPayBlocked) {
		t.Fatalf("expected rejection while privilege leave remains, got %v", err)
	}

	if err := EnsureLeaveWithoutPayAllowed(balances, 11); err != nil {
		t.Fatalf("request beyond remaining balance must be allowed: %v", err)
	}
	if err := EnsureLeaveWithoutPayAllowed(nil, 1); err != nil {
		t.Fatalf("no balances means nothing to use first: %v", err)
	}
}

func TestEnsureCashOutBalance(t *testing.T) {
	s := DefaultSchedule()
	balances := []Balance{{EmployeeID: "emp-1", BalanceType: BalancePrivilege, RemainingDays: 1}}

	err := s.EnsureCashOutBalance(balances, 2, 16, "days")
	if err == nil || !strings.Contains(err.Error(), "exceeds remaining Vacation Leave (VL)") {
		t.Fatalf("expected cash-out rejection, got %v", err)
	}

	if err := s.EnsureCashOutBalance(balances, 1, 0, "days"); err != nil {
		t.Fatalf("cash-out within balance must pass: %v", err)
	}

	// Hours drive the check when the preferred unit says so.
	if err := s.EnsureCashOutBalance(balances, 0, 16, "hours"); err == nil {
		t.Fatal("expected rejection for 16 hours against a 1-day balance")
	}
	if err := s.EnsureCashOutBalance(balances, 0, 8, "hours"); err != nil {
		t.Fatalf("8 hours fits a 1-day balance: %v", err)
	}
}

func TestDisplayLeaveType(t *testing.T) {
	if got := DisplayLeaveType("Leave Without Pay"); got != "Unpaid Leave" {
		t.Fatalf("expected Unpaid Leave, got %q", got)
	}
	if got := DisplayLeaveType("sick"); got != "Sick Leave" {
		t.Fatalf("expected Sick Leave, got %q", got)
	}
	if got := DisplayLeaveType("sabbatical-break"); got != "Sabbatical Break" {
		t.Fatalf("expected title-cased fallback, got %q", got)
	}
}
