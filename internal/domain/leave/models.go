package leave

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

const (
	BalancePrivilege = "PRIVILEGE"
	BalanceSick      = "SICK"
)

const (
	ChangeDeduction = "DEDUCTION"
	ChangeAddition  = "ADDITION"
)

// Application mirrors a leave_application record from the collection backend.
// Date fields are ISO YYYY-MM-DD strings, time fields HH:MM or empty.
type Application struct {
	ID            string  `json:"id"`
	ApplicationID string  `json:"application_id"`
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name,omitempty"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	LeaveType     string  `json:"leave_type"`
	Reason        string  `json:"reason,omitempty"`
	TotalHours    float64 `json:"total_hours"`
	TotalDays     float64 `json:"total_days"`
	Status        string  `json:"status"`
	ReturnDate    string  `json:"return_date,omitempty"`
}

// HistoryEntry is one row of the append-only leave_balance_history ledger.
type HistoryEntry struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	BalanceType     string  `json:"balance_type"`
	ChangeType      string  `json:"change_type"`
	ChangeAmount    float64 `json:"change_amount"`
	PreviousBalance float64 `json:"previous_balance"`
	NewBalance      float64 `json:"new_balance"`
	Reason          string  `json:"reason,omitempty"`
	ApplicationID   string  `json:"application_id"`
	ChangedBy       string  `json:"changed_by,omitempty"`
}

// Balance is an employee's per-category entitlement in days.
type Balance struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	BalanceType   string  `json:"balance_type"`
	AllocatedDays float64 `json:"allocated_days"`
	UsedDays      float64 `json:"used_days"`
	RemainingDays float64 `json:"remaining_days"`
	Year          int     `json:"year"`
}

type Holiday struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}

type Employee struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	Surname       string  `json:"surname"`
	PersonalEmail string  `json:"personal_email"`
	AnnualLeave   float64 `json:"annual_leave"`
	SickLeave     float64 `json:"sick_leave"`
}
