package leavehandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/backend"
	"leavedesk/internal/platform/jobs"
)

// fakeBackend serves the record collections the handlers read and captures
// the writes they make.
type fakeBackend struct {
	applications []leave.Application
	balances     []leave.Balance
	history      []leave.HistoryEntry
	holidays     []leave.Holiday

	createdApps    []leave.Application
	updatedApps    []map[string]string
	updatedBalance *leave.Balance
	createdEntries []leave.HistoryEntry
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	mux.Get("/api/leave_application", func(w http.ResponseWriter, r *http.Request) {
		out := f.applications
		if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
			out = nil
			for _, app := range f.applications {
				if app.EmployeeID == employeeID {
					out = append(out, app)
				}
			}
		}
		json.NewEncoder(w).Encode(out)
	})
	mux.Post("/api/leave_application", func(w http.ResponseWriter, r *http.Request) {
		var app leave.Application
		if err := json.NewDecoder(r.Body).Decode(&app); err != nil {
			t.Fatalf("decode application: %v", err)
		}
		app.ID = "created-1"
		f.createdApps = append(f.createdApps, app)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(app)
	})
	mux.Put("/api/leave_application/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode status update: %v", err)
		}
		body["id"] = chi.URLParam(r, "id")
		f.updatedApps = append(f.updatedApps, body)
		w.Write([]byte("{}"))
	})
	mux.Get("/api/leave_balance", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.balances)
	})
	mux.Put("/api/leave_balance/{id}", func(w http.ResponseWriter, r *http.Request) {
		var balance leave.Balance
		if err := json.NewDecoder(r.Body).Decode(&balance); err != nil {
			t.Fatalf("decode balance update: %v", err)
		}
		f.updatedBalance = &balance
		w.Write([]byte("{}"))
	})
	mux.Get("/api/leave_balance_history", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.history)
	})
	mux.Post("/api/leave_balance_history", func(w http.ResponseWriter, r *http.Request) {
		var entry leave.HistoryEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			t.Fatalf("decode history entry: %v", err)
		}
		f.createdEntries = append(f.createdEntries, entry)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entry)
	})
	mux.Get("/api/holiday", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(f.holidays)
	})
	return mux
}

func newTestHandler(t *testing.T, fake *fakeBackend) (*Handler, chi.Router) {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	client := backend.New(srv.URL, 2*time.Second)
	calendar := leave.NewCalendar()
	h := NewHandler(leave.DefaultSchedule(), calendar, client, jobs.New(client, calendar))

	router := chi.NewRouter()
	h.RegisterRoutes(router)
	return h, router
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got error %+v", envelope.Error)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func postJSON(t *testing.T, router chi.Router, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDurationPreview(t *testing.T) {
	_, router := newTestHandler(t, &fakeBackend{})

	rec := postJSON(t, router, "/leave/duration", durationRequest{
		StartDate: "2023-10-02",
		EndDate:   "2023-10-05",
		StartTime: "08:00",
		EndTime:   "17:00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var got durationResponse
	decodeData(t, rec, &got)
	if got.TotalHours != 32 || got.TotalDays != 4 {
		t.Fatalf("unexpected duration %+v", got)
	}
	// Full days booked, so the return rolls to the next workday.
	if got.ReturnDate != "2023-10-06" {
		t.Fatalf("unexpected return date %q", got.ReturnDate)
	}
}

func TestValidateAdvisoryAndBlocking(t *testing.T) {
	_, router := newTestHandler(t, &fakeBackend{})

	rec := postJSON(t, router, "/leave/validate", durationRequest{
		StartDate: "2023-10-02", EndDate: "2023-10-02",
		StartTime: "05:00", EndTime: "10:00",
	})
	var got validateResponse
	decodeData(t, rec, &got)
	if got.Code != leave.StartOutsideWorkingHours || !got.Advisory || got.Blocking {
		t.Fatalf("unexpected validation %+v", got)
	}

	rec = postJSON(t, router, "/leave/validate", durationRequest{
		StartDate: "2023-10-02", EndDate: "2023-10-02",
		StartTime: "10:00", EndTime: "09:00",
	})
	decodeData(t, rec, &got)
	if got.Code != leave.EndBeforeStart || got.Advisory || !got.Blocking {
		t.Fatalf("unexpected validation %+v", got)
	}
}

func TestCreateApplicationComputesAndStores(t *testing.T) {
	fake := &fakeBackend{}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications", createApplicationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-02",
		EndDate:    "2023-10-06",
		LeaveType:  "personal",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var got leave.Application
	decodeData(t, rec, &got)
	if got.TotalHours != 40 || got.TotalDays != 5 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.Status != leave.StatusPending {
		t.Fatalf("unexpected status %q", got.Status)
	}
	if !strings.HasPrefix(got.ApplicationID, "APP-") {
		t.Fatalf("unexpected application id %q", got.ApplicationID)
	}
	// Full week off ending Friday: back on Monday.
	if got.ReturnDate != "2023-10-09" {
		t.Fatalf("unexpected return date %q", got.ReturnDate)
	}
	if len(fake.createdApps) != 1 {
		t.Fatalf("expected one stored application, got %d", len(fake.createdApps))
	}
}

func TestCreateApplicationRejectsBlockingWindow(t *testing.T) {
	fake := &fakeBackend{}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications", createApplicationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-02",
		EndDate:    "2023-10-02",
		StartTime:  "10:00",
		EndTime:    "09:00",
		LeaveType:  "personal",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.createdApps) != 0 {
		t.Fatal("blocking validation must not store anything")
	}
}

func TestCreateLeaveWithoutPayBlockedWhilePrivilegeRemains(t *testing.T) {
	fake := &fakeBackend{
		balances: []leave.Balance{{ID: "b1", EmployeeID: "emp-1", BalanceType: leave.BalancePrivilege, RemainingDays: 10}},
	}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications", createApplicationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-02",
		EndDate:    "2023-10-03",
		LeaveType:  "leave-without-pay",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "leave_without_pay_blocked") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestCreateCashOutExceedingBalanceRejected(t *testing.T) {
	fake := &fakeBackend{
		balances: []leave.Balance{{ID: "b1", EmployeeID: "emp-1", BalanceType: leave.BalancePrivilege, RemainingDays: 1}},
	}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications", createApplicationRequest{
		EmployeeID: "emp-1",
		StartDate:  "2023-10-02",
		EndDate:    "2023-10-03",
		LeaveType:  "cash-out",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "exceeds remaining Vacation Leave (VL)") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestHistoryReconcilesLedger(t *testing.T) {
	fake := &fakeBackend{
		applications: []leave.Application{{
			ID:         "app-1",
			EmployeeID: "emp-1",
			LeaveType:  "personal",
			TotalHours: 56,
			Status:     leave.StatusApproved,
		}},
		history: []leave.HistoryEntry{{
			ID:              "h1",
			EmployeeID:      "emp-1",
			BalanceType:     leave.BalancePrivilege,
			ChangeType:      leave.ChangeDeduction,
			ChangeAmount:    -5,
			PreviousBalance: 5,
			ApplicationID:   "app-1",
		}},
	}
	_, router := newTestHandler(t, fake)

	req := httptest.NewRequest(http.MethodGet, "/leave/history?employee_id=emp-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	var got []historyEntry
	decodeData(t, rec, &got)
	if len(got) != 1 {
		t.Fatalf("expected one entry, got %d", len(got))
	}
	if got[0].PaidHours != 40 || got[0].UnpaidHours != 16 {
		t.Fatalf("unexpected split %+v", got[0])
	}
	if got[0].LeaveTypeLabel != "Personal Leave" {
		t.Fatalf("unexpected label %q", got[0].LeaveTypeLabel)
	}
}

func TestApproveDeductsBalanceAndWritesLedger(t *testing.T) {
	fake := &fakeBackend{
		applications: []leave.Application{{
			ID:         "app-1",
			EmployeeID: "emp-1",
			LeaveType:  "sick",
			StartDate:  "2023-10-02",
			EndDate:    "2023-10-03",
			TotalHours: 16,
			Status:     leave.StatusPending,
		}},
		balances: []leave.Balance{{ID: "b1", EmployeeID: "emp-1", BalanceType: leave.BalanceSick, RemainingDays: 5}},
	}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications/app-1/approve", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}

	if fake.updatedBalance == nil {
		t.Fatal("expected a balance update")
	}
	if fake.updatedBalance.RemainingDays != 3 || fake.updatedBalance.UsedDays != 2 {
		t.Fatalf("unexpected balance %+v", fake.updatedBalance)
	}
	if len(fake.createdEntries) != 1 {
		t.Fatalf("expected one ledger entry, got %d", len(fake.createdEntries))
	}
	entry := fake.createdEntries[0]
	if entry.ChangeType != leave.ChangeDeduction || entry.ChangeAmount != -2 || entry.PreviousBalance != 5 {
		t.Fatalf("unexpected ledger entry %+v", entry)
	}
	if len(fake.updatedApps) != 1 || fake.updatedApps[0]["status"] != leave.StatusApproved {
		t.Fatalf("unexpected status update %+v", fake.updatedApps)
	}
	// Tuesday end with no clock info: full-day request returns Wednesday.
	if fake.updatedApps[0]["return_date"] != "2023-10-04" {
		t.Fatalf("unexpected return date %q", fake.updatedApps[0]["return_date"])
	}
}

func TestRejectOnlyFlipsStatus(t *testing.T) {
	fake := &fakeBackend{
		applications: []leave.Application{{
			ID:         "app-1",
			EmployeeID: "emp-1",
			LeaveType:  "sick",
			TotalHours: 16,
			Status:     leave.StatusPending,
		}},
	}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications/app-1/reject", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if fake.updatedBalance != nil || len(fake.createdEntries) != 0 {
		t.Fatal("reject must not touch balances")
	}
	if len(fake.updatedApps) != 1 || fake.updatedApps[0]["status"] != leave.StatusRejected {
		t.Fatalf("unexpected status update %+v", fake.updatedApps)
	}
}

func TestResolveAlreadyResolvedConflicts(t *testing.T) {
	fake := &fakeBackend{
		applications: []leave.Application{{ID: "app-1", Status: leave.StatusApproved}},
	}
	_, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/leave/applications/app-1/approve", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRefreshHolidaysLoadsCalendar(t *testing.T) {
	fake := &fakeBackend{
		holidays: []leave.Holiday{{ID: "1", Date: "2023-12-25", Name: "Christmas"}},
	}
	h, router := newTestHandler(t, fake)

	rec := postJSON(t, router, "/holidays/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if !h.Calendar.Contains("2023-12-25") {
		t.Fatal("expected refreshed calendar to contain the holiday")
	}
}
