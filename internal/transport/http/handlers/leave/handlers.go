package leavehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"leavedesk/internal/domain/leave"
	"leavedesk/internal/platform/backend"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	"leavedesk/internal/transport/http/middleware"
)

type Handler struct {
	Schedule leave.Schedule
	Calendar *leave.Calendar
	Backend  *backend.Client
	Jobs     *jobs.Service
}

func NewHandler(schedule leave.Schedule, calendar *leave.Calendar, client *backend.Client, jobsSvc *jobs.Service) *Handler {
	return &Handler{Schedule: schedule, Calendar: calendar, Backend: client, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.Post("/duration", h.handleDuration)
		r.Post("/validate", h.handleValidate)
		r.Get("/return-date", h.handleReturnDate)
		r.Get("/history", h.handleHistory)
		r.Get("/balances", h.handleListBalances)
		r.Get("/applications", h.handleListApplications)
		r.Post("/applications", h.handleCreateApplication)
		r.Post("/applications/{applicationID}/approve", h.handleApproveApplication)
		r.Post("/applications/{applicationID}/reject", h.handleRejectApplication)
	})
	r.Route("/holidays", func(r chi.Router) {
		r.Get("/", h.handleListHolidays)
		r.Post("/", h.handleCreateHoliday)
		r.Post("/refresh", h.handleRefreshHolidays)
	})
}

type durationRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type durationResponse struct {
	TotalHours float64 `json:"total_hours"`
	TotalDays  float64 `json:"total_days"`
	ReturnDate string  `json:"return_date"`
}

// handleDuration previews the billable span of a date range without
// creating anything.
func (h *Handler) handleDuration(w http.ResponseWriter, r *http.Request) {
	var payload durationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	hours := h.Schedule.TotalHours(h.Calendar, payload.StartDate, payload.EndDate, payload.StartTime, payload.EndTime)
	metrics.CountDurationCalculation()

	api.Success(w, durationResponse{
		TotalHours: hours,
		TotalDays:  h.Schedule.DaysForHours(hours),
		ReturnDate: h.Schedule.ReturnDate(h.Calendar, payload.EndDate, hours, payload.EndTime),
	}, middleware.GetRequestID(r.Context()))
}

type validateResponse struct {
	Code     leave.ValidationCode `json:"code"`
	Advisory bool                 `json:"advisory"`
	Blocking bool                 `json:"blocking"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var payload durationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	code := h.Schedule.ValidateWindow(payload.StartDate, payload.EndDate, payload.StartTime, payload.EndTime)
	api.Success(w, validateResponse{
		Code:     code,
		Advisory: code.Advisory(),
		Blocking: code != leave.Valid && !code.Advisory(),
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleReturnDate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	endDate := q.Get("end_date")
	if endDate == "" {
		api.Fail(w, http.StatusBadRequest, "missing_end_date", "end_date is required", middleware.GetRequestID(r.Context()))
		return
	}

	var hours float64
	if raw := q.Get("total_hours"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_total_hours", "total_hours must be a number", middleware.GetRequestID(r.Context()))
			return
		}
		hours = parsed
	}

	returnDate := h.Schedule.ReturnDate(h.Calendar, endDate, hours, q.Get("end_time"))
	if returnDate == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_end_date", "end_date must be a valid ISO date", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"return_date": returnDate}, middleware.GetRequestID(r.Context()))
}

type historyEntry struct {
	leave.Application
	LeaveTypeLabel string  `json:"leave_type_label"`
	PaidHours      float64 `json:"paid_hours"`
	UnpaidHours    float64 `json:"unpaid_hours"`
}

// handleHistory lists an employee's applications with each one's hours
// reconciled against the balance ledger into paid and unpaid portions.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")

	apps, err := h.Backend.Applications(r.Context(), employeeID)
	if err != nil {
		log.WithError(err).Warn("history application lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load leave applications", middleware.GetRequestID(r.Context()))
		return
	}
	entries, err := h.Backend.BalanceHistory(r.Context())
	if err != nil {
		log.WithError(err).Warn("history ledger lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load balance history", middleware.GetRequestID(r.Context()))
		return
	}

	start := time.Now()
	splits := h.Schedule.AnnotateAll(h.Calendar, apps, entries, employeeID)
	metrics.ObserveReconciliation(time.Since(start))

	out := make([]historyEntry, 0, len(apps))
	for _, app := range apps {
		key := app.ID
		if key == "" {
			key = app.ApplicationID
		}
		split := splits[key]
		out = append(out, historyEntry{
			Application:    app,
			LeaveTypeLabel: leave.DisplayLeaveType(app.LeaveType),
			PaidHours:      split.PaidHours,
			UnpaidHours:    split.UnpaidHours,
		})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.Backend.Balances(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		log.WithError(err).Warn("balance lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load balances", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, balances, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Backend.Applications(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		log.WithError(err).Warn("application lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load applications", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, apps, middleware.GetRequestID(r.Context()))
}

type createApplicationRequest struct {
	EmployeeID    string  `json:"employee_id"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	LeaveType     string  `json:"leave_type"`
	Reason        string  `json:"reason"`
	CashOutDays   float64 `json:"cash_out_days"`
	CashOutHours  float64 `json:"cash_out_hours"`
	PreferredUnit string  `json:"preferred_unit"`
}

// handleCreateApplication runs the full submission pipeline: window
// validation, duration computation, the leave-without-pay and cash-out
// gates, then hands the finished record to the backend.
func (h *Handler) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload createApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.EmployeeID == "" || payload.StartDate == "" || payload.EndDate == "" || payload.LeaveType == "" {
		api.Fail(w, http.StatusBadRequest, "missing_fields", "employee_id, start_date, end_date and leave_type are required", reqID)
		return
	}

	code := h.Schedule.ValidateWindow(payload.StartDate, payload.EndDate, payload.StartTime, payload.EndTime)
	if code != leave.Valid && !code.Advisory() {
		api.Fail(w, http.StatusUnprocessableEntity, string(code), "requested time window is invalid", reqID)
		return
	}

	hours := h.Schedule.TotalHours(h.Calendar, payload.StartDate, payload.EndDate, payload.StartTime, payload.EndTime)
	metrics.CountDurationCalculation()
	if hours <= 0 {
		api.Fail(w, http.StatusUnprocessableEntity, "empty_duration", "requested range contains no working time", reqID)
		return
	}
	days := h.Schedule.DaysForHours(hours)

	normalized := leave.NormalizeLeaveType(payload.LeaveType)
	if normalized == "leave without pay" || normalized == "cash out" {
		balances, err := h.Backend.Balances(r.Context(), payload.EmployeeID)
		if err != nil {
			log.WithError(err).Warn("balance lookup for gating failed")
			api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load balances", reqID)
			return
		}
		if normalized == "leave without pay" {
			if err := leave.EnsureLeaveWithoutPayAllowed(balances, days); err != nil {
				if errors.Is(err, leave.ErrLeaveWithoutPayBlocked) {
					api.Fail(w, http.StatusUnprocessableEntity, "leave_without_pay_blocked", err.Error(), reqID)
					return
				}
				api.Fail(w, http.StatusInternalServerError, "gate_failed", "failed to evaluate leave without pay rule", reqID)
				return
			}
		} else {
			cashOutDays := payload.CashOutDays
			cashOutHours := payload.CashOutHours
			if cashOutDays == 0 && cashOutHours == 0 {
				cashOutDays, cashOutHours = days, hours
			}
			if err := h.Schedule.EnsureCashOutBalance(balances, cashOutDays, cashOutHours, payload.PreferredUnit); err != nil {
				api.Fail(w, http.StatusUnprocessableEntity, "cash_out_exceeds_balance", err.Error(), reqID)
				return
			}
		}
	}

	app := leave.Application{
		ApplicationID: leave.NewApplicationID(time.Now()),
		EmployeeID:    payload.EmployeeID,
		StartDate:     payload.StartDate,
		EndDate:       payload.EndDate,
		StartTime:     payload.StartTime,
		EndTime:       payload.EndTime,
		LeaveType:     payload.LeaveType,
		Reason:        payload.Reason,
		TotalHours:    hours,
		TotalDays:     days,
		Status:        leave.StatusPending,
		ReturnDate:    h.Schedule.ReturnDate(h.Calendar, payload.EndDate, hours, payload.EndTime),
	}

	created, err := h.Backend.CreateApplication(r.Context(), app)
	if err != nil {
		log.WithError(err).Warn("application create failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to store application", reqID)
		return
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleApproveApplication(w http.ResponseWriter, r *http.Request) {
	h.resolveApplication(w, r, leave.StatusApproved)
}

func (h *Handler) handleRejectApplication(w http.ResponseWriter, r *http.Request) {
	h.resolveApplication(w, r, leave.StatusRejected)
}

// resolveApplication settles a pending application. Approval deducts the
// covered portion from the owning balance and appends the deduction to the
// ledger; rejection only flips the status.
func (h *Handler) resolveApplication(w http.ResponseWriter, r *http.Request, status string) {
	reqID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "applicationID")

	apps, err := h.Backend.Applications(r.Context(), "")
	if err != nil {
		log.WithError(err).Warn("application lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load applications", reqID)
		return
	}
	var app *leave.Application
	for i := range apps {
		if apps[i].ID == id || apps[i].ApplicationID == id {
			app = &apps[i]
			break
		}
	}
	if app == nil {
		api.Fail(w, http.StatusNotFound, "application_not_found", "no such application", reqID)
		return
	}
	if app.Status != leave.StatusPending {
		api.Fail(w, http.StatusConflict, "already_resolved", "application is not pending", reqID)
		return
	}

	returnDate := ""
	if status == leave.StatusApproved {
		hours := h.Schedule.HoursForApplication(h.Calendar, *app)
		returnDate = h.Schedule.ReturnDate(h.Calendar, app.EndDate, hours, app.EndTime)
		if leave.AdjustsBalance(app.LeaveType) {
			if err := h.deductBalance(r, *app, hours); err != nil {
				log.WithError(err).Warn("balance deduction failed")
				api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to adjust balance", reqID)
				return
			}
		}
	}

	if err := h.Backend.UpdateApplicationStatus(r.Context(), app.ID, status, returnDate); err != nil {
		log.WithError(err).Warn("application status update failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to update application", reqID)
		return
	}

	app.Status = status
	if returnDate != "" {
		app.ReturnDate = returnDate
	}
	api.Success(w, app, reqID)
}

// deductBalance books an approved application against the balance category
// its leave type consumes. Only the covered portion is deducted; whatever
// exceeds the remaining balance stays on the ledger as unpaid via the
// reconciliation math.
func (h *Handler) deductBalance(r *http.Request, app leave.Application, hours float64) error {
	days := h.Schedule.DaysForHours(hours)
	if days <= 0 {
		return nil
	}
	balanceType := leave.BalanceTypeForLeaveType(app.LeaveType)

	balances, err := h.Backend.Balances(r.Context(), app.EmployeeID)
	if err != nil {
		return err
	}
	var target *leave.Balance
	for i := range balances {
		if balances[i].BalanceType == balanceType {
			target = &balances[i]
			break
		}
	}
	if target == nil {
		return nil
	}

	previous := target.RemainingDays
	covered := days
	if covered > previous {
		covered = previous
	}
	if covered < 0 {
		covered = 0
	}
	target.UsedDays += covered
	target.RemainingDays = previous - covered

	if err := h.Backend.UpdateBalance(r.Context(), *target); err != nil {
		return err
	}
	return h.Backend.CreateHistoryEntry(r.Context(), leave.HistoryEntry{
		EmployeeID:      app.EmployeeID,
		BalanceType:     balanceType,
		ChangeType:      leave.ChangeDeduction,
		ChangeAmount:    -days,
		PreviousBalance: previous,
		NewBalance:      target.RemainingDays,
		Reason:          app.Reason,
		ApplicationID:   app.ID,
	})
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Backend.Holidays(r.Context())
	if err != nil {
		log.WithError(err).Warn("holiday lookup failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to load holidays", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, holidays, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload leave.Holiday
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if payload.Date == "" {
		api.Fail(w, http.StatusBadRequest, "missing_date", "date is required", reqID)
		return
	}
	if _, err := leave.ParseDay(payload.Date); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_date", "date must be a valid ISO date", reqID)
		return
	}

	created, err := h.Backend.CreateHoliday(r.Context(), payload)
	if err != nil {
		log.WithError(err).Warn("holiday create failed")
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to store holiday", reqID)
		return
	}
	if _, err := h.Jobs.RefreshNow(r.Context()); err != nil {
		log.WithError(err).Warn("holiday refresh after create failed")
	}
	api.Created(w, created, reqID)
}

func (h *Handler) handleRefreshHolidays(w http.ResponseWriter, r *http.Request) {
	size, err := h.Jobs.RefreshNow(r.Context())
	if err != nil {
		api.Fail(w, http.StatusBadGateway, "backend_unavailable", "failed to refresh holidays", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"holidays": size}, middleware.GetRequestID(r.Context()))
}
