package attendancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *attendance.Service
	Audit   *audit.Service
}

func NewHandler(service *attendance.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf)).Post("/check-in", h.handleCheckIn)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf)).Post("/check-out", h.handleCheckOut)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf)).Get("/today", h.handleToday)
		r.With(middleware.RequirePermission(auth.PermAttendanceSelf)).Get("/history", h.handleHistory)
		r.With(middleware.RequirePermission(auth.PermAttendanceTeam)).Get("/team", h.handleTeam)
		r.With(middleware.RequirePermission(auth.PermAttendanceOverride)).Get("/by-date", h.handleByDate)
		r.With(middleware.RequirePermission(auth.PermAttendanceOverride)).Put("/{id}/status", h.handleUpdateStatus)
	})
}

type checkPayload struct {
	Location *string `json:"location"`
	Notes    *string `json:"notes"`
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	var payload checkPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	rec, err := h.Service.CheckIn(r.Context(), employeeID, time.Now(), payload.Location, payload.Notes)
	if err != nil {
		writeError(w, r, err, "check_in_failed", "failed to record check-in")
		return
	}

	h.recordAudit(r, "attendance.check_in", rec.ID, nil)
	api.Created(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	var payload checkPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}

	rec, err := h.Service.CheckOut(r.Context(), employeeID, time.Now(), payload.Location)
	if err != nil {
		writeError(w, r, err, "check_out_failed", "failed to record check-out")
		return
	}

	h.recordAudit(r, "attendance.check_out", rec.ID, nil)
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	rec, err := h.Service.Today(r.Context(), employeeID, time.Now())
	if errors.Is(err, attendance.ErrNotFound) {
		api.Success(w, nil, middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "today_failed", "failed to load today's record", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	page := shared.ParsePagination(r, 30, 100)
	var from, to *time.Time
	v := shared.NewValidator()
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, ok := v.Date("from", raw); ok {
			from = &parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, ok := v.Date("to", raw); ok {
			to = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	records, err := h.Service.History(r.Context(), employeeID, from, to, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "history_failed", "failed to load attendance history", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		v := shared.NewValidator()
		parsed, ok := v.Date("date", raw)
		if !ok {
			v.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		date = parsed
	}

	records, err := h.Service.Team(r.Context(), employeeID, date)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "team_failed", "failed to load team attendance", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleByDate(w http.ResponseWriter, r *http.Request) {
	v := shared.NewValidator()
	date, ok := v.Date("date", r.URL.Query().Get("date"))
	if !ok {
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Service.ByDate(r.Context(), date)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "by_date_failed", "failed to load attendance for date", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer", middleware.GetRequestID(r.Context()))
		return
	}

	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("status", payload.Status, "status is required")
	v.Enum("status", payload.Status, attendance.Statuses, "must be one of present, absent, late, early_leave")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	rec, err := h.Service.UpdateStatus(r.Context(), id, payload.Status)
	if err != nil {
		writeError(w, r, err, "status_update_failed", "failed to update attendance status")
		return
	}

	h.recordAudit(r, "attendance.status_override", id, map[string]any{"status": payload.Status})
	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action string, entityID int64, details any) {
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, "attendance", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func requireEmployee(w http.ResponseWriter, r *http.Request) (int64, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	if user.EmployeeID == 0 {
		api.Fail(w, http.StatusNotFound, "employee_profile_missing", "no employee profile linked to this account", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return user.EmployeeID, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		api.Fail(w, http.StatusConflict, "already_checked_in", "already checked in today", requestID)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		api.Fail(w, http.StatusConflict, "already_checked_out", "already checked out today", requestID)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		api.Fail(w, http.StatusNotFound, "not_checked_in", "no open check-in for today", requestID)
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "attendance record not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
