package leaveshandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Audit    *audit.Service
	Notifier *notifications.Service
}

func NewHandler(service *leave.Service, auditSvc *audit.Service, notifier *notifications.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc, Notifier: notifier}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leaves", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveRequest)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermLeaveRequest)).Get("/mine", h.handleMine)
		r.With(middleware.RequirePermission(auth.PermLeaveRequest)).Get("/balance", h.handleBalance)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Get("/pending", h.handlePending)
		r.With(middleware.RequirePermission(auth.PermLeaveTeam)).Get("/team", h.handleTeam)
		r.With(middleware.RequirePermission(auth.PermLeaveAll)).Get("/all", h.handleAll)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{id}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/{id}/reject", h.handleReject)
	})
}

type createPayload struct {
	LeaveType string  `json:"leaveType"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	v.Enum("leaveType", payload.LeaveType, leave.Types, "must be one of annual, sick, maternity, paternity, emergency")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if payload.Reason != nil {
		v.MaxLen("reason", *payload.Reason, leave.MaxReasonLength)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	req, err := h.Service.Create(r.Context(), employeeID, payload.LeaveType, start, end, payload.Reason)
	if err != nil {
		writeError(w, r, err, "create_failed", "failed to create leave request")
		return
	}

	h.recordAudit(r, "leave.request", req.ID, map[string]any{"type": req.LeaveType, "days": req.Days})
	h.notifyManager(r, req)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	requests, err := h.Service.Mine(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	balance, err := h.Service.Balance(r.Context(), employeeID, time.Now())
	if err != nil {
		writeError(w, r, err, "balance_failed", "failed to compute leave balance")
		return
	}
	api.Success(w, balance, middleware.GetRequestID(r.Context()))
}

// handlePending scopes managers to their reports; hr and admin see every
// pending request.
func (h *Handler) handlePending(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	page := shared.ParsePagination(r, 50, 200)

	var managerID *int64
	if user.Role == auth.RoleManager {
		if user.EmployeeID == 0 {
			api.Fail(w, http.StatusConflict, "manager_scope_required", "manager account has no employee profile", middleware.GetRequestID(r.Context()))
			return
		}
		managerID = &user.EmployeeID
	}

	requests, err := h.Service.Pending(r.Context(), managerID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list pending requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	requests, err := h.Service.Team(r.Context(), employeeID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list team requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAll(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	requests, err := h.Service.All(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, requests, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	approverID, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.Approve(r.Context(), id, approverID)
	if err != nil {
		writeError(w, r, err, "approve_failed", "failed to approve leave request")
		return
	}

	h.recordAudit(r, "leave.approve", id, nil)
	h.notifyEmployee(r, req, "leave_approved", "Leave request approved",
		fmt.Sprintf("Your %s leave from %s to %s was approved.", req.LeaveType, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

type rejectPayload struct {
	Reason *string `json:"reason"`
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	approverID, ok := requireEmployee(w, r)
	if !ok {
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload rejectPayload
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if payload.Reason != nil {
		v := shared.NewValidator()
		v.MaxLen("reason", *payload.Reason, leave.MaxReasonLength)
		if v.Reject(w, middleware.GetRequestID(r.Context())) {
			return
		}
	}

	req, err := h.Service.Reject(r.Context(), id, approverID, payload.Reason)
	if err != nil {
		writeError(w, r, err, "reject_failed", "failed to reject leave request")
		return
	}

	h.recordAudit(r, "leave.reject", id, nil)
	h.notifyEmployee(r, req, "leave_rejected", "Leave request rejected",
		fmt.Sprintf("Your %s leave from %s to %s was rejected.", req.LeaveType, req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02")))
	api.Success(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) notifyManager(r *http.Request, req leave.Request) {
	managerUserID, err := h.Service.Store.ManagerUserID(r.Context(), req.EmployeeID)
	if err != nil {
		slog.Warn("manager lookup for notification failed", "err", err)
		return
	}
	body := fmt.Sprintf("A %s leave request for %d day(s) is awaiting review.", req.LeaveType, req.Days)
	if err := h.Notifier.Notify(r.Context(), managerUserID, "leave_request", "New leave request", body); err != nil {
		slog.Warn("leave request notification failed", "err", err)
	}
}

func (h *Handler) notifyEmployee(r *http.Request, req leave.Request, ntype, title, body string) {
	userID, err := h.Service.Store.UserIDForEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		slog.Warn("employee lookup for notification failed", "err", err)
		return
	}
	if err := h.Notifier.Notify(r.Context(), userID, ntype, title, body); err != nil {
		slog.Warn("leave decision notification failed", "err", err)
	}
}

func (h *Handler) recordAudit(r *http.Request, action string, entityID int64, details any) {
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, "leave_request", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
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

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_id", "id must be a positive integer", middleware.GetRequestID(r.Context()))
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, leave.ErrInvalidState):
		api.Fail(w, http.StatusConflict, "invalid_state", "leave request is not pending", requestID)
	case errors.Is(err, leave.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
