package dashboardhandler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/dashboard"
	"hrms/internal/domain/scope"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
)

type Handler struct {
	Service *dashboard.Service
}

func NewHandler(service *dashboard.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.RequirePermission(auth.PermDashboardRead))
		r.Get("/stats", h.handleStats)
		r.Get("/recent-activities", h.handleRecentActivities)
		r.Get("/attendance-summary", h.handleAttendanceSummary)
		r.Get("/attendance-summary/export", h.handleSummaryExport)
		r.Get("/department-stats", h.handleDepartmentStats)
		r.Get("/leave-stats", h.handleLeaveStats)
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stats, err := h.Service.Stats(r.Context(), user.Role, user.EmployeeID, time.Now())
	if err != nil {
		writeError(w, r, err, "stats_failed", "failed to compute dashboard stats")
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleRecentActivities(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	limit := dashboard.DefaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	activities, err := h.Service.RecentActivities(r.Context(), user.Role, user.EmployeeID, limit, time.Now())
	if err != nil {
		writeError(w, r, err, "activities_failed", "failed to load recent activities")
		return
	}
	api.Success(w, activities, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAttendanceSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	summary, err := h.Service.AttendanceSummary(r.Context(), user.Role, user.EmployeeID, parseDays(r), time.Now())
	if err != nil {
		writeError(w, r, err, "summary_failed", "failed to build attendance summary")
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaryExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	summary, err := h.Service.AttendanceSummary(r.Context(), user.Role, user.EmployeeID, parseDays(r), time.Now())
	if err != nil {
		writeError(w, r, err, "summary_failed", "failed to build attendance summary")
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch r.URL.Query().Get("format") {
	case "pdf":
		payload, err := dashboard.SummaryPDF(summary)
		if err != nil {
			writeError(w, r, err, "export_failed", "failed to render export")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-summary-%s.pdf", stamp))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	case "", "csv":
		payload, err := dashboard.SummaryCSV(summary)
		if err != nil {
			writeError(w, r, err, "export_failed", "failed to render export")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=attendance-summary-%s.csv", stamp))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(payload)
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be csv or pdf", middleware.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleDepartmentStats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stats, err := h.Service.DepartmentStats(r.Context(), user.Role, user.EmployeeID, time.Now())
	if err != nil {
		writeError(w, r, err, "department_stats_failed", "failed to compute department stats")
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleLeaveStats(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	stats, err := h.Service.LeaveStats(r.Context(), user.Role, user.EmployeeID, time.Now())
	if err != nil {
		writeError(w, r, err, "leave_stats_failed", "failed to compute leave stats")
		return
	}
	api.Success(w, stats, middleware.GetRequestID(r.Context()))
}

func parseDays(r *http.Request) int {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 90 {
			days = v
		}
	}
	return days
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	if errors.Is(err, scope.ErrManagerScopeRequired) {
		api.Fail(w, http.StatusConflict, "manager_scope_required", "manager account has no employee profile", requestID)
		return
	}
	api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
}
