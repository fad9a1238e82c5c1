package departmentshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/directory"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Directory *directory.Service
	Audit     *audit.Service
}

func NewHandler(dir *directory.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Directory: dir, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead)).Get("/{id}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermDepartmentsRead)).Get("/{id}/employees", h.handleEmployees)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermDepartmentsWrite)).Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Directory.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list departments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, departments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	department, err := h.Directory.GetDepartment(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "get_failed", "failed to load department")
		return
	}
	api.Success(w, department, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployees(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	employees, err := h.Directory.DepartmentEmployees(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "list_failed", "failed to list department employees")
		return
	}
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

type departmentPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ManagerID   *int64  `json:"managerId"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload departmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	department, err := h.Directory.CreateDepartment(r.Context(), directory.Department{
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		ManagerID:   payload.ManagerID,
	})
	if err != nil {
		writeError(w, r, err, "create_failed", "failed to create department")
		return
	}

	h.recordAudit(r, "department.create", department.ID, map[string]any{"name": department.Name})
	api.Created(w, department, middleware.GetRequestID(r.Context()))
}

type departmentUpdatePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ManagerID   *int64  `json:"managerId"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload departmentUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		if trimmed == "" {
			v := shared.NewValidator()
			v.Add("name", "must not be empty")
			v.Reject(w, middleware.GetRequestID(r.Context()))
			return
		}
		payload.Name = &trimmed
	}

	department, err := h.Directory.UpdateDepartment(r.Context(), id, payload.Name, payload.Description, payload.ManagerID)
	if err != nil {
		writeError(w, r, err, "update_failed", "failed to update department")
		return
	}

	h.recordAudit(r, "department.update", id, nil)
	api.Success(w, department, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteDepartment(r.Context(), id); err != nil {
		writeError(w, r, err, "delete_failed", "failed to delete department")
		return
	}
	h.recordAudit(r, "department.delete", id, nil)
	api.Success(w, map[string]any{"deleted": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action string, entityID int64, details any) {
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, "department", entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
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
	case errors.Is(err, directory.ErrDuplicateDepartment):
		api.Fail(w, http.StatusConflict, "duplicate_department", "department name already exists", requestID)
	case errors.Is(err, directory.ErrDepartmentInUse):
		api.Fail(w, http.StatusConflict, "department_in_use", "department still has employees assigned", requestID)
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "department not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
