package usershandler

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
	Auth      *auth.Service
	Audit     *audit.Service
}

func NewHandler(dir *directory.Service, authSvc *auth.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Directory: dir, Auth: authSvc, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/by-role/{role}", h.handleByRole)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/by-department/{department}", h.handleByDepartment)
		r.With(middleware.RequirePermission(auth.PermUsersRead)).Get("/{id}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Put("/{id}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermUsersWrite)).Delete("/{id}", h.handleDelete)
	})
}

type createPayload struct {
	Email        string               `json:"email"`
	Password     string               `json:"password"`
	Role         string               `json:"role"`
	EmployeeCode string               `json:"employeeCode"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Phone        *string              `json:"phone"`
	Department   *string              `json:"department"`
	Position     *string              `json:"position"`
	HireDate     string               `json:"hireDate"`
	Salary       *directory.FlexFloat `json:"salary"`
	ManagerID    *int64               `json:"managerId"`
}

// handleCreate is the staff-facing counterpart of /auth/register: same
// user+profile transaction, but gated on users.write.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	if payload.Role == "" {
		payload.Role = auth.RoleEmployee
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	v.Required("employeeCode", payload.EmployeeCode, "employee code is required")
	v.Required("firstName", payload.FirstName, "first name is required")
	v.Required("lastName", payload.LastName, "last name is required")
	if !auth.ValidRole(payload.Role) {
		v.Add("role", "must be one of admin, hr_manager, manager, employee")
	}
	hireDate, _ := v.Date("hireDate", payload.HireDate)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	input := directory.CreateUserInput{
		Email:        strings.ToLower(strings.TrimSpace(payload.Email)),
		Role:         payload.Role,
		EmployeeCode: strings.TrimSpace(payload.EmployeeCode),
		FirstName:    payload.FirstName,
		LastName:     payload.LastName,
		Phone:        payload.Phone,
		Department:   payload.Department,
		Position:     payload.Position,
		HireDate:     hireDate,
		ManagerID:    payload.ManagerID,
	}
	if payload.Salary != nil {
		salary := float64(*payload.Salary)
		input.Salary = &salary
	}

	user, employee, err := h.Auth.Register(r.Context(), input, payload.Password)
	if err != nil {
		writeError(w, r, err, "create_failed", "failed to create user")
		return
	}

	h.recordAudit(r, "user.create", "user", user.ID, map[string]any{"email": user.Email, "role": user.Role, "name": employee.DisplayName()})
	api.Created(w, map[string]any{"user": user, "employee": employee}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	users, total, err := h.Directory.ListUsers(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"users":  users,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := h.Directory.GetUser(r.Context(), id)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "get_failed", "failed to load user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}

type updatePayload struct {
	Email      *string              `json:"email"`
	Role       *string              `json:"role"`
	IsActive   *bool                `json:"isActive"`
	FirstName  *string              `json:"firstName"`
	LastName   *string              `json:"lastName"`
	Phone      *string              `json:"phone"`
	Department *string              `json:"department"`
	Position   *string              `json:"position"`
	Salary     *directory.FlexFloat `json:"salary"`
	ManagerID  *int64               `json:"managerId"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	if payload.Role != nil && !auth.ValidRole(*payload.Role) {
		v.Add("role", "must be one of admin, hr_manager, manager, employee")
	}
	if payload.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*payload.Email))
		if normalized == "" {
			v.Add("email", "must not be empty")
		}
		payload.Email = &normalized
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	input := directory.UpdateUserInput{
		Email:    payload.Email,
		Role:     payload.Role,
		IsActive: payload.IsActive,
		Profile: directory.EmployeeUpdate{
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Department: payload.Department,
			Position:   payload.Position,
			ManagerID:  payload.ManagerID,
		},
	}
	if payload.Salary != nil {
		salary := float64(*payload.Salary)
		input.Profile.Salary = &salary
	}

	updated, err := h.Directory.UpdateUser(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err, "update_failed", "failed to update user")
		return
	}

	h.recordAudit(r, "user.update", "user", id, map[string]any{"fields": changedFields(payload)})
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Directory.DeleteUser(r.Context(), id); err != nil {
		writeError(w, r, err, "delete_failed", "failed to deactivate user")
		return
	}
	h.recordAudit(r, "user.deactivate", "user", id, nil)
	api.Success(w, map[string]any{"deactivated": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleByRole(w http.ResponseWriter, r *http.Request) {
	role := chi.URLParam(r, "role")
	if !auth.ValidRole(role) {
		api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", middleware.GetRequestID(r.Context()))
		return
	}
	users, err := h.Directory.UsersByRole(r.Context(), role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleByDepartment(w http.ResponseWriter, r *http.Request) {
	department := chi.URLParam(r, "department")
	users, err := h.Directory.UsersByDepartment(r.Context(), department)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list users", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, users, middleware.GetRequestID(r.Context()))
}

func (h *Handler) recordAudit(r *http.Request, action, entityType string, entityID int64, details any) {
	actor, _ := middleware.GetUser(r.Context())
	if err := h.Audit.Record(r.Context(), actor.UserID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func changedFields(payload updatePayload) []string {
	var fields []string
	if payload.Email != nil {
		fields = append(fields, "email")
	}
	if payload.Role != nil {
		fields = append(fields, "role")
	}
	if payload.IsActive != nil {
		fields = append(fields, "isActive")
	}
	if payload.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if payload.LastName != nil {
		fields = append(fields, "lastName")
	}
	if payload.Phone != nil {
		fields = append(fields, "phone")
	}
	if payload.Department != nil {
		fields = append(fields, "department")
	}
	if payload.Position != nil {
		fields = append(fields, "position")
	}
	if payload.Salary != nil {
		fields = append(fields, "salary")
	}
	if payload.ManagerID != nil {
		fields = append(fields, "managerId")
	}
	return fields
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
	case errors.Is(err, directory.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate_email", "email already registered", requestID)
	case errors.Is(err, directory.ErrDuplicateCode):
		api.Fail(w, http.StatusConflict, "duplicate_employee_code", "employee code already in use", requestID)
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
