package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
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
	Service *auth.Service
	Audit   *audit.Service
}

func NewHandler(service *auth.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/register", h.handleRegister)
		r.Get("/me", h.handleMe)
	})
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	result, err := h.Service.Login(r.Context(), strings.ToLower(strings.TrimSpace(payload.Email)), payload.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, auth.ErrAccountInactive):
		api.Fail(w, http.StatusForbidden, "account_inactive", "account is inactive", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type registerPayload struct {
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

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerPayload
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

	user, employee, err := h.Service.Register(r.Context(), input, payload.Password)
	if err != nil {
		writeDirectoryError(w, r, err, "register_failed", "registration failed")
		return
	}

	if err := h.Audit.Record(r.Context(), user.ID, "user.register", "user", user.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]any{"email": user.Email, "role": user.Role, "name": employee.DisplayName()}); err != nil {
		slog.Warn("audit user.register failed", "err", err)
	}
	api.Created(w, map[string]any{"user": user, "employee": employee}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	me, err := h.Service.Me(r.Context(), user.UserID)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "me_failed", "failed to load current user", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, me, middleware.GetRequestID(r.Context()))
}

func writeDirectoryError(w http.ResponseWriter, r *http.Request, err error, fallbackCode, fallbackMessage string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, directory.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate_email", "email already registered", requestID)
	case errors.Is(err, directory.ErrDuplicateCode):
		api.Fail(w, http.StatusConflict, "duplicate_employee_code", "employee code already in use", requestID)
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "referenced record not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, fallbackCode, fallbackMessage, requestID)
	}
}
