package directory

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrDuplicateCode       = errors.New("employee code already in use")
	ErrDuplicateDepartment = errors.New("department name already in use")
	ErrDepartmentInUse     = errors.New("department has assigned employees")
)

// mapUniqueViolation translates Postgres 23505 errors on known constraints
// into domain conflicts.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrDuplicateEmail
	case "employees_employee_code_key":
		return ErrDuplicateCode
	case "departments_name_key":
		return ErrDuplicateDepartment
	}
	return err
}
