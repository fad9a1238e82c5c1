package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = "id, employee_id, leave_type, start_date, end_date, days_requested, reason, status, approved_by, approved_at, rejection_reason, created_at"

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
		&req.Days, &req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return req, err
}

func (s *Store) Create(ctx context.Context, req Request) (Request, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, days_requested, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING `+requestColumns+`
  `, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Days, req.Reason, StatusPending)
	created, err := scanRequest(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	return created, nil
}

func (s *Store) Mine(ctx context.Context, employeeID int64, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, employeeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, false)
}

// Pending lists pending requests, optionally scoped to a manager's direct
// reports.
func (s *Store) Pending(ctx context.Context, managerID *int64, limit, offset int) ([]Request, error) {
	query := `
    SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
           lr.days_requested, lr.reason, lr.status, lr.approved_by, lr.approved_at,
           lr.rejection_reason, lr.created_at, e.first_name || ' ' || e.last_name
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE lr.status = $1
  `
	args := []any{StatusPending}
	if managerID != nil {
		args = append(args, *managerID)
		query += fmt.Sprintf(" AND e.manager_id = $%d", len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY lr.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, true)
}

func (s *Store) Team(ctx context.Context, managerID int64, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
           lr.days_requested, lr.reason, lr.status, lr.approved_by, lr.approved_at,
           lr.rejection_reason, lr.created_at, e.first_name || ' ' || e.last_name
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE e.manager_id = $1
    ORDER BY lr.created_at DESC
    LIMIT $2 OFFSET $3
  `, managerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, true)
}

func (s *Store) All(ctx context.Context, limit, offset int) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date,
           lr.days_requested, lr.reason, lr.status, lr.approved_by, lr.approved_at,
           lr.rejection_reason, lr.created_at, e.first_name || ' ' || e.last_name
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    ORDER BY lr.created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, true)
}

// ForYear returns the employee's requests whose span falls inside the given
// calendar year. Status filtering happens in ComputeBalance.
func (s *Store) ForYear(ctx context.Context, employeeID int64, year int) ([]Request, error) {
	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE employee_id = $1 AND start_date >= $2 AND end_date <= $3
  `, employeeID, yearStart, yearEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows, false)
}

// Decide transitions a pending request to approved or rejected inside a
// transaction. A non-pending request fails with ErrInvalidState, a missing
// one with ErrNotFound.
func (s *Store) Decide(ctx context.Context, id, approverID int64, status string, rejectionReason *string) (Request, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Request{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE leave_requests
    SET status = $2, approved_by = $3, approved_at = now(), rejection_reason = $4
    WHERE id = $1 AND status = $5
  `, id, status, approverID, rejectionReason, StatusPending)
	if err != nil {
		return Request{}, err
	}
	if tag.RowsAffected() == 0 {
		var count int
		if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM leave_requests WHERE id = $1", id).Scan(&count); err != nil {
			return Request{}, err
		}
		if count == 0 {
			return Request{}, ErrNotFound
		}
		return Request{}, ErrInvalidState
	}

	req, err := scanRequest(tx.QueryRow(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE id = $1", id))
	if err != nil {
		return Request{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (s *Store) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// ManagerUserID resolves the user account of an employee's manager, 0 when
// there is none.
func (s *Store) ManagerUserID(ctx context.Context, employeeID int64) (int64, error) {
	var userID int64
	err := s.DB.QueryRow(ctx, `
    SELECT m.user_id
    FROM employees e
    JOIN employees m ON e.manager_id = m.id
    WHERE e.id = $1
  `, employeeID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return userID, err
}

// UserIDForEmployee resolves the user account owning an employee profile.
func (s *Store) UserIDForEmployee(ctx context.Context, employeeID int64) (int64, error) {
	var userID int64
	err := s.DB.QueryRow(ctx, "SELECT user_id FROM employees WHERE id = $1", employeeID).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return userID, err
}

func collectRequests(rows pgx.Rows, withName bool) ([]Request, error) {
	var out []Request
	for rows.Next() {
		var req Request
		dest := []any{&req.ID, &req.EmployeeID, &req.LeaveType, &req.StartDate, &req.EndDate,
			&req.Days, &req.Reason, &req.Status, &req.ApprovedBy, &req.ApprovedAt, &req.RejectionReason, &req.CreatedAt}
		if withName {
			dest = append(dest, &req.EmployeeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
