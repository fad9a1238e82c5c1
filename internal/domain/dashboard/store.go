package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/scope"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// withScope appends the filter predicate against the "e" employees alias.
func withScope(query string, filter scope.Filter, args []any) (string, []any) {
	pred, predArgs := filter.Predicate("e", len(args)+1)
	if pred != "" {
		query += " AND " + pred
		args = append(args, predArgs...)
	}
	return query, args
}

func (s *Store) CountEmployees(ctx context.Context, filter scope.Filter) (int, error) {
	query, args := withScope("SELECT COUNT(1) FROM employees e WHERE 1=1", filter, nil)
	var count int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// TodayStatusCounts returns attendance counts keyed by status for one date.
func (s *Store) TodayStatusCounts(ctx context.Context, filter scope.Filter, date time.Time) (map[string]int, error) {
	query, args := withScope(`
    SELECT a.status, COUNT(1)
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date = $1
  `, filter, []any{date})
	query += " GROUP BY a.status"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (s *Store) CountPendingLeaves(ctx context.Context, filter scope.Filter) (int, error) {
	query, args := withScope(`
    SELECT COUNT(1)
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE lr.status = 'pending'
  `, filter, nil)
	var count int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (s *Store) CountDepartments(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM departments").Scan(&count)
	return count, err
}

func (s *Store) AverageWorkHours(ctx context.Context, filter scope.Filter, from, to time.Time) (float64, error) {
	query, args := withScope(`
    SELECT AVG(a.work_hours)
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date BETWEEN $1 AND $2 AND a.work_hours IS NOT NULL
  `, filter, []any{from, to})

	var avg *float64
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (s *Store) AttendanceEvents(ctx context.Context, filter scope.Filter, since time.Time) ([]AttendanceEventRow, error) {
	query, args := withScope(`
    SELECT a.id, e.first_name || ' ' || e.last_name, a.check_in_time, a.check_out_time
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE (a.check_in_time >= $1 OR a.check_out_time >= $1)
  `, filter, []any{since})

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttendanceEventRow
	for rows.Next() {
		var row AttendanceEventRow
		if err := rows.Scan(&row.ID, &row.EmployeeName, &row.CheckIn, &row.CheckOut); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) LeaveEvents(ctx context.Context, filter scope.Filter, since time.Time) ([]LeaveEventRow, error) {
	query, args := withScope(`
    SELECT lr.id, e.first_name || ' ' || e.last_name, lr.leave_type, lr.status, lr.created_at, lr.approved_at
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE (lr.created_at >= $1 OR lr.approved_at >= $1)
  `, filter, []any{since})

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaveEventRow
	for rows.Next() {
		var row LeaveEventRow
		if err := rows.Scan(&row.ID, &row.EmployeeName, &row.LeaveType, &row.Status, &row.CreatedAt, &row.ApprovedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) SummaryCounts(ctx context.Context, filter scope.Filter, from, to time.Time) ([]DayCount, error) {
	query, args := withScope(`
    SELECT a.date, a.status, COUNT(1)
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date BETWEEN $1 AND $2
  `, filter, []any{from, to})
	query += " GROUP BY a.date, a.status"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayCount
	for rows.Next() {
		var row DayCount
		if err := rows.Scan(&row.Date, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DepartmentRows aggregates headcount and today's present+late count per
// non-null department label.
func (s *Store) DepartmentRows(ctx context.Context, filter scope.Filter, date time.Time) ([]DepartmentStat, error) {
	query, args := withScope(`
    SELECT e.department,
           COUNT(DISTINCT e.id),
           COUNT(a.id) FILTER (WHERE a.status IN ('present', 'late'))
    FROM employees e
    LEFT JOIN attendance a ON a.employee_id = e.id AND a.date = $1
    WHERE e.department IS NOT NULL
  `, filter, []any{date})
	query += " GROUP BY e.department"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DepartmentStat
	for rows.Next() {
		var stat DepartmentStat
		if err := rows.Scan(&stat.Department, &stat.TotalEmployees, &stat.Present); err != nil {
			return nil, err
		}
		out = append(out, stat)
	}
	return out, rows.Err()
}

// DecisionCountsForMonth counts approved/rejected requests whose decision
// timestamp falls inside [monthStart, monthEnd).
func (s *Store) DecisionCountsForMonth(ctx context.Context, filter scope.Filter, monthStart, monthEnd time.Time) (approved, rejected int, err error) {
	query, args := withScope(`
    SELECT lr.status, COUNT(1)
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE lr.approved_at >= $1 AND lr.approved_at < $2 AND lr.status IN ('approved', 'rejected')
  `, filter, []any{monthStart, monthEnd})
	query += " GROUP BY lr.status"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return 0, 0, err
		}
		switch status {
		case "approved":
			approved = count
		case "rejected":
			rejected = count
		}
	}
	return approved, rejected, rows.Err()
}

// MostCommonLeaveType returns the modal leave type under scope, empty when
// no requests exist.
func (s *Store) MostCommonLeaveType(ctx context.Context, filter scope.Filter) (string, error) {
	query, args := withScope(`
    SELECT lr.leave_type
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE 1=1
  `, filter, nil)
	query += " GROUP BY lr.leave_type ORDER BY COUNT(1) DESC, lr.leave_type LIMIT 1"

	var leaveType string
	err := s.DB.QueryRow(ctx, query, args...).Scan(&leaveType)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return leaveType, err
}

func (s *Store) AverageApprovedDays(ctx context.Context, filter scope.Filter) (float64, error) {
	query, args := withScope(`
    SELECT AVG(lr.days_requested)
    FROM leave_requests lr
    JOIN employees e ON e.id = lr.employee_id
    WHERE lr.status = 'approved'
  `, filter, nil)

	var avg *float64
	if err := s.DB.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
