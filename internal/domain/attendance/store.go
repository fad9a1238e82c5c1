package attendance

import (
	"context"
	"errors"
	"strconv"
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

const recordColumns = "id, employee_id, date, check_in_time, check_out_time, check_in_location, check_out_location, status, work_hours, overtime_hours, notes, created_at"

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime,
		&rec.CheckInLocation, &rec.CheckOutLocation, &rec.Status, &rec.WorkHours, &rec.OvertimeHours,
		&rec.Notes, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func (s *Store) Insert(ctx context.Context, rec Record) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO attendance (employee_id, date, check_in_time, check_in_location, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING `+recordColumns+`
  `, rec.EmployeeID, rec.Date, rec.CheckInTime, rec.CheckInLocation, rec.Status, rec.Notes)
	created, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return Record{}, ErrAlreadyCheckedIn
			case "23503":
				return Record{}, ErrNotFound
			}
		}
		return Record{}, err
	}
	return created, nil
}

func (s *Store) ForDate(ctx context.Context, employeeID int64, date time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx,
		"SELECT "+recordColumns+" FROM attendance WHERE employee_id = $1 AND date = $2",
		employeeID, date))
}

func (s *Store) Complete(ctx context.Context, id int64, checkOut time.Time, location *string, work, overtime float64) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE attendance
    SET check_out_time = $2, check_out_location = $3, work_hours = $4, overtime_hours = $5
    WHERE id = $1
    RETURNING `+recordColumns+`
  `, id, checkOut, location, work, overtime)
	return scanRecord(row)
}

func (s *Store) History(ctx context.Context, employeeID int64, from, to *time.Time, limit, offset int) ([]Record, error) {
	query := "SELECT " + recordColumns + " FROM attendance WHERE employee_id = $1"
	args := []any{employeeID}
	if from != nil {
		args = append(args, *from)
		query += " AND date >= $2"
	}
	if to != nil {
		args = append(args, *to)
		query += " AND date <= $" + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += " ORDER BY date DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows, false)
}

// Team returns the day's records for a manager's direct reports, with
// display names.
func (s *Store) Team(ctx context.Context, managerID int64, date time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
           a.check_in_location, a.check_out_location, a.status, a.work_hours, a.overtime_hours,
           a.notes, a.created_at, e.first_name || ' ' || e.last_name
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE e.manager_id = $1 AND a.date = $2
    ORDER BY a.employee_id
  `, managerID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows, true)
}

func (s *Store) ByDate(ctx context.Context, date time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.employee_id, a.date, a.check_in_time, a.check_out_time,
           a.check_in_location, a.check_out_location, a.status, a.work_hours, a.overtime_hours,
           a.notes, a.created_at, e.first_name || ' ' || e.last_name
    FROM attendance a
    JOIN employees e ON e.id = a.employee_id
    WHERE a.date = $1
    ORDER BY a.employee_id
  `, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows, true)
}

func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE attendance SET status = $2 WHERE id = $1
    RETURNING `+recordColumns+`
  `, id, status)
	return scanRecord(row)
}

func collectRecords(rows pgx.Rows, withName bool) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var rec Record
		dest := []any{&rec.ID, &rec.EmployeeID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime,
			&rec.CheckInLocation, &rec.CheckOutLocation, &rec.Status, &rec.WorkHours, &rec.OvertimeHours,
			&rec.Notes, &rec.CreatedAt}
		if withName {
			dest = append(dest, &rec.EmployeeName)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
