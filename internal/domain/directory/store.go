package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx so store methods can
// run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = "id, email, role, is_active, last_login, created_at, updated_at"

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) CreateUser(ctx context.Context, q Querier, email, passwordHash, role string) (User, error) {
	row := q.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, is_active)
    VALUES ($1, $2, $3, true)
    RETURNING `+userColumns+`
  `, email, passwordHash, role)
	u, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// UserByEmail returns the user together with its stored credential hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, role, is_active, last_login, created_at, updated_at, password_hash
    FROM users
    WHERE email = $1
  `, email).Scan(&u.ID, &u.Email, &u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	if err != nil {
		return User{}, "", err
	}
	return u, hash, nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]UserWithProfile, int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.email, u.role, u.is_active, u.last_login, u.created_at, u.updated_at,
           e.id, e.user_id, e.employee_code, e.first_name, e.last_name, e.phone,
           e.department, e.position, e.hire_date, e.salary, e.manager_id, e.created_at
    FROM users u
    LEFT JOIN employees e ON e.user_id = u.id
    ORDER BY u.id
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []UserWithProfile
	for rows.Next() {
		var u User
		var empID, empUserID *int64
		var code, first, last *string
		var phone, department, position *string
		var hireDate *time.Time
		var salary *float64
		var managerID *int64
		var empCreated *time.Time
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
			&empID, &empUserID, &code, &first, &last, &phone,
			&department, &position, &hireDate, &salary, &managerID, &empCreated,
		); err != nil {
			return nil, 0, err
		}
		entry := UserWithProfile{User: u}
		if empID != nil {
			entry.Employee = &Employee{
				ID:           *empID,
				UserID:       *empUserID,
				EmployeeCode: deref(code),
				FirstName:    deref(first),
				LastName:     deref(last),
				Phone:        phone,
				Department:   department,
				Position:     position,
				Salary:       salary,
				ManagerID:    managerID,
			}
			if hireDate != nil {
				entry.Employee.HireDate = *hireDate
			}
			if empCreated != nil {
				entry.Employee.CreatedAt = *empCreated
			}
		}
		out = append(out, entry)
	}
	return out, total, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id int64, email, role *string, isActive *bool) (User, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE users
    SET email = COALESCE($2, email),
        role = COALESCE($3, role),
        is_active = COALESCE($4, is_active),
        updated_at = now()
    WHERE id = $1
    RETURNING `+userColumns+`
  `, id, email, role, isActive)
	u, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return u, nil
}

// DeactivateUser soft-deletes; user rows are never removed.
func (s *Store) DeactivateUser(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) TouchLastLogin(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", id)
	return err
}

func (s *Store) UsersByRole(ctx context.Context, role string) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE role = $1 ORDER BY id", role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *Store) UsersByDepartment(ctx context.Context, department string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.email, u.role, u.is_active, u.last_login, u.created_at, u.updated_at
    FROM users u
    JOIN employees e ON e.user_id = u.id
    WHERE e.department = $1
    ORDER BY u.id
  `, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

const employeeColumns = "id, user_id, employee_code, first_name, last_name, phone, department, position, hire_date, salary, manager_id, created_at"

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Phone,
		&e.Department, &e.Position, &e.HireDate, &e.Salary, &e.ManagerID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func (s *Store) CreateEmployee(ctx context.Context, q Querier, e Employee) (Employee, error) {
	row := q.QueryRow(ctx, `
    INSERT INTO employees (user_id, employee_code, first_name, last_name, phone, department, position, hire_date, salary, manager_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING `+employeeColumns+`
  `, e.UserID, e.EmployeeCode, e.FirstName, e.LastName, e.Phone, e.Department, e.Position, e.HireDate, e.Salary, e.ManagerID)
	created, err := scanEmployee(row)
	if err != nil {
		return Employee{}, mapUniqueViolation(err)
	}
	return created, nil
}

func (s *Store) EmployeeByID(ctx context.Context, id int64) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id))
}

func (s *Store) EmployeeByUserID(ctx context.Context, userID int64) (Employee, error) {
	return scanEmployee(s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE user_id = $1", userID))
}

func (s *Store) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

type EmployeeUpdate struct {
	FirstName  *string
	LastName   *string
	Phone      *string
	Department *string
	Position   *string
	Salary     *float64
	ManagerID  *int64
}

func (s *Store) UpdateEmployee(ctx context.Context, id int64, upd EmployeeUpdate) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE employees
    SET first_name = COALESCE($2, first_name),
        last_name = COALESCE($3, last_name),
        phone = COALESCE($4, phone),
        department = COALESCE($5, department),
        position = COALESCE($6, position),
        salary = COALESCE($7, salary),
        manager_id = COALESCE($8, manager_id)
    WHERE id = $1
    RETURNING `+employeeColumns+`
  `, id, upd.FirstName, upd.LastName, upd.Phone, upd.Department, upd.Position, upd.Salary, upd.ManagerID)
	return scanEmployee(row)
}

const departmentColumns = "id, name, description, manager_id, created_at"

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Department{}, ErrNotFound
	}
	return d, err
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+departmentColumns+" FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.ManagerID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) DepartmentByID(ctx context.Context, id int64) (Department, error) {
	return scanDepartment(s.DB.QueryRow(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = $1", id))
}

func (s *Store) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, manager_id)
    VALUES ($1, $2, $3)
    RETURNING `+departmentColumns+`
  `, d.Name, d.Description, d.ManagerID)
	created, err := scanDepartment(row)
	if err != nil {
		return Department{}, mapUniqueViolation(err)
	}
	return created, nil
}

func (s *Store) UpdateDepartment(ctx context.Context, id int64, name, description *string, managerID *int64) (Department, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE departments
    SET name = COALESCE($2, name),
        description = COALESCE($3, description),
        manager_id = COALESCE($4, manager_id)
    WHERE id = $1
    RETURNING `+departmentColumns+`
  `, id, name, description, managerID)
	d, err := scanDepartment(row)
	if err != nil {
		return Department{}, mapUniqueViolation(err)
	}
	return d, nil
}

func (s *Store) DeleteDepartment(ctx context.Context, id int64) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEmployeesInDepartment matches on the free-text department label, which
// is how employees are linked to departments.
func (s *Store) CountEmployeesInDepartment(ctx context.Context, name string) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees WHERE department = $1", name).Scan(&count)
	return count, err
}

func (s *Store) EmployeesByDepartment(ctx context.Context, name string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees WHERE department = $1 ORDER BY id", name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.EmployeeCode, &e.FirstName, &e.LastName, &e.Phone,
			&e.Department, &e.Position, &e.HireDate, &e.Salary, &e.ManagerID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
