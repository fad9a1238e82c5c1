package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
	EmployeeCode string
	FirstName    string
	LastName     string
	Phone        *string
	Department   *string
	Position     *string
	HireDate     time.Time
	Salary       *float64
	ManagerID    *int64
}

// CreateUserWithProfile creates the user row and its employee profile in one
// transaction so a failure cannot leave a user without a profile.
func (s *Service) CreateUserWithProfile(ctx context.Context, input CreateUserInput) (User, Employee, error) {
	if input.ManagerID != nil {
		if err := s.requireEmployee(ctx, *input.ManagerID); err != nil {
			return User{}, Employee{}, err
		}
	}

	tx, err := s.Store.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return User{}, Employee{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user, err := s.Store.CreateUser(ctx, tx, input.Email, input.PasswordHash, input.Role)
	if err != nil {
		return User{}, Employee{}, err
	}

	employee, err := s.Store.CreateEmployee(ctx, tx, Employee{
		UserID:       user.ID,
		EmployeeCode: input.EmployeeCode,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Department:   input.Department,
		Position:     input.Position,
		HireDate:     input.HireDate,
		Salary:       input.Salary,
		ManagerID:    input.ManagerID,
	})
	if err != nil {
		return User{}, Employee{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return User{}, Employee{}, err
	}
	return user, employee, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (UserWithProfile, error) {
	user, err := s.Store.UserByID(ctx, id)
	if err != nil {
		return UserWithProfile{}, err
	}
	out := UserWithProfile{User: user}
	employee, err := s.Store.EmployeeByUserID(ctx, id)
	if err == nil {
		out.Employee = &employee
	} else if err != ErrNotFound {
		return UserWithProfile{}, err
	}
	return out, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]UserWithProfile, int, error) {
	return s.Store.ListUsers(ctx, limit, offset)
}

type UpdateUserInput struct {
	Email    *string
	Role     *string
	IsActive *bool
	Profile  EmployeeUpdate
}

func (s *Service) UpdateUser(ctx context.Context, id int64, input UpdateUserInput) (UserWithProfile, error) {
	if input.Profile.ManagerID != nil {
		if err := s.requireEmployee(ctx, *input.Profile.ManagerID); err != nil {
			return UserWithProfile{}, err
		}
	}

	user, err := s.Store.UpdateUser(ctx, id, input.Email, input.Role, input.IsActive)
	if err != nil {
		return UserWithProfile{}, err
	}
	out := UserWithProfile{User: user}

	employee, err := s.Store.EmployeeByUserID(ctx, id)
	if err == ErrNotFound {
		return out, nil
	}
	if err != nil {
		return UserWithProfile{}, err
	}

	updated, err := s.Store.UpdateEmployee(ctx, employee.ID, input.Profile)
	if err != nil {
		return UserWithProfile{}, err
	}
	out.Employee = &updated
	return out, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.Store.DeactivateUser(ctx, id)
}

func (s *Service) UsersByRole(ctx context.Context, role string) ([]User, error) {
	return s.Store.UsersByRole(ctx, role)
}

func (s *Service) UsersByDepartment(ctx context.Context, department string) ([]User, error) {
	return s.Store.UsersByDepartment(ctx, department)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.Store.ListDepartments(ctx)
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (Department, error) {
	return s.Store.DepartmentByID(ctx, id)
}

func (s *Service) CreateDepartment(ctx context.Context, d Department) (Department, error) {
	if d.ManagerID != nil {
		if err := s.requireEmployee(ctx, *d.ManagerID); err != nil {
			return Department{}, err
		}
	}
	return s.Store.CreateDepartment(ctx, d)
}

func (s *Service) UpdateDepartment(ctx context.Context, id int64, name, description *string, managerID *int64) (Department, error) {
	if managerID != nil {
		if err := s.requireEmployee(ctx, *managerID); err != nil {
			return Department{}, err
		}
	}
	return s.Store.UpdateDepartment(ctx, id, name, description, managerID)
}

// DeleteDepartment is blocked while any profile's department label still
// matches the department name.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	department, err := s.Store.DepartmentByID(ctx, id)
	if err != nil {
		return err
	}
	count, err := s.Store.CountEmployeesInDepartment(ctx, department.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentInUse
	}
	return s.Store.DeleteDepartment(ctx, id)
}

func (s *Service) DepartmentEmployees(ctx context.Context, id int64) ([]Employee, error) {
	department, err := s.Store.DepartmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Store.EmployeesByDepartment(ctx, department.Name)
}

func (s *Service) requireEmployee(ctx context.Context, id int64) error {
	exists, err := s.Store.EmployeeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("manager profile: %w", ErrNotFound)
	}
	return nil
}
