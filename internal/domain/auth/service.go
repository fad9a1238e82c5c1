package auth

import (
	"context"
	"errors"

	"hrms/internal/domain/directory"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
)

type Service struct {
	Directory *directory.Service
	Secret    string
}

func NewService(dir *directory.Service, secret string) *Service {
	return &Service{Directory: dir, Secret: secret}
}

type LoginResult struct {
	Token    string              `json:"token"`
	User     directory.User      `json:"user"`
	Employee *directory.Employee `json:"employee,omitempty"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, hash, err := s.Directory.Store.UserByEmail(ctx, email)
	if errors.Is(err, directory.ErrNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(hash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return LoginResult{}, ErrAccountInactive
	}

	var employeeID int64
	result := LoginResult{User: user}
	employee, err := s.Directory.Store.EmployeeByUserID(ctx, user.ID)
	if err == nil {
		employeeID = employee.ID
		result.Employee = &employee
	} else if !errors.Is(err, directory.ErrNotFound) {
		return LoginResult{}, err
	}

	token, err := GenerateToken(s.Secret, Claims{
		UserID:     user.ID,
		Role:       user.Role,
		EmployeeID: employeeID,
	}, TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	result.Token = token

	if err := s.Directory.Store.TouchLastLogin(ctx, user.ID); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (s *Service) Register(ctx context.Context, input directory.CreateUserInput, password string) (directory.User, directory.Employee, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return directory.User{}, directory.Employee{}, err
	}
	input.PasswordHash = hash
	return s.Directory.CreateUserWithProfile(ctx, input)
}

func (s *Service) Me(ctx context.Context, userID int64) (directory.UserWithProfile, error) {
	return s.Directory.GetUser(ctx, userID)
}
