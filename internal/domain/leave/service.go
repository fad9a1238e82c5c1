package leave

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Create persists a new pending request. Entitlement is advisory and not
// checked here; a request may exceed it and still be created.
func (s *Service) Create(ctx context.Context, employeeID int64, leaveType string, start, end time.Time, reason *string) (Request, error) {
	exists, err := s.Store.EmployeeExists(ctx, employeeID)
	if err != nil {
		return Request{}, err
	}
	if !exists {
		return Request{}, fmt.Errorf("employee profile: %w", ErrNotFound)
	}

	days, err := CalculateDays(start, end)
	if err != nil {
		return Request{}, err
	}

	return s.Store.Create(ctx, Request{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Reason:     reason,
	})
}

func (s *Service) Mine(ctx context.Context, employeeID int64, limit, offset int) ([]Request, error) {
	return s.Store.Mine(ctx, employeeID, limit, offset)
}

func (s *Service) Pending(ctx context.Context, managerID *int64, limit, offset int) ([]Request, error) {
	return s.Store.Pending(ctx, managerID, limit, offset)
}

func (s *Service) Team(ctx context.Context, managerID int64, limit, offset int) ([]Request, error) {
	return s.Store.Team(ctx, managerID, limit, offset)
}

func (s *Service) All(ctx context.Context, limit, offset int) ([]Request, error) {
	return s.Store.All(ctx, limit, offset)
}

func (s *Service) Approve(ctx context.Context, requestID, approverID int64) (Request, error) {
	if err := s.requireEmployee(ctx, approverID); err != nil {
		return Request{}, err
	}
	return s.Store.Decide(ctx, requestID, approverID, StatusApproved, nil)
}

func (s *Service) Reject(ctx context.Context, requestID, approverID int64, reason *string) (Request, error) {
	if err := s.requireEmployee(ctx, approverID); err != nil {
		return Request{}, err
	}
	return s.Store.Decide(ctx, requestID, approverID, StatusRejected, reason)
}

// Balance derives the current-year entitlement balance from approved
// requests.
func (s *Service) Balance(ctx context.Context, employeeID int64, now time.Time) (Balance, error) {
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return Balance{}, err
	}
	requests, err := s.Store.ForYear(ctx, employeeID, now.Year())
	if err != nil {
		return Balance{}, err
	}
	return ComputeBalance(requests), nil
}

func (s *Service) requireEmployee(ctx context.Context, id int64) error {
	exists, err := s.Store.EmployeeExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("employee profile: %w", ErrNotFound)
	}
	return nil
}
