package attendance

import (
	"context"
	"errors"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CheckIn opens today's record for the employee. A second check-in on the
// same day conflicts.
func (s *Service) CheckIn(ctx context.Context, employeeID int64, now time.Time, location, notes *string) (Record, error) {
	checkIn := now
	return s.Store.Insert(ctx, Record{
		EmployeeID:      employeeID,
		Date:            dateOf(now),
		CheckInTime:     &checkIn,
		CheckInLocation: location,
		Status:          StatusForCheckIn(now),
		Notes:           notes,
	})
}

// CheckOut closes today's record, computing worked and overtime hours.
func (s *Service) CheckOut(ctx context.Context, employeeID int64, now time.Time, location *string) (Record, error) {
	rec, err := s.Store.ForDate(ctx, employeeID, dateOf(now))
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if rec.CheckOutTime != nil {
		return Record{}, ErrAlreadyCheckedOut
	}
	if rec.CheckInTime == nil {
		return Record{}, ErrNotCheckedIn
	}

	work, overtime := ComputeHours(*rec.CheckInTime, now)
	return s.Store.Complete(ctx, rec.ID, now, location, work, overtime)
}

func (s *Service) Today(ctx context.Context, employeeID int64, now time.Time) (Record, error) {
	return s.Store.ForDate(ctx, employeeID, dateOf(now))
}

func (s *Service) History(ctx context.Context, employeeID int64, from, to *time.Time, limit, offset int) ([]Record, error) {
	return s.Store.History(ctx, employeeID, from, to, limit, offset)
}

func (s *Service) Team(ctx context.Context, managerID int64, date time.Time) ([]Record, error) {
	return s.Store.Team(ctx, managerID, dateOf(date))
}

func (s *Service) ByDate(ctx context.Context, date time.Time) ([]Record, error) {
	return s.Store.ByDate(ctx, dateOf(date))
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Record, error) {
	return s.Store.UpdateStatus(ctx, id, status)
}
