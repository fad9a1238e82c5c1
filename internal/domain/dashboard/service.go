package dashboard

import (
	"context"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/scope"
)

const DefaultActivityLimit = 10

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Stats aggregates the landing-page numbers under the caller's scope.
// Absentees are derived, so employees without an attendance row today count
// as absent. Department counts are an organization-wide concept and are
// hidden from managers.
func (s *Service) Stats(ctx context.Context, role string, actingEmployeeID int64, now time.Time) (Stats, error) {
	filter, err := scope.Resolve(role, actingEmployeeID)
	if err != nil {
		return Stats{}, err
	}
	today := dateOf(now)

	total, err := s.Store.CountEmployees(ctx, filter)
	if err != nil {
		return Stats{}, err
	}
	statusCounts, err := s.Store.TodayStatusCounts(ctx, filter, today)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.Store.CountPendingLeaves(ctx, filter)
	if err != nil {
		return Stats{}, err
	}

	departments := 0
	if role != auth.RoleManager {
		departments, err = s.Store.CountDepartments(ctx)
		if err != nil {
			return Stats{}, err
		}
	}

	weekAgo := today.AddDate(0, 0, -6)
	avgHours, err := s.Store.AverageWorkHours(ctx, filter, weekAgo, today)
	if err != nil {
		return Stats{}, err
	}

	present := statusCounts["present"]
	late := statusCounts["late"]
	return Stats{
		TotalEmployees:       total,
		PresentToday:         present,
		LateToday:            late,
		AbsentToday:          DeriveAbsent(total, present, late),
		PendingLeaveRequests: pending,
		TotalDepartments:     departments,
		AverageWorkHours:     Round1(avgHours),
	}, nil
}

// RecentActivities merges check-in/out events from the last 24 hours with
// leave events from the last 7 days, newest first.
func (s *Service) RecentActivities(ctx context.Context, role string, actingEmployeeID int64, limit int, now time.Time) ([]Activity, error) {
	filter, err := scope.Resolve(role, actingEmployeeID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	attendanceSince := now.Add(-24 * time.Hour)
	leaveSince := now.AddDate(0, 0, -7)

	attendance, err := s.Store.AttendanceEvents(ctx, filter, attendanceSince)
	if err != nil {
		return nil, err
	}
	leaves, err := s.Store.LeaveEvents(ctx, filter, leaveSince)
	if err != nil {
		return nil, err
	}

	return BuildActivities(attendance, leaves, attendanceSince, leaveSince, limit), nil
}

// AttendanceSummary returns one entry per day for the trailing window,
// oldest first. Unlike Stats, it does not infer absentees for missing rows.
func (s *Service) AttendanceSummary(ctx context.Context, role string, actingEmployeeID int64, days int, now time.Time) ([]DaySummary, error) {
	filter, err := scope.Resolve(role, actingEmployeeID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	today := dateOf(now)
	from := today.AddDate(0, 0, -(days - 1))
	counts, err := s.Store.SummaryCounts(ctx, filter, from, today)
	if err != nil {
		return nil, err
	}
	return BuildSummary(today, days, counts), nil
}

func (s *Service) DepartmentStats(ctx context.Context, role string, actingEmployeeID int64, now time.Time) ([]DepartmentStat, error) {
	filter, err := scope.Resolve(role, actingEmployeeID)
	if err != nil {
		return nil, err
	}

	stats, err := s.Store.DepartmentRows(ctx, filter, dateOf(now))
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].AttendanceRate = AttendanceRate(stats[i].Present, stats[i].TotalEmployees)
	}
	SortDepartments(stats)
	return stats, nil
}

func (s *Service) LeaveStats(ctx context.Context, role string, actingEmployeeID int64, now time.Time) (LeaveStats, error) {
	filter, err := scope.Resolve(role, actingEmployeeID)
	if err != nil {
		return LeaveStats{}, err
	}

	pending, err := s.Store.CountPendingLeaves(ctx, filter)
	if err != nil {
		return LeaveStats{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	approved, rejected, err := s.Store.DecisionCountsForMonth(ctx, filter, monthStart, monthEnd)
	if err != nil {
		return LeaveStats{}, err
	}

	mostCommon, err := s.Store.MostCommonLeaveType(ctx, filter)
	if err != nil {
		return LeaveStats{}, err
	}
	if mostCommon == "" {
		mostCommon = "annual"
	}

	avgDays, err := s.Store.AverageApprovedDays(ctx, filter)
	if err != nil {
		return LeaveStats{}, err
	}

	return LeaveStats{
		Pending:           pending,
		ApprovedThisMonth: approved,
		RejectedThisMonth: rejected,
		MostCommonType:    mostCommon,
		AverageDays:       Round1(avgDays),
	}, nil
}
