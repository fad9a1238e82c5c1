package leave

import (
	"errors"
	"math"
	"time"
)

// CalculateDays returns the inclusive day count between start and end, so a
// same-day request counts as 1.
func CalculateDays(start, end time.Time) (int, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(math.Ceil(end.Sub(start).Hours()/24)) + 1, nil
}

// ComputeBalance derives the entitlement balance from a year's requests.
// Only approved requests consume entitlement; leave types without a displayed
// quota still count toward the total.
func ComputeBalance(requests []Request) Balance {
	var annualUsed, sickUsed, totalUsed int
	for _, req := range requests {
		if req.Status != StatusApproved {
			continue
		}
		totalUsed += req.Days
		switch req.LeaveType {
		case TypeAnnual:
			annualUsed += req.Days
		case TypeSick:
			sickUsed += req.Days
		}
	}
	return Balance{
		Annual:    AnnualEntitlement - annualUsed,
		Sick:      SickEntitlement - sickUsed,
		TotalUsed: totalUsed,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
