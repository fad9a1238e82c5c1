package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDaysInclusive(t *testing.T) {
	days, err := CalculateDays(date(2026, 3, 2), date(2026, 3, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 5 {
		t.Fatalf("expected 5 days, got %d", days)
	}
}

func TestCalculateDaysSameDay(t *testing.T) {
	days, err := CalculateDays(date(2026, 3, 2), date(2026, 3, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days != 1 {
		t.Fatalf("expected same-day request to count 1 day, got %d", days)
	}
}

func TestCalculateDaysRejectsInvertedRange(t *testing.T) {
	if _, err := CalculateDays(date(2026, 3, 6), date(2026, 3, 2)); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestComputeBalanceZeroState(t *testing.T) {
	balance := ComputeBalance(nil)
	if balance.Annual != 25 || balance.Sick != 15 || balance.TotalUsed != 0 {
		t.Fatalf("unexpected zero-state balance: %+v", balance)
	}
}

func TestComputeBalanceApprovedRequests(t *testing.T) {
	requests := []Request{
		{LeaveType: TypeAnnual, Days: 5, Status: StatusApproved},
		{LeaveType: TypeSick, Days: 2, Status: StatusApproved},
	}
	balance := ComputeBalance(requests)
	if balance.Annual != 20 {
		t.Fatalf("expected annual 20, got %d", balance.Annual)
	}
	if balance.Sick != 13 {
		t.Fatalf("expected sick 13, got %d", balance.Sick)
	}
	if balance.TotalUsed != 7 {
		t.Fatalf("expected total used 7, got %d", balance.TotalUsed)
	}
}

func TestComputeBalanceIgnoresPendingAndRejected(t *testing.T) {
	requests := []Request{
		{LeaveType: TypeAnnual, Days: 10, Status: StatusPending},
		{LeaveType: TypeSick, Days: 4, Status: StatusRejected},
	}
	balance := ComputeBalance(requests)
	if balance.Annual != 25 || balance.Sick != 15 || balance.TotalUsed != 0 {
		t.Fatalf("pending/rejected requests must not affect balance: %+v", balance)
	}
}

func TestComputeBalanceOtherTypesOnlyCountTowardTotal(t *testing.T) {
	requests := []Request{
		{LeaveType: TypeMaternity, Days: 30, Status: StatusApproved},
	}
	balance := ComputeBalance(requests)
	if balance.Annual != 25 || balance.Sick != 15 {
		t.Fatalf("maternity leave must not reduce typed quotas: %+v", balance)
	}
	if balance.TotalUsed != 30 {
		t.Fatalf("expected total used 30, got %d", balance.TotalUsed)
	}
}
