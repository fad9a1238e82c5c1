package dashboard

import (
	"testing"
	"time"
)

func TestAttendanceRate(t *testing.T) {
	if got := AttendanceRate(1, 2); got != 50.0 {
		t.Fatalf("expected 50.0, got %v", got)
	}
	if got := AttendanceRate(1, 1); got != 100.0 {
		t.Fatalf("expected 100.0, got %v", got)
	}
	if got := AttendanceRate(0, 0); got != 0 {
		t.Fatalf("expected 0 for empty department, got %v", got)
	}
	if got := AttendanceRate(1, 3); got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
}

func TestDeriveAbsent(t *testing.T) {
	if got := DeriveAbsent(2, 1, 0); got != 1 {
		t.Fatalf("expected 1 absent, got %d", got)
	}
	if got := DeriveAbsent(2, 1, 1); got != 0 {
		t.Fatalf("expected 0 absent, got %d", got)
	}
	// Stale attendance rows must not drive the count negative.
	if got := DeriveAbsent(1, 2, 1); got != 0 {
		t.Fatalf("expected clamp at 0, got %d", got)
	}
}

func TestBuildActivitiesMergeSortTruncate(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	since := base.Add(-24 * time.Hour)
	in1 := base
	out1 := base.Add(9 * time.Hour)
	approvedAt := base.Add(2 * time.Hour)

	attendance := []AttendanceEventRow{
		{ID: 1, EmployeeName: "Ada Smith", CheckIn: &in1, CheckOut: &out1},
	}
	leaves := []LeaveEventRow{
		{ID: 5, EmployeeName: "Bob Jones", LeaveType: "annual", Status: "approved", CreatedAt: base.Add(time.Hour), ApprovedAt: &approvedAt},
	}

	feed := BuildActivities(attendance, leaves, since, since, 10)
	if len(feed) != 4 {
		t.Fatalf("expected 4 events, got %d", len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].Timestamp.After(feed[i-1].Timestamp) {
			t.Fatalf("feed not sorted newest first at index %d", i)
		}
	}
	if feed[0].Type != ActivityCheckOut {
		t.Fatalf("expected newest event to be the check-out, got %s", feed[0].Type)
	}

	truncated := BuildActivities(attendance, leaves, since, since, 2)
	if len(truncated) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(truncated))
	}
}

func TestBuildActivitiesSkipsEventsBeforeWindow(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	old := base.Add(-48 * time.Hour)
	attendance := []AttendanceEventRow{
		{ID: 1, EmployeeName: "Ada Smith", CheckIn: &old},
	}
	feed := BuildActivities(attendance, nil, base.Add(-24*time.Hour), base.Add(-7*24*time.Hour), 10)
	if len(feed) != 0 {
		t.Fatalf("expected stale check-in to be excluded, got %d events", len(feed))
	}
}

func TestBuildSummaryFillsZeroDays(t *testing.T) {
	now := time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC)
	counts := []DayCount{
		{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Status: "present", Count: 3},
		{Date: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), Status: "late", Count: 1},
	}

	summary := BuildSummary(now, 3, counts)
	if len(summary) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(summary))
	}
	if summary[0].Date != "2026-03-04" || summary[2].Date != "2026-03-06" {
		t.Fatalf("expected oldest-first ordering, got %s..%s", summary[0].Date, summary[2].Date)
	}
	if summary[0].Present != 0 || summary[0].Absent != 0 {
		t.Fatalf("expected zeros for empty day, got %+v", summary[0])
	}
	if summary[1].Present != 3 || summary[1].Late != 1 {
		t.Fatalf("expected counts applied to 2026-03-05, got %+v", summary[1])
	}
}

func TestSortDepartments(t *testing.T) {
	stats := []DepartmentStat{
		{Department: "Sales", TotalEmployees: 2},
		{Department: "Engineering", TotalEmployees: 5},
		{Department: "Finance", TotalEmployees: 2},
	}
	SortDepartments(stats)
	if stats[0].Department != "Engineering" {
		t.Fatalf("expected Engineering first, got %s", stats[0].Department)
	}
	if stats[1].Department != "Finance" || stats[2].Department != "Sales" {
		t.Fatalf("expected name tiebreak, got %s, %s", stats[1].Department, stats[2].Department)
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(7.25); got != 7.3 {
		t.Fatalf("expected 7.3, got %v", got)
	}
	if got := Round1(0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}
