package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"
)

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AttendanceRate is a one-decimal percentage, 0 for an empty department.
func AttendanceRate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(present)/float64(total)*1000) / 10
}

// DeriveAbsent infers absentees as everyone under scope without a present or
// late row today, clamped at zero.
func DeriveAbsent(total, present, late int) int {
	absent := total - present - late
	if absent < 0 {
		return 0
	}
	return absent
}

// AttendanceEventRow is one attendance record flattened for the activity
// feed.
type AttendanceEventRow struct {
	ID           int64
	EmployeeName string
	CheckIn      *time.Time
	CheckOut     *time.Time
}

// LeaveEventRow is one leave request flattened for the activity feed.
type LeaveEventRow struct {
	ID           int64
	EmployeeName string
	LeaveType    string
	Status       string
	CreatedAt    time.Time
	ApprovedAt   *time.Time
}

// BuildActivities merges attendance and leave events into a single feed,
// newest first, truncated to limit. Check-in and check-out become separate
// events; a resolved leave request contributes both its submission and its
// decision.
func BuildActivities(attendance []AttendanceEventRow, leaves []LeaveEventRow, attendanceSince, leaveSince time.Time, limit int) []Activity {
	activities := make([]Activity, 0, len(attendance)*2+len(leaves)*2)

	for _, row := range attendance {
		if row.CheckIn != nil && !row.CheckIn.Before(attendanceSince) {
			activities = append(activities, Activity{
				ID:           fmt.Sprintf("att-%d-in", row.ID),
				EmployeeName: row.EmployeeName,
				Type:         ActivityCheckIn,
				Description:  row.EmployeeName + " checked in",
				Timestamp:    *row.CheckIn,
			})
		}
		if row.CheckOut != nil && !row.CheckOut.Before(attendanceSince) {
			activities = append(activities, Activity{
				ID:           fmt.Sprintf("att-%d-out", row.ID),
				EmployeeName: row.EmployeeName,
				Type:         ActivityCheckOut,
				Description:  row.EmployeeName + " checked out",
				Timestamp:    *row.CheckOut,
			})
		}
	}

	for _, row := range leaves {
		if !row.CreatedAt.Before(leaveSince) {
			activities = append(activities, Activity{
				ID:           fmt.Sprintf("leave-%d", row.ID),
				EmployeeName: row.EmployeeName,
				Type:         ActivityLeaveRequest,
				Description:  row.EmployeeName + " requested " + row.LeaveType + " leave",
				Timestamp:    row.CreatedAt,
			})
		}
		if row.ApprovedAt == nil || row.ApprovedAt.Before(leaveSince) {
			continue
		}
		switch row.Status {
		case "approved":
			activities = append(activities, Activity{
				ID:           fmt.Sprintf("leave-%d-approved", row.ID),
				EmployeeName: row.EmployeeName,
				Type:         ActivityLeaveApproved,
				Description:  row.LeaveType + " leave for " + row.EmployeeName + " approved",
				Timestamp:    *row.ApprovedAt,
			})
		case "rejected":
			activities = append(activities, Activity{
				ID:           fmt.Sprintf("leave-%d-rejected", row.ID),
				EmployeeName: row.EmployeeName,
				Type:         ActivityLeaveRejected,
				Description:  row.LeaveType + " leave for " + row.EmployeeName + " rejected",
				Timestamp:    *row.ApprovedAt,
			})
		}
	}

	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities
}

// DayCount is one (date, status, count) aggregation row.
type DayCount struct {
	Date   time.Time
	Status string
	Count  int
}

// BuildSummary expands aggregation rows into one entry per calendar day for
// the trailing window, oldest first. Days without rows yield zeros.
func BuildSummary(now time.Time, days int, counts []DayCount) []DaySummary {
	if days <= 0 {
		return nil
	}
	index := make(map[string]*DaySummary, days)
	out := make([]DaySummary, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		key := day.Format("2006-01-02")
		out = append(out, DaySummary{Date: key})
		index[key] = &out[len(out)-1]
	}

	for _, row := range counts {
		entry, ok := index[row.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		switch row.Status {
		case "present":
			entry.Present = row.Count
		case "absent":
			entry.Absent = row.Count
		case "late":
			entry.Late = row.Count
		case "early_leave":
			entry.EarlyLeave = row.Count
		}
	}
	return out
}

// SortDepartments orders department stats by headcount, largest first.
func SortDepartments(stats []DepartmentStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalEmployees == stats[j].TotalEmployees {
			return stats[i].Department < stats[j].Department
		}
		return stats[i].TotalEmployees > stats[j].TotalEmployees
	})
}
