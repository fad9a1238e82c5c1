package dashboard

import "time"

type Stats struct {
	TotalEmployees       int     `json:"totalEmployees"`
	PresentToday         int     `json:"presentToday"`
	AbsentToday          int     `json:"absentToday"`
	LateToday            int     `json:"lateToday"`
	PendingLeaveRequests int     `json:"pendingLeaveRequests"`
	TotalDepartments     int     `json:"totalDepartments"`
	AverageWorkHours     float64 `json:"averageWorkHours"`
}

const (
	ActivityCheckIn       = "check_in"
	ActivityCheckOut      = "check_out"
	ActivityLeaveRequest  = "leave_request"
	ActivityLeaveApproved = "leave_approved"
	ActivityLeaveRejected = "leave_rejected"
)

type Activity struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employeeName"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}

type DaySummary struct {
	Date       string `json:"date"`
	Present    int    `json:"present"`
	Absent     int    `json:"absent"`
	Late       int    `json:"late"`
	EarlyLeave int    `json:"earlyLeave"`
}

type DepartmentStat struct {
	Department     string  `json:"department"`
	TotalEmployees int     `json:"totalEmployees"`
	Present        int     `json:"present"`
	AttendanceRate float64 `json:"attendanceRate"`
}

type LeaveStats struct {
	Pending           int     `json:"pending"`
	ApprovedThisMonth int     `json:"approvedThisMonth"`
	RejectedThisMonth int     `json:"rejectedThisMonth"`
	MostCommonType    string  `json:"mostCommonType"`
	AverageDays       float64 `json:"averageDays"`
}
