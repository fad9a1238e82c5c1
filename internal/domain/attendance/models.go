package attendance

import (
	"errors"
	"time"
)

const (
	StatusPresent    = "present"
	StatusAbsent     = "absent"
	StatusLate       = "late"
	StatusEarlyLeave = "early_leave"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusEarlyLeave}

var (
	ErrNotFound          = errors.New("attendance record not found")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrAlreadyCheckedOut = errors.New("already checked out today")
	ErrNotCheckedIn      = errors.New("no check-in recorded today")
)

type Record struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employeeId"`
	EmployeeName     string     `json:"employeeName,omitempty"`
	Date             time.Time  `json:"date"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	CheckInLocation  *string    `json:"checkInLocation,omitempty"`
	CheckOutLocation *string    `json:"checkOutLocation,omitempty"`
	Status           string     `json:"status"`
	WorkHours        *float64   `json:"workHours,omitempty"`
	OvertimeHours    *float64   `json:"overtimeHours,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
