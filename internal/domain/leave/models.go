package leave

import (
	"errors"
	"time"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	TypeAnnual    = "annual"
	TypeSick      = "sick"
	TypeMaternity = "maternity"
	TypePaternity = "paternity"
	TypeEmergency = "emergency"
)

var Types = []string{TypeAnnual, TypeSick, TypeMaternity, TypePaternity, TypeEmergency}

// Yearly entitlements are fixed policy, not configurable per employee.
const (
	AnnualEntitlement = 25
	SickEntitlement   = 15
	MaxReasonLength   = 1000
)

var (
	ErrNotFound     = errors.New("leave request not found")
	ErrInvalidState = errors.New("leave request is not pending")
)

type Request struct {
	ID              int64      `json:"id"`
	EmployeeID      int64      `json:"employeeId"`
	EmployeeName    string     `json:"employeeName,omitempty"`
	LeaveType       string     `json:"leaveType"`
	StartDate       time.Time  `json:"startDate"`
	EndDate         time.Time  `json:"endDate"`
	Days            int        `json:"daysRequested"`
	Reason          *string    `json:"reason,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      *int64     `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type Balance struct {
	Annual    int `json:"annual"`
	Sick      int `json:"sick"`
	TotalUsed int `json:"totalUsed"`
}
