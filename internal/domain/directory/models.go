package directory

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type Employee struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	EmployeeCode string    `json:"employeeCode"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        *string   `json:"phone,omitempty"`
	Department   *string   `json:"department,omitempty"`
	Position     *string   `json:"position,omitempty"`
	HireDate     time.Time `json:"hireDate"`
	Salary       *float64  `json:"salary,omitempty"`
	ManagerID    *int64    `json:"managerId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (e Employee) DisplayName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ManagerID   *int64    `json:"managerId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UserWithProfile struct {
	User
	Employee *Employee `json:"employee,omitempty"`
}

// FlexFloat decodes a JSON number or a numeric string. Salary arrives both
// ways from clients.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(parsed)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}
