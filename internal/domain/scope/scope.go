// Package scope resolves the caller's role into a row-visibility filter
// applied by every aggregation query.
package scope

import (
	"errors"
	"fmt"

	"hrms/internal/domain/auth"
)

var ErrManagerScopeRequired = errors.New("manager scope requires an acting employee id")

type mode int

const (
	modeAll mode = iota
	modeManager
)

// Filter bounds queries to the rows the caller may see.
type Filter struct {
	mode       mode
	employeeID int64
}

func All() Filter {
	return Filter{mode: modeAll}
}

func Manager(employeeID int64) Filter {
	return Filter{mode: modeManager, employeeID: employeeID}
}

// Resolve maps (role, acting employee id) to a filter. Admins and HR see
// everything; managers see their direct reports. A manager without an
// employee profile cannot be scoped and the call fails rather than silently
// widening to organization-wide data.
func Resolve(role string, actingEmployeeID int64) (Filter, error) {
	switch role {
	case auth.RoleAdmin, auth.RoleHRManager:
		return All(), nil
	case auth.RoleManager:
		if actingEmployeeID == 0 {
			return Filter{}, ErrManagerScopeRequired
		}
		return Manager(actingEmployeeID), nil
	default:
		return All(), nil
	}
}

func (f Filter) Unrestricted() bool {
	return f.mode == modeAll
}

// Predicate renders the filter as a SQL condition against an employees-table
// alias, with positional arguments starting at argPos. Unrestricted filters
// render to an empty string.
func (f Filter) Predicate(alias string, argPos int) (string, []any) {
	if f.mode != modeManager {
		return "", nil
	}
	return fmt.Sprintf("%s.manager_id = $%d", alias, argPos), []any{f.employeeID}
}
