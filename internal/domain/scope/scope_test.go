package scope

import (
	"errors"
	"testing"

	"hrms/internal/domain/auth"
)

func TestResolveAdminAndHRUnrestricted(t *testing.T) {
	for _, role := range []string{auth.RoleAdmin, auth.RoleHRManager} {
		filter, err := Resolve(role, 0)
		if err != nil {
			t.Fatalf("unexpected error for role %s: %v", role, err)
		}
		if !filter.Unrestricted() {
			t.Fatalf("expected unrestricted filter for role %s", role)
		}
		pred, args := filter.Predicate("e", 1)
		if pred != "" || args != nil {
			t.Fatalf("expected empty predicate, got %q with %v", pred, args)
		}
	}
}

func TestResolveManagerRequiresEmployeeID(t *testing.T) {
	_, err := Resolve(auth.RoleManager, 0)
	if !errors.Is(err, ErrManagerScopeRequired) {
		t.Fatalf("expected ErrManagerScopeRequired, got %v", err)
	}
}

func TestResolveManagerPredicate(t *testing.T) {
	filter, err := Resolve(auth.RoleManager, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filter.Unrestricted() {
		t.Fatal("expected restricted filter")
	}
	pred, args := filter.Predicate("e", 3)
	if pred != "e.manager_id = $3" {
		t.Fatalf("unexpected predicate %q", pred)
	}
	if len(args) != 1 || args[0].(int64) != 42 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestResolveEmployeeUnrestricted(t *testing.T) {
	filter, err := Resolve(auth.RoleEmployee, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !filter.Unrestricted() {
		t.Fatal("expected unrestricted filter for employee role")
	}
}
