package auth

import (
	"strings"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext password")
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("CheckPassword with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("CheckPassword with wrong password should fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: 7, Role: RoleManager, EmployeeID: 12}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Role != RoleManager {
		t.Errorf("Role = %q, want %q", claims.Role, RoleManager)
	}
	if claims.EmployeeID != 12 {
		t.Errorf("EmployeeID = %d, want 12", claims.EmployeeID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{UserID: 1, Role: RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("token signed with a different secret should not parse")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: 1, Role: RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expired token should not parse")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	if _, err := ParseToken("test-secret", strings.Repeat("x", 40)); err == nil {
		t.Fatal("garbage token should not parse")
	}
}

func TestRolePermissions(t *testing.T) {
	cases := []struct {
		role string
		perm string
		want bool
	}{
		{RoleAdmin, PermAuditRead, true},
		{RoleAdmin, PermUsersWrite, true},
		{RoleHRManager, PermUsersWrite, true},
		{RoleHRManager, PermAuditRead, false},
		{RoleManager, PermLeaveApprove, true},
		{RoleManager, PermUsersWrite, false},
		{RoleManager, PermLeaveAll, false},
		{RoleEmployee, PermLeaveRequest, true},
		{RoleEmployee, PermAttendanceTeam, false},
		{"intern", PermLeaveRequest, false},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.perm); got != tc.want {
			t.Errorf("HasPermission(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleHRManager, RoleManager, RoleEmployee} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("superuser") {
		t.Error("ValidRole(superuser) = true, want false")
	}
}
