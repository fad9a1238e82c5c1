package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/platform/config"
)

// The journey test runs the full HTTP stack against a real database. Set
// TEST_DATABASE_URL to a disposable Postgres instance to enable it.
func newTestApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:               ":0",
		DatabaseURL:        dsn,
		JWTSecret:          "journey-test-secret",
		Environment:        "test",
		MigrationsDir:      "../../../../migrations",
		RunMigrations:      true,
		RunSeed:            false,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 10000,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	t.Cleanup(app.Close)

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return app, srv
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any) (int, envelope) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s response: %v", method, url, err)
	}
	return resp.StatusCode, env
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestEmployeeLifecycleJourney(t *testing.T) {
	_, srv := newTestApp(t)
	client := srv.Client()
	base := srv.URL + "/api/v1"
	suffix := time.Now().UnixNano()

	// Register an HR manager; registration is the bootstrap path.
	hrEmail := fmt.Sprintf("hr-%d@example.com", suffix)
	status, env := doJSON(t, client, http.MethodPost, base+"/auth/register", "", map[string]any{
		"email":        hrEmail,
		"password":     "hr-password-1",
		"role":         "hr_manager",
		"employeeCode": fmt.Sprintf("HR-%d", suffix),
		"firstName":    "Hana",
		"lastName":     "Reyes",
		"hireDate":     "2024-01-15",
	})
	if status != http.StatusCreated {
		t.Fatalf("register hr status = %d, error = %+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodPost, base+"/auth/login", "", map[string]any{
		"email":    hrEmail,
		"password": "hr-password-1",
	})
	if status != http.StatusOK {
		t.Fatalf("login hr status = %d, error = %+v", status, env.Error)
	}
	var hrLogin struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &hrLogin)
	if hrLogin.Token == "" {
		t.Fatal("login returned empty token")
	}

	// Duplicate email must conflict.
	status, env = doJSON(t, client, http.MethodPost, base+"/auth/register", "", map[string]any{
		"email":        hrEmail,
		"password":     "other-password",
		"employeeCode": fmt.Sprintf("DUP-%d", suffix),
		"firstName":    "Dup",
		"lastName":     "Licate",
		"hireDate":     "2024-01-15",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409 (error = %+v)", status, env.Error)
	}

	// HR creates a department.
	deptName := fmt.Sprintf("Engineering-%d", suffix)
	status, env = doJSON(t, client, http.MethodPost, base+"/departments", hrLogin.Token, map[string]any{
		"name": deptName,
	})
	if status != http.StatusCreated {
		t.Fatalf("create department status = %d, error = %+v", status, env.Error)
	}
	var dept struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &dept)

	// Register an employee in that department.
	empEmail := fmt.Sprintf("emp-%d@example.com", suffix)
	status, env = doJSON(t, client, http.MethodPost, base+"/auth/register", "", map[string]any{
		"email":        empEmail,
		"password":     "emp-password-1",
		"employeeCode": fmt.Sprintf("EMP-%d", suffix),
		"firstName":    "Evan",
		"lastName":     "Moss",
		"department":   deptName,
		"hireDate":     "2025-03-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("register employee status = %d, error = %+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodPost, base+"/auth/login", "", map[string]any{
		"email":    empEmail,
		"password": "emp-password-1",
	})
	if status != http.StatusOK {
		t.Fatalf("login employee status = %d, error = %+v", status, env.Error)
	}
	var empLogin struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &empLogin)

	// The department is now in use and cannot be deleted.
	status, env = doJSON(t, client, http.MethodDelete, fmt.Sprintf("%s/departments/%d", base, dept.ID), hrLogin.Token, nil)
	if status != http.StatusConflict {
		t.Fatalf("delete in-use department status = %d, want 409 (error = %+v)", status, env.Error)
	}

	// Attendance: check in, double check-in conflicts, then check out.
	status, env = doJSON(t, client, http.MethodPost, base+"/attendance/check-in", empLogin.Token, map[string]any{"location": "office"})
	if status != http.StatusCreated {
		t.Fatalf("check-in status = %d, error = %+v", status, env.Error)
	}
	status, env = doJSON(t, client, http.MethodPost, base+"/attendance/check-in", empLogin.Token, nil)
	if status != http.StatusConflict {
		t.Fatalf("double check-in status = %d, want 409 (error = %+v)", status, env.Error)
	}
	status, env = doJSON(t, client, http.MethodPost, base+"/attendance/check-out", empLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("check-out status = %d, error = %+v", status, env.Error)
	}

	// Leave workflow: request, approve, balance reflects approved days. The
	// dates stay inside the current calendar year so they count against this
	// year's balance whenever the test runs.
	year := time.Now().Year()
	status, env = doJSON(t, client, http.MethodPost, base+"/leaves", empLogin.Token, map[string]any{
		"leaveType": "annual",
		"startDate": fmt.Sprintf("%d-06-01", year),
		"endDate":   fmt.Sprintf("%d-06-05", year),
		"reason":    "family trip",
	})
	if status != http.StatusCreated {
		t.Fatalf("create leave status = %d, error = %+v", status, env.Error)
	}
	var leaveReq struct {
		ID   int64 `json:"id"`
		Days int   `json:"daysRequested"`
	}
	decodeData(t, env, &leaveReq)
	if leaveReq.Days != 5 {
		t.Fatalf("daysRequested = %d, want 5", leaveReq.Days)
	}

	// An employee cannot approve.
	status, env = doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/leaves/%d/approve", base, leaveReq.ID), empLogin.Token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("employee approve status = %d, want 403 (error = %+v)", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/leaves/%d/approve", base, leaveReq.ID), hrLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("approve status = %d, error = %+v", status, env.Error)
	}

	// A second decision on the same request is an invalid state.
	status, env = doJSON(t, client, http.MethodPost, fmt.Sprintf("%s/leaves/%d/reject", base, leaveReq.ID), hrLogin.Token, nil)
	if status != http.StatusConflict {
		t.Fatalf("re-decide status = %d, want 409 (error = %+v)", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/leaves/balance", empLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("balance status = %d, error = %+v", status, env.Error)
	}
	var balance struct {
		Annual    int `json:"annual"`
		Sick      int `json:"sick"`
		TotalUsed int `json:"totalUsed"`
	}
	decodeData(t, env, &balance)
	if balance.Annual != 20 || balance.Sick != 15 || balance.TotalUsed != 5 {
		t.Fatalf("balance = %+v, want annual 20, sick 15, totalUsed 5", balance)
	}

	// Employee sees a notification about the decision.
	status, env = doJSON(t, client, http.MethodGet, base+"/notifications/unread-count", empLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("unread-count status = %d, error = %+v", status, env.Error)
	}
	var unread struct {
		Unread int `json:"unread"`
	}
	decodeData(t, env, &unread)
	if unread.Unread < 1 {
		t.Fatalf("unread = %d, want at least 1", unread.Unread)
	}

	// Dashboard responds for both roles.
	status, env = doJSON(t, client, http.MethodGet, base+"/dashboard/stats", hrLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("dashboard stats status = %d, error = %+v", status, env.Error)
	}
	var stats struct {
		TotalEmployees int `json:"totalEmployees"`
	}
	decodeData(t, env, &stats)
	if stats.TotalEmployees < 2 {
		t.Fatalf("totalEmployees = %d, want at least 2", stats.TotalEmployees)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/dashboard/leave-stats", empLogin.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("leave-stats status = %d, error = %+v", status, env.Error)
	}
}

// registerAccount registers a user and returns the login token plus the new
// employee id.
func registerAccount(t *testing.T, client *http.Client, base string, payload map[string]any) (string, int64) {
	t.Helper()

	status, env := doJSON(t, client, http.MethodPost, base+"/auth/register", "", payload)
	if status != http.StatusCreated {
		t.Fatalf("register %v status = %d, error = %+v", payload["email"], status, env.Error)
	}
	var created struct {
		Employee struct {
			ID int64 `json:"id"`
		} `json:"employee"`
	}
	decodeData(t, env, &created)

	status, env = doJSON(t, client, http.MethodPost, base+"/auth/login", "", map[string]any{
		"email":    payload["email"],
		"password": payload["password"],
	})
	if status != http.StatusOK {
		t.Fatalf("login %v status = %d, error = %+v", payload["email"], status, env.Error)
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeData(t, env, &login)
	return login.Token, created.Employee.ID
}

// A manager's views cover exactly their direct reports: dashboard counters,
// pending approvals, and the team listings all exclude everyone else.
func TestManagerScopedViews(t *testing.T) {
	_, srv := newTestApp(t)
	client := srv.Client()
	base := srv.URL + "/api/v1"
	suffix := time.Now().UnixNano()

	hrToken, _ := registerAccount(t, client, base, map[string]any{
		"email":        fmt.Sprintf("scope-hr-%d@example.com", suffix),
		"password":     "hr-password-1",
		"role":         "hr_manager",
		"employeeCode": fmt.Sprintf("SHR-%d", suffix),
		"firstName":    "Hild",
		"lastName":     "Reyes",
		"hireDate":     "2023-02-01",
	})
	managerToken, managerEmpID := registerAccount(t, client, base, map[string]any{
		"email":        fmt.Sprintf("scope-mgr-%d@example.com", suffix),
		"password":     "mgr-password-1",
		"role":         "manager",
		"employeeCode": fmt.Sprintf("MGR-%d", suffix),
		"firstName":    "Mara",
		"lastName":     "Voss",
		"hireDate":     "2023-06-01",
	})
	reportAToken, reportAEmpID := registerAccount(t, client, base, map[string]any{
		"email":        fmt.Sprintf("scope-rep-a-%d@example.com", suffix),
		"password":     "rep-password-1",
		"employeeCode": fmt.Sprintf("RPA-%d", suffix),
		"firstName":    "Rena",
		"lastName":     "Abel",
		"hireDate":     "2024-04-01",
		"managerId":    managerEmpID,
	})
	registerAccount(t, client, base, map[string]any{
		"email":        fmt.Sprintf("scope-rep-b-%d@example.com", suffix),
		"password":     "rep-password-1",
		"employeeCode": fmt.Sprintf("RPB-%d", suffix),
		"firstName":    "Remy",
		"lastName":     "Bool",
		"hireDate":     "2024-05-01",
		"managerId":    managerEmpID,
	})
	outsiderToken, _ := registerAccount(t, client, base, map[string]any{
		"email":        fmt.Sprintf("scope-out-%d@example.com", suffix),
		"password":     "out-password-1",
		"employeeCode": fmt.Sprintf("OUT-%d", suffix),
		"firstName":    "Olive",
		"lastName":     "Park",
		"hireDate":     "2024-06-01",
	})

	// Report A checks in; HR pins the status to present so the counters do
	// not depend on the time of day the test runs. Report B never checks in
	// and must show up as absent.
	status, env := doJSON(t, client, http.MethodPost, base+"/attendance/check-in", reportAToken, nil)
	if status != http.StatusCreated {
		t.Fatalf("report A check-in status = %d, error = %+v", status, env.Error)
	}
	var checkIn struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &checkIn)
	status, env = doJSON(t, client, http.MethodPut, fmt.Sprintf("%s/attendance/%d/status", base, checkIn.ID), hrToken, map[string]any{
		"status": "present",
	})
	if status != http.StatusOK {
		t.Fatalf("status override = %d, error = %+v", status, env.Error)
	}

	// One pending request inside the team, one outside it.
	year := time.Now().Year()
	status, env = doJSON(t, client, http.MethodPost, base+"/leaves", reportAToken, map[string]any{
		"leaveType": "sick",
		"startDate": fmt.Sprintf("%d-07-01", year),
		"endDate":   fmt.Sprintf("%d-07-02", year),
	})
	if status != http.StatusCreated {
		t.Fatalf("report A leave status = %d, error = %+v", status, env.Error)
	}
	var teamLeave struct {
		ID int64 `json:"id"`
	}
	decodeData(t, env, &teamLeave)
	status, env = doJSON(t, client, http.MethodPost, base+"/leaves", outsiderToken, map[string]any{
		"leaveType": "annual",
		"startDate": fmt.Sprintf("%d-07-01", year),
		"endDate":   fmt.Sprintf("%d-07-02", year),
	})
	if status != http.StatusCreated {
		t.Fatalf("outsider leave status = %d, error = %+v", status, env.Error)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/dashboard/stats", managerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager stats status = %d, error = %+v", status, env.Error)
	}
	var stats struct {
		TotalEmployees       int `json:"totalEmployees"`
		PresentToday         int `json:"presentToday"`
		AbsentToday          int `json:"absentToday"`
		LateToday            int `json:"lateToday"`
		PendingLeaveRequests int `json:"pendingLeaveRequests"`
		TotalDepartments     int `json:"totalDepartments"`
	}
	decodeData(t, env, &stats)
	if stats.TotalEmployees != 2 {
		t.Errorf("totalEmployees = %d, want 2", stats.TotalEmployees)
	}
	if stats.PresentToday != 1 || stats.AbsentToday != 1 || stats.LateToday != 0 {
		t.Errorf("present/absent/late = %d/%d/%d, want 1/1/0", stats.PresentToday, stats.AbsentToday, stats.LateToday)
	}
	if stats.PendingLeaveRequests != 1 {
		t.Errorf("pendingLeaveRequests = %d, want 1", stats.PendingLeaveRequests)
	}
	if stats.TotalDepartments != 0 {
		t.Errorf("totalDepartments = %d, want 0 for a manager", stats.TotalDepartments)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/leaves/pending", managerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager pending status = %d, error = %+v", status, env.Error)
	}
	var pending []struct {
		ID         int64 `json:"id"`
		EmployeeID int64 `json:"employeeId"`
	}
	decodeData(t, env, &pending)
	if len(pending) != 1 {
		t.Fatalf("pending requests = %d, want 1 (only the report's)", len(pending))
	}
	if pending[0].ID != teamLeave.ID || pending[0].EmployeeID != reportAEmpID {
		t.Errorf("pending[0] = id %d employee %d, want id %d employee %d", pending[0].ID, pending[0].EmployeeID, teamLeave.ID, reportAEmpID)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/leaves/team", managerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager team leaves status = %d, error = %+v", status, env.Error)
	}
	var teamLeaves []struct {
		EmployeeID int64 `json:"employeeId"`
	}
	decodeData(t, env, &teamLeaves)
	if len(teamLeaves) != 1 || teamLeaves[0].EmployeeID != reportAEmpID {
		t.Errorf("team leaves = %+v, want one entry for employee %d", teamLeaves, reportAEmpID)
	}

	status, env = doJSON(t, client, http.MethodGet, base+"/attendance/team", managerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("manager team attendance status = %d, error = %+v", status, env.Error)
	}
	var teamAttendance []struct {
		EmployeeID int64  `json:"employeeId"`
		Status     string `json:"status"`
	}
	decodeData(t, env, &teamAttendance)
	if len(teamAttendance) != 1 || teamAttendance[0].EmployeeID != reportAEmpID {
		t.Fatalf("team attendance = %+v, want one row for employee %d", teamAttendance, reportAEmpID)
	}
	if teamAttendance[0].Status != "present" {
		t.Errorf("team attendance status = %q, want present", teamAttendance[0].Status)
	}
}

func TestAnonymousAccessRejected(t *testing.T) {
	_, srv := newTestApp(t)
	client := srv.Client()

	status, env := doJSON(t, client, http.MethodGet, srv.URL+"/api/v1/users", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous list users status = %d, want 401 (error = %+v)", status, env.Error)
	}
}

func TestHealthEndpoints(t *testing.T) {
	_, srv := newTestApp(t)
	client := srv.Client()

	for _, path := range []string{"/healthz", "/readyz"} {
		status, env := doJSON(t, client, http.MethodGet, srv.URL+path, "", nil)
		if status != http.StatusOK {
			t.Fatalf("%s status = %d, error = %+v", path, status, env.Error)
		}
	}
}
