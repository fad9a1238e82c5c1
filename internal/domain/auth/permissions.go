package auth

const (
	RoleAdmin     = "admin"
	RoleHRManager = "hr_manager"
	RoleManager   = "manager"
	RoleEmployee  = "employee"
)

const (
	PermUsersRead          = "users.read"
	PermUsersWrite         = "users.write"
	PermDepartmentsRead    = "departments.read"
	PermDepartmentsWrite   = "departments.write"
	PermAttendanceSelf     = "attendance.self"
	PermAttendanceTeam     = "attendance.team"
	PermAttendanceOverride = "attendance.override"
	PermLeaveRequest       = "leave.request"
	PermLeaveApprove       = "leave.approve"
	PermLeaveTeam          = "leave.team"
	PermLeaveAll           = "leave.all"
	PermDashboardRead      = "dashboard.read"
	PermNotificationsRead  = "notifications.read"
	PermAuditRead          = "audit.read"
	PermMetricsRead        = "metrics.read"
)

var RolePermissions = map[string][]string{
	RoleAdmin: {
		PermUsersRead, PermUsersWrite,
		PermDepartmentsRead, PermDepartmentsWrite,
		PermAttendanceSelf, PermAttendanceTeam, PermAttendanceOverride,
		PermLeaveRequest, PermLeaveApprove, PermLeaveTeam, PermLeaveAll,
		PermDashboardRead, PermNotificationsRead,
		PermAuditRead, PermMetricsRead,
	},
	RoleHRManager: {
		PermUsersRead, PermUsersWrite,
		PermDepartmentsRead, PermDepartmentsWrite,
		PermAttendanceSelf, PermAttendanceTeam, PermAttendanceOverride,
		PermLeaveRequest, PermLeaveApprove, PermLeaveTeam, PermLeaveAll,
		PermDashboardRead, PermNotificationsRead,
	},
	RoleManager: {
		PermUsersRead,
		PermDepartmentsRead,
		PermAttendanceSelf, PermAttendanceTeam,
		PermLeaveRequest, PermLeaveApprove, PermLeaveTeam,
		PermDashboardRead, PermNotificationsRead,
	},
	RoleEmployee: {
		PermDepartmentsRead,
		PermAttendanceSelf,
		PermLeaveRequest,
		PermDashboardRead, PermNotificationsRead,
	},
}

var permIndex = buildPermIndex()

func buildPermIndex() map[string]map[string]struct{} {
	index := make(map[string]map[string]struct{}, len(RolePermissions))
	for role, perms := range RolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		index[role] = set
	}
	return index
}

func HasPermission(role, permission string) bool {
	set, ok := permIndex[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
