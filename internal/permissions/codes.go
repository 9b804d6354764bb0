package permissions

import "fmt"

// Code identifies one grantable capability. The catalog is closed: every code
// the system can grant is a constant below, and nothing constructs codes
// dynamically. Request payloads go through ParseCode before a Code exists.
type Code string

const (
	ViewSchedule Code = "VIEW_SCHEDULE"
	EditSchedule Code = "EDIT_SCHEDULE"

	ViewOwnTasks Code = "VIEW_OWN_TASKS"
	ViewAllTasks Code = "VIEW_ALL_TASKS"
	EditTasks    Code = "EDIT_TASKS"

	ViewOwnTimesheets Code = "VIEW_OWN_TIMESHEETS"
	ViewAllTimesheets Code = "VIEW_ALL_TIMESHEETS"
	EditTimesheets    Code = "EDIT_TIMESHEETS"

	ViewEmployees Code = "VIEW_EMPLOYEES"
	EditEmployees Code = "EDIT_EMPLOYEES"

	ViewPositions Code = "VIEW_POSITIONS"
	EditPositions Code = "EDIT_POSITIONS"

	ViewDepartments Code = "VIEW_DEPARTMENTS"
	EditDepartments Code = "EDIT_DEPARTMENTS"

	ViewRestaurants Code = "VIEW_RESTAURANTS"
	EditRestaurants Code = "EDIT_RESTAURANTS"

	RequestShiftSwap Code = "REQUEST_SHIFT_SWAP"
	ApproveShiftSwap Code = "APPROVE_SHIFT_SWAP"

	SendAnnouncements Code = "SEND_ANNOUNCEMENTS"
	ViewAnnouncements Code = "VIEW_ANNOUNCEMENTS"

	ViewReports   Code = "VIEW_REPORTS"
	ExportReports Code = "EXPORT_REPORTS"
)

// allCodes is the full catalog in declaration order. OWNER/ADMIN permission
// enumeration expands to exactly this set.
var allCodes = []Code{
	ViewSchedule,
	EditSchedule,
	ViewOwnTasks,
	ViewAllTasks,
	EditTasks,
	ViewOwnTimesheets,
	ViewAllTimesheets,
	EditTimesheets,
	ViewEmployees,
	EditEmployees,
	ViewPositions,
	EditPositions,
	ViewDepartments,
	EditDepartments,
	ViewRestaurants,
	EditRestaurants,
	RequestShiftSwap,
	ApproveShiftSwap,
	SendAnnouncements,
	ViewAnnouncements,
	ViewReports,
	ExportReports,
}

var codeSet = NewCodeSet(allCodes...)

// AllCodes returns a copy of the full permission catalog.
func AllCodes() []Code {
	out := make([]Code, len(allCodes))
	copy(out, allCodes)
	return out
}

// ParseCode validates a permission code arriving from outside the process
// (request bodies, seed files). Inside the engine unknown codes are simply
// never granted; parsing keeps them from getting that far.
func ParseCode(s string) (Code, error) {
	c := Code(s)
	if _, ok := codeSet[c]; !ok {
		return "", fmt.Errorf("unknown permission code %q", s)
	}
	return c, nil
}

// Role is the coarse global privilege level of a user, independent of any
// restaurant.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole validates a role arriving from outside the process.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleOwner, RoleAdmin, RoleManager, RoleEmployee:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Bypasses reports whether the role short-circuits every restaurant-scoped
// check: OWNER and ADMIN hold the entire catalog everywhere.
func (r Role) Bypasses() bool {
	return r == RoleOwner || r == RoleAdmin
}
