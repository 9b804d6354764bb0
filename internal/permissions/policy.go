package permissions

// Static policy tables. Both sets are fixed at compile time and never mutated;
// they are the only policy state the engine carries.

// ManagerAutoPermissions is granted to a restaurant's designated manager
// regardless of position or membership. EDIT_RESTAURANTS stays out: renaming
// or reassigning a restaurant is an OWNER/ADMIN operation. VIEW_RESTAURANTS is
// not listed because every user holds it unconditionally.
var ManagerAutoPermissions = NewCodeSet(
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
	ApproveShiftSwap,
	SendAnnouncements,
	ViewAnnouncements,
	ViewReports,
	ExportReports,
)

// DefaultEmployeePermissions is the floor every active member gets on top of
// whatever their position assigns.
var DefaultEmployeePermissions = NewCodeSet(
	ViewOwnTasks,
	ViewOwnTimesheets,
	RequestShiftSwap,
	ViewAnnouncements,
	ViewRestaurants,
)

// CodeSet is an unordered set of permission codes.
type CodeSet map[Code]struct{}

func NewCodeSet(codes ...Code) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s CodeSet) Has(c Code) bool {
	_, ok := s[c]
	return ok
}
