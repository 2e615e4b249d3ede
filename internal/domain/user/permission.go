package user

import "sort"

type Permission string

const (
	// Self service
	PermissionPayslipViewOwn   Permission = "payslip.view_own"
	PermissionAllowanceViewOwn Permission = "allowance.view_own"
	PermissionDeductionViewOwn Permission = "deduction.view_own"
	PermissionBonusViewOwn     Permission = "bonus.view_own"
	PermissionLeaveViewOwn     Permission = "leave.view_own"

	// Leave Management
	PermissionLeaveViewTeam Permission = "leave.view_team"
	PermissionLeaveApprove  Permission = "leave.approve"

	// Employee Management
	PermissionEmployeeView       Permission = "employee.view"
	PermissionEmployeeCreate     Permission = "employee.create"
	PermissionEmployeeEdit       Permission = "employee.edit"
	PermissionEmployeeDeactivate Permission = "employee.deactivate"

	// Payroll Management
	PermissionPayrollView      Permission = "payroll.view"
	PermissionPayrollCreate    Permission = "payroll.create"
	PermissionPayrollEdit      Permission = "payroll.edit"
	PermissionPayrollApprove   Permission = "payroll.approve"
	PermissionPayrollProcess   Permission = "payroll.process"
	PermissionPayrollStructure Permission = "payroll.structure"
	PermissionBonusManage      Permission = "bonus.manage"
	PermissionBonusApprove     Permission = "bonus.approve"

	// Settings
	PermissionSettingsView Permission = "settings.view"
	PermissionSettingsEdit Permission = "settings.edit"

	// Reports
	PermissionReportsView   Permission = "reports.view"
	PermissionReportsExport Permission = "reports.export"

	// User Management
	PermissionUserManage Permission = "user.manage"
)

var allPermissions = []Permission{
	PermissionPayslipViewOwn,
	PermissionAllowanceViewOwn,
	PermissionDeductionViewOwn,
	PermissionBonusViewOwn,
	PermissionLeaveViewOwn,
	PermissionLeaveViewTeam,
	PermissionLeaveApprove,
	PermissionEmployeeView,
	PermissionEmployeeCreate,
	PermissionEmployeeEdit,
	PermissionEmployeeDeactivate,
	PermissionPayrollView,
	PermissionPayrollCreate,
	PermissionPayrollEdit,
	PermissionPayrollApprove,
	PermissionPayrollProcess,
	PermissionPayrollStructure,
	PermissionBonusManage,
	PermissionBonusApprove,
	PermissionSettingsView,
	PermissionSettingsEdit,
	PermissionReportsView,
	PermissionReportsExport,
	PermissionUserManage,
}

// RolePermissions is the bundle granted when a user is created with a role.
// Checks always run against the stored set, never this table.
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: allPermissions,
	RoleAdmin: {
		PermissionPayslipViewOwn,
		PermissionAllowanceViewOwn,
		PermissionDeductionViewOwn,
		PermissionBonusViewOwn,
		PermissionLeaveViewOwn,
		PermissionLeaveViewTeam,
		PermissionLeaveApprove,
		PermissionEmployeeView,
		PermissionEmployeeCreate,
		PermissionEmployeeEdit,
		PermissionPayrollView,
		PermissionPayrollCreate,
		PermissionPayrollEdit,
		PermissionPayrollApprove,
		PermissionPayrollStructure,
		PermissionBonusManage,
		PermissionSettingsView,
		PermissionReportsView,
	},
	RoleUser: {
		PermissionPayslipViewOwn,
		PermissionAllowanceViewOwn,
		PermissionDeductionViewOwn,
		PermissionBonusViewOwn,
		PermissionLeaveViewOwn,
	},
}

// DefaultPermissions returns a copy of the creation bundle for role.
func DefaultPermissions(role Role) []Permission {
	perms := RolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// IsKnownPermission reports whether p is a defined token.
func IsKnownPermission(p Permission) bool {
	for _, known := range allPermissions {
		if known == p {
			return true
		}
	}
	return false
}

type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// HasAny is true when at least one of perms is granted. Empty perms is false.
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// HasAll is true when every one of perms is granted. Empty perms is true.
func (s PermissionSet) HasAll(perms ...Permission) bool {
	for _, p := range perms {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

// Slice returns the set sorted for stable output.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
