package authz

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

// Routes declares the requirements of the known client routes, keyed by
// lower-case path prefix.
var Routes = map[string]Requirement{
	"/pms/dashboard": {},

	"/pms/employees":        {RequiredPermissions: []user.Permission{user.PermissionEmployeeView}},
	"/pms/employees/create": {RequiredPermissions: []user.Permission{user.PermissionEmployeeCreate}},

	"/pms/payroll":                    {RequiredPermissions: []user.Permission{user.PermissionPayrollView}},
	"/pms/payroll/structure":          {RequiredPermissions: []user.Permission{user.PermissionPayrollStructure}},
	"/pms/payroll/allowances":         {RequiredPermissions: []user.Permission{user.PermissionPayrollStructure}},
	"/pms/payroll/deductions":         {RequiredPermissions: []user.Permission{user.PermissionPayrollStructure}},
	"/pms/payroll/bonuses":            {RequiredPermissions: []user.Permission{user.PermissionBonusManage, user.PermissionBonusApprove}},
	"/pms/payroll/run":                {RequiredPermissions: []user.Permission{user.PermissionPayrollCreate}},
	"/pms/payroll/approvals":          {RequiredPermissions: []user.Permission{user.PermissionPayrollApprove}},
	"/pms/payroll/process":            {RequiredPermissions: []user.Permission{user.PermissionPayrollProcess}},
	"/pms/payroll/department-process": {RequiredPermissions: []user.Permission{user.PermissionPayrollCreate}},
	"/pms/payroll/my-payslips":        {},
	"/pms/payroll/my-allowances":      {},
	"/pms/payroll/my-deductions":      {},
	"/pms/payroll/my-bonus":           {},

	"/pms/leave/my-leave": {},
	"/pms/leave/team":     {},

	"/pms/reports":        {RequiredPermissions: []user.Permission{user.PermissionReportsView}},
	"/pms/reports/export": {RequiredPermissions: []user.Permission{user.PermissionReportsView, user.PermissionReportsExport}, RequireAll: true},

	"/pms/settings":               {RequiredPermissions: []user.Permission{user.PermissionSettingsView}},
	"/pms/settings/users":         {RequiredRoles: []user.Role{user.RoleSuperAdmin}, RequiredPermissions: []user.Permission{user.PermissionUserManage}},
	"/pms/settings/profile":       {},
	"/pms/settings/notifications": {},
}

var routePrefixes = func() []string {
	keys := make([]string, 0, len(Routes))
	for k := range Routes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}()

// LookupRoute returns the requirement of the longest registered prefix of
// path. Unknown paths carry no requirement.
func LookupRoute(path string) (Requirement, bool) {
	p := NormalizePath(path)
	for _, prefix := range routePrefixes {
		if HasPathPrefix(p, prefix) {
			return Routes[prefix], true
		}
	}
	return Requirement{}, false
}

// NormalizePath lower-cases path and strips query, fragment and trailing slash.
func NormalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	p := strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// HasPathPrefix matches prefix on segment boundaries: /pms/pay is not a
// prefix of /pms/payroll.
func HasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
