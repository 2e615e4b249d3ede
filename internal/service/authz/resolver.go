package authz

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/authz"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
)

type verdict int

const (
	verdictNone verdict = iota
	verdictAllow
	verdictDeny
)

// tierRule gates one path prefix for a role tier. An open rule passes with
// no permission check.
type tierRule struct {
	prefix string
	open   bool
	anyOf  []user.Permission
	allOf  []user.Permission
}

// Self-service pages and the permission SUPER_ADMIN needs to open them.
var superAdminSelfService = []struct {
	segment    string
	permission user.Permission
}{
	{"my-bonus", user.PermissionBonusViewOwn},
	{"my-payslips", user.PermissionPayslipViewOwn},
	{"my-leave", user.PermissionLeaveViewOwn},
}

var adminRules = sortRules([]tierRule{
	{prefix: "/pms/payroll/my-payslips", open: true},
	{prefix: "/pms/payroll/my-allowances", open: true},
	{prefix: "/pms/payroll/my-deductions", open: true},
	{prefix: "/pms/payroll/my-bonus", open: true},
	{prefix: "/pms/leave/my-leave", open: true},
	{prefix: "/pms/settings/profile", open: true},
	{prefix: "/pms/settings/notifications", open: true},
	{prefix: "/pms/leave/team", allOf: []user.Permission{
		user.PermissionLeaveViewTeam,
		user.PermissionLeaveApprove,
	}},
	{prefix: "/pms/employees", anyOf: []user.Permission{
		user.PermissionEmployeeView,
		user.PermissionEmployeeCreate,
		user.PermissionEmployeeEdit,
		user.PermissionEmployeeDeactivate,
	}},
	{prefix: "/pms/payroll", anyOf: []user.Permission{
		user.PermissionPayrollView,
		user.PermissionPayrollCreate,
		user.PermissionPayrollEdit,
		user.PermissionPayrollApprove,
		user.PermissionPayrollProcess,
		user.PermissionPayrollStructure,
		user.PermissionBonusManage,
		user.PermissionBonusApprove,
	}},
	{prefix: "/pms/settings", anyOf: []user.Permission{
		user.PermissionSettingsView,
		user.PermissionSettingsEdit,
		user.PermissionUserManage,
	}},
	{prefix: "/pms/reports", anyOf: []user.Permission{
		user.PermissionReportsView,
		user.PermissionReportsExport,
	}},
})

// USER may only reach the self-service pages inside these trees.
var userRestrictedTrees = []string{"/pms/payroll", "/pms/leave", "/pms/settings"}

var userAllowList = []string{
	"/pms/payroll/my-payslips",
	"/pms/payroll/my-allowances",
	"/pms/payroll/my-deductions",
	"/pms/payroll/my-bonus",
	"/pms/leave/my-leave",
	"/pms/settings/profile",
	"/pms/settings/notifications",
}

func sortRules(rules []tierRule) []tierRule {
	sort.SliceStable(rules, func(i, j int) bool { return len(rules[i].prefix) > len(rules[j].prefix) })
	return rules
}

// Resolve decides a navigation attempt. It never fails: every outcome is a
// routing decision.
func Resolve(subject authz.Subject, req authz.Request) authz.Decision {
	switch subject.Session {
	case authz.SessionPending:
		return authz.Decision{Outcome: authz.OutcomeLoading}
	case authz.SessionAuthenticated:
	default:
		return authz.Decision{
			Outcome:    authz.OutcomeRedirectSignIn,
			RedirectTo: authz.SignInPath,
			ReturnTo:   req.Path,
			Reason:     "not authenticated",
		}
	}

	path := authz.NormalizePath(req.Path)

	if len(req.RequiredRoles) > 0 && !hasRole(req.RequiredRoles, subject.Role) {
		return deny("role " + string(subject.Role) + " not permitted")
	}

	v, reason := tierVerdict(subject, path)
	switch v {
	case verdictDeny:
		return deny(reason)
	case verdictNone:
		if !requirementMet(subject.Permissions, req.Requirement) {
			return deny("missing required permissions")
		}
	}

	if reason, denied := overrideDenies(subject, path); denied {
		return deny(reason)
	}

	return authz.Decision{Outcome: authz.OutcomeAllow}
}

func deny(reason string) authz.Decision {
	return authz.Decision{
		Outcome:    authz.OutcomeRedirectDefault,
		RedirectTo: authz.DefaultLandingPath,
		Reason:     reason,
	}
}

func tierVerdict(subject authz.Subject, path string) (verdict, string) {
	switch subject.Role {
	case user.RoleSuperAdmin:
		for _, s := range superAdminSelfService {
			if hasSegment(path, s.segment) {
				if subject.Permissions.Has(s.permission) {
					return verdictAllow, ""
				}
				return verdictDeny, "missing permission " + string(s.permission)
			}
		}
		return verdictAllow, ""

	case user.RoleAdmin:
		for _, rule := range adminRules {
			if !authz.HasPathPrefix(path, rule.prefix) {
				continue
			}
			switch {
			case rule.open:
				return verdictAllow, ""
			case len(rule.allOf) > 0:
				if subject.Permissions.HasAll(rule.allOf...) {
					return verdictAllow, ""
				}
			case subject.Permissions.HasAny(rule.anyOf...):
				return verdictAllow, ""
			}
			return verdictDeny, "no permission for " + rule.prefix
		}
		return verdictNone, ""

	case user.RoleUser:
		for _, tree := range userRestrictedTrees {
			if !authz.HasPathPrefix(path, tree) {
				continue
			}
			for _, allowed := range userAllowList {
				if authz.HasPathPrefix(path, allowed) {
					return verdictAllow, ""
				}
			}
			return verdictDeny, "self-service only"
		}
		return verdictNone, ""
	}

	return verdictDeny, "unknown role"
}

func requirementMet(perms user.PermissionSet, req authz.Requirement) bool {
	if len(req.RequiredPermissions) == 0 {
		return true
	}
	if req.RequireAll {
		return perms.HasAll(req.RequiredPermissions...)
	}
	return perms.HasAny(req.RequiredPermissions...)
}

// overrideDenies applies the payment-processing guards, which hold no
// matter what the earlier stages decided.
func overrideDenies(subject authz.Subject, path string) (string, bool) {
	if strings.Contains(path, "department-process") {
		if subject.Role != user.RoleAdmin && subject.Role != user.RoleSuperAdmin {
			return "department processing requires admin", true
		}
		return "", false
	}
	if strings.Contains(path, "process") && !subject.IsSuperAdmin() {
		return "payment processing requires super admin", true
	}
	return "", false
}

func hasRole(roles []user.Role, role user.Role) bool {
	for _, r := range roles {
		if strings.EqualFold(string(r), string(role)) {
			return true
		}
	}
	return false
}

func hasSegment(path, segment string) bool {
	for _, s := range strings.Split(path, "/") {
		if s == segment {
			return true
		}
	}
	return false
}
