package authz

import "github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"

const (
	DefaultLandingPath = "/pms/dashboard"
	SignInPath         = "/auth/signin"
)

type SessionState string

const (
	SessionPending       SessionState = "pending"
	SessionAnonymous     SessionState = "anonymous"
	SessionAuthenticated SessionState = "authenticated"
)

// Subject is who is navigating.
type Subject struct {
	Session     SessionState
	Role        user.Role
	Permissions user.PermissionSet
}

func (s Subject) IsSuperAdmin() bool {
	return s.Role == user.RoleSuperAdmin
}

// Requirement is what a route declares about itself.
type Requirement struct {
	RequiredRoles       []user.Role
	RequiredPermissions []user.Permission
	RequireAll          bool
}

type Request struct {
	Path string
	Requirement
}

type Outcome string

const (
	OutcomeLoading         Outcome = "loading"
	OutcomeAllow           Outcome = "allow"
	OutcomeRedirectSignIn  Outcome = "redirect_signin"
	OutcomeRedirectDefault Outcome = "redirect_default"
)

type Decision struct {
	Outcome Outcome
	// RedirectTo is set for both redirect outcomes.
	RedirectTo string
	// ReturnTo carries the originally requested path on sign-in redirects.
	ReturnTo string
	Reason   string
}

func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllow
}
