package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/authz"
	"github.com/cmlabs-hris/hris-payroll-go/internal/handler/http/response"
	authzService "github.com/cmlabs-hris/hris-payroll-go/internal/service/authz"
)

// RequireAccess guards an API route group with the resolver the client uses
// for navigation. path is the client page the group backs.
//
// A tier verdict may allow without the route permissions; below SUPER_ADMIN
// the endpoint's own permissions are checked again.
func RequireAccess(path string, route authz.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := authzService.SubjectFromContext(r.Context())
			decision := authzService.Resolve(subject, authz.Request{Path: path, Requirement: route})

			switch decision.Outcome {
			case authz.OutcomeAllow:
			case authz.OutcomeRedirectSignIn, authz.OutcomeLoading:
				response.Unauthorized(w, "Authentication required")
				return
			default:
				slog.Warn("access denied", "path", path, "method", r.Method, "reason", decision.Reason)
				response.Forbidden(w, "Access denied")
				return
			}

			if !subject.IsSuperAdmin() && !endpointAllowed(subject, route) {
				slog.Warn("access denied", "path", path, "method", r.Method, "reason", "missing endpoint permissions")
				response.Forbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRouteAccess uses the requirement registered for path.
func RequireRouteAccess(path string) func(http.Handler) http.Handler {
	route, _ := authz.LookupRoute(path)
	return RequireAccess(path, route)
}

func endpointAllowed(subject authz.Subject, route authz.Requirement) bool {
	if len(route.RequiredPermissions) == 0 {
		return true
	}
	if route.RequireAll {
		return subject.Permissions.HasAll(route.RequiredPermissions...)
	}
	return subject.Permissions.HasAny(route.RequiredPermissions...)
}
