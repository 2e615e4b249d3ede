package authz

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/authz"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
)

type AuthzServiceImpl struct{}

func NewAuthzService() authz.AuthzService {
	return &AuthzServiceImpl{}
}

// Resolve implements authz.AuthzService.
func (s *AuthzServiceImpl) Resolve(ctx context.Context, req authz.ResolveRequest) (authz.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return authz.DecisionResponse{}, err
	}

	request := authz.Request{Path: req.Path}
	if len(req.RequiredRoles) > 0 || len(req.RequiredPermissions) > 0 {
		for _, r := range req.RequiredRoles {
			request.RequiredRoles = append(request.RequiredRoles, user.Role(r))
		}
		request.RequiredPermissions = user.ToPermissions(req.RequiredPermissions)
		request.RequireAll = req.RequireAll
	} else if route, ok := authz.LookupRoute(req.Path); ok {
		request.Requirement = route
	}

	decision := Resolve(SubjectFromContext(ctx), request)
	return authz.ToDecisionResponse(req.Path, decision), nil
}

// SubjectFromContext builds the subject from verified token claims. A
// missing or non-access token is an anonymous subject.
func SubjectFromContext(ctx context.Context) authz.Subject {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil || claims.Type != "access" {
		return authz.Subject{Session: authz.SessionAnonymous}
	}
	return authz.Subject{
		Session:     authz.SessionAuthenticated,
		Role:        claims.Role,
		Permissions: user.NewPermissionSet(claims.Permissions...),
	}
}
