package authz

import "context"

type AuthzService interface {
	// Resolve evaluates a navigation attempt by the caller in ctx. Route
	// requirements not given in req come from Routes.
	Resolve(ctx context.Context, req ResolveRequest) (DecisionResponse, error)
}
