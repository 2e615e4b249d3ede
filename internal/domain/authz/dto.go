package authz

import (
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

type ResolveRequest struct {
	Path                string   `json:"path"`
	RequiredRoles       []string `json:"required_roles,omitempty"`
	RequiredPermissions []string `json:"required_permissions,omitempty"`
	RequireAll          bool     `json:"require_all,omitempty"`
}

func (r *ResolveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Path) {
		errs = append(errs, validator.ValidationError{Field: "path", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DecisionResponse struct {
	Path       string `json:"path"`
	Outcome    string `json:"outcome"`
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
	ReturnTo   string `json:"return_to,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func ToDecisionResponse(path string, d Decision) DecisionResponse {
	return DecisionResponse{
		Path:       path,
		Outcome:    string(d.Outcome),
		Allowed:    d.Allowed(),
		RedirectTo: d.RedirectTo,
		ReturnTo:   d.ReturnTo,
		Reason:     d.Reason,
	}
}
