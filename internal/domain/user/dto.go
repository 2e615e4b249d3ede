package user

import (
	"time"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID          string   `json:"id"`
	EmployeeID  *string  `json:"employee_id,omitempty"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func ToResponse(u User) UserResponse {
	perms := make([]string, 0, len(u.Permissions))
	for _, p := range u.PermissionSet().Slice() {
		perms = append(perms, string(p))
	}
	return UserResponse{
		ID:          u.ID,
		EmployeeID:  u.EmployeeID,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: perms,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   u.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest represents request to create a new user.
// Permissions default to the role bundle when omitted.
type CreateUserRequest struct {
	EmployeeID  *string  `json:"employee_id,omitempty"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) < 8 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}

	if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of USER, ADMIN, SUPER_ADMIN",
		})
	}

	errs = append(errs, validatePermissions(r.Permissions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateAccessRequest struct {
	ID          string   `json:"-"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

func (r *UpdateAccessRequest) Validate() error {
	var errs validator.ValidationErrors

	if !Role(r.Role).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of USER, ADMIN, SUPER_ADMIN",
		})
	}
	errs = append(errs, validatePermissions(r.Permissions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePermissions(perms []string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for _, p := range perms {
		if !IsKnownPermission(Permission(p)) {
			errs = append(errs, validator.ValidationError{
				Field:   "permissions",
				Message: "unknown permission '" + p + "'",
			})
		}
	}
	return errs
}

// ToPermissions converts raw tokens, assuming they were validated.
func ToPermissions(raw []string) []Permission {
	out := make([]Permission, 0, len(raw))
	for _, p := range raw {
		out = append(out, Permission(p))
	}
	return out
}
