package department

import (
	"regexp"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9_-]{2,20}$`)

// DepartmentResponse represents the response structure for a department.
type DepartmentResponse struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func ToResponse(d Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
	}
}

// CreateDepartmentRequest represents the request structure for creating a department.
type CreateDepartmentRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))

	// Code
	if !codeRegex.MatchString(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 2-20 letters, digits, '_' or '-'",
		})
	}

	// Name
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDepartmentRequest represents the request structure for updating a department.
type UpdateDepartmentRequest struct {
	ID          string  `json:"-"`
	Code        *string `json:"code,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	// ID
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*r.Code))
		r.Code = &code
		if !codeRegex.MatchString(code) {
			errs = append(errs, validator.ValidationError{
				Field:   "code",
				Message: "code must be 2-20 letters, digits, '_' or '-'",
			})
		}
	}

	// Name
	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
