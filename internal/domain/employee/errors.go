package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrEmployeeCodeExists      = errors.New("employee code already exists")
	ErrInvalidEmployeeCode     = errors.New("invalid employee code format")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrEmployeeLinkRequired    = errors.New("user is not linked to an employee record")
)
