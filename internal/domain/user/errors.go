package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrInvalidRole             = errors.New("invalid role")
	ErrUnknownPermission       = errors.New("unknown permission")
	ErrUserInactive            = errors.New("user is inactive")
	ErrSuperAdminRequired      = errors.New("super admin access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
