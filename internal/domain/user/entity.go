package user

import "time"

type Role string

const (
	RoleUser       Role = "USER"        // Employee self-service
	RoleAdmin      Role = "ADMIN"       // HR / payroll officer
	RoleSuperAdmin Role = "SUPER_ADMIN" // Full access, payment processing
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string
	EmployeeID   *string
	Email        string
	PasswordHash *string
	Role         Role
	Permissions  []Permission
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperAdmin checks if user holds the super admin role
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin checks if user is admin or super admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// PermissionSet returns the stored grants as a set.
func (u *User) PermissionSet() PermissionSet {
	return NewPermissionSet(u.Permissions...)
}
