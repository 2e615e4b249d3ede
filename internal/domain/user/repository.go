package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	List(ctx context.Context) ([]User, error)
	UpdateAccess(ctx context.Context, id string, role Role, permissions []Permission) error
}

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (UserResponse, error)
	List(ctx context.Context) ([]UserResponse, error)
	UpdateAccess(ctx context.Context, req UpdateAccessRequest) (UserResponse, error)
}
