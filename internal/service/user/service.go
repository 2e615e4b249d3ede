package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/hris-payroll-go/internal/service/auth"
)

type UserServiceImpl struct {
	userRepo  user.UserRepository
	tokenRepo postgresql.JWTRepository
}

func NewUserService(userRepository user.UserRepository, jwtRepository postgresql.JWTRepository) user.UserService {
	return &UserServiceImpl{
		userRepo:  userRepository,
		tokenRepo: jwtRepository,
	}
}

func requireSuperAdmin(ctx context.Context) (jwt.Claims, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return jwt.Claims{}, user.ErrInsufficientPermissions
	}
	if claims.Role != user.RoleSuperAdmin {
		return jwt.Claims{}, user.ErrSuperAdminRequired
	}
	return claims, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if _, err := requireSuperAdmin(ctx); err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(req.Role)
	perms := user.DefaultPermissions(role)
	if req.Permissions != nil {
		perms = user.ToPermissions(req.Permissions)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		EmployeeID:   req.EmployeeID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: &hash,
		Role:         role,
		Permissions:  perms,
		IsActive:     true,
	})
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(created), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	if _, err := requireSuperAdmin(ctx); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, user.ToResponse(u))
	}
	return resp, nil
}

// UpdateAccess implements user.UserService. Omitted permissions reset the
// user to the role bundle. Open sessions are revoked so the new set is
// picked up at the next sign-in or refresh.
func (s *UserServiceImpl) UpdateAccess(ctx context.Context, req user.UpdateAccessRequest) (user.UserResponse, error) {
	claims, err := requireSuperAdmin(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	role := user.Role(req.Role)
	perms := user.DefaultPermissions(role)
	if req.Permissions != nil {
		perms = user.ToPermissions(req.Permissions)
	}

	if err := s.userRepo.UpdateAccess(ctx, req.ID, role, perms); err != nil {
		return user.UserResponse{}, err
	}
	if err := s.tokenRepo.RevokeAllForUser(ctx, req.ID); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	updated, err := s.userRepo.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}

	slog.Info("user access updated", "user_id", req.ID, "role", role, "by", claims.UserID)
	return user.ToResponse(updated), nil
}

// EnsureSuperAdmin creates the bootstrap SUPER_ADMIN account when no user
// owns email yet. It reports whether an account was created.
func EnsureSuperAdmin(ctx context.Context, repo user.UserRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return false, fmt.Errorf("failed to look up seed admin: %w", err)
	}

	hash, err := authService.HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := repo.Create(ctx, user.User{
		Email:        email,
		PasswordHash: &hash,
		Role:         user.RoleSuperAdmin,
		Permissions:  user.DefaultPermissions(user.RoleSuperAdmin),
		IsActive:     true,
	}); err != nil {
		return false, fmt.Errorf("failed to create seed admin: %w", err)
	}
	return true, nil
}
