package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-payroll-go/internal/repository/postgresql"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	userRepo     user.UserRepository
	employeeRepo employee.EmployeeRepository
	jwtService   jwt.Service
	tokenRepo    postgresql.JWTRepository
}

func NewAuthService(userRepository user.UserRepository, employeeRepository employee.EmployeeRepository, jwtService jwt.Service, jwtRepository postgresql.JWTRepository) auth.AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepository,
		employeeRepo: employeeRepository,
		jwtService:   jwtService,
		tokenRepo:    jwtRepository,
	}
}

// HashPassword returns the bcrypt hash used for stored credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	var tokens auth.TokenResponse
	tokens.AccessToken, tokens.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role, userData.Permissions)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokens.RefreshToken, tokens.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	if err := a.tokenRepo.CreateRefreshToken(ctx, userData.ID, tokens.RefreshToken, tokens.RefreshTokenExpiresIn, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	slog.Info("user signed in", "user_id", userData.ID, "role", userData.Role)
	return tokens, nil
}

// RefreshToken implements auth.AuthService. Role and permissions are read
// again so access changes apply on the next refresh.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	userID, err := a.jwtService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	revoked, err := a.tokenRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	userData, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.jwtService.GenerateAccessToken(userData.ID, userData.Email, userData.EmployeeID, userData.Role, userData.Permissions)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return auth.ErrInvalidToken
	}
	if err := a.tokenRepo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return err
	}
	a.jwtService.RevokeToken(refreshToken)
	return nil
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, auth.ErrInvalidToken
	}

	userData, err := a.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return auth.MeResponse{}, err
	}

	resp := auth.MeResponse{User: user.ToResponse(userData)}
	if userData.EmployeeID != nil {
		emp, err := a.employeeRepo.GetByID(ctx, *userData.EmployeeID)
		switch {
		case err == nil:
			resp.EmployeeName = &emp.FullName
		case errors.Is(err, employee.ErrEmployeeNotFound):
			slog.Warn("user linked to missing employee", "user_id", userData.ID, "employee_id", *userData.EmployeeID)
		default:
			return auth.MeResponse{}, err
		}
	}
	return resp, nil
}
