package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type fakeTokenRepo struct {
	stored  map[string]string
	revoked map[string]bool
	err     error
}

func (f *fakeTokenRepo) CreateRefreshToken(_ context.Context, userID string, token string, _ int64, _ auth.SessionTrackingRequest) error {
	if f.err != nil {
		return f.err
	}
	f.stored[token] = userID
	return nil
}

func (f *fakeTokenRepo) IsRefreshTokenRevoked(_ context.Context, token string) (bool, error) {
	_, ok := f.stored[token]
	return !ok || f.revoked[token], nil
}

func (f *fakeTokenRepo) RevokeRefreshToken(_ context.Context, token string) error {
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	for token, owner := range f.stored {
		if owner == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

type authFixture struct {
	svc    auth.AuthService
	jwt    jwt.Service
	users  *fakeUserRepo
	tokens *fakeTokenRepo
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	employeeID := "emp-1"

	users := &fakeUserRepo{users: map[string]user.User{
		"user-1": {
			ID:           "user-1",
			EmployeeID:   &employeeID,
			Email:        "ada@pms.test",
			PasswordHash: &hashed,
			Role:         user.RoleAdmin,
			Permissions:  user.DefaultPermissions(user.RoleAdmin),
			IsActive:     true,
		},
		"user-2": {
			ID:           "user-2",
			Email:        "gone@pms.test",
			PasswordHash: &hashed,
			Role:         user.RoleUser,
			IsActive:     false,
		},
	}}
	employees := &fakeEmployeeRepo{employees: map[string]employee.Employee{
		employeeID: {ID: employeeID, FullName: "Ada Obi"},
	}}
	tokens := &fakeTokenRepo{stored: map[string]string{}, revoked: map[string]bool{}}
	jwtSvc := jwt.NewJWTService("test-secret", "1h", "168h")

	return authFixture{
		svc:    NewAuthService(users, employees, jwtSvc, tokens),
		jwt:    jwtSvc,
		users:  users,
		tokens: tokens,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials issue both tokens", func(t *testing.T) {
		f := newAuthFixture(t)
		resp, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ada@pms.test", Password: "password123"}, auth.SessionTrackingRequest{UserAgent: "test"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "user-1", f.tokens.stored[resp.RefreshToken])

		parsed, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
		require.NoError(t, err)
		claims, err := jwt.ClaimsFromContext(jwtauth.NewContext(ctx, parsed, nil))
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, claims.Role)
		assert.Contains(t, claims.Permissions, user.PermissionPayrollApprove)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ada@pms.test", Password: "password999"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "nobody@pms.test", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "gone@pms.test", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.ErrorIs(t, err, auth.ErrAccountInactive)
	})

	t.Run("token storage failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.tokens.err = errors.New("connection reset")
		_, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ada@pms.test", Password: "password123"}, auth.SessionTrackingRequest{})
		assert.Error(t, err)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	tokens, err := f.svc.Login(ctx, auth.LoginRequest{Email: "ada@pms.test", Password: "password123"}, auth.SessionTrackingRequest{})
	require.NoError(t, err)

	// Access changes take effect on refresh.
	u := f.users.users["user-1"]
	u.Role = user.RoleUser
	u.Permissions = user.DefaultPermissions(user.RoleUser)
	f.users.users["user-1"] = u

	refreshed, err := f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	parsed, err := f.jwt.JWTAuth().Decode(refreshed.AccessToken)
	require.NoError(t, err)
	claims, err := jwt.ClaimsFromContext(jwtauth.NewContext(ctx, parsed, nil))
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, claims.Role)

	require.NoError(t, f.svc.Logout(ctx, tokens.RefreshToken))
	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	_, err = f.svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestAuthService_Me(t *testing.T) {
	f := newAuthFixture(t)
	employeeID := "emp-1"

	token, _, err := f.jwt.GenerateAccessToken("user-1", "ada@pms.test", &employeeID, user.RoleAdmin, nil)
	require.NoError(t, err)
	parsed, err := f.jwt.JWTAuth().Decode(token)
	require.NoError(t, err)

	me, err := f.svc.Me(jwtauth.NewContext(context.Background(), parsed, nil))
	require.NoError(t, err)
	assert.Equal(t, "ada@pms.test", me.User.Email)
	require.NotNil(t, me.EmployeeName)
	assert.Equal(t, "Ada Obi", *me.EmployeeName)

	_, err = f.svc.Me(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
