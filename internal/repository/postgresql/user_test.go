package postgresql

import (
	"context"
	"regexp"
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumnNames = []string{"id", "employee_id", "email", "password_hash", "role", "permissions", "is_active", "created_at", "updated_at"}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("admin@pms.test").
		WillReturnRows(pgxmock.NewRows(userColumnNames).AddRow(
			"user-1", (*string)(nil), "admin@pms.test", strPtr("hash"), user.RoleAdmin,
			[]string{"payroll.view", "reports.view"}, true, testTime, testTime,
		))

	u, err := repo.GetByEmail(context.Background(), "admin@pms.test")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)
	assert.ElementsMatch(t, []user.Permission{user.PermissionPayrollView, user.PermissionReportsView}, u.Permissions)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = LOWER($1)`)).
		WithArgs("ghost@pms.test").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@pms.test")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs(pgxmock.AnyArg(), (*string)(nil), "dup@pms.test", strPtr("hash"), "USER", []string{}, true).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "uk_user_email"})

	_, err := repo.Create(context.Background(), user.User{
		Email:        "dup@pms.test",
		PasswordHash: strPtr("hash"),
		Role:         user.RoleUser,
		IsActive:     true,
	})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)
}

func TestUserRepository_UpdateAccess_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET role = $2, permissions = $3`)).
		WithArgs("missing", "ADMIN", []string{"payroll.view"}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateAccess(context.Background(), "missing", user.RoleAdmin, []user.Permission{user.PermissionPayrollView})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
