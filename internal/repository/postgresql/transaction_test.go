package postgresql

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTransaction_Commits(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE refresh_tokens`)).
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	tokens := NewJWTRepository(db)
	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		return tokens.RevokeAllForUser(ctx, "user-1")
	})
	require.NoError(t, err)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithTransaction_NestedReusesOuter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := WithTransaction(context.Background(), db, func(ctx context.Context) error {
		outer := GetQuerier(ctx, db)
		return WithTransaction(ctx, db, func(inner context.Context) error {
			calls++
			assert.Equal(t, outer, GetQuerier(inner, db))
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestJWTRepository_IsRefreshTokenRevoked(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJWTRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM refresh_tokens`)).
		WithArgs(hashToken("unknown")).
		WillReturnRows(pgxmock.NewRows([]string{"revoked_at", "expires_at"}))

	revoked, err := repo.IsRefreshTokenRevoked(context.Background(), "unknown")
	require.NoError(t, err)
	assert.True(t, revoked, "unknown tokens count as revoked")
}
