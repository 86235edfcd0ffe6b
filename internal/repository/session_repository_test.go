package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockSessionRepo(t *testing.T) (SessionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSessionRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestSessionRepositoryGetByTokenHash(t *testing.T) {
	t.Run("Live Session", func(t *testing.T) {
		repo, mock := newMockSessionRepo(t)
		id, userID := uuid.New(), uuid.New()
		expires := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

		mock.ExpectQuery(`SELECT session_id, user_id, token_hash, user_agent, ip_address, expires_at, created_at, revoked_at\s+FROM sessions`).
			WithArgs("hash").
			WillReturnRows(sqlmock.NewRows([]string{
				"session_id", "user_id", "token_hash", "user_agent", "ip_address", "expires_at", "created_at", "revoked_at",
			}).AddRow(id.String(), userID.String(), "hash", "curl/8", "10.0.0.1", expires, expires.Add(-time.Hour), nil))

		session, err := repo.GetByTokenHash(context.Background(), "hash")

		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, id, session.ID)
		assert.Equal(t, userID, session.UserID)
		require.NotNil(t, session.IPAddress)
		assert.Equal(t, "10.0.0.1", *session.IPAddress)
		assert.Nil(t, session.RevokedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Hash", func(t *testing.T) {
		repo, mock := newMockSessionRepo(t)
		mock.ExpectQuery(`FROM sessions`).WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"session_id"}))

		session, err := repo.GetByTokenHash(context.Background(), "missing")

		require.NoError(t, err)
		assert.Nil(t, session)
	})
}

func TestSessionRepositoryRevoke(t *testing.T) {
	t.Run("First Revoke Wins", func(t *testing.T) {
		repo, mock := newMockSessionRepo(t)
		id := uuid.New()
		mock.ExpectExec(`UPDATE sessions SET revoked_at = NOW\(\) WHERE session_id = \$1 AND revoked_at IS NULL`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		revoked, err := repo.Revoke(context.Background(), id)

		require.NoError(t, err)
		assert.True(t, revoked)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Revoked", func(t *testing.T) {
		repo, mock := newMockSessionRepo(t)
		id := uuid.New()
		mock.ExpectExec(`UPDATE sessions SET revoked_at`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		revoked, err := repo.Revoke(context.Background(), id)

		require.NoError(t, err)
		assert.False(t, revoked)
	})
}

func TestSessionRepositoryDeleteExpiredReportsCount(t *testing.T) {
	repo, mock := newMockSessionRepo(t)
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at < NOW\(\) OR revoked_at IS NOT NULL`).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
