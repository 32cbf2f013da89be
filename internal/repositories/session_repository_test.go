package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibro/internal/models"
)

func TestSessionCreateFillsIDAndTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepository(db)

	expires := time.Now().Add(24 * time.Hour)
	created := time.Now()
	mock.ExpectQuery(`INSERT INTO sessions`).
		WithArgs("a@x.com", "iv:tag:ct", expires, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(41), created))

	s := &models.Session{Email: "a@x.com", Token: "iv:tag:ct", ExpiresAt: expires, Verified: true}
	require.NoError(t, repo.Create(s))
	assert.Equal(t, int64(41), s.ID)
	assert.Equal(t, created, s.CreatedAt)
}

func TestSessionGetByTokenMissingIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM sessions`).
		WithArgs("unknown-token").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByToken("unknown-token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionDeleteExpiredReportsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewSessionRepository(db)

	cutoff := time.Now()
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
