package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVerificationRepository(db)

	expires := time.Now().Add(time.Minute)
	mock.ExpectExec(`INSERT INTO pending_verifications .+ ON CONFLICT \(email, fingerprint\)`).
		WithArgs("a@x.com", "fp-1", "123456", expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert("a@x.com", "fp-1", "123456", expires))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationGetMissingIsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVerificationRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM pending_verifications`).
		WithArgs("a@x.com", "fp-1").
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Get("a@x.com", "fp-1")
	require.NoError(t, err, "no pending code is a normal state, not an error")
	assert.Nil(t, got)
}

func TestVerificationGetScansRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVerificationRepository(db)

	expires := time.Now().Add(time.Minute)
	created := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM pending_verifications`).
		WithArgs("a@x.com", "fp-1").
		WillReturnRows(sqlmock.NewRows([]string{"email", "fingerprint", "code", "expires_at", "created_at"}).
			AddRow("a@x.com", "fp-1", "654321", expires, created))

	got, err := repo.Get("a@x.com", "fp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "654321", got.Code)
	assert.Equal(t, "fp-1", got.Fingerprint)
}

func TestVerificationDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewVerificationRepository(db)

	mock.ExpectExec(`DELETE FROM pending_verifications`).
		WithArgs("a@x.com", "fp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete("a@x.com", "fp-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
