package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenveggies/backend/internal/verification"
)

func TestPutUpsertsWithFreshExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO verifications").
		WithArgs(verification.FlowRegister, "user@example.com", "482913", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := verification.NewStore(db)
	err = store.Put(context.Background(), verification.FlowRegister, "user@example.com", "482913", 5*time.Minute)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckReturnsLiveValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM verifications").
		WithArgs(verification.FlowRegister, "user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("482913"))

	store := verification.NewStore(db)
	value, ok, err := store.Check(context.Background(), verification.FlowRegister, "user@example.com")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "482913", value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// An expired entry is filtered by the query itself, so the caller sees the
// same miss as for a key that was never stored.
func TestCheckMissesExpiredEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT value FROM verifications").
		WithArgs(verification.FlowPasswordReset, "user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	store := verification.NewStore(db)
	_, ok, err := store.Check(context.Background(), verification.FlowPasswordReset, "user@example.com")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeReportsRemovedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM verifications").
		WillReturnResult(sqlmock.NewResult(0, 3))

	store := verification.NewStore(db)
	removed, err := store.Purge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
