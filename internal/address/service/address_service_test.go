package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/address/domain"
	"github.com/greenveggies/backend/internal/address/repository"
	"github.com/greenveggies/backend/internal/address/service"
)

func newAddressService(t *testing.T) (*service.AddressService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := service.NewAddressService(db, repository.NewAddressRepository(), zap.NewNop())
	return svc, mock, func() { db.Close() }
}

func addressRow(addressID, userID string, isDefault bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"address_id", "user_id", "city", "district", "ward", "street", "is_default", "created_at", "updated_at",
	}).AddRow(addressID, userID, "Ho Chi Minh", "District 1", "Ben Nghe", "12 Nguyen Trai", isDefault, time.Now(), time.Now())
}

// Creating a default address demotes every sibling inside the same
// transaction, so no commit point ever exposes two defaults.
func TestCreateDefaultAddressDemotesSiblingsAtomically(t *testing.T) {
	svc, mock, closeDB := newAddressService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("SET is_default = FALSE").
		WithArgs("US0012", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO addresses").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	address, err := svc.CreateAddress(context.Background(), domain.AddressRequest{
		UserID:   "US0012",
		City:     "Ho Chi Minh",
		District: "District 1",
		Ward:     "Ben Nghe",
		Street:   "12 Nguyen Trai",
		Default:  true,
	})
	require.NoError(t, err)

	assert.True(t, address.Default)
	assert.NotEmpty(t, address.AddressID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNonDefaultAddressLeavesSiblingsAlone(t *testing.T) {
	svc, mock, closeDB := newAddressService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO addresses").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	address, err := svc.CreateAddress(context.Background(), domain.AddressRequest{
		UserID:   "US0012",
		City:     "Ho Chi Minh",
		District: "District 1",
		Ward:     "Ben Nghe",
		Street:   "12 Nguyen Trai",
	})
	require.NoError(t, err)

	assert.False(t, address.Default)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefaultPromotesAndDemotesInOneTransaction(t *testing.T) {
	svc, mock, closeDB := newAddressService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT address_id, user_id").
		WithArgs("ADDR2").
		WillReturnRows(addressRow("ADDR2", "US0012", false))
	mock.ExpectExec("SET is_default = FALSE").
		WithArgs("US0012", "ADDR2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("SET city").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	address, err := svc.SetDefault(context.Background(), "US0012", "ADDR2")
	require.NoError(t, err)

	assert.True(t, address.Default)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetDefaultRejectsForeignAddress(t *testing.T) {
	svc, mock, closeDB := newAddressService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT address_id, user_id").
		WithArgs("ADDR2").
		WillReturnRows(addressRow("ADDR2", "US0099", false))
	mock.ExpectRollback()

	_, err := svc.SetDefault(context.Background(), "US0012", "ADDR2")
	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAddressValidation(t *testing.T) {
	svc, mock, closeDB := newAddressService(t)
	defer closeDB()

	_, err := svc.CreateAddress(context.Background(), domain.AddressRequest{UserID: "US0012"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
