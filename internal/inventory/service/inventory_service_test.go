package service_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/inventory/domain"
	"github.com/greenveggies/backend/internal/inventory/repository"
	"github.com/greenveggies/backend/internal/inventory/service"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/types"
)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) PublishEvent(event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

func newInventoryService(t *testing.T) (*service.InventoryService, sqlmock.Sqlmock, *capturingPublisher, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	svc := service.NewInventoryService(db, repository.NewInventoryRepository(), publisher, zap.NewNop())

	return svc, mock, publisher, func() { db.Close() }
}

func TestCreateProductAssignsSequentialID(t *testing.T) {
	svc, mock, _, closeDB := newInventoryService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(2))
	mock.ExpectExec("INSERT INTO products").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	product, err := svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		Name:     "Spinach",
		Category: "leafy",
		Price:    10,
		Quantity: 40,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^SP0002\d{6}$`, product.ProductID)
	assert.Equal(t, types.ProductStatusAvailable, product.Status)
	// The cumulative import counter starts at the initial quantity.
	assert.Equal(t, 40, product.Import)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Replenishment is one transaction: counter update, entry ID and entry row
// commit together or not at all.
func TestReplenishRecordsEntryAndPublishes(t *testing.T) {
	svc, mock, publisher, closeDB := newInventoryService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").
		WithArgs("SP0001100325", 25).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec("INSERT INTO stock_entries").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry, err := svc.Replenish(context.Background(), "SP0001100325", domain.ReplenishRequest{
		Price:    8,
		Quantity: 25,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^SE0001\d{6}$`, entry.StockEntryID)
	assert.Equal(t, 25, entry.Quantity)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.StockReplenishedEvent, publisher.published[0].EventType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplenishUnknownProductRollsBack(t *testing.T) {
	svc, mock, publisher, closeDB := newInventoryService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE products").
		WithArgs("SP9999999999", 25).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.Replenish(context.Background(), "SP9999999999", domain.ReplenishRequest{
		Price:    8,
		Quantity: 25,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Empty(t, publisher.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
