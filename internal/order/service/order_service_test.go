package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/inventory/domain"
	inventoryrepo "github.com/greenveggies/backend/internal/inventory/repository"
	orderdomain "github.com/greenveggies/backend/internal/order/domain"
	"github.com/greenveggies/backend/internal/order/repository"
	"github.com/greenveggies/backend/internal/order/service"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/validation"
)

type capturingPublisher struct {
	published []events.DomainEvent
}

func (p *capturingPublisher) PublishEvent(event events.DomainEvent) error {
	p.published = append(p.published, event)
	return nil
}

func newOrderService(t *testing.T) (*service.OrderService, sqlmock.Sqlmock, *capturingPublisher, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	publisher := &capturingPublisher{}
	svc := service.NewOrderService(db, repository.NewOrderRepository(), inventoryrepo.NewInventoryRepository(), publisher, zap.NewNop())

	return svc, mock, publisher, func() { db.Close() }
}

func productRow(productID string, price float64, quantity int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "name", "description", "category", "price",
		"quantity", "sold", "import", "status", "created_at", "updated_at",
	}).AddRow(productID, "Spinach", "fresh", "leafy", price, quantity, 0, quantity, "available", time.Now(), time.Now())
}

func TestCreateOrderReservesEveryLineAndCommits(t *testing.T) {
	svc, mock, publisher, closeDB := newOrderService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Line 1: 2 units at 10.00.
	mock.ExpectQuery("SELECT product_id, name").
		WithArgs("SP0001100325").
		WillReturnRows(productRow("SP0001100325", 10, 20))
	mock.ExpectExec("UPDATE products").
		WithArgs("SP0001100325", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Line 2: 3 units at 20.00.
	mock.ExpectQuery("SELECT product_id, name").
		WithArgs("SP0002100325").
		WillReturnRows(productRow("SP0002100325", 20, 30))
	mock.ExpectExec("UPDATE products").
		WithArgs("SP0002100325", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("UPDATE orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	request := orderdomain.CreateOrderRequest{
		UserID: "US0012",
		OrderDetails: []orderdomain.OrderLineRequest{
			{ProductID: "SP0001100325", Quantity: 2},
			{ProductID: "SP0002100325", Quantity: 3},
		},
		TotalQuantity: 5,
		TotalAmount:   120,
		PaymentMethod: "cod",
		Address:       "12 Nguyen Trai, District 1",
	}

	order, err := svc.CreateOrder(context.Background(), request)
	require.NoError(t, err)

	require.Len(t, order.Details, 2)
	// Line amount = unit price x markup x quantity.
	assert.InDelta(t, 30, order.Details[0].TotalAmount, 1e-9)
	assert.InDelta(t, 90, order.Details[1].TotalAmount, 1e-9)
	assert.Equal(t, order.OrderDetails, []string{order.Details[0].OrderDetailID, order.Details[1].OrderDetailID})
	assert.Regexp(t, `^OD\d{4}\d+\d{6}$`, order.OrderID)

	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.OrderCreatedEvent, publisher.published[0].EventType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// A mid-order stock failure must abort the whole unit: the transaction rolls
// back, nothing is committed and no event leaves the service.
func TestCreateOrderRollsBackWhenALineRunsOutOfStock(t *testing.T) {
	svc, mock, publisher, closeDB := newOrderService(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(4))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Line 1 reserves fine.
	mock.ExpectQuery("SELECT product_id, name").
		WithArgs("SP0001100325").
		WillReturnRows(productRow("SP0001100325", 10, 20))
	mock.ExpectExec("UPDATE products").
		WithArgs("SP0001100325", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_details").
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Line 2 finds only 1 unit left.
	mock.ExpectQuery("SELECT product_id, name").
		WithArgs("SP0002100325").
		WillReturnRows(productRow("SP0002100325", 20, 1))
	mock.ExpectExec("UPDATE products").
		WithArgs("SP0002100325", 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT quantity FROM products").
		WithArgs("SP0002100325").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))

	mock.ExpectRollback()

	request := orderdomain.CreateOrderRequest{
		UserID: "US0012",
		OrderDetails: []orderdomain.OrderLineRequest{
			{ProductID: "SP0001100325", Quantity: 2},
			{ProductID: "SP0002100325", Quantity: 3},
		},
		TotalQuantity: 5,
		TotalAmount:   120,
		PaymentMethod: "cod",
		Address:       "12 Nguyen Trai, District 1",
	}

	order, err := svc.CreateOrder(context.Background(), request)
	require.Error(t, err)
	assert.Nil(t, order)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "SP0002100325", insufficient.ProductID)
	assert.Equal(t, 1, insufficient.Remaining)

	assert.Empty(t, publisher.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderRefusesShippedOrder(t *testing.T) {
	svc, mock, _, closeDB := newOrderService(t)
	defer closeDB()

	mock.ExpectQuery("SELECT order_id, user_id").
		WithArgs("OD00010012100325").
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "user_id", "order_details", "total_quantity", "total_amount",
			"status", "payment_method", "address", "created_at", "updated_at",
		}).AddRow("OD00010012100325", "US0012", []byte(`[]`), 5, 120.0, "shipped", "cod", "12 Nguyen Trai", time.Now(), time.Now()))

	err := svc.DeleteOrder(context.Background(), "OD00010012100325")
	assert.ErrorIs(t, err, orderdomain.ErrOrderNotDeletable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderRejectsInvalidRequestBeforeTouchingStorage(t *testing.T) {
	svc, mock, publisher, closeDB := newOrderService(t)
	defer closeDB()

	request := orderdomain.CreateOrderRequest{
		UserID: "US0012",
		OrderDetails: []orderdomain.OrderLineRequest{
			{ProductID: "SP0001100325", Quantity: 2},
		},
		TotalQuantity: 5, // does not match the single line's quantity
		TotalAmount:   120,
		PaymentMethod: "cod",
		Address:       "12 Nguyen Trai, District 1",
	}

	_, err := svc.CreateOrder(context.Background(), request)
	require.Error(t, err)

	var errs validation.Errors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs, "totalQuantity")

	assert.Empty(t, publisher.published)
	assert.NoError(t, mock.ExpectationsWereMet())
}
