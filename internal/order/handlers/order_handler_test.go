package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	inventoryrepo "github.com/greenveggies/backend/internal/inventory/repository"
	"github.com/greenveggies/backend/internal/order/handlers"
	"github.com/greenveggies/backend/internal/order/repository"
	"github.com/greenveggies/backend/internal/order/service"
	"github.com/greenveggies/backend/shared/events"
)

type noopPublisher struct{}

func (noopPublisher) PublishEvent(events.DomainEvent) error { return nil }

func newOrderApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	svc := service.NewOrderService(db, repository.NewOrderRepository(), inventoryrepo.NewInventoryRepository(), noopPublisher{}, zap.NewNop())
	handler := handlers.NewOrderHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Post("/api/v1/orders", handler.CreateOrder)
	app.Put("/api/v1/orders/:orderID", handler.UpdateStatus)

	return app, mock, func() { db.Close() }
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return sendJSON(t, app, "POST", path, body)
}

func sendJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &decoded))

	return resp.StatusCode, decoded
}

func TestCreateOrderValidationFailureReturnsFieldErrors(t *testing.T) {
	app, mock, closeDB := newOrderApp(t)
	defer closeDB()

	status, body := postJSON(t, app, "/api/v1/orders", map[string]interface{}{
		"userID": "US0012",
	})

	assert.Equal(t, fiber.StatusBadRequest, status)

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "orderDetails")
	assert.Contains(t, errs, "totalAmount")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderInsufficientStockReturnsConflict(t *testing.T) {
	app, mock, closeDB := newOrderApp(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO id_counters").
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT product_id, name").
		WillReturnRows(sqlmock.NewRows([]string{
			"product_id", "name", "description", "category", "price",
			"quantity", "sold", "import", "status", "created_at", "updated_at",
		}).AddRow("SP0001100325", "Spinach", "fresh", "leafy", 10.0, 1, 0, 1, "available", time.Now(), time.Now()))
	mock.ExpectExec("UPDATE products").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT quantity FROM products").
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(1))
	mock.ExpectRollback()

	status, body := postJSON(t, app, "/api/v1/orders", map[string]interface{}{
		"userID": "US0012",
		"orderDetails": []map[string]interface{}{
			{"productID": "SP0001100325", "quantity": 3},
		},
		"totalQuantity": 3,
		"totalAmount":   45,
		"paymentMethod": "cod",
		"address":       "12 Nguyen Trai, District 1",
	})

	assert.Equal(t, fiber.StatusConflict, status)

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "SP0001100325")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIllegalTransitionReturnsConflict(t *testing.T) {
	app, mock, closeDB := newOrderApp(t)
	defer closeDB()

	mock.ExpectQuery("SELECT order_id, user_id").
		WithArgs("OD00010012100325").
		WillReturnRows(sqlmock.NewRows([]string{
			"order_id", "user_id", "order_details", "total_quantity", "total_amount",
			"status", "payment_method", "address", "created_at", "updated_at",
		}).AddRow("OD00010012100325", "US0012", []byte(`[]`), 3, 45.0, "delivered", "cod", "12 Nguyen Trai", time.Now(), time.Now()))

	status, body := sendJSON(t, app, "PUT", "/api/v1/orders/OD00010012100325", map[string]interface{}{
		"status": "pending",
	})

	assert.Equal(t, fiber.StatusConflict, status)

	errs, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "status")

	assert.NoError(t, mock.ExpectationsWereMet())
}
