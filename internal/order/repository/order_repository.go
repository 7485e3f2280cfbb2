package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/greenveggies/backend/internal/order/domain"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// CreateOrder inserts the order header. During order assembly the detail list
// is still empty; it is filled in by UpdateOrderDetailRefs before the
// enclosing transaction commits.
func (r *OrderRepository) CreateOrder(ctx context.Context, q storage.Queryer, order *types.Order) error {
	detailsJSON, err := json.Marshal(order.OrderDetails)
	if err != nil {
		return fmt.Errorf("order details serialization error: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_id, user_id, order_details, total_quantity, total_amount,
			status, payment_method, address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = q.ExecContext(
		ctx,
		query,
		order.OrderID,
		order.UserID,
		detailsJSON,
		order.TotalQuantity,
		order.TotalAmount,
		order.Status,
		order.PaymentMethod,
		order.Address,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("order creation error: %w", err)
	}

	return nil
}

func (r *OrderRepository) UpdateOrderDetailRefs(ctx context.Context, q storage.Queryer, orderID string, detailIDs []string, updatedAt time.Time) error {
	detailsJSON, err := json.Marshal(detailIDs)
	if err != nil {
		return fmt.Errorf("order details serialization error: %w", err)
	}

	query := `
		UPDATE orders
		SET order_details = $2, updated_at = $3
		WHERE order_id = $1
	`

	result, err := q.ExecContext(ctx, query, orderID, detailsJSON, updatedAt)
	if err != nil {
		return fmt.Errorf("order update error: %w", err)
	}

	return requireOrderRow(result)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, q storage.Queryer, orderID string, status types.OrderStatus, updatedAt time.Time) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE order_id = $1
	`

	result, err := q.ExecContext(ctx, query, orderID, status, updatedAt)
	if err != nil {
		return fmt.Errorf("order status update error: %w", err)
	}

	return requireOrderRow(result)
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, q storage.Queryer, orderID string) (*types.Order, error) {
	query := `
		SELECT order_id, user_id, order_details, total_quantity, total_amount,
			   status, payment_method, address, created_at, updated_at
		FROM orders
		WHERE order_id = $1
	`

	return scanOrder(q.QueryRowContext(ctx, query, orderID))
}

func (r *OrderRepository) GetOrdersByUserID(ctx context.Context, q storage.Queryer, userID string) ([]*types.Order, error) {
	query := `
		SELECT order_id, user_id, order_details, total_quantity, total_amount,
			   status, payment_method, address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("orders retrieval error: %w", err)
	}
	defer rows.Close()

	var orders []*types.Order
	for rows.Next() {
		order, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, q storage.Queryer, orderID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("order delete error: %w", err)
	}

	return requireOrderRow(result)
}

func (r *OrderRepository) CreateOrderDetail(ctx context.Context, q storage.Queryer, detail *types.OrderDetail) error {
	query := `
		INSERT INTO order_details (order_detail_id, order_id, product_id, quantity, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		detail.OrderDetailID,
		detail.OrderID,
		detail.ProductID,
		detail.Quantity,
		detail.TotalAmount,
		detail.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("order detail creation error: %w", err)
	}

	return nil
}

func (r *OrderRepository) GetDetailsByOrderID(ctx context.Context, q storage.Queryer, orderID string) ([]types.OrderDetail, error) {
	query := `
		SELECT order_detail_id, order_id, product_id, quantity, total_amount, created_at
		FROM order_details
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("order details retrieval error: %w", err)
	}
	defer rows.Close()

	var details []types.OrderDetail
	for rows.Next() {
		var detail types.OrderDetail
		err := rows.Scan(
			&detail.OrderDetailID,
			&detail.OrderID,
			&detail.ProductID,
			&detail.Quantity,
			&detail.TotalAmount,
			&detail.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("order detail scan error: %w", err)
		}
		details = append(details, detail)
	}

	return details, rows.Err()
}

func (r *OrderRepository) DeleteDetailsByOrderID(ctx context.Context, q storage.Queryer, orderID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM order_details WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("order details delete error: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row *sql.Row) (*types.Order, error) {
	order, err := scanOrderRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func scanOrderRow(row rowScanner) (*types.Order, error) {
	order := &types.Order{}
	var detailsJSON []byte

	err := row.Scan(
		&order.OrderID,
		&order.UserID,
		&detailsJSON,
		&order.TotalQuantity,
		&order.TotalAmount,
		&order.Status,
		&order.PaymentMethod,
		&order.Address,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("order scan error: %w", err)
	}

	if err := json.Unmarshal(detailsJSON, &order.OrderDetails); err != nil {
		return nil, fmt.Errorf("order details deserialization error: %w", err)
	}

	return order, nil
}

func requireOrderRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
