package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/greenveggies/backend/internal/payment/domain"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

func (r *PaymentRepository) CreatePayment(ctx context.Context, q storage.Queryer, payment *types.Payment) error {
	query := `
		INSERT INTO payments (
			payment_id, order_id, user_id, amount, method, status, qr_code_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		payment.PaymentID,
		payment.OrderID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.QRCodeURL,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("payment creation error: %w", err)
	}

	return nil
}

func (r *PaymentRepository) GetPaymentByID(ctx context.Context, q storage.Queryer, paymentID string) (*types.Payment, error) {
	query := `
		SELECT payment_id, order_id, user_id, amount, method, status, qr_code_url, created_at, updated_at
		FROM payments
		WHERE payment_id = $1
	`

	payment := &types.Payment{}
	err := q.QueryRowContext(ctx, query, paymentID).Scan(
		&payment.PaymentID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.QRCodeURL,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment retrieval error: %w", err)
	}

	return payment, nil
}

func (r *PaymentRepository) GetPaymentByOrderID(ctx context.Context, q storage.Queryer, orderID string) (*types.Payment, error) {
	query := `
		SELECT payment_id, order_id, user_id, amount, method, status, qr_code_url, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`

	payment := &types.Payment{}
	err := q.QueryRowContext(ctx, query, orderID).Scan(
		&payment.PaymentID,
		&payment.OrderID,
		&payment.UserID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.QRCodeURL,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("payment retrieval error: %w", err)
	}

	return payment, nil
}
