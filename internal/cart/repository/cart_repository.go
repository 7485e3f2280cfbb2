package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/greenveggies/backend/internal/cart/domain"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type CartRepository struct{}

func NewCartRepository() *CartRepository {
	return &CartRepository{}
}

func (r *CartRepository) CreateCart(ctx context.Context, q storage.Queryer, cart *types.ShoppingCart) error {
	detailsJSON, err := json.Marshal(cart.Details)
	if err != nil {
		return fmt.Errorf("cart details serialization error: %w", err)
	}

	query := `
		INSERT INTO shopping_carts (shopping_cart_id, user_id, details, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = q.ExecContext(ctx, query, cart.ShoppingCartID, cart.UserID, detailsJSON, cart.TotalPrice, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("cart creation error: %w", err)
	}

	return nil
}

// UpdateCart persists the detail-reference list and the recomputed total.
func (r *CartRepository) UpdateCart(ctx context.Context, q storage.Queryer, cart *types.ShoppingCart) error {
	detailsJSON, err := json.Marshal(cart.Details)
	if err != nil {
		return fmt.Errorf("cart details serialization error: %w", err)
	}

	query := `
		UPDATE shopping_carts
		SET details = $2, total_price = $3, updated_at = $4
		WHERE shopping_cart_id = $1
	`

	result, err := q.ExecContext(ctx, query, cart.ShoppingCartID, detailsJSON, cart.TotalPrice, cart.UpdatedAt)
	if err != nil {
		return fmt.Errorf("cart update error: %w", err)
	}

	return requireCartRow(result, domain.ErrCartNotFound)
}

func (r *CartRepository) GetCartByUserID(ctx context.Context, q storage.Queryer, userID string) (*types.ShoppingCart, error) {
	query := `
		SELECT shopping_cart_id, user_id, details, total_price, created_at, updated_at
		FROM shopping_carts
		WHERE user_id = $1
	`

	return r.scanCart(q.QueryRowContext(ctx, query, userID))
}

func (r *CartRepository) GetCartByID(ctx context.Context, q storage.Queryer, cartID string) (*types.ShoppingCart, error) {
	query := `
		SELECT shopping_cart_id, user_id, details, total_price, created_at, updated_at
		FROM shopping_carts
		WHERE shopping_cart_id = $1
	`

	return r.scanCart(q.QueryRowContext(ctx, query, cartID))
}

func (r *CartRepository) DeleteCart(ctx context.Context, q storage.Queryer, cartID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM shopping_carts WHERE shopping_cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("cart delete error: %w", err)
	}

	return requireCartRow(result, domain.ErrCartNotFound)
}

func (r *CartRepository) CreateDetail(ctx context.Context, q storage.Queryer, detail *types.ShoppingCartDetail) error {
	query := `
		INSERT INTO shopping_cart_details (
			cart_detail_id, shopping_cart_id, product_id, quantity, description, total_amount, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		detail.CartDetailID,
		detail.ShoppingCartID,
		detail.ProductID,
		detail.Quantity,
		detail.Description,
		detail.TotalAmount,
		detail.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("cart detail creation error: %w", err)
	}

	return nil
}

func (r *CartRepository) UpdateDetail(ctx context.Context, q storage.Queryer, detail *types.ShoppingCartDetail) error {
	query := `
		UPDATE shopping_cart_details
		SET quantity = $2, total_amount = $3, updated_at = $4
		WHERE cart_detail_id = $1
	`

	result, err := q.ExecContext(ctx, query, detail.CartDetailID, detail.Quantity, detail.TotalAmount, detail.UpdatedAt)
	if err != nil {
		return fmt.Errorf("cart detail update error: %w", err)
	}

	return requireCartRow(result, domain.ErrCartDetailNotFound)
}

func (r *CartRepository) GetDetailByID(ctx context.Context, q storage.Queryer, detailID string) (*types.ShoppingCartDetail, error) {
	query := `
		SELECT cart_detail_id, shopping_cart_id, product_id, quantity, description, total_amount, updated_at
		FROM shopping_cart_details
		WHERE cart_detail_id = $1
	`

	return r.scanDetail(q.QueryRowContext(ctx, query, detailID))
}

func (r *CartRepository) GetDetailByCartAndProduct(ctx context.Context, q storage.Queryer, cartID, productID string) (*types.ShoppingCartDetail, error) {
	query := `
		SELECT cart_detail_id, shopping_cart_id, product_id, quantity, description, total_amount, updated_at
		FROM shopping_cart_details
		WHERE shopping_cart_id = $1 AND product_id = $2
	`

	return r.scanDetail(q.QueryRowContext(ctx, query, cartID, productID))
}

func (r *CartRepository) GetDetailsByCartID(ctx context.Context, q storage.Queryer, cartID string) ([]types.ShoppingCartDetail, error) {
	query := `
		SELECT cart_detail_id, shopping_cart_id, product_id, quantity, description, total_amount, updated_at
		FROM shopping_cart_details
		WHERE shopping_cart_id = $1
		ORDER BY updated_at ASC, cart_detail_id ASC
	`

	rows, err := q.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart details retrieval error: %w", err)
	}
	defer rows.Close()

	var details []types.ShoppingCartDetail
	for rows.Next() {
		var detail types.ShoppingCartDetail
		err := rows.Scan(
			&detail.CartDetailID,
			&detail.ShoppingCartID,
			&detail.ProductID,
			&detail.Quantity,
			&detail.Description,
			&detail.TotalAmount,
			&detail.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("cart detail scan error: %w", err)
		}
		details = append(details, detail)
	}

	return details, rows.Err()
}

func (r *CartRepository) DeleteDetail(ctx context.Context, q storage.Queryer, detailID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM shopping_cart_details WHERE cart_detail_id = $1`, detailID)
	if err != nil {
		return fmt.Errorf("cart detail delete error: %w", err)
	}

	return requireCartRow(result, domain.ErrCartDetailNotFound)
}

func (r *CartRepository) DeleteDetailsByCartID(ctx context.Context, q storage.Queryer, cartID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM shopping_cart_details WHERE shopping_cart_id = $1`, cartID)
	if err != nil {
		return fmt.Errorf("cart details delete error: %w", err)
	}
	return nil
}

func (r *CartRepository) scanCart(row *sql.Row) (*types.ShoppingCart, error) {
	cart := &types.ShoppingCart{}
	var detailsJSON []byte

	err := row.Scan(
		&cart.ShoppingCartID,
		&cart.UserID,
		&detailsJSON,
		&cart.TotalPrice,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart scan error: %w", err)
	}

	if err := json.Unmarshal(detailsJSON, &cart.Details); err != nil {
		return nil, fmt.Errorf("cart details deserialization error: %w", err)
	}

	return cart, nil
}

func (r *CartRepository) scanDetail(row *sql.Row) (*types.ShoppingCartDetail, error) {
	detail := &types.ShoppingCartDetail{}

	err := row.Scan(
		&detail.CartDetailID,
		&detail.ShoppingCartID,
		&detail.ProductID,
		&detail.Quantity,
		&detail.Description,
		&detail.TotalAmount,
		&detail.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCartDetailNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cart detail scan error: %w", err)
	}

	return detail, nil
}

func requireCartRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
