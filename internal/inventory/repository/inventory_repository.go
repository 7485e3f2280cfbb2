package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/greenveggies/backend/internal/inventory/domain"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

// InventoryRepository owns the product counters. Every method takes a
// Queryer, so reservations made while building an order run on the order's
// transaction and roll back with it.
type InventoryRepository struct{}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Reserve atomically decrements quantity and increments sold, but only when
// enough stock remains. The floor check lives in the statement itself; two
// concurrent reservations for the last units are linearized by the database
// and exactly one of them succeeds.
func (r *InventoryRepository) Reserve(ctx context.Context, q storage.Queryer, productID string, quantity int) error {
	query := `
		UPDATE products
		SET quantity = quantity - $2, sold = sold + $2, updated_at = NOW()
		WHERE product_id = $1 AND quantity >= $2
	`

	result, err := q.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("stock reservation error: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	// The conditional update matched nothing: either the product does not
	// exist or it ran out of stock. Distinguish the two for the caller.
	var remaining int
	err = q.QueryRowContext(ctx, `SELECT quantity FROM products WHERE product_id = $1`, productID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("product lookup error: %w", err)
	}

	return &domain.InsufficientStockError{
		ProductID: productID,
		Requested: quantity,
		Remaining: remaining,
	}
}

// Replenish increments quantity and the cumulative import counter.
func (r *InventoryRepository) Replenish(ctx context.Context, q storage.Queryer, productID string, quantity int) error {
	query := `
		UPDATE products
		SET quantity = quantity + $2, "import" = "import" + $2, updated_at = NOW()
		WHERE product_id = $1
	`

	result, err := q.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("stock replenish error: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *InventoryRepository) CreateProduct(ctx context.Context, q storage.Queryer, product *types.Product) error {
	query := `
		INSERT INTO products (
			product_id, name, description, category, price,
			quantity, sold, "import", status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		product.ProductID,
		product.Name,
		product.Description,
		product.Category,
		product.Price,
		product.Quantity,
		product.Sold,
		product.Import,
		product.Status,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("product creation error: %w", err)
	}

	return nil
}

func (r *InventoryRepository) GetProductByID(ctx context.Context, q storage.Queryer, productID string) (*types.Product, error) {
	query := `
		SELECT product_id, name, description, category, price,
			   quantity, sold, "import", status, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`

	product := &types.Product{}
	err := q.QueryRowContext(ctx, query, productID).Scan(
		&product.ProductID,
		&product.Name,
		&product.Description,
		&product.Category,
		&product.Price,
		&product.Quantity,
		&product.Sold,
		&product.Import,
		&product.Status,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product retrieval error: %w", err)
	}

	return product, nil
}

func (r *InventoryRepository) ListProducts(ctx context.Context, q storage.Queryer) ([]*types.Product, error) {
	query := `
		SELECT product_id, name, description, category, price,
			   quantity, sold, "import", status, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("products retrieval error: %w", err)
	}
	defer rows.Close()

	var products []*types.Product
	for rows.Next() {
		product := &types.Product{}
		err := rows.Scan(
			&product.ProductID,
			&product.Name,
			&product.Description,
			&product.Category,
			&product.Price,
			&product.Quantity,
			&product.Sold,
			&product.Import,
			&product.Status,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("product scan error: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *InventoryRepository) CreateStockEntry(ctx context.Context, q storage.Queryer, entry *types.StockEntry) error {
	query := `
		INSERT INTO stock_entries (stock_entry_id, product_id, price, quantity, entry_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.ExecContext(ctx, query, entry.StockEntryID, entry.ProductID, entry.Price, entry.Quantity, entry.EntryDate)
	if err != nil {
		return fmt.Errorf("stock entry creation error: %w", err)
	}

	return nil
}

func (r *InventoryRepository) ListStockEntries(ctx context.Context, q storage.Queryer, productID string) ([]*types.StockEntry, error) {
	query := `
		SELECT stock_entry_id, product_id, price, quantity, entry_date
		FROM stock_entries
		WHERE product_id = $1
		ORDER BY entry_date DESC
	`

	rows, err := q.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("stock entries retrieval error: %w", err)
	}
	defer rows.Close()

	var entries []*types.StockEntry
	for rows.Next() {
		entry := &types.StockEntry{}
		if err := rows.Scan(&entry.StockEntryID, &entry.ProductID, &entry.Price, &entry.Quantity, &entry.EntryDate); err != nil {
			return nil, fmt.Errorf("stock entry scan error: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
