package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/greenveggies/backend/internal/address/domain"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type AddressRepository struct{}

func NewAddressRepository() *AddressRepository {
	return &AddressRepository{}
}

func (r *AddressRepository) CreateAddress(ctx context.Context, q storage.Queryer, address *types.Address) error {
	query := `
		INSERT INTO addresses (
			address_id, user_id, city, district, ward, street, is_default, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		address.AddressID,
		address.UserID,
		address.City,
		address.District,
		address.Ward,
		address.Street,
		address.Default,
		address.CreatedAt,
		address.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("address creation error: %w", err)
	}

	return nil
}

func (r *AddressRepository) UpdateAddress(ctx context.Context, q storage.Queryer, address *types.Address) error {
	query := `
		UPDATE addresses
		SET city = $2, district = $3, ward = $4, street = $5, is_default = $6, updated_at = $7
		WHERE address_id = $1
	`

	result, err := q.ExecContext(
		ctx,
		query,
		address.AddressID,
		address.City,
		address.District,
		address.Ward,
		address.Street,
		address.Default,
		address.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("address update error: %w", err)
	}

	return requireAddressRow(result)
}

// UnsetDefaults clears the default flag on every address of the user except
// the one being promoted. Runs on the caller's transaction right before the
// promoting write; the pair is one atomic step.
func (r *AddressRepository) UnsetDefaults(ctx context.Context, q storage.Queryer, userID, exceptAddressID string) error {
	query := `
		UPDATE addresses
		SET is_default = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND address_id <> $2 AND is_default = TRUE
	`

	_, err := q.ExecContext(ctx, query, userID, exceptAddressID)
	if err != nil {
		return fmt.Errorf("address default unset error: %w", err)
	}

	return nil
}

func (r *AddressRepository) GetAddressByID(ctx context.Context, q storage.Queryer, addressID string) (*types.Address, error) {
	query := `
		SELECT address_id, user_id, city, district, ward, street, is_default, created_at, updated_at
		FROM addresses
		WHERE address_id = $1
	`

	address := &types.Address{}
	err := q.QueryRowContext(ctx, query, addressID).Scan(
		&address.AddressID,
		&address.UserID,
		&address.City,
		&address.District,
		&address.Ward,
		&address.Street,
		&address.Default,
		&address.CreatedAt,
		&address.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("address retrieval error: %w", err)
	}

	return address, nil
}

func (r *AddressRepository) ListAddressesByUserID(ctx context.Context, q storage.Queryer, userID string) ([]*types.Address, error) {
	query := `
		SELECT address_id, user_id, city, district, ward, street, is_default, created_at, updated_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("addresses retrieval error: %w", err)
	}
	defer rows.Close()

	var addresses []*types.Address
	for rows.Next() {
		address := &types.Address{}
		err := rows.Scan(
			&address.AddressID,
			&address.UserID,
			&address.City,
			&address.District,
			&address.Ward,
			&address.Street,
			&address.Default,
			&address.CreatedAt,
			&address.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("address scan error: %w", err)
		}
		addresses = append(addresses, address)
	}

	return addresses, rows.Err()
}

func (r *AddressRepository) DeleteAddress(ctx context.Context, q storage.Queryer, addressID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM addresses WHERE address_id = $1`, addressID)
	if err != nil {
		return fmt.Errorf("address delete error: %w", err)
	}

	return requireAddressRow(result)
}

func requireAddressRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrAddressNotFound
	}
	return nil
}
