package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/address/domain"
	"github.com/greenveggies/backend/internal/address/repository"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type AddressService struct {
	db          *sql.DB
	addressRepo *repository.AddressRepository
	logger      *zap.Logger
}

func NewAddressService(db *sql.DB, addressRepo *repository.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{
		db:          db,
		addressRepo: addressRepo,
		logger:      logger,
	}
}

// CreateAddress inserts a new address. When the new address is flagged
// default, every sibling's flag is cleared in the same transaction, so at
// most one default per user is observable at any commit point.
func (s *AddressService) CreateAddress(ctx context.Context, request domain.AddressRequest) (*types.Address, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	now := time.Now()
	address := &types.Address{
		AddressID: uuid.New().String(),
		UserID:    request.UserID,
		City:      request.City,
		District:  request.District,
		Ward:      request.Ward,
		Street:    request.Street,
		Default:   request.Default,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if request.Default {
			if err := s.addressRepo.UnsetDefaults(ctx, tx, request.UserID, address.AddressID); err != nil {
				return err
			}
		}
		return s.addressRepo.CreateAddress(ctx, tx, address)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("address created",
		zap.String("address_id", address.AddressID),
		zap.String("user_id", address.UserID),
		zap.Bool("default", address.Default))

	return address, nil
}

func (s *AddressService) UpdateAddress(ctx context.Context, addressID string, request domain.AddressRequest) (*types.Address, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var address *types.Address
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := s.addressRepo.GetAddressByID(ctx, tx, addressID)
		if err != nil {
			return err
		}

		if request.Default {
			if err := s.addressRepo.UnsetDefaults(ctx, tx, current.UserID, addressID); err != nil {
				return err
			}
		}

		address = &types.Address{
			AddressID: addressID,
			UserID:    current.UserID,
			City:      request.City,
			District:  request.District,
			Ward:      request.Ward,
			Street:    request.Street,
			Default:   request.Default,
			CreatedAt: current.CreatedAt,
			UpdatedAt: time.Now(),
		}
		return s.addressRepo.UpdateAddress(ctx, tx, address)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("address updated",
		zap.String("address_id", addressID),
		zap.Bool("default", address.Default))

	return address, nil
}

// SetDefault promotes one address to default, demoting all siblings in the
// same transaction.
func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) (*types.Address, error) {
	var address *types.Address
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		current, err := s.addressRepo.GetAddressByID(ctx, tx, addressID)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return domain.ErrAddressNotFound
		}

		if err := s.addressRepo.UnsetDefaults(ctx, tx, userID, addressID); err != nil {
			return err
		}

		current.Default = true
		current.UpdatedAt = time.Now()
		if err := s.addressRepo.UpdateAddress(ctx, tx, current); err != nil {
			return err
		}

		address = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("default address set",
		zap.String("user_id", userID),
		zap.String("address_id", addressID))

	return address, nil
}

func (s *AddressService) GetAddress(ctx context.Context, addressID string) (*types.Address, error) {
	return s.addressRepo.GetAddressByID(ctx, s.db, addressID)
}

func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]*types.Address, error) {
	return s.addressRepo.ListAddressesByUserID(ctx, s.db, userID)
}

func (s *AddressService) DeleteAddress(ctx context.Context, addressID string) error {
	return s.addressRepo.DeleteAddress(ctx, s.db, addressID)
}
