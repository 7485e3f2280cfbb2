package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/inventory/domain"
	"github.com/greenveggies/backend/internal/inventory/repository"
	"github.com/greenveggies/backend/internal/sequence"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

// EventPublisher is satisfied by messaging.Publisher.
type EventPublisher interface {
	PublishEvent(event events.DomainEvent) error
}

type InventoryService struct {
	db            *sql.DB
	inventoryRepo *repository.InventoryRepository
	publisher     EventPublisher
	logger        *zap.Logger
}

func NewInventoryService(db *sql.DB, inventoryRepo *repository.InventoryRepository, publisher EventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		db:            db,
		inventoryRepo: inventoryRepo,
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *InventoryService) CreateProduct(ctx context.Context, request domain.CreateProductRequest) (*types.Product, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var product *types.Product
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		now := time.Now()
		productID, err := sequence.Next(ctx, tx, sequence.ProductPrefix, now)
		if err != nil {
			return err
		}

		product = &types.Product{
			ProductID:   productID,
			Name:        request.Name,
			Description: request.Description,
			Category:    request.Category,
			Price:       request.Price,
			Quantity:    request.Quantity,
			Import:      request.Quantity,
			Status:      types.ProductStatusAvailable,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		return s.inventoryRepo.CreateProduct(ctx, tx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ProductID),
		zap.Int("quantity", product.Quantity))

	return product, nil
}

// Replenish applies a stock entry: quantity and the import counter grow
// together with the appended entry record, in one transaction.
func (s *InventoryService) Replenish(ctx context.Context, productID string, request domain.ReplenishRequest) (*types.StockEntry, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var entry *types.StockEntry
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.inventoryRepo.Replenish(ctx, tx, productID, request.Quantity); err != nil {
			return err
		}

		now := time.Now()
		entryID, err := sequence.Next(ctx, tx, sequence.StockEntryPrefix, now)
		if err != nil {
			return err
		}

		entry = &types.StockEntry{
			StockEntryID: entryID,
			ProductID:    productID,
			Price:        request.Price,
			Quantity:     request.Quantity,
			EntryDate:    now,
		}

		return s.inventoryRepo.CreateStockEntry(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock replenished",
		zap.String("product_id", productID),
		zap.String("stock_entry_id", entry.StockEntryID),
		zap.Int("quantity", entry.Quantity))

	s.publishStockReplenishedEvent(entry)

	return entry, nil
}

func (s *InventoryService) GetProduct(ctx context.Context, productID string) (*types.Product, error) {
	return s.inventoryRepo.GetProductByID(ctx, s.db, productID)
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]*types.Product, error) {
	return s.inventoryRepo.ListProducts(ctx, s.db)
}

func (s *InventoryService) ListStockEntries(ctx context.Context, productID string) ([]*types.StockEntry, error) {
	if _, err := s.inventoryRepo.GetProductByID(ctx, s.db, productID); err != nil {
		return nil, err
	}
	return s.inventoryRepo.ListStockEntries(ctx, s.db, productID)
}

func (s *InventoryService) publishStockReplenishedEvent(entry *types.StockEntry) {
	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.StockReplenishedEvent,
		Service:   "order-service",
		Payload: events.StockReplenishedPayload{
			ProductID:    entry.ProductID,
			StockEntryID: entry.StockEntryID,
			Quantity:     entry.Quantity,
			Price:        entry.Price,
		},
	}

	if err := s.publisher.PublishEvent(event); err != nil {
		// Stock is already committed; the event is best-effort.
		s.logger.Warn("stock replenished event publish failed", zap.Error(err))
	}
}
