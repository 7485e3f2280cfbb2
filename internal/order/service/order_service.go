package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/order/domain"
	"github.com/greenveggies/backend/internal/order/repository"
	"github.com/greenveggies/backend/internal/sequence"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

// Ledger is the inventory surface the order builder needs. Implemented by
// the inventory repository; reservations run on the order's transaction so
// they roll back together with the order.
type Ledger interface {
	Reserve(ctx context.Context, q storage.Queryer, productID string, quantity int) error
	GetProductByID(ctx context.Context, q storage.Queryer, productID string) (*types.Product, error)
}

type EventPublisher interface {
	PublishEvent(event events.DomainEvent) error
}

type OrderService struct {
	db        *sql.DB
	orderRepo *repository.OrderRepository
	ledger    Ledger
	publisher EventPublisher
	logger    *zap.Logger
}

func NewOrderService(db *sql.DB, orderRepo *repository.OrderRepository, ledger Ledger, publisher EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:        db,
		orderRepo: orderRepo,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// OrderWithDetails is the populated aggregate returned to callers.
type OrderWithDetails struct {
	types.Order
	Details []types.OrderDetail `json:"details"`
}

// CreateOrder builds the order aggregate: order header, one immutable detail
// per line, and one stock reservation per line, all inside one transaction.
// Any failed line aborts the whole unit; no partial order is ever visible.
func (s *OrderService) CreateOrder(ctx context.Context, request domain.CreateOrderRequest) (*OrderWithDetails, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var result *OrderWithDetails
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		now := time.Now()

		orderID, err := sequence.NextForUser(ctx, tx, sequence.OrderPrefix, request.UserID, now)
		if err != nil {
			return err
		}

		// Provisional header first; details need the order identifier.
		order := &types.Order{
			OrderID:       orderID,
			UserID:        request.UserID,
			OrderDetails:  []string{},
			TotalQuantity: request.TotalQuantity,
			TotalAmount:   request.TotalAmount,
			Status:        types.OrderStatusPending,
			PaymentMethod: request.PaymentMethod,
			Address:       request.Address,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		details := make([]types.OrderDetail, 0, len(request.OrderDetails))
		detailIDs := make([]string, 0, len(request.OrderDetails))

		// Reservations are applied strictly in input order; the first line
		// without enough stock aborts the transaction.
		for _, line := range request.OrderDetails {
			product, err := s.ledger.GetProductByID(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}

			if err := s.ledger.Reserve(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}

			detail := types.OrderDetail{
				OrderDetailID: uuid.New().String(),
				OrderID:       orderID,
				ProductID:     line.ProductID,
				Quantity:      line.Quantity,
				TotalAmount:   product.Price * domain.MarkupFactor * float64(line.Quantity),
				CreatedAt:     now,
			}
			if err := s.orderRepo.CreateOrderDetail(ctx, tx, &detail); err != nil {
				return err
			}

			details = append(details, detail)
			detailIDs = append(detailIDs, detail.OrderDetailID)
		}

		if err := s.orderRepo.UpdateOrderDetailRefs(ctx, tx, orderID, detailIDs, now); err != nil {
			return err
		}

		order.OrderDetails = detailIDs
		result = &OrderWithDetails{Order: *order, Details: details}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", result.OrderID),
		zap.String("user_id", result.UserID),
		zap.Int("lines", len(result.Details)),
		zap.Float64("total_amount", result.TotalAmount))

	s.publishOrderCreatedEvent(result)

	return result, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*OrderWithDetails, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	details, err := s.orderRepo.GetDetailsByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderWithDetails{Order: *order, Details: details}, nil
}

func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID string) ([]*types.Order, error) {
	orders, err := s.orderRepo.GetOrdersByUserID(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return orders, nil
}

// UpdateStatus applies an admin status change after checking the lifecycle
// allows it.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next types.OrderStatus) (*OrderWithDetails, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &domain.StatusTransitionError{From: order.Status, To: next}
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(ctx, s.db, orderID, next, now); err != nil {
		return nil, err
	}

	s.logger.Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(next)))

	s.publishStatusChangedEvent(order, next)

	order.Status = next
	order.UpdatedAt = now

	details, err := s.orderRepo.GetDetailsByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderWithDetails{Order: *order, Details: details}, nil
}

// DeleteOrder removes the order and cascades to its details.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	order, err := s.orderRepo.GetOrderByID(ctx, s.db, orderID)
	if err != nil {
		return err
	}

	if order.Status != types.OrderStatusPending && order.Status != types.OrderStatusCancelled {
		return domain.ErrOrderNotDeletable
	}

	err = storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.orderRepo.DeleteDetailsByOrderID(ctx, tx, orderID); err != nil {
			return err
		}
		return s.orderRepo.DeleteOrder(ctx, tx, orderID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.String("order_id", orderID))

	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.OrderDeletedEvent,
		Service:   "order-service",
		UserID:    order.UserID,
		Payload:   events.OrderDeletedPayload{OrderID: orderID, UserID: order.UserID},
	}
	if err := s.publisher.PublishEvent(event); err != nil {
		s.logger.Warn("order deleted event publish failed", zap.Error(err))
	}

	return nil
}

func (s *OrderService) publishOrderCreatedEvent(order *OrderWithDetails) {
	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.OrderCreatedEvent,
		Service:   "order-service",
		UserID:    order.UserID,
		Payload: events.OrderCreatedPayload{
			Order:   order.Order,
			Details: order.Details,
		},
	}

	if err := s.publisher.PublishEvent(event); err != nil {
		// The order is committed; delivery of the event is best-effort.
		s.logger.Warn("order created event publish failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
}

func (s *OrderService) publishStatusChangedEvent(order *types.Order, next types.OrderStatus) {
	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.OrderStatusChangedEvent,
		Service:   "order-service",
		UserID:    order.UserID,
		Payload: events.OrderStatusChangedPayload{
			OrderID:    order.OrderID,
			UserID:     order.UserID,
			FromStatus: order.Status,
			ToStatus:   next,
		},
	}

	if err := s.publisher.PublishEvent(event); err != nil {
		s.logger.Warn("status changed event publish failed",
			zap.String("order_id", order.OrderID), zap.Error(err))
	}
}
