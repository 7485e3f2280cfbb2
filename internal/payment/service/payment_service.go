package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/payment/domain"
	"github.com/greenveggies/backend/internal/payment/gateway"
	"github.com/greenveggies/backend/internal/payment/repository"
	"github.com/greenveggies/backend/internal/sequence"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type EventPublisher interface {
	PublishEvent(event events.DomainEvent) error
}

type PaymentService struct {
	db          *sql.DB
	paymentRepo *repository.PaymentRepository
	qrGateway   gateway.QRGateway
	publisher   EventPublisher
	logger      *zap.Logger
}

func NewPaymentService(db *sql.DB, paymentRepo *repository.PaymentRepository, qrGateway gateway.QRGateway, publisher EventPublisher, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		db:          db,
		paymentRepo: paymentRepo,
		qrGateway:   qrGateway,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreatePayment records a pending payment for an order together with its
// transfer QR code URL.
func (s *PaymentService) CreatePayment(ctx context.Context, request domain.CreatePaymentRequest) (*types.Payment, error) {
	if errs := request.Validate(); errs.Any() {
		return nil, errs
	}

	var payment *types.Payment
	err := storage.RunInTx(ctx, s.db, func(tx *sql.Tx) error {
		now := time.Now()
		paymentID, err := sequence.Next(ctx, tx, sequence.PaymentPrefix, now)
		if err != nil {
			return err
		}

		payment = &types.Payment{
			PaymentID: paymentID,
			OrderID:   request.OrderID,
			UserID:    request.UserID,
			Amount:    request.Amount,
			Method:    request.Method,
			Status:    types.PaymentStatusPending,
			QRCodeURL: s.qrGateway.BuildQRCodeURL(request.OrderID, request.Amount),
			CreatedAt: now,
			UpdatedAt: now,
		}

		return s.paymentRepo.CreatePayment(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment created",
		zap.String("payment_id", payment.PaymentID),
		zap.String("order_id", payment.OrderID),
		zap.Float64("amount", payment.Amount))

	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.PaymentCreatedEvent,
		Service:   "order-service",
		UserID:    payment.UserID,
		Payload:   events.PaymentCreatedPayload{Payment: *payment},
	}
	if err := s.publisher.PublishEvent(event); err != nil {
		s.logger.Warn("payment created event publish failed", zap.Error(err))
	}

	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*types.Payment, error) {
	return s.paymentRepo.GetPaymentByID(ctx, s.db, paymentID)
}

func (s *PaymentService) GetPaymentByOrderID(ctx context.Context, orderID string) (*types.Payment, error) {
	return s.paymentRepo.GetPaymentByOrderID(ctx, s.db, orderID)
}
