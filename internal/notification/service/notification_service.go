package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/greenveggies/backend/internal/notification/repository"
	"github.com/greenveggies/backend/shared/events"
	"github.com/greenveggies/backend/shared/types"
)

// EventPublisher is satisfied by messaging.Publisher. Sent notifications are
// announced with bounded retry; a stored notification should not stay silent
// because of one broker hiccup.
type EventPublisher interface {
	PublishWithRetry(event events.DomainEvent, maxRetries int) error
}

// NotificationService turns order events into stored notifications for the
// owning user.
type NotificationService struct {
	db               *sql.DB
	notificationRepo *repository.NotificationRepository
	publisher        EventPublisher
	logger           *zap.Logger
}

func NewNotificationService(db *sql.DB, notificationRepo *repository.NotificationRepository, publisher EventPublisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		db:               db,
		notificationRepo: notificationRepo,
		publisher:        publisher,
		logger:           logger,
	}
}

func (s *NotificationService) HandleEvent(event events.DomainEvent) error {
	switch event.EventType {
	case events.OrderCreatedEvent:
		var payload events.OrderCreatedPayload
		if err := decodePayload(event.Payload, &payload); err != nil {
			return err
		}
		return s.record(event.UserID, types.SenderSystem,
			"Order placed",
			fmt.Sprintf("Your order %s has been placed.", payload.Order.OrderID))

	case events.OrderStatusChangedEvent:
		var payload events.OrderStatusChangedPayload
		if err := decodePayload(event.Payload, &payload); err != nil {
			return err
		}
		return s.record(payload.UserID, types.SenderAdmin,
			"Order updated",
			fmt.Sprintf("Order %s is now %s.", payload.OrderID, payload.ToStatus))

	case events.OrderDeletedEvent:
		var payload events.OrderDeletedPayload
		if err := decodePayload(event.Payload, &payload); err != nil {
			return err
		}
		return s.record(payload.UserID, types.SenderSystem,
			"Order removed",
			fmt.Sprintf("Order %s has been removed.", payload.OrderID))

	default:
		s.logger.Debug("event ignored", zap.String("event_type", string(event.EventType)))
		return nil
	}
}

func (s *NotificationService) record(userID string, sender types.SenderType, title, message string) error {
	notification := &types.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Sender:         sender,
		Title:          title,
		Message:        message,
		CreatedAt:      time.Now(),
	}

	if err := s.notificationRepo.CreateNotification(context.Background(), s.db, notification); err != nil {
		return err
	}

	s.logger.Info("notification recorded",
		zap.String("notification_id", notification.NotificationID),
		zap.String("user_id", userID),
		zap.String("title", title))

	event := events.DomainEvent{
		ID:        uuid.New(),
		EventType: events.NotificationSentEvent,
		Service:   "notification-worker",
		UserID:    userID,
		Payload: events.NotificationSentPayload{
			NotificationID: notification.NotificationID,
			UserID:         userID,
			Title:          title,
		},
	}
	if err := s.publisher.PublishWithRetry(event, 3); err != nil {
		// The notification row is already committed; delivery is best-effort.
		s.logger.Warn("notification sent event publish failed", zap.Error(err))
	}

	return nil
}

// decodePayload re-marshals the generic event payload into its typed form.
func decodePayload(payload interface{}, target interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("payload marshal error: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("payload unmarshal error: %w", err)
	}
	return nil
}
