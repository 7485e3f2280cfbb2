package repository

import (
	"context"
	"fmt"

	"github.com/greenveggies/backend/shared/storage"
	"github.com/greenveggies/backend/shared/types"
)

type NotificationRepository struct{}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, q storage.Queryer, notification *types.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, sender, title, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := q.ExecContext(
		ctx,
		query,
		notification.NotificationID,
		notification.UserID,
		notification.Sender,
		notification.Title,
		notification.Message,
		notification.Read,
		notification.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("notification creation error: %w", err)
	}

	return nil
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, q storage.Queryer, userID string) ([]*types.Notification, error) {
	query := `
		SELECT notification_id, user_id, sender, title, message, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("notifications retrieval error: %w", err)
	}
	defer rows.Close()

	var notifications []*types.Notification
	for rows.Next() {
		notification := &types.Notification{}
		err := rows.Scan(
			&notification.NotificationID,
			&notification.UserID,
			&notification.Sender,
			&notification.Title,
			&notification.Message,
			&notification.Read,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("notification scan error: %w", err)
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
