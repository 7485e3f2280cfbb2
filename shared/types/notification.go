package types

import "time"

// SenderType is a closed set of notification origins.
type SenderType string

const (
	SenderSystem SenderType = "system"
	SenderAdmin  SenderType = "admin"
	SenderUser   SenderType = "user"
)

type Notification struct {
	NotificationID string     `json:"notificationID"`
	UserID         string     `json:"userID"`
	Sender         SenderType `json:"sender"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Read           bool       `json:"read"`
	CreatedAt      time.Time  `json:"created_at"`
}
