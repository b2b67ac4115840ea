package model

import "time"

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type NotificationType string

const (
	NotifyExchangeResponse  NotificationType = "exchange_response"
	NotifyExchangeCancelled NotificationType = "exchange_cancelled"
	NotifyExchangeDone      NotificationType = "exchange_done"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Content   string           `json:"content"`
	IsRead    bool             `json:"is_read"`
	RelatedID *string          `json:"related_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
