package events

import (
	"encoding/json"
	"time"

	"fintrack/internal/models"
)

const NotificationCreated = "notification.created"

// NotificationCreatedMessage is published after a notification row commits.
type NotificationCreatedMessage struct {
	Event     string                  `json:"event"`
	ID        int64                   `json:"id"`
	UserID    int64                   `json:"user_id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	CreatedAt time.Time               `json:"created_at"`
}

func NewNotificationCreatedMessage(n models.Notification) *NotificationCreatedMessage {
	return &NotificationCreatedMessage{
		Event:     NotificationCreated,
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

func (m *NotificationCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func NotificationCreatedMessageFromJSON(data []byte) (*NotificationCreatedMessage, error) {
	var msg NotificationCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
