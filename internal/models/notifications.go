package models

import "time"

type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationWarning, NotificationSuccess, NotificationInfo:
		return true
	}
	return false
}

type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}
