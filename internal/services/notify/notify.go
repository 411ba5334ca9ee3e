// Package notify is the single write path for notifications.
package notify

import (
	"context"

	"fintrack/internal/models"
	"fintrack/pkg/utils"

	"github.com/sirupsen/logrus"
)

// Publisher announces a committed notification to other processes.
type Publisher interface {
	PublishNotification(ctx context.Context, n models.Notification) error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishNotification(context.Context, models.Notification) error { return nil }

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

type Notifier struct {
	store     Store
	publisher Publisher
}

func New(store Store, publisher Publisher) *Notifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Notifier{store: store, publisher: publisher}
}

// Notify inserts the notification and then publishes it. A publish failure is
// logged and does not undo the insert.
func (n *Notifier) Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string) (models.Notification, error) {
	notification := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if err := n.store.CreateNotification(ctx, &notification); err != nil {
		return models.Notification{}, utils.ErrorHandler(err, "failed to create notification", logrus.Fields{"user_id": userID, "title": title})
	}

	if err := n.publisher.PublishNotification(ctx, notification); err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"notification_id": notification.ID,
			"user_id":         userID,
			"error":           err.Error(),
		}).Warn("failed to publish notification event")
	}
	return notification, nil
}
