package notify

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/models"
	"fintrack/internal/repositories/store"
	"fintrack/internal/services/events"
	"fintrack/pkg/utils"
)

type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// EmailDelivery mails notification events to their owners.
type EmailDelivery struct {
	users  UserLookup
	mailer utils.Mailer
}

func NewEmailDelivery(users UserLookup, mailer utils.Mailer) *EmailDelivery {
	return &EmailDelivery{users: users, mailer: mailer}
}

// Deliver sends one event. Events for users that no longer exist are skipped.
func (d *EmailDelivery) Deliver(ctx context.Context, msg *events.NotificationCreatedMessage) error {
	if msg.Event != "" && msg.Event != events.NotificationCreated {
		return nil
	}

	user, err := d.users.GetUserByID(ctx, msg.UserID)
	if errors.Is(err, store.ErrNotFound) {
		utils.Logger.WithField("user_id", msg.UserID).Warn("notification event for unknown user skipped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user %d: %w", msg.UserID, err)
	}

	subject, body := utils.NotificationEmail(user.FirstName, msg.Title, msg.Message, string(msg.Type))
	if err := d.mailer.SendEmail(user.Email, subject, body); err != nil {
		return fmt.Errorf("send notification %d: %w", msg.ID, err)
	}

	utils.Logger.WithField("notification_id", msg.ID).Info("notification email sent")
	return nil
}
