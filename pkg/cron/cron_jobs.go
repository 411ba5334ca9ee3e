package cron

import (
	"context"
	"fmt"
	"math"
	"time"

	"fintrack/internal/models"
	"fintrack/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Store interface {
	ListGoalsDue(ctx context.Context, from, to time.Time) ([]models.Goal, error)
	NotificationExistsSince(ctx context.Context, userID int64, title string, since time.Time) (bool, error)
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string) (models.Notification, error)
}

type Jobs struct {
	Store         Store
	Notifier      Notifier
	ReminderDays  int
	RetentionDays int
	Now           func() time.Time
}

func StartCronJob(jobs Jobs) *cron.Cron {
	c := cron.New()

	// Daily at 08:00: remind users about goals nearing their target date
	_, err := c.AddFunc("0 8 * * *", func() {
		if _, err := jobs.SendGoalReminders(context.Background()); err != nil {
			utils.Logger.Errorf("Cron job failed to send goal reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule goal reminder job: %v", err)
	}

	// Daily at 03:30: purge old read notifications
	_, err = c.AddFunc("30 3 * * *", func() {
		if _, err := jobs.PurgeReadNotifications(context.Background()); err != nil {
			utils.Logger.Errorf("Cron job failed to purge notifications: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule notification retention job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (goal reminders daily at 08:00, notification retention daily at 03:30)")
	return c
}

func (j Jobs) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// SendGoalReminders notifies the owner of every open goal whose target date is
// within ReminderDays. A goal is reminded at most once per window; the goal id
// in the title keeps same-named goals apart.
func (j Jobs) SendGoalReminders(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	now := j.now()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	until := today.AddDate(0, 0, j.ReminderDays)

	goals, err := j.Store.ListGoalsDue(ctx, today, until)
	if err != nil {
		return 0, fmt.Errorf("list goals due: %w", err)
	}

	sent := 0
	for _, g := range goals {
		title := fmt.Sprintf("Goal Reminder - %s (#%d)", g.Name, g.ID)
		log := utils.Logger.WithFields(logrus.Fields{"goal_id": g.ID, "user_id": g.UserID})

		exists, err := j.Store.NotificationExistsSince(ctx, g.UserID, title, now.AddDate(0, 0, -j.ReminderDays))
		if err != nil {
			log.WithError(err).Error("failed to check previous goal reminder")
			continue
		}
		if exists {
			continue
		}

		days := int(math.Round(g.TargetDate.Sub(today).Hours() / 24))
		message := fmt.Sprintf("Your %s goal is due in %d day(s). You still need %s to reach %s.",
			g.Name, days, g.Remaining().StringFixed(2), g.TargetAmount.StringFixed(2))
		if days == 0 {
			message = fmt.Sprintf("Your %s goal is due today. You still need %s to reach %s.",
				g.Name, g.Remaining().StringFixed(2), g.TargetAmount.StringFixed(2))
		}

		if _, err := j.Notifier.Notify(ctx, g.UserID, models.NotificationInfo, title, message); err != nil {
			log.WithError(err).Error("failed to create goal reminder")
			continue
		}
		sent++
	}

	if sent > 0 {
		utils.Logger.Infof("Sent %d goal reminders", sent)
	}
	return sent, nil
}

// PurgeReadNotifications deletes read notifications older than RetentionDays.
func (j Jobs) PurgeReadNotifications(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cutoff := j.now().AddDate(0, 0, -j.RetentionDays)
	deleted, err := j.Store.DeleteReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}

	if deleted > 0 {
		utils.Logger.Infof("Deleted %d read notifications older than %d days", deleted, j.RetentionDays)
	}
	return deleted, nil
}
