// Package goals updates savings goals and announces when one is reached.
package goals

import (
	"context"
	"fmt"

	"fintrack/internal/models"
	"fintrack/pkg/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Store interface {
	GetGoal(ctx context.Context, userID, id int64) (models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal) error
	AddGoalProgress(ctx context.Context, userID, id int64, amount decimal.Decimal) (models.Goal, bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID int64, kind models.NotificationType, title, message string) (models.Notification, error)
}

type Tracker struct {
	store    Store
	notifier Notifier
}

func NewTracker(store Store, notifier Notifier) *Tracker {
	return &Tracker{store: store, notifier: notifier}
}

// AddProgress adds a positive amount to the goal's saved total.
func (t *Tracker) AddProgress(ctx context.Context, userID, id int64, in models.GoalProgressInput) (models.Goal, error) {
	if err := in.Validate(); err != nil {
		return models.Goal{}, err
	}

	g, achieved, err := t.store.AddGoalProgress(ctx, userID, id, *in.Amount)
	if err != nil {
		return models.Goal{}, err
	}
	if achieved {
		t.announce(ctx, g)
	}
	return g, nil
}

// Update applies a partial update. A goal whose saved total reaches the target
// is marked completed.
func (t *Tracker) Update(ctx context.Context, userID, id int64, patch models.GoalPatch) (models.Goal, error) {
	current, err := t.store.GetGoal(ctx, userID, id)
	if err != nil {
		return models.Goal{}, err
	}

	updated, err := patch.Apply(current)
	if err != nil {
		return models.Goal{}, err
	}

	achieved := false
	if !updated.Completed && updated.Reached() {
		updated.Completed = true
		achieved = !current.Completed
	}

	if err := t.store.UpdateGoal(ctx, &updated); err != nil {
		return models.Goal{}, err
	}
	if achieved {
		t.announce(ctx, updated)
	}
	return updated, nil
}

func (t *Tracker) announce(ctx context.Context, g models.Goal) {
	title := fmt.Sprintf("Goal Achieved - %s", g.Name)
	message := fmt.Sprintf("You have reached your %s goal of %s (saved %s).",
		g.Name, g.TargetAmount.StringFixed(2), g.CurrentAmount.StringFixed(2))

	if _, err := t.notifier.Notify(ctx, g.UserID, models.NotificationSuccess, title, message); err != nil {
		utils.Logger.WithFields(logrus.Fields{
			"goal_id": g.ID,
			"user_id": g.UserID,
			"error":   err.Error(),
		}).Error("failed to create goal achieved notification")
	}
}
