package cron

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/repositories/storetest"
	"fintrack/internal/services/notify"

	"github.com/shopspring/decimal"
)

func addGoal(t *testing.T, s interface {
	CreateGoal(context.Context, *models.Goal) error
}, userID int64, name string, due time.Time, completed bool) models.Goal {
	t.Helper()
	y, m, d := due.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	g := models.Goal{
		UserID:        userID,
		Name:          name,
		TargetAmount:  decimal.NewFromInt(500),
		CurrentAmount: decimal.NewFromInt(120),
		TargetDate:    &day,
		Completed:     completed,
	}
	if err := s.CreateGoal(context.Background(), &g); err != nil {
		t.Fatalf("create goal %s: %v", name, err)
	}
	return g
}

func TestSendGoalReminders(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	user := storetest.CreateUser(t, s, "saver")
	now := time.Now()

	bike := addGoal(t, s, user.ID, "Bike", now.AddDate(0, 0, 3), false)
	dueToday := addGoal(t, s, user.ID, "Today", now, false)
	addGoal(t, s, user.ID, "House", now.AddDate(0, 0, 30), false)
	addGoal(t, s, user.ID, "Done", now.AddDate(0, 0, 2), true)
	addGoal(t, s, user.ID, "Missed", now.AddDate(0, 0, -2), false)

	jobs := Jobs{Store: s, Notifier: notify.New(s, nil), ReminderDays: 7, RetentionDays: 90}

	sent, err := jobs.SendGoalReminders(ctx)
	if err != nil {
		t.Fatalf("SendGoalReminders: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want 2", sent)
	}

	list, _, err := s.ListNotifications(ctx, user.ID, models.NotificationFilter{})
	if err != nil {
		t.Fatal(err)
	}
	titles := map[string]string{}
	for _, n := range list {
		if n.Type != models.NotificationInfo {
			t.Errorf("%s has type %s", n.Title, n.Type)
		}
		titles[n.Title] = n.Message
	}
	if msg := titles[fmt.Sprintf("Goal Reminder - Bike (#%d)", bike.ID)]; !strings.Contains(msg, "3 day(s)") || !strings.Contains(msg, "380.00") {
		t.Errorf("bike reminder = %q", msg)
	}
	if msg := titles[fmt.Sprintf("Goal Reminder - Today (#%d)", dueToday.ID)]; !strings.Contains(msg, "due today") {
		t.Errorf("today reminder = %q", msg)
	}

	sent, err = jobs.SendGoalReminders(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if sent != 0 {
		t.Fatalf("second run sent %d reminders, want 0", sent)
	}
}

func TestPurgeReadNotifications(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	user := storetest.CreateUser(t, s, "reader")
	notifier := notify.New(s, nil)

	read, err := notifier.Notify(ctx, user.ID, models.NotificationInfo, "old", "read one")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := notifier.Notify(ctx, user.ID, models.NotificationInfo, "old", "unread one"); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkNotificationRead(ctx, user.ID, read.ID); err != nil {
		t.Fatal(err)
	}

	jobs := Jobs{Store: s, RetentionDays: 90}
	deleted, err := jobs.PurgeReadNotifications(ctx)
	if err != nil || deleted != 0 {
		t.Fatalf("fresh purge = %d, %v", deleted, err)
	}

	jobs.Now = func() time.Time { return time.Now().AddDate(0, 0, 91) }
	deleted, err = jobs.PurgeReadNotifications(ctx)
	if err != nil || deleted != 1 {
		t.Fatalf("late purge = %d, %v", deleted, err)
	}

	_, total, err := s.ListNotifications(ctx, user.ID, models.NotificationFilter{})
	if err != nil || total != 1 {
		t.Fatalf("remaining = %d, %v", total, err)
	}
}

func TestSendGoalRemindersSameNamedGoals(t *testing.T) {
	ctx := context.Background()
	s := storetest.New(t)
	user := storetest.CreateUser(t, s, "traveller")
	now := time.Now()

	addGoal(t, s, user.ID, "Vacation", now.AddDate(0, 0, 2), false)
	addGoal(t, s, user.ID, "Vacation", now.AddDate(0, 0, 5), false)

	jobs := Jobs{Store: s, Notifier: notify.New(s, nil), ReminderDays: 7, RetentionDays: 90}

	sent, err := jobs.SendGoalReminders(ctx)
	if err != nil {
		t.Fatalf("SendGoalReminders: %v", err)
	}
	if sent != 2 {
		t.Fatalf("sent = %d, want one reminder per goal", sent)
	}

	sent, err = jobs.SendGoalReminders(ctx)
	if err != nil || sent != 0 {
		t.Fatalf("second run sent %d, %v; want 0", sent, err)
	}
}
