package notify

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/models"
)

type fakeStore struct {
	created []models.Notification
	err     error
}

func (f *fakeStore) CreateNotification(_ context.Context, n *models.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *n)
	return nil
}

type fakePublisher struct {
	published []models.Notification
	err       error
}

func (f *fakePublisher) PublishNotification(_ context.Context, n models.Notification) error {
	f.published = append(f.published, n)
	return f.err
}

func TestNotifyInsertsThenPublishes(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	n := New(store, pub)

	got, err := n.Notify(context.Background(), 4, models.NotificationSuccess, "Goal Achieved - Bike", "done")
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if got.ID != 1 || len(store.created) != 1 {
		t.Fatalf("stored %d notifications, got id %d", len(store.created), got.ID)
	}
	if len(pub.published) != 1 || pub.published[0].ID != 1 {
		t.Errorf("published %+v, want the stored row", pub.published)
	}
}

func TestNotifyPublishFailureKeepsRow(t *testing.T) {
	store := &fakeStore{}
	n := New(store, &fakePublisher{err: errors.New("broker down")})

	if _, err := n.Notify(context.Background(), 4, models.NotificationInfo, "t", "m"); err != nil {
		t.Fatalf("Notify() error = %v, want nil when only publishing fails", err)
	}
	if len(store.created) != 1 {
		t.Errorf("stored %d notifications, want 1", len(store.created))
	}
}

func TestNotifyInsertFailureSkipsPublish(t *testing.T) {
	pub := &fakePublisher{}
	n := New(&fakeStore{err: errors.New("disk full")}, pub)

	if _, err := n.Notify(context.Background(), 4, models.NotificationInfo, "t", "m"); err == nil {
		t.Fatal("Notify() error = nil, want insert error")
	}
	if len(pub.published) != 0 {
		t.Error("published an event for a row that was never stored")
	}
}

func TestNewDefaultsToNoopPublisher(t *testing.T) {
	n := New(&fakeStore{}, nil)
	if _, err := n.Notify(context.Background(), 1, models.NotificationInfo, "t", "m"); err != nil {
		t.Errorf("Notify() error = %v", err)
	}
}
