package notifications

import (
	"context"
	"net/http"
	"strconv"

	"fintrack/internal/api/handlers"
	"fintrack/internal/models"
	"fintrack/pkg/utils"
)

type Store interface {
	ListNotifications(ctx context.Context, userID int64, f models.NotificationFilter) ([]models.Notification, int, error)
	UnreadNotificationCount(ctx context.Context, userID int64) (int, error)
	MarkNotificationRead(ctx context.Context, userID, id int64) error
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error)
	DeleteNotification(ctx context.Context, userID, id int64) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// GetNotifications lists newest first. ?unread=true keeps only unread ones.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	v := &models.ValidationError{}
	var filter models.NotificationFilter
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			v.Add("unread", "must be true or false")
		}
		filter.UnreadOnly = unread
	}
	page, limit, err := utils.GetPaginationParams(r)
	if err != nil {
		v.Add("pagination", err.Error())
	}
	if len(v.Fields) > 0 {
		utils.WriteValidationError(w, v.Fields)
		return
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	list, total, err := h.store.ListNotifications(ctx, identity.UserID, filter)
	if err != nil {
		handlers.WriteError(w, r, err, "notification")
		return
	}
	if list == nil {
		list = []models.Notification{}
	}
	handlers.WritePage(w, list, len(list), total, page, limit)
}

func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	count, err := h.store.UnreadNotificationCount(ctx, identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "notification")
		return
	}
	handlers.WriteData(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "notification")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.MarkNotificationRead(ctx, identity.UserID, id); err != nil {
		handlers.WriteError(w, r, err, "notification")
		return
	}
	handlers.WriteMessage(w, "notification marked as read")
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	updated, err := h.store.MarkAllNotificationsRead(ctx, identity.UserID)
	if err != nil {
		handlers.WriteError(w, r, err, "notification")
		return
	}
	handlers.WriteData(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	identity, ok := handlers.CurrentIdentity(w, r)
	if !ok {
		return
	}
	id, ok := handlers.PathID(w, r, "notification")
	if !ok {
		return
	}

	ctx, cancel := handlers.RequestContext(r)
	defer cancel()

	if err := h.store.DeleteNotification(ctx, identity.UserID, id); err != nil {
		handlers.WriteError(w, r, err, "notification")
		return
	}
	handlers.WriteMessage(w, "notification deleted successfully")
}
