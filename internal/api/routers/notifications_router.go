package routers

import (
	"net/http"

	"fintrack/internal/api/handlers/notifications"
)

func notificationsRouter(mux *http.ServeMux, store notifications.Store) {
	h := notifications.NewHandler(store)

	mux.HandleFunc("GET /notifications", h.GetNotifications)
	mux.HandleFunc("GET /notifications/unread-count", h.GetUnreadCount)
	mux.HandleFunc("PATCH /notifications/read-all", h.MarkAllRead)
	mux.HandleFunc("PATCH /notifications/{id}/read", h.MarkRead)
	mux.HandleFunc("DELETE /notifications/{id}", h.DeleteNotification)
}
