package api

import (
	"net/http"

	"botdock/internal/auth"
	"botdock/internal/service"

	"github.com/go-chi/chi/v5"
)

func (d Dependencies) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := d.Notifications.List(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "query_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread":        service.UnreadCount(notifications),
	})
}

func (d Dependencies) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	n, err := d.Notifications.MarkRead(r.Context(), auth.GetUserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			WriteError(w, http.StatusNotFound, "not_found", "Notification not found", d.Log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (d Dependencies) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	count, err := d.Notifications.MarkAllRead(r.Context(), auth.GetUserID(r.Context()))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "update_failed", err.Error(), d.Log)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": count})
}
