package handlers

import (
	"context"
	"net/http"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// NotificationCenter defines the notification operations used by the handler.
type NotificationCenter interface {
	List(ctx context.Context, filter entities.NotificationFilter) ([]entities.Notification, error)
	UnreadCount(ctx context.Context) int
	MarkAllRead(ctx context.Context)
}

// NotificationHandler handles notification center requests
type NotificationHandler struct {
	service NotificationCenter
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationCenter) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// ListNotifications handles GET /api/notifications?filter=all|unread|important
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	filter := entities.NotificationFilter(r.URL.Query().Get("filter"))

	notifications, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        h.service.UnreadCount(r.Context()),
	})
}

// MarkAllRead handles POST /api/notifications/read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.service.MarkAllRead(r.Context())

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"unread": 0,
	})
}
