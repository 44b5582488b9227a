package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// NotificationService is the in-memory notification center. Entries come
// from the seed plus events raised by the edit and scan flows.
type NotificationService struct {
	mu            sync.RWMutex
	notifications []entities.Notification
}

// NewNotificationService creates a notification service with the given
// initial entries, newest first.
func NewNotificationService(seed []entities.Notification) *NotificationService {
	notifications := make([]entities.Notification, len(seed))
	copy(notifications, seed)
	return &NotificationService{
		notifications: notifications,
	}
}

// Add prepends a notification, assigning ID and timestamp when unset.
func (s *NotificationService) Add(ctx context.Context, notification *entities.Notification) {
	n := *notification
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.notifications = append([]entities.Notification{n}, s.notifications...)
	s.mu.Unlock()
}

// List returns notifications matching the filter, newest first.
func (s *NotificationService) List(ctx context.Context, filter entities.NotificationFilter) ([]entities.Notification, error) {
	switch filter {
	case entities.NotificationFilterAll, entities.NotificationFilterUnread, entities.NotificationFilterImportant:
	case "":
		filter = entities.NotificationFilterAll
	default:
		return nil, apperrors.NewValidationError("unknown filter: " + string(filter))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		switch filter {
		case entities.NotificationFilterUnread:
			if !n.IsUnread {
				continue
			}
		case entities.NotificationFilterImportant:
			if !n.IsUrgent {
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if n.IsUnread {
			count++
		}
	}
	return count
}

// MarkAllRead clears the unread flag on every notification.
func (s *NotificationService) MarkAllRead(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].IsUnread = false
	}
}
