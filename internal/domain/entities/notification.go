package entities

import (
	"time"
)

// NotificationType classifies an entry in the notification center.
type NotificationType string

const (
	NotificationTypeMedication NotificationType = "medication"
	NotificationTypeAnalysis   NotificationType = "analysis"
	NotificationTypeCheckup    NotificationType = "checkup"
	NotificationTypeReminder   NotificationType = "reminder"
	NotificationTypeSystem     NotificationType = "system"
)

// NotificationFilter selects which notifications to list.
type NotificationFilter string

const (
	NotificationFilterAll       NotificationFilter = "all"
	NotificationFilterUnread    NotificationFilter = "unread"
	NotificationFilterImportant NotificationFilter = "important"
)

// Notification is one entry in the user's notification center.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	IsUnread  bool             `json:"is_unread"`
	IsUrgent  bool             `json:"is_urgent"`
}
