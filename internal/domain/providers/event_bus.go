package providers

import (
	"context"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// member change events.
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.MemberEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.MemberEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelMemberUpdates is the channel for all member updates
	EventChannelMemberUpdates = "member:updates"

	// EventChannelMemberPrefix is the prefix for member-specific channels
	EventChannelMemberPrefix = "member:"
)

// GetMemberChannel returns the channel name for a specific family member
func GetMemberChannel(memberID string) string {
	return EventChannelMemberPrefix + memberID
}
