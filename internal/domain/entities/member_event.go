package entities

import (
	"time"
)

// MemberEventType classifies a change to a family member's data.
type MemberEventType string

const (
	MemberEventRecordsReplaced MemberEventType = "records_replaced"
	MemberEventStatsReplaced   MemberEventType = "stats_replaced"
	MemberEventProfileUpdated  MemberEventType = "profile_updated"
)

// MemberEvent is emitted whenever the family store replaces a member's
// records or stats. Presentation layers subscribe to re-render from the
// store instead of tracking mutations themselves.
type MemberEvent struct {
	ID        string          `json:"id"`
	Type      MemberEventType `json:"type"`
	MemberID  string          `json:"member_id"`
	Timestamp time.Time       `json:"timestamp"`
}
