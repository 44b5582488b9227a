package entities

import (
	"time"
)

// PendingRequester identifies who asked for a critical-field change.
type PendingRequester string

const (
	PendingRequestedByUser   PendingRequester = "user"
	PendingRequestedByDoctor PendingRequester = "doctor"
)

// PendingValue is a proposed but unapproved replacement for a critical
// stat. The committed value stays authoritative until the change is
// resolved by an approver.
type PendingValue struct {
	Value       float64          `json:"value"`
	Timestamp   time.Time        `json:"timestamp"`
	RequestedBy PendingRequester `json:"requested_by"`
}

// Stats holds the health indicators shown on a member's dashboard.
// A stat and its pending counterpart are independent: approval moves the
// pending value into the committed field and clears the pending slot.
type Stats struct {
	HeartRate        int           `json:"heart_rate"`
	Weight           float64       `json:"weight"`
	Height           float64       `json:"height"`
	LastUpdated      time.Time     `json:"last_updated"`
	HeartRateInsight string        `json:"heart_rate_insight,omitempty"`
	GrowthInsight    string        `json:"growth_insight,omitempty"`
	PendingWeight    *PendingValue `json:"pending_weight,omitempty"`
	PendingHeight    *PendingValue `json:"pending_height,omitempty"`
}

// FamilyMember is one person in the account holder's family. Records are
// ordered most-recent-first; new records are prepended.
type FamilyMember struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Relation       string          `json:"relation"`
	Age            int             `json:"age"`
	BloodType      string          `json:"blood_type"`
	AvatarURL      string          `json:"avatar_url"`
	Records        []MedicalRecord `json:"records"`
	Reminders      []Reminder      `json:"reminders"`
	HealthOverview string          `json:"health_overview,omitempty"`
	Stats          Stats           `json:"stats"`
}
