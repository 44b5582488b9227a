package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/repositories"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// EditField names a member attribute submitted through the edit flow.
type EditField string

const (
	EditFieldWeight      EditField = "weight"
	EditFieldHeight      EditField = "height"
	EditFieldHeartRate   EditField = "heart_rate"
	EditFieldName        EditField = "name"
	EditFieldDiagnosis   EditField = "diagnosis"
	EditFieldMedications EditField = "medications"
)

// FieldPolicy decides whether an edit applies immediately or must wait
// for approval.
type FieldPolicy string

const (
	PolicyAutoApply       FieldPolicy = "auto_apply"
	PolicyRequireApproval FieldPolicy = "require_approval"
)

// fieldPolicies is the single place where field sensitivity is declared.
// diagnosis and medications are reserved: gated, but with no pending slot
// wired yet.
var fieldPolicies = map[EditField]FieldPolicy{
	EditFieldWeight:      PolicyRequireApproval,
	EditFieldHeight:      PolicyRequireApproval,
	EditFieldHeartRate:   PolicyAutoApply,
	EditFieldName:        PolicyAutoApply,
	EditFieldDiagnosis:   PolicyRequireApproval,
	EditFieldMedications: PolicyRequireApproval,
}

// EditRequest is one submission to the mutation gate. It lives only for
// the duration of the call.
type EditRequest struct {
	MemberID  string    `json:"member_id"`
	Field     EditField `json:"field"`
	Value     string    `json:"value"`
	Confirmed bool      `json:"confirmed"`
}

// EditOutcome reports what the gate did with a submission.
type EditOutcome struct {
	Applied              bool                   `json:"applied"`
	RequiresConfirmation bool                   `json:"requires_confirmation"`
	Pending              *entities.PendingValue `json:"pending,omitempty"`
}

// StatsEditService is the mutation gate for member health stats. Safe
// fields commit immediately; critical fields go through a two-phase
// collect/confirm flow that only ever produces a pending value — the
// committed stat changes exclusively through ResolvePending.
type StatsEditService struct {
	repo          repositories.FamilyRepository
	notifications *NotificationService
}

// NewStatsEditService creates a new stats edit service. notifications
// may be nil.
func NewStatsEditService(repo repositories.FamilyRepository, notifications *NotificationService) *StatsEditService {
	return &StatsEditService{
		repo:          repo,
		notifications: notifications,
	}
}

// SubmitEdit runs one edit through the gate.
//
// Phase 1 for critical fields (Confirmed=false) has no side effect: the
// outcome just flags that confirmation is required. Phase 2
// (Confirmed=true) writes the pending value, overwriting any earlier
// pending request for the same field.
func (s *StatsEditService) SubmitEdit(ctx context.Context, req *EditRequest) (*EditOutcome, error) {
	value := strings.TrimSpace(req.Value)
	if value == "" {
		return nil, apperrors.NewValidationError("value is required")
	}

	policy, known := fieldPolicies[req.Field]
	if !known {
		return nil, apperrors.NewValidationError("unknown field: " + string(req.Field))
	}

	member, err := s.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}

	if policy == PolicyAutoApply {
		return s.applySafeEdit(ctx, member, req.Field, value)
	}

	if !req.Confirmed {
		return &EditOutcome{RequiresConfirmation: true}, nil
	}

	return s.queueCriticalEdit(ctx, member, req.Field, value)
}

func (s *StatsEditService) applySafeEdit(ctx context.Context, member *entities.FamilyMember, field EditField, value string) (*EditOutcome, error) {
	// name is the one safe field taken as a raw string.
	if field == EditFieldName {
		if err := s.repo.RenameMember(ctx, member.ID, value); err != nil {
			return nil, err
		}
		observability.LoggerFromContext(ctx).Info().
			Str("member_id", member.ID).
			Msg("member renamed")
		return &EditOutcome{Applied: true}, nil
	}

	stats := member.Stats
	switch field {
	case EditFieldHeartRate:
		// Stored as an integer; fractional input is rejected rather
		// than silently truncated.
		rate, err := strconv.Atoi(value)
		if err != nil {
			return nil, apperrors.NewValidationError("heart rate must be a whole number: " + value)
		}
		stats.HeartRate = rate
	default:
		return nil, apperrors.NewValidationError("field is not auto-applicable: " + string(field))
	}
	stats.LastUpdated = time.Now()

	if err := s.repo.ReplaceMemberStats(ctx, member.ID, stats); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("member_id", member.ID).
		Str("field", string(field)).
		Msg("stat updated")

	return &EditOutcome{Applied: true}, nil
}

func (s *StatsEditService) queueCriticalEdit(ctx context.Context, member *entities.FamilyMember, field EditField, value string) (*EditOutcome, error) {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("value must be numeric: " + value)
	}

	pending := &entities.PendingValue{
		Value:       parsed,
		Timestamp:   time.Now(),
		RequestedBy: entities.PendingRequestedByUser,
	}

	stats := member.Stats
	switch field {
	case EditFieldWeight:
		// Last submission wins; a still-unapproved request is replaced.
		stats.PendingWeight = pending
	case EditFieldHeight:
		stats.PendingHeight = pending
	default:
		return nil, apperrors.NewValidationError("no pending slot for reserved field: " + string(field))
	}

	if err := s.repo.ReplaceMemberStats(ctx, member.ID, stats); err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifications.Add(ctx, &entities.Notification{
			Type:     entities.NotificationTypeSystem,
			Title:    "Approval requested",
			Message:  "A change to " + member.Name + "'s " + string(field) + " is waiting for moderator approval.",
			IsUnread: true,
		})
	}

	observability.LoggerFromContext(ctx).Info().
		Str("member_id", member.ID).
		Str("field", string(field)).
		Msg("critical edit queued for approval")

	return &EditOutcome{Pending: pending}, nil
}

// ResolvePending is the hook for the external approver role: accept moves
// the pending value into the committed stat, reject discards it. Either
// way the pending slot is cleared.
func (s *StatsEditService) ResolvePending(ctx context.Context, memberID string, field EditField, accept bool) error {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return err
	}

	stats := member.Stats

	var pending *entities.PendingValue
	switch field {
	case EditFieldWeight:
		pending = stats.PendingWeight
		stats.PendingWeight = nil
	case EditFieldHeight:
		pending = stats.PendingHeight
		stats.PendingHeight = nil
	default:
		return apperrors.NewValidationError("field has no pending slot: " + string(field))
	}

	if pending == nil {
		return apperrors.NewNotFoundError("no pending value for field: " + string(field))
	}

	if accept {
		switch field {
		case EditFieldWeight:
			stats.Weight = pending.Value
		case EditFieldHeight:
			stats.Height = pending.Value
		}
		stats.LastUpdated = time.Now()
	}

	if err := s.repo.ReplaceMemberStats(ctx, memberID, stats); err != nil {
		return err
	}

	observability.LoggerFromContext(ctx).Info().
		Str("member_id", memberID).
		Str("field", string(field)).
		Bool("accepted", accept).
		Msg("pending edit resolved")

	return nil
}
