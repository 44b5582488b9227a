package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/domain/repositories"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// FamilyStore is the in-memory implementation of the family repository.
// State lives for the process lifetime and is lost on restart. Every
// replace publishes a member event so presentation can re-render.
type FamilyStore struct {
	mu       sync.RWMutex
	members  []*entities.FamilyMember
	eventBus providers.EventBus
}

// NewFamilyStore creates a family store seeded with the given members.
// eventBus may be nil, in which case change events are dropped.
func NewFamilyStore(members []*entities.FamilyMember, eventBus providers.EventBus) repositories.FamilyRepository {
	copied := make([]*entities.FamilyMember, 0, len(members))
	for _, m := range members {
		c := cloneMember(m)
		copied = append(copied, &c)
	}
	return &FamilyStore{
		members:  copied,
		eventBus: eventBus,
	}
}

// GetMember retrieves a family member by ID
func (s *FamilyStore) GetMember(ctx context.Context, id string) (*entities.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	member := s.findLocked(id)
	if member == nil {
		return nil, apperrors.NewNotFoundError("family member not found: " + id)
	}

	c := cloneMember(member)
	return &c, nil
}

// ListMembers returns all family members in display order
func (s *FamilyStore) ListMembers(ctx context.Context) ([]*entities.FamilyMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*entities.FamilyMember, 0, len(s.members))
	for _, m := range s.members {
		c := cloneMember(m)
		out = append(out, &c)
	}
	return out, nil
}

// RenameMember updates the member's display name.
func (s *FamilyStore) RenameMember(ctx context.Context, id string, name string) error {
	s.mu.Lock()
	member := s.findLocked(id)
	if member == nil {
		s.mu.Unlock()
		return apperrors.NewNotFoundError("family member not found: " + id)
	}

	member.Name = name
	s.mu.Unlock()

	s.publish(ctx, id, entities.MemberEventProfileUpdated)
	return nil
}

// ReplaceMemberRecords swaps the member's full record sequence. The caller
// supplies the complete next slice; no merging happens here.
func (s *FamilyStore) ReplaceMemberRecords(ctx context.Context, id string, records []entities.MedicalRecord) error {
	s.mu.Lock()
	member := s.findLocked(id)
	if member == nil {
		s.mu.Unlock()
		return apperrors.NewNotFoundError("family member not found: " + id)
	}

	next := make([]entities.MedicalRecord, len(records))
	copy(next, records)
	member.Records = next
	s.mu.Unlock()

	s.publish(ctx, id, entities.MemberEventRecordsReplaced)
	return nil
}

// ReplaceMemberStats swaps the member's full stats block.
func (s *FamilyStore) ReplaceMemberStats(ctx context.Context, id string, stats entities.Stats) error {
	s.mu.Lock()
	member := s.findLocked(id)
	if member == nil {
		s.mu.Unlock()
		return apperrors.NewNotFoundError("family member not found: " + id)
	}

	member.Stats = cloneStats(stats)
	s.mu.Unlock()

	s.publish(ctx, id, entities.MemberEventStatsReplaced)
	return nil
}

func (s *FamilyStore) findLocked(id string) *entities.FamilyMember {
	for _, m := range s.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *FamilyStore) publish(ctx context.Context, memberID string, eventType entities.MemberEventType) {
	if s.eventBus == nil {
		return
	}

	event := &entities.MemberEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		MemberID:  memberID,
		Timestamp: time.Now(),
	}

	// Change events are best-effort; a failed publish never rolls back
	// the store mutation.
	_ = s.eventBus.Publish(ctx, providers.GetMemberChannel(memberID), event)
	_ = s.eventBus.Publish(ctx, providers.EventChannelMemberUpdates, event)
}

func cloneMember(m *entities.FamilyMember) entities.FamilyMember {
	c := *m

	c.Records = make([]entities.MedicalRecord, len(m.Records))
	copy(c.Records, m.Records)

	c.Reminders = make([]entities.Reminder, len(m.Reminders))
	copy(c.Reminders, m.Reminders)

	c.Stats = cloneStats(m.Stats)
	return c
}

func cloneStats(s entities.Stats) entities.Stats {
	c := s
	if s.PendingWeight != nil {
		pw := *s.PendingWeight
		c.PendingWeight = &pw
	}
	if s.PendingHeight != nil {
		ph := *s.PendingHeight
		c.PendingHeight = &ph
	}
	return c
}
