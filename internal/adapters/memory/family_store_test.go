package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umedhealth/umed-backend/internal/adapters/memory"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

type recordingBus struct {
	mu     sync.Mutex
	events map[string][]*entities.MemberEvent
}

func newRecordingBus() *recordingBus {
	return &recordingBus{events: make(map[string][]*entities.MemberEvent)}
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.MemberEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[channel] = append(b.events[channel], event)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MemberEvent, error) {
	ch := make(chan *entities.MemberEvent)
	close(ch)
	return ch, nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) published(channel string) []*entities.MemberEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.events[channel]
}

func seedMembers() []*entities.FamilyMember {
	return []*entities.FamilyMember{
		{
			ID:       "member-1",
			Name:     "Akmal",
			Relation: "self",
			Stats:    entities.Stats{Weight: 81, Height: 178, HeartRate: 72},
			Records: []entities.MedicalRecord{
				{ID: "record-1", Type: entities.RecordTypeCheckup, Title: "Annual checkup"},
			},
		},
		{
			ID:       "member-2",
			Name:     "Malika",
			Relation: "daughter",
		},
	}
}

func TestFamilyStore_GetMember(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	member, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Equal(t, "Akmal", member.Name)

	_, err = store.GetMember(context.Background(), "member-9")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestFamilyStore_ListMembersPreservesOrder(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	members, err := store.ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "member-1", members[0].ID)
	assert.Equal(t, "member-2", members[1].ID)
}

func TestFamilyStore_ReturnsIsolatedCopies(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	member, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)

	// Mutating the returned value must not leak into the store.
	member.Name = "Mallory"
	member.Records[0].Title = "tampered"
	member.Stats.Weight = 999

	fresh, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Equal(t, "Akmal", fresh.Name)
	assert.Equal(t, "Annual checkup", fresh.Records[0].Title)
	assert.Equal(t, float64(81), fresh.Stats.Weight)
}

func TestFamilyStore_RenameMember(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	require.NoError(t, store.RenameMember(context.Background(), "member-1", "Akmal Karimov"))

	member, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Equal(t, "Akmal Karimov", member.Name)

	err = store.RenameMember(context.Background(), "member-9", "x")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestFamilyStore_ReplaceMemberRecords(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	next := []entities.MedicalRecord{
		{ID: "record-2", Type: entities.RecordTypeLabResult, Title: "Blood panel"},
		{ID: "record-1", Type: entities.RecordTypeCheckup, Title: "Annual checkup"},
	}
	require.NoError(t, store.ReplaceMemberRecords(context.Background(), "member-1", next))

	member, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	require.Len(t, member.Records, 2)
	assert.Equal(t, "record-2", member.Records[0].ID)

	err = store.ReplaceMemberRecords(context.Background(), "member-9", next)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestFamilyStore_ReplaceMemberStats(t *testing.T) {
	store := memory.NewFamilyStore(seedMembers(), nil)

	stats := entities.Stats{
		Weight:        82,
		Height:        178,
		HeartRate:     70,
		LastUpdated:   time.Now(),
		PendingWeight: &entities.PendingValue{Value: 83, RequestedBy: entities.PendingRequestedByUser},
	}
	require.NoError(t, store.ReplaceMemberStats(context.Background(), "member-1", stats))

	member, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Equal(t, float64(82), member.Stats.Weight)
	require.NotNil(t, member.Stats.PendingWeight)

	// The pending value pointer must not be shared with the caller's copy.
	stats.PendingWeight.Value = 999
	fresh, err := store.GetMember(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Equal(t, float64(83), fresh.Stats.PendingWeight.Value)
}

func TestFamilyStore_PublishesChangeEvents(t *testing.T) {
	bus := newRecordingBus()
	store := memory.NewFamilyStore(seedMembers(), bus)

	require.NoError(t, store.ReplaceMemberStats(context.Background(), "member-1", entities.Stats{Weight: 82}))
	require.NoError(t, store.ReplaceMemberRecords(context.Background(), "member-1", nil))

	memberEvents := bus.published(providers.GetMemberChannel("member-1"))
	require.Len(t, memberEvents, 2)
	assert.Equal(t, entities.MemberEventStatsReplaced, memberEvents[0].Type)
	assert.Equal(t, entities.MemberEventRecordsReplaced, memberEvents[1].Type)

	// Every change fans out to the global channel as well.
	assert.Len(t, bus.published(providers.EventChannelMemberUpdates), 2)
}

func TestSeedFamily_IsSelfConsistent(t *testing.T) {
	members := memory.SeedFamily()
	require.NotEmpty(t, members)

	seen := make(map[string]bool)
	for _, m := range members {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Name)
		assert.False(t, seen[m.ID], "duplicate member id %s", m.ID)
		seen[m.ID] = true
	}
}
