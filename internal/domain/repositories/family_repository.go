package repositories

import (
	"context"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// FamilyRepository is the single source of truth for the account holder's
// family members. Replacement is whole-value: callers build the full next
// records slice or stats block themselves, which keeps merge correctness
// in the edit and ingestion workflows rather than in the store.
type FamilyRepository interface {
	// GetMember retrieves a family member by ID
	GetMember(ctx context.Context, id string) (*entities.FamilyMember, error)

	// ListMembers returns all family members in display order
	ListMembers(ctx context.Context) ([]*entities.FamilyMember, error)

	// RenameMember updates the member's display name
	RenameMember(ctx context.Context, id string, name string) error

	// ReplaceMemberRecords swaps the member's full record sequence
	ReplaceMemberRecords(ctx context.Context, id string, records []entities.MedicalRecord) error

	// ReplaceMemberStats swaps the member's full stats block
	ReplaceMemberStats(ctx context.Context, id string, stats entities.Stats) error
}
