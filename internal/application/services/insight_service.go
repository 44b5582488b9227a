package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/domain/repositories"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
	"github.com/umedhealth/umed-backend/pkg/retry"
)

const insightCacheTTLSeconds = 3600

// InsightService produces AI trend summaries over a member's record
// history. Responses are cached per member since the history only
// changes when a record is ingested.
type InsightService struct {
	repo    repositories.FamilyRepository
	advisor providers.ChatAdvisor
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewInsightService creates a new insight service. cache and metrics may
// be nil.
func NewInsightService(
	repo repositories.FamilyRepository,
	advisor providers.ChatAdvisor,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *InsightService {
	return &InsightService{
		repo:    repo,
		advisor: advisor,
		cache:   cache,
		metrics: metrics,
	}
}

// HealthInsights returns a trend summary for a member's history.
func (s *InsightService) HealthInsights(ctx context.Context, memberID string) (string, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return "", err
	}

	cacheKey := "insights:" + memberID
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			if s.metrics != nil {
				observability.RecordCacheHit(ctx, s.metrics, cacheKey)
			}
			return string(cached), nil
		}
		if s.metrics != nil {
			observability.RecordCacheMiss(ctx, s.metrics, cacheKey)
		}
	}

	var history strings.Builder
	fmt.Fprintf(&history, "Patient: %s, age %d. ", member.Name, member.Age)
	for _, record := range member.Records {
		fmt.Fprintf(&history, "[%s] %s: %s. ", record.Date, record.Title, record.Summary)
	}

	var insight string
	err = retry.Do(ctx, retry.DefaultConfig(), func() error {
		var callErr error
		insight, callErr = s.advisor.HealthInsights(ctx, history.String())
		return callErr
	})
	if err != nil {
		return "", apperrors.NewExternalError("failed to generate health insights", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, []byte(insight), insightCacheTTLSeconds); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache insight")
		}
	}

	return insight, nil
}

// InvalidateMember drops a member's cached insight, called after new
// records are ingested.
func (s *InsightService) InvalidateMember(ctx context.Context, memberID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, "insights:"+memberID); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate insight cache")
	}
}
