package providers

import (
	"context"
)

// ChatAdvisor answers free-text health questions in the context of one
// family member. Responses are plain text with no further structure.
type ChatAdvisor interface {
	Chat(ctx context.Context, message string, patientContext string) (string, error)

	// HealthInsights summarizes trends over a member's record history
	HealthInsights(ctx context.Context, history string) (string, error)
}
