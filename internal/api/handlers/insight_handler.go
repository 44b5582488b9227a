package handlers

import (
	"context"
	"net/http"
)

// InsightService defines the insight operations used by the handler.
type InsightService interface {
	HealthInsights(ctx context.Context, memberID string) (string, error)
}

// InsightHandler handles AI health insight requests
type InsightHandler struct {
	service InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(service InsightService) *InsightHandler {
	return &InsightHandler{
		service: service,
	}
}

// GetInsights handles GET /api/family/{id}/insights
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	insight, err := h.service.HealthInsights(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"member_id": memberID,
		"insight":   insight,
	})
}
