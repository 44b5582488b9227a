package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/umedhealth/umed-backend/internal/application/services"
)

// StatsEditService defines the mutation gate operations used by the handler.
type StatsEditService interface {
	SubmitEdit(ctx context.Context, req *services.EditRequest) (*services.EditOutcome, error)
	ResolvePending(ctx context.Context, memberID string, field services.EditField, accept bool) error
}

// StatsHandler handles member stat edit requests
type StatsHandler struct {
	service StatsEditService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service StatsEditService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

type editStatRequest struct {
	Field     string `json:"field"`
	Value     string `json:"value"`
	Confirmed bool   `json:"confirmed"`
}

// EditStat handles PATCH /api/family/{id}/stats
func (h *StatsHandler) EditStat(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	var payload editStatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	outcome, err := h.service.SubmitEdit(r.Context(), &services.EditRequest{
		MemberID:  memberID,
		Field:     services.EditField(payload.Field),
		Value:     payload.Value,
		Confirmed: payload.Confirmed,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Pending != nil {
		status = http.StatusAccepted
	}
	respondWithJSON(w, status, outcome)
}

type resolvePendingRequest struct {
	Accept bool `json:"accept"`
}

// ResolvePending handles POST /api/family/{id}/stats/{field}/resolution
func (h *StatsHandler) ResolvePending(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	field := r.PathValue("field")
	if memberID == "" || field == "" {
		respondWithError(w, http.StatusBadRequest, "member ID and field are required")
		return
	}

	var payload resolvePendingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.service.ResolvePending(r.Context(), memberID, services.EditField(field), payload.Accept); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"member_id": memberID,
		"field":     field,
		"accepted":  payload.Accept,
	})
}
