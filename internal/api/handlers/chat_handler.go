package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// ChatService defines the advisor chat operations used by the handler.
type ChatService interface {
	History(ctx context.Context, memberID string) ([]entities.ChatMessage, error)
	Send(ctx context.Context, memberID string, text string) (*entities.ChatMessage, error)
}

// ChatHandler handles AI advisor chat requests
type ChatHandler struct {
	service ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service ChatService) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

// GetHistory handles GET /api/family/{id}/chat
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	messages, err := h.service.History(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// SendMessage handles POST /api/family/{id}/chat
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	var payload sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	reply, err := h.service.Send(r.Context(), memberID, payload.Message)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, reply)
}
