package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
)

// FamilyService defines the family read operations used by the handler.
type FamilyService interface {
	ListMembers(ctx context.Context) ([]*entities.FamilyMember, error)
	GetMember(ctx context.Context, id string) (*entities.FamilyMember, error)
}

// FamilyHandler handles family member requests
type FamilyHandler struct {
	service FamilyService
	user    *entities.User
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(service FamilyService, user *entities.User) *FamilyHandler {
	return &FamilyHandler{
		service: service,
		user:    user,
	}
}

// GetProfile handles GET /api/profile
func (h *FamilyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.user)
}

// ListMembers handles GET /api/family
func (h *FamilyHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"members": members,
		"count":   len(members),
	})
}

// GetMember handles GET /api/family/{id}
func (h *FamilyHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	member, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, member)
}

// GetReminders handles GET /api/family/{id}/reminders
func (h *FamilyHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	member, err := h.service.GetMember(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	// Urgent reminders surface first; within each group the member's
	// stored order is kept.
	reminders := member.Reminders
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Urgent && !reminders[j].Urgent
	})

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reminders": reminders,
		"count":     len(reminders),
	})
}
