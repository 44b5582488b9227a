package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/umedhealth/umed-backend/internal/application/services"
)

// ScanService defines the document ingestion operations used by the handler.
type ScanService interface {
	StartScan(ctx context.Context, memberID string) (*services.ScanSession, error)
	GetSession(ctx context.Context, sessionID string) (*services.ScanSession, error)
	AttachImage(ctx context.Context, sessionID string, imageData string) (*services.ScanSession, error)
	Analyze(ctx context.Context, sessionID string) (*services.ScanSession, error)
	Save(ctx context.Context, sessionID string) (*services.ScanSession, error)
	Cancel(ctx context.Context, sessionID string) error
}

// ScanHandler handles document scan requests
type ScanHandler struct {
	service ScanService
}

// NewScanHandler creates a new scan handler
func NewScanHandler(service ScanService) *ScanHandler {
	return &ScanHandler{
		service: service,
	}
}

// StartScan handles POST /api/family/{id}/scans
func (h *ScanHandler) StartScan(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	session, err := h.service.StartScan(r.Context(), memberID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// GetSession handles GET /api/scans/{sessionID}
func (h *ScanHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	session, err := h.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

type attachImageRequest struct {
	Image string `json:"image"`
}

// AttachImage handles PUT /api/scans/{sessionID}/image
func (h *ScanHandler) AttachImage(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	var payload attachImageRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	session, err := h.service.AttachImage(r.Context(), sessionID, payload.Image)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

// Analyze handles POST /api/scans/{sessionID}/analysis
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	session, err := h.service.Analyze(r.Context(), sessionID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, session)
}

// Save handles POST /api/scans/{sessionID}/record
func (h *ScanHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	session, err := h.service.Save(r.Context(), sessionID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, session)
}

// Cancel handles DELETE /api/scans/{sessionID}
func (h *ScanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionID")
	if sessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session ID is required")
		return
	}

	if err := h.service.Cancel(r.Context(), sessionID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": string(services.ScanStateCancelled),
	})
}
