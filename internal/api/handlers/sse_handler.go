package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
)

// SSEHandler handles Server-Sent Events for live member data updates
type SSEHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.MemberEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.MemberEvent]bool),
	}
}

// StreamMemberUpdates handles SSE connections for one member's updates
// GET /api/stream/members/{id}
func (h *SSEHandler) StreamMemberUpdates(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID == "" {
		respondWithError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	h.stream(w, r, providers.GetMemberChannel(memberID), map[string]interface{}{
		"member_id": memberID,
		"timestamp": time.Now(),
	})
}

// StreamFamilyUpdates handles SSE connections for updates across the
// whole family
// GET /api/stream/members
func (h *SSEHandler) StreamFamilyUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelMemberUpdates, map[string]interface{}{
		"timestamp": time.Now(),
	})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *entities.MemberEvent, 10)
	h.registerClient(r.Context(), channel, clientChan)
	defer h.unregisterClient(r.Context(), channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("channel", channel).
			Msg("failed to subscribe to event channel")
		return
	}

	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			observability.LoggerFromContext(r.Context()).Debug().
				Str("channel", channel).
				Msg("sse client disconnected")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

// forwardEvents forwards events from the event bus to a client channel
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.MemberEvent, clientChan chan<- *entities.MemberEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Slow client; drop instead of blocking the bus.
			}
		}
	}
}

func (h *SSEHandler) registerClient(ctx context.Context, channel string, clientChan chan *entities.MemberEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.MemberEvent]bool)
	}
	h.clients[channel][clientChan] = true

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Int("clients", len(h.clients[channel])).
		Msg("sse client registered")
}

func (h *SSEHandler) unregisterClient(ctx context.Context, channel string, clientChan chan *entities.MemberEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients[channel], clientChan)

	observability.LoggerFromContext(ctx).Debug().
		Str("channel", channel).
		Int("clients", len(h.clients[channel])).
		Msg("sse client unregistered")

	if len(h.clients[channel]) == 0 {
		delete(h.clients, channel)
	}
}

// sendEvent writes one SSE frame to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
