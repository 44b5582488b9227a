package routes

import (
	"net/http"

	"github.com/umedhealth/umed-backend/internal/api/handlers"
	"github.com/umedhealth/umed-backend/internal/api/middleware"
	"github.com/umedhealth/umed-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	familyHandler       *handlers.FamilyHandler
	statsHandler        *handlers.StatsHandler
	scanHandler         *handlers.ScanHandler
	chatHandler         *handlers.ChatHandler
	insightHandler      *handlers.InsightHandler
	notificationHandler *handlers.NotificationHandler
	sseHandler          *handlers.SSEHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	familyHandler *handlers.FamilyHandler,
	statsHandler *handlers.StatsHandler,
	scanHandler *handlers.ScanHandler,
	chatHandler *handlers.ChatHandler,
	insightHandler *handlers.InsightHandler,
	notificationHandler *handlers.NotificationHandler,
	sseHandler *handlers.SSEHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                 http.NewServeMux(),
		familyHandler:       familyHandler,
		statsHandler:        statsHandler,
		scanHandler:         scanHandler,
		chatHandler:         chatHandler,
		insightHandler:      insightHandler,
		notificationHandler: notificationHandler,
		sseHandler:          sseHandler,
		metrics:             metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Account and family member endpoints
	r.mux.HandleFunc("GET /api/profile", r.familyHandler.GetProfile)
	r.mux.HandleFunc("GET /api/family", r.familyHandler.ListMembers)
	r.mux.HandleFunc("GET /api/family/{id}", r.familyHandler.GetMember)
	r.mux.HandleFunc("GET /api/family/{id}/reminders", r.familyHandler.GetReminders)

	// Stat edit endpoints
	r.mux.HandleFunc("PATCH /api/family/{id}/stats", r.statsHandler.EditStat)
	r.mux.HandleFunc("POST /api/family/{id}/stats/{field}/resolution", r.statsHandler.ResolvePending)

	// Document scan endpoints
	r.mux.HandleFunc("POST /api/family/{id}/scans", r.scanHandler.StartScan)
	r.mux.HandleFunc("GET /api/scans/{sessionID}", r.scanHandler.GetSession)
	r.mux.HandleFunc("PUT /api/scans/{sessionID}/image", r.scanHandler.AttachImage)
	r.mux.HandleFunc("POST /api/scans/{sessionID}/analysis", r.scanHandler.Analyze)
	r.mux.HandleFunc("POST /api/scans/{sessionID}/record", r.scanHandler.Save)
	r.mux.HandleFunc("DELETE /api/scans/{sessionID}", r.scanHandler.Cancel)

	// Advisor chat endpoints
	r.mux.HandleFunc("GET /api/family/{id}/chat", r.chatHandler.GetHistory)
	r.mux.HandleFunc("POST /api/family/{id}/chat", r.chatHandler.SendMessage)

	// Insight endpoints
	r.mux.HandleFunc("GET /api/family/{id}/insights", r.insightHandler.GetInsights)

	// Notification endpoints
	r.mux.HandleFunc("GET /api/notifications", r.notificationHandler.ListNotifications)
	r.mux.HandleFunc("POST /api/notifications/read", r.notificationHandler.MarkAllRead)

	// Live update streams, only when an event bus is wired
	if r.sseHandler != nil {
		r.mux.HandleFunc("GET /api/stream/members", r.sseHandler.StreamFamilyUpdates)
		r.mux.HandleFunc("GET /api/stream/members/{id}", r.sseHandler.StreamMemberUpdates)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so even error responses carry headers
	handler = middleware.CORSMiddleware(handler)

	return handler
}
