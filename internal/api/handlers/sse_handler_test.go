package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umedhealth/umed-backend/internal/api/handlers"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
)

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *entities.MemberEvent
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *entities.MemberEvent),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.MemberEvent) error {
	m.mu.RLock()
	channels := append([]chan *entities.MemberEvent(nil), m.subscribers[channel]...)
	m.mu.RUnlock()

	for _, ch := range channels {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.MemberEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.MemberEvent, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, channels := range m.subscribers {
		for _, ch := range channels {
			close(ch)
		}
	}
	m.subscribers = make(map[string][]chan *entities.MemberEvent)
	return nil
}

func TestSSEHandler_StreamMemberUpdates(t *testing.T) {
	t.Run("establishes the stream and forwards member events", func(t *testing.T) {
		eventBus := NewMockEventBus()
		handler := handlers.NewSSEHandler(eventBus)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		req := httptest.NewRequest("GET", "/api/stream/members/member-1", nil)
		req.SetPathValue("id", "member-1")
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamMemberUpdates(w, req)
			close(done)
		}()

		// Wait for the subscription to land
		time.Sleep(100 * time.Millisecond)

		event := &entities.MemberEvent{
			ID:        "evt-1",
			Type:      entities.MemberEventStatsReplaced,
			MemberID:  "member-1",
			Timestamp: time.Now(),
		}
		require.NoError(t, eventBus.Publish(context.Background(), providers.GetMemberChannel("member-1"), event))

		time.Sleep(200 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		result := w.Result()
		assert.Equal(t, "text/event-stream", result.Header.Get("Content-Type"))
		assert.Equal(t, "no-cache", result.Header.Get("Cache-Control"))

		body := w.Body.String()
		assert.True(t, strings.Contains(body, "event: connected"), "missing hello frame: %s", body)
		assert.True(t, strings.Contains(body, "event: stats_replaced"), "missing member event frame: %s", body)
		assert.True(t, strings.Contains(body, "evt-1"), "missing event payload: %s", body)
	})

	t.Run("returns bad request for missing member ID", func(t *testing.T) {
		handler := handlers.NewSSEHandler(NewMockEventBus())

		req := httptest.NewRequest("GET", "/api/stream/members/", nil)
		w := httptest.NewRecorder()

		handler.StreamMemberUpdates(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSSEHandler_StreamFamilyUpdates(t *testing.T) {
	eventBus := NewMockEventBus()
	handler := handlers.NewSSEHandler(eventBus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest("GET", "/api/stream/members", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.StreamFamilyUpdates(w, req)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)

	event := &entities.MemberEvent{
		ID:        "evt-2",
		Type:      entities.MemberEventRecordsReplaced,
		MemberID:  "member-2",
		Timestamp: time.Now(),
	}
	require.NoError(t, eventBus.Publish(context.Background(), providers.EventChannelMemberUpdates, event))

	time.Sleep(200 * time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not exit after cancel")
	}

	body := w.Body.String()
	assert.True(t, strings.Contains(body, "event: records_replaced"), "missing family event frame: %s", body)
}
