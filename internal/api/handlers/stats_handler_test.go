package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/umedhealth/umed-backend/internal/api/handlers"
	"github.com/umedhealth/umed-backend/internal/application/services"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// MockStatsEditService defines the mock service
type MockStatsEditService struct {
	mock.Mock
}

func (m *MockStatsEditService) SubmitEdit(ctx context.Context, req *services.EditRequest) (*services.EditOutcome, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.EditOutcome), args.Error(1)
}

func (m *MockStatsEditService) ResolvePending(ctx context.Context, memberID string, field services.EditField, accept bool) error {
	args := m.Called(ctx, memberID, field, accept)
	return args.Error(0)
}

func newEditRequest(t *testing.T, memberID string, payload interface{}) *http.Request {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PATCH", "/api/family/"+memberID+"/stats", bytes.NewBuffer(body))
	req.SetPathValue("id", memberID)
	return req
}

func TestStatsHandler_EditStat(t *testing.T) {
	t.Run("applies a safe edit", func(t *testing.T) {
		mockService := new(MockStatsEditService)
		handler := handlers.NewStatsHandler(mockService)

		mockService.On("SubmitEdit", mock.Anything, mock.MatchedBy(func(r *services.EditRequest) bool {
			return r.MemberID == "member-1" && r.Field == services.EditFieldHeartRate && r.Value == "80"
		})).Return(&services.EditOutcome{Applied: true}, nil)

		w := httptest.NewRecorder()
		handler.EditStat(w, newEditRequest(t, "member-1", map[string]interface{}{
			"field": "heart_rate",
			"value": "80",
		}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("accepted status when a pending value is queued", func(t *testing.T) {
		mockService := new(MockStatsEditService)
		handler := handlers.NewStatsHandler(mockService)

		mockService.On("SubmitEdit", mock.Anything, mock.Anything).
			Return(&services.EditOutcome{Pending: &entities.PendingValue{Value: 83}}, nil)

		w := httptest.NewRecorder()
		handler.EditStat(w, newEditRequest(t, "member-1", map[string]interface{}{
			"field":     "weight",
			"value":     "83",
			"confirmed": true,
		}))

		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("returns bad request for invalid payload", func(t *testing.T) {
		handler := handlers.NewStatsHandler(new(MockStatsEditService))

		req := httptest.NewRequest("PATCH", "/api/family/member-1/stats", bytes.NewBufferString("invalid-json"))
		req.SetPathValue("id", "member-1")
		w := httptest.NewRecorder()

		handler.EditStat(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps not found errors", func(t *testing.T) {
		mockService := new(MockStatsEditService)
		handler := handlers.NewStatsHandler(mockService)

		mockService.On("SubmitEdit", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewNotFoundError("family member not found"))

		w := httptest.NewRecorder()
		handler.EditStat(w, newEditRequest(t, "member-9", map[string]interface{}{
			"field": "heart_rate",
			"value": "80",
		}))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestStatsHandler_ResolvePending(t *testing.T) {
	t.Run("accepts a pending edit", func(t *testing.T) {
		mockService := new(MockStatsEditService)
		handler := handlers.NewStatsHandler(mockService)

		mockService.On("ResolvePending", mock.Anything, "member-1", services.EditFieldWeight, true).Return(nil)

		body, _ := json.Marshal(map[string]bool{"accept": true})
		req := httptest.NewRequest("POST", "/api/family/member-1/stats/weight/resolution", bytes.NewBuffer(body))
		req.SetPathValue("id", "member-1")
		req.SetPathValue("field", "weight")
		w := httptest.NewRecorder()

		handler.ResolvePending(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("not found when nothing is pending", func(t *testing.T) {
		mockService := new(MockStatsEditService)
		handler := handlers.NewStatsHandler(mockService)

		mockService.On("ResolvePending", mock.Anything, "member-1", services.EditFieldWeight, false).
			Return(apperrors.NewNotFoundError("no pending value"))

		body, _ := json.Marshal(map[string]bool{"accept": false})
		req := httptest.NewRequest("POST", "/api/family/member-1/stats/weight/resolution", bytes.NewBuffer(body))
		req.SetPathValue("id", "member-1")
		req.SetPathValue("field", "weight")
		w := httptest.NewRecorder()

		handler.ResolvePending(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
