package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/umedhealth/umed-backend/internal/api/handlers"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// MockFamilyService defines the mock service
type MockFamilyService struct {
	mock.Mock
}

func (m *MockFamilyService) ListMembers(ctx context.Context) ([]*entities.FamilyMember, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.FamilyMember), args.Error(1)
}

func (m *MockFamilyService) GetMember(ctx context.Context, id string) (*entities.FamilyMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.FamilyMember), args.Error(1)
}

func TestFamilyHandler_GetReminders(t *testing.T) {
	t.Run("urgent reminders come first, stored order within each group", func(t *testing.T) {
		mockService := new(MockFamilyService)
		handler := handlers.NewFamilyHandler(mockService, nil)

		mockService.On("GetMember", mock.Anything, "member-1").Return(&entities.FamilyMember{
			ID:   "member-1",
			Name: "Akmal",
			Reminders: []entities.Reminder{
				{ID: "rem-1", Title: "Annual checkup", Type: entities.ReminderTypeAppointment},
				{ID: "rem-2", Title: "Take amoxicillin", Type: entities.ReminderTypeMedication, Urgent: true},
				{ID: "rem-3", Title: "Flu shot", Type: entities.ReminderTypeVaccination},
				{ID: "rem-4", Title: "Blood panel", Type: entities.ReminderTypeAnalysis, Urgent: true},
			},
		}, nil)

		req := httptest.NewRequest("GET", "/api/family/member-1/reminders", nil)
		req.SetPathValue("id", "member-1")
		w := httptest.NewRecorder()

		handler.GetReminders(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Reminders []entities.Reminder `json:"reminders"`
			Count     int                 `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 4, response.Count)

		ids := make([]string, 0, len(response.Reminders))
		for _, reminder := range response.Reminders {
			ids = append(ids, reminder.ID)
		}
		assert.Equal(t, []string{"rem-2", "rem-4", "rem-1", "rem-3"}, ids)
	})

	t.Run("maps not found errors", func(t *testing.T) {
		mockService := new(MockFamilyService)
		handler := handlers.NewFamilyHandler(mockService, nil)

		mockService.On("GetMember", mock.Anything, "member-9").
			Return(nil, apperrors.NewNotFoundError("family member not found"))

		req := httptest.NewRequest("GET", "/api/family/member-9/reminders", nil)
		req.SetPathValue("id", "member-9")
		w := httptest.NewRecorder()

		handler.GetReminders(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
