package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umedhealth/umed-backend/internal/application/services"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

type stubAdvisor struct {
	reply string
	err   error

	gotMessage string
	gotContext string
}

func (a *stubAdvisor) Chat(ctx context.Context, message string, patientContext string) (string, error) {
	a.gotMessage = message
	a.gotContext = patientContext
	return a.reply, a.err
}

func (a *stubAdvisor) HealthInsights(ctx context.Context, history string) (string, error) {
	return a.reply, a.err
}

func TestChatHistory_SeedsWelcomeMessage(t *testing.T) {
	service := services.NewChatService(newTestStore(), &stubAdvisor{})

	history, err := service.History(context.Background(), "member-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, entities.ChatRoleModel, history[0].Role)
	assert.Contains(t, history[0].Text, "Akmal")

	// Second read returns the same seed, not another one.
	history, err = service.History(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChatSend_AppendsBothTurns(t *testing.T) {
	advisor := &stubAdvisor{reply: "Drink more water."}
	service := services.NewChatService(newTestStore(), advisor)

	reply, err := service.Send(context.Background(), "member-1", "I have a headache")
	require.NoError(t, err)
	assert.Equal(t, entities.ChatRoleModel, reply.Role)
	assert.Equal(t, "Drink more water.", reply.Text)
	assert.Contains(t, advisor.gotContext, "Akmal")

	history, err := service.History(context.Background(), "member-1")
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entities.ChatRoleUser, history[1].Role)
	assert.Equal(t, "I have a headache", history[1].Text)
	assert.Equal(t, entities.ChatRoleModel, history[2].Role)
}

func TestChatSend_AdvisorFailureLeavesHistoryUntouched(t *testing.T) {
	service := services.NewChatService(newTestStore(), &stubAdvisor{err: errors.New("quota exceeded")})

	_, err := service.Send(context.Background(), "member-1", "I have a headache")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))

	history, err := service.History(context.Background(), "member-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChatSend_Validation(t *testing.T) {
	service := services.NewChatService(newTestStore(), &stubAdvisor{reply: "ok"})

	_, err := service.Send(context.Background(), "member-1", "   ")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = service.Send(context.Background(), "member-missing", "hello")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}
