package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/umedhealth/umed-backend/internal/domain/entities"
	"github.com/umedhealth/umed-backend/internal/domain/providers"
	"github.com/umedhealth/umed-backend/internal/domain/repositories"
	apperrors "github.com/umedhealth/umed-backend/pkg/errors"
)

// ChatService runs the AI advisor conversation for one member at a time.
// History is kept in memory per member; the advisor call itself is
// stateless request/response.
type ChatService struct {
	mu      sync.Mutex
	history map[string][]entities.ChatMessage

	repo    repositories.FamilyRepository
	advisor providers.ChatAdvisor
}

// NewChatService creates a new chat service
func NewChatService(repo repositories.FamilyRepository, advisor providers.ChatAdvisor) *ChatService {
	return &ChatService{
		history: make(map[string][]entities.ChatMessage),
		repo:    repo,
		advisor: advisor,
	}
}

// History returns the conversation so far, seeding the welcome message
// on first access.
func (s *ChatService) History(ctx context.Context, memberID string) ([]entities.ChatMessage, error) {
	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.history[memberID]
	if !ok {
		welcome := entities.ChatMessage{
			ID:        uuid.New().String(),
			Role:      entities.ChatRoleModel,
			Text:      fmt.Sprintf("Hello! I am your health assistant. What medical question do you have about %s?", member.Name),
			Timestamp: time.Now(),
		}
		messages = []entities.ChatMessage{welcome}
		s.history[memberID] = messages
	}

	out := make([]entities.ChatMessage, len(messages))
	copy(out, messages)
	return out, nil
}

// Send forwards a user question to the advisor and records both turns.
// On advisor failure nothing is appended so the user can resend.
func (s *ChatService) Send(ctx context.Context, memberID string, text string) (*entities.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("message is required")
	}

	member, err := s.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	patientContext := fmt.Sprintf("Name: %s, Age: %d, Blood type: %s", member.Name, member.Age, member.BloodType)

	reply, err := s.advisor.Chat(ctx, text, patientContext)
	if err != nil {
		return nil, apperrors.NewExternalError("advisor is unavailable", err)
	}

	now := time.Now()
	userMsg := entities.ChatMessage{
		ID:        uuid.New().String(),
		Role:      entities.ChatRoleUser,
		Text:      text,
		Timestamp: now,
	}
	modelMsg := entities.ChatMessage{
		ID:        uuid.New().String(),
		Role:      entities.ChatRoleModel,
		Text:      reply,
		Timestamp: now,
	}

	s.mu.Lock()
	s.history[memberID] = append(s.history[memberID], userMsg, modelMsg)
	s.mu.Unlock()

	return &modelMsg, nil
}
