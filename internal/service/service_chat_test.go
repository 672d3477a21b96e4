package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChatService() *chatService {
	return &chatService{
		logger: logger.Nop(),
		pick:   func(int) int { return 0 },
		now:    func() time.Time { return time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC) },
	}
}

func chatRequest(group models.AgeGroup) models.ChatRequest {
	return models.ChatRequest{
		AgeGroup: group,
		Messages: []models.ChatMessage{
			{Role: models.MessageRoleUser, Content: "¿Qué es un arcoíris?"},
		},
	}
}

func TestChat_ResponseMatchesAgeGroup(t *testing.T) {
	svc := newTestChatService()

	for _, group := range []models.AgeGroup{models.AgeGroup3To5, models.AgeGroup6To8, models.AgeGroup9To12} {
		t.Run(string(group), func(t *testing.T) {
			resp, err := svc.Chat(context.Background(), chatRequest(group))
			require.NoError(t, err)

			assert.Contains(t, ageGroupResponses[group], resp.Response)
			assert.Equal(t, ageGroupSuggestions[group], resp.Suggestions)
			assert.LessOrEqual(t, len(resp.Suggestions), maxSuggestions)
		})
	}
}

func TestChat_ContextBookkeeping(t *testing.T) {
	svc := newTestChatService()

	req := chatRequest(models.AgeGroup6To8)
	req.Context = map[string]any{"topic": "colores", "message_count": 2}

	resp, err := svc.Chat(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "colores", resp.Context["topic"], "caller context must be carried through")
	assert.Equal(t, 3, resp.Context["message_count"])
	assert.Equal(t, "2026-03-14T15:00:00Z", resp.Context["last_interaction"])
}

func TestChat_ContextCountSurvivesJSONNumbers(t *testing.T) {
	svc := newTestChatService()

	// A round-tripped JSON context carries numbers as float64.
	req := chatRequest(models.AgeGroup6To8)
	req.Context = map[string]any{"message_count": float64(7)}

	resp, err := svc.Chat(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Context["message_count"])
}

func TestChat_NilContextStartsFresh(t *testing.T) {
	svc := newTestChatService()

	resp, err := svc.Chat(context.Background(), chatRequest(models.AgeGroup3To5))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Context["message_count"])
}

func TestChat_Validation(t *testing.T) {
	manyMessages := make([]models.ChatMessage, maxChatMessages+1)
	for i := range manyMessages {
		manyMessages[i] = models.ChatMessage{Role: models.MessageRoleUser, Content: "hola"}
	}

	tests := []struct {
		name    string
		mutate  func(*models.ChatRequest)
		wantErr error
	}{
		{"unknown age group", func(r *models.ChatRequest) { r.AgeGroup = "13-17" }, ErrValidationAgeGroup},
		{"missing age group", func(r *models.ChatRequest) { r.AgeGroup = "" }, ErrValidationAgeGroup},
		{"no messages", func(r *models.ChatRequest) { r.Messages = nil }, ErrValidationNoMessages},
		{"too many messages", func(r *models.ChatRequest) { r.Messages = manyMessages }, ErrValidationTooManyMessages},
		{"empty message content", func(r *models.ChatRequest) { r.Messages[0].Content = "" }, ErrValidationMessageContent},
		{
			"oversized message content",
			func(r *models.ChatRequest) { r.Messages[0].Content = strings.Repeat("a", maxMessageContent+1) },
			ErrValidationMessageContent,
		},
		{"unknown message role", func(r *models.ChatRequest) { r.Messages[0].Role = "moderator" }, ErrValidationMessageRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestChatService()

			req := chatRequest(models.AgeGroup6To8)
			tt.mutate(&req)

			_, err := svc.Chat(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestChat_ContentAtBoundaryAccepted(t *testing.T) {
	svc := newTestChatService()

	req := chatRequest(models.AgeGroup9To12)
	req.Messages[0].Content = strings.Repeat("ñ", maxMessageContent) // runes, not bytes

	_, err := svc.Chat(context.Background(), req)
	assert.NoError(t, err)
}
