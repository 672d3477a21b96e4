package service

import (
	"context"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/models"
)

// Chat request bounds.
const (
	maxChatMessages   = 100
	maxMessageContent = 2000
	maxSuggestions    = 5
)

// ageGroupResponses holds the reply pool per age group. The product is
// Spanish-first, so the canned assistant replies are Spanish.
var ageGroupResponses = map[models.AgeGroup][]string{
	models.AgeGroup3To5: {
		"¡Hola pequeñín! ¿En qué puedo ayudarte hoy?",
		"¡Vaya, qué pregunta tan interesante! A tu edad me encanta aprender cosas nuevas.",
		"¿Sabías que los colores del arcoíris son muy bonitos?",
	},
	models.AgeGroup6To8: {
		"¡Hola! ¿Qué te gustaría aprender hoy?",
		"Esa es una gran pregunta. Vamos a explorarla juntos.",
		"A tu edad, es genial hacer muchas preguntas. ¿Tienes alguna en mente?",
	},
	models.AgeGroup9To12: {
		"Hola, ¿en qué puedo ayudarte con tus estudios hoy?",
		"Buena pregunta. Vamos a analizarla paso a paso.",
		"A medida que creces, las preguntas se vuelven más interesantes. ¿Qué te gustaría saber?",
	},
}

// ageGroupSuggestions holds the topic suggestions per age group, at most
// maxSuggestions each.
var ageGroupSuggestions = map[models.AgeGroup][]string{
	models.AgeGroup3To5:  {"Colores", "Animales", "Números", "Letras", "Formas"},
	models.AgeGroup6To8:  {"Matemáticas", "Ciencias", "Historia", "Geografía", "Arte"},
	models.AgeGroup9To12: {"Álgebra", "Biología", "Física", "Literatura", "Programación"},
}

// chatService is the rule-based learning chat responder. Replies are drawn
// from a per-age-group pool; no external model is involved.
type chatService struct {
	logger *logger.Logger

	// pick selects an index in [0, n). Swappable for deterministic tests.
	pick func(n int) int

	// now supplies the context bookkeeping timestamp.
	now func() time.Time
}

// NewChatService constructs the rule-based ChatService.
func NewChatService(logger *logger.Logger) ChatService {
	return &chatService{
		logger: logger,
		pick:   rand.IntN,
		now:    time.Now,
	}
}

// Chat validates the conversation and produces an age-tailored reply together
// with topic suggestions and updated context bookkeeping.
//
// Context handling: the request's free-form context is carried through with
// two fields maintained by the service — "last_interaction" (RFC 3339 UTC)
// and "message_count" (incremented per call).
func (c *chatService) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	log := logger.FromContext(ctx)

	if err := validateChatRequest(req); err != nil {
		log.Warn().Err(err).Int("messages", len(req.Messages)).Msg("chat request rejected")
		return models.ChatResponse{}, err
	}

	responses := ageGroupResponses[req.AgeGroup]
	response := responses[c.pick(len(responses))]

	suggestions := ageGroupSuggestions[req.AgeGroup]
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	chatContext := make(map[string]any, len(req.Context)+2)
	for k, v := range req.Context {
		chatContext[k] = v
	}
	chatContext["last_interaction"] = c.now().UTC().Format(time.RFC3339)
	chatContext["message_count"] = messageCount(req.Context) + 1

	log.Debug().
		Str("age_group", string(req.AgeGroup)).
		Int("messages", len(req.Messages)).
		Int("suggestions", len(suggestions)).
		Msg("chat response generated")

	return models.ChatResponse{
		Response:    response,
		Context:     chatContext,
		Suggestions: suggestions,
	}, nil
}

// messageCount reads the running message counter out of the carried context.
// JSON round-trips turn numbers into float64, so both representations count.
func messageCount(chatContext map[string]any) int {
	switch n := chatContext["message_count"].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

// validateChatRequest bounds the conversation size and message contents and
// requires a recognised age group.
func validateChatRequest(req models.ChatRequest) error {
	if !req.AgeGroup.Valid() {
		return ErrValidationAgeGroup
	}
	if len(req.Messages) == 0 {
		return ErrValidationNoMessages
	}
	if len(req.Messages) > maxChatMessages {
		return ErrValidationTooManyMessages
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case models.MessageRoleUser, models.MessageRoleAssistant, models.MessageRoleSystem:
		default:
			return ErrValidationMessageRole
		}

		if msg.Content == "" || utf8.RuneCountInString(msg.Content) > maxMessageContent {
			return ErrValidationMessageContent
		}
	}

	return nil
}
