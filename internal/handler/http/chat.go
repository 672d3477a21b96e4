package http

import (
	"encoding/json"
	"net/http"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
)

// chat handles POST /chat: the authenticated learning chat.
//
// The conversation and the target age group come from the JSON body; the
// reply is tailored to the age group and accompanied by topic suggestions
// and updated conversation context.
func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	log.Debug().
		Str("user_id", user.UserID).
		Str("age_group", string(req.AgeGroup)).
		Int("messages", len(req.Messages)).
		Msg("chat request received")

	response, err := h.services.ChatService.Chat(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
