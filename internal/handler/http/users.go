package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
	"github.com/go-chi/chi/v5"
)

// updateMe handles PUT /users/me: a self-service profile patch.
func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	h.applyUserUpdate(w, r, actor, actor.UserID)
}

// getUser handles GET /users/{userID}. Permitted for the account owner and
// for admins.
func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	userID := chi.URLParam(r, "userID")

	foundUser, err := h.services.UserService.GetUser(ctx, actor, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("user read failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, foundUser, http.StatusOK)
}

// updateUser handles PUT /users/{userID}.
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	h.applyUserUpdate(w, r, actor, chi.URLParam(r, "userID"))
}

// deleteUser handles DELETE /users/{userID}. Admin-only; self-deletion is
// rejected.
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	userID := chi.URLParam(r, "userID")

	if err := h.services.UserService.DeleteUser(ctx, actor, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("user deletion failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("actor_id", actor.UserID).Str("user_id", userID).Msg("user deleted")

	utils.WriteJSON(w, map[string]string{"message": "user deleted"}, http.StatusOK)
}

// listUsers handles GET /users/ with optional skip and limit query
// parameters. Admin-only.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actor, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	skip, err := queryUint(r, "skip")
	if err != nil {
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}
	limit, err := queryUint(r, "limit")
	if err != nil {
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	users, err := h.services.UserService.ListUsers(ctx, actor, skip, limit)
	if err != nil {
		log.Warn().Err(err).Msg("user listing failed")
		h.writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

// applyUserUpdate decodes the sparse patch body and runs the update through
// the user service, which enforces ownership and admin-only fields.
func (h *Handler) applyUserUpdate(w http.ResponseWriter, r *http.Request, actor models.User, userID string) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var patch models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	updatedUser, err := h.services.UserService.UpdateUser(ctx, actor, userID, patch)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("user update failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("actor_id", actor.UserID).Str("user_id", userID).Msg("user updated")

	utils.WriteJSON(w, updatedUser, http.StatusOK)
}

// queryUint parses an optional non-negative integer query parameter;
// absence yields zero.
func queryUint(r *http.Request, name string) (uint64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}

	return strconv.ParseUint(value, 10, 64)
}
