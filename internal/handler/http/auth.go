package http

import (
	"encoding/json"
	"net/http"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
)

// register handles POST /auth/register.
//
// Creates a new account from the JSON body and responds 201 with the public
// user record. Conflicts map to 409, validation failures to 422.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var input models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	registeredUser, err := h.services.AuthService.Register(ctx, input)
	if err != nil {
		log.Err(err).Str("username", input.Username).Msg("user registration failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", registeredUser.UserID).Str("username", registeredUser.Username).Msg("user registered")

	utils.WriteJSON(w, registeredUser, http.StatusCreated)
}

// login handles POST /auth/token.
//
// Accepts the credentials as a URL-encoded form (username, password) where
// username may also be the account e-mail. On success responds with the
// token pair and mirrors it into the session cookies.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := r.ParseForm(); err != nil {
		log.Err(err).Msg("invalid form was passed")
		h.writeError(w, r, service.ErrInvalidDataProvided)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	pair, err := h.services.AuthService.Login(ctx, username, password)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("login failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", pair.User.UserID).Str("username", pair.User.Username).Msg("user logged in")

	h.setAuthCookies(w, pair)
	utils.WriteJSON(w, pair, http.StatusOK)
}

// currentUser handles GET /auth/me and GET /users/me.
// The auth middleware has already resolved the account.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := utils.GetUserFromContext(r.Context())
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

// logout handles POST /auth/logout.
//
// Revokes the presented access token in the ledger and clears the session
// cookies.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, okUser := utils.GetUserFromContext(ctx)
	tokenString, okToken := utils.GetTokenFromContext(ctx)
	if !okUser || !okToken {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	if err := h.services.AuthService.Logout(ctx, user, tokenString); err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("logout failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.UserID).Msg("user logged out")

	h.clearAuthCookies(w)
	utils.WriteJSON(w, map[string]string{"message": "logged out"}, http.StatusOK)
}

// logoutAll handles POST /auth/logout-all.
//
// Revokes every outstanding ledger entry of the account ("logout
// everywhere") and clears the session cookies of this client.
func (h *Handler) logoutAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, ok := utils.GetUserFromContext(ctx)
	if !ok {
		h.writeError(w, r, service.ErrTokenIsExpiredOrInvalid)
		return
	}

	revoked, err := h.services.AuthService.LogoutAll(ctx, user)
	if err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("logout-all failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.UserID).Int64("revoked", revoked).Msg("user logged out everywhere")

	h.clearAuthCookies(w)
	utils.WriteJSON(w, map[string]any{"message": "logged out everywhere", "revoked": revoked}, http.StatusOK)
}

// refresh handles POST /auth/refresh-token.
//
// The refresh token is presented as "Authorization: Bearer <refresh_token>"
// (or through the refresh-token session cookie). The token is single-use:
// a second exchange of the same token fails with 401.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	refreshToken, err := refreshTokenFromRequest(r)
	if err != nil {
		log.Warn().Err(err).Msg("refresh without usable token")
		h.writeError(w, r, err)
		return
	}

	pair, err := h.services.AuthService.Refresh(ctx, refreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("token refresh failed")
		h.writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", pair.User.UserID).Msg("token pair rotated")

	h.setAuthCookies(w, pair)
	utils.WriteJSON(w, pair, http.StatusOK)
}

// refreshTokenFromRequest extracts the refresh token of the request: the
// "Authorization" bearer header first, the refresh-token cookie second.
// Unlike the access-token cookie, the refresh cookie holds the bare token.
func refreshTokenFromRequest(r *http.Request) (string, error) {
	if headerValue := r.Header.Get("Authorization"); headerValue != "" {
		token, err := utils.ParseBearerToken(headerValue)
		if err != nil {
			return "", ErrInvalidAuthorizationHeader
		}
		return token, nil
	}

	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", ErrMissingCredentials
	}

	return cookie.Value, nil
}
