package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header (falling back
// to the access-token session cookie set at login), resolves it to its
// account via [service.AuthService.CurrentUser] — signature, expiry, type,
// revocation ledger, account state — and on success stores the user and the
// raw token string in the request context before delegating to the next
// handler.
//
// The middleware rejects requests with HTTP 401 Unauthorized when the token
// is absent, malformed, expired, revoked, or bound to a missing account, and
// with the ledger's error status when the revocation check itself fails:
// authentication never succeeds on an unreadable ledger.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := bearerTokenFromRequest(r)
		if err != nil {
			log.Warn().Err(err).Msg("request without usable credentials")
			h.writeError(w, r, err)
			return
		}

		ctx := r.Context()
		user, err := h.services.AuthService.CurrentUser(ctx, tokenString)
		if err != nil {
			log.Warn().Err(err).Msg("authentication failed")
			h.writeError(w, r, err)
			return
		}

		// Store the authenticated user and the raw token in the context so
		// that downstream handlers can use them without re-parsing.
		ctx = context.WithValue(ctx, utils.UserCtxKey, user)
		ctx = context.WithValue(ctx, utils.TokenCtxKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerTokenFromRequest extracts the bearer token of the request.
//
// Lookup order:
//  1. The "Authorization: Bearer <token>" header.
//  2. The access-token cookie, whose value mirrors the header including the
//     "Bearer " prefix.
//
// Returns [ErrMissingCredentials] when neither source is present and
// [ErrInvalidAuthorizationHeader] when a source exists but holds no token.
func bearerTokenFromRequest(r *http.Request) (string, error) {
	headerValue := r.Header.Get("Authorization")
	if headerValue == "" {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			return "", ErrMissingCredentials
		}
		headerValue = cookie.Value
	}

	parts := strings.Split(headerValue, " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", ErrInvalidAuthorizationHeader
	}

	return parts[1], nil
}
