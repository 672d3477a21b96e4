package http

import (
	"net/http"
	"time"

	"github.com/eduagent/eduagent/models"
)

// Session cookie names. The access-token cookie mirrors the Authorization
// header including the "Bearer " prefix; the refresh-token cookie holds the
// bare token.
const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// setAuthCookies mirrors a freshly issued token pair into HTTP-only session
// cookies. SameSite=Lax keeps the cookies off cross-site requests; the
// Secure flag is dropped only in the development environment so that plain
// HTTP still works locally.
func (h *Handler) setAuthCookies(w http.ResponseWriter, pair models.TokenPair) {
	secure := !h.app.IsDevelopment()

	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    "Bearer " + pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.app.AccessTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.app.RefreshTokenTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both session cookies.
func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
