package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nextRecorder is a terminal handler that captures what the auth middleware
// stored in the request context.
type nextRecorder struct {
	called bool
	user   models.User
	userOK bool
	token  string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.called = true
	n.user, n.userOK = utils.GetUserFromContext(r.Context())
	n.token, _ = utils.GetTokenFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestAuth_HeaderToken(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(_ context.Context, accessToken string) (models.User, error) {
			require.Equal(t, "signed.access.token", accessToken)
			return validUser, nil
		},
	}
	h := newTestHandler(t, auth, nil, nil)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer signed.access.token")
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.called)
	require.True(t, next.userOK)
	assert.Equal(t, validUser.UserID, next.user.UserID)
	assert.Equal(t, "signed.access.token", next.token)
}

func TestAuth_CookieFallback(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(_ context.Context, accessToken string) (models.User, error) {
			require.Equal(t, "cookie.access.token", accessToken)
			return validUser, nil
		},
	}
	h := newTestHandler(t, auth, nil, nil)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	// The login handler stores the cookie with the same "Bearer " prefix as
	// the header.
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "Bearer cookie.access.token"})
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
}

func TestAuth_MissingCredentials(t *testing.T) {
	h := newTestHandler(t, &mockAuthService{}, nil, nil)

	next := &nextRecorder{}
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeError(t, rec).Code)
	assert.False(t, next.called)
}

func TestAuth_MalformedHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"scheme only", "Bearer"},
		{"empty token", "Bearer "},
		{"too many parts", "Bearer a b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &mockAuthService{}, nil, nil)

			next := &nextRecorder{}
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			h.auth(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, next.called)
		})
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(context.Context, string) (models.User, error) {
			return models.User{}, service.ErrTokenIsExpiredOrInvalid
		},
	}
	h := newTestHandler(t, auth, nil, nil)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer revoked.token")
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token_invalid", decodeError(t, rec).Code)
	assert.False(t, next.called)
}

func TestAuth_LedgerFailureIsNotUnauthorized(t *testing.T) {
	// An unreadable revocation ledger must surface as a server error, never
	// as a successful or "merely unauthorized" request.
	ledgerErr := errors.New("connection refused")
	auth := &mockAuthService{
		currentUserFn: func(context.Context, string) (models.User, error) {
			return models.User{}, ledgerErr
		},
	}
	h := newTestHandler(t, auth, nil, nil)

	next := &nextRecorder{}
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer some.token")
	rec := httptest.NewRecorder()

	h.auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, next.called)

	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Code)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), body.Message, "internal details must not leak")
}
