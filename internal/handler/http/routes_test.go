package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eduagent/eduagent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the full router: middleware chain, route wiring and
// handler dispatch together.

func TestRouter_RegisterThroughRouter(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(context.Context, models.UserCreate) (models.User, error) {
			return validUser, nil
		},
	}
	router := newTestHandler(t, auth, nil, nil).Init()

	body := `{"username":"maria","email":"maria@example.com","password":"passw0rd123"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader), "every response carries a trace id")
}

func TestRouter_ProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestHandler(t, &mockAuthService{}, &mockUserService{}, &mockChatService{}).Init()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodPost, "/auth/logout-all"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/users/"},
		{http.MethodGet, "/users/u1"},
		{http.MethodDelete, "/users/u1"},
		{http.MethodPost, "/chat"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouter_AuthedChatRoundTrip(t *testing.T) {
	auth := &mockAuthService{
		currentUserFn: func(context.Context, string) (models.User, error) { return validUser, nil },
	}
	chat := &mockChatService{
		chatFn: func(context.Context, models.ChatRequest) (models.ChatResponse, error) {
			return models.ChatResponse{Response: "¡Hola!"}, nil
		},
	}
	router := newTestHandler(t, auth, nil, chat).Init()

	body := `{"age_group":"3-5","messages":[{"role":"user","content":"hola"}]}`
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer signed.access.token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "¡Hola!", resp.Response)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	auth := &mockAuthService{
		registerFn: func(context.Context, models.UserCreate) (models.User, error) {
			panic("boom")
		},
	}
	router := newTestHandler(t, auth, nil, nil).Init()

	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":"x"}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
