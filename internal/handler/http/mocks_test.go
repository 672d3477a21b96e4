package http

import (
	"context"
	"testing"
	"time"

	"github.com/eduagent/eduagent/internal/config"
	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/service"
	"github.com/eduagent/eduagent/models"
)

// ─────────────────────────────────────────────
// Mock services
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn    func(ctx context.Context, input models.UserCreate) (models.User, error)
	loginFn       func(ctx context.Context, login, password string) (models.TokenPair, error)
	refreshFn     func(ctx context.Context, refreshToken string) (models.TokenPair, error)
	logoutFn      func(ctx context.Context, user models.User, accessToken string) error
	logoutAllFn   func(ctx context.Context, user models.User) (int64, error)
	currentUserFn func(ctx context.Context, accessToken string) (models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, input models.UserCreate) (models.User, error) {
	return m.registerFn(ctx, input)
}

func (m *mockAuthService) Login(ctx context.Context, login, password string) (models.TokenPair, error) {
	return m.loginFn(ctx, login, password)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	return m.refreshFn(ctx, refreshToken)
}

func (m *mockAuthService) Logout(ctx context.Context, user models.User, accessToken string) error {
	return m.logoutFn(ctx, user, accessToken)
}

func (m *mockAuthService) LogoutAll(ctx context.Context, user models.User) (int64, error) {
	return m.logoutAllFn(ctx, user)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	return m.currentUserFn(ctx, accessToken)
}

// mockUserService implements service.UserService for unit tests.
type mockUserService struct {
	getUserFn    func(ctx context.Context, actor models.User, userID string) (models.User, error)
	updateUserFn func(ctx context.Context, actor models.User, userID string, patch models.UserUpdate) (models.User, error)
	deleteUserFn func(ctx context.Context, actor models.User, userID string) error
	listUsersFn  func(ctx context.Context, actor models.User, skip, limit uint64) ([]models.User, error)
}

func (m *mockUserService) GetUser(ctx context.Context, actor models.User, userID string) (models.User, error) {
	return m.getUserFn(ctx, actor, userID)
}

func (m *mockUserService) UpdateUser(ctx context.Context, actor models.User, userID string, patch models.UserUpdate) (models.User, error) {
	return m.updateUserFn(ctx, actor, userID, patch)
}

func (m *mockUserService) DeleteUser(ctx context.Context, actor models.User, userID string) error {
	return m.deleteUserFn(ctx, actor, userID)
}

func (m *mockUserService) ListUsers(ctx context.Context, actor models.User, skip, limit uint64) ([]models.User, error) {
	return m.listUsersFn(ctx, actor, skip, limit)
}

// mockChatService implements service.ChatService for unit tests.
type mockChatService struct {
	chatFn func(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

func (m *mockChatService) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	return m.chatFn(ctx, req)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func testApp() config.App {
	return config.App{
		TokenIssuer:     "test-issuer",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 2 * time.Hour,
		Environment:     "development",
	}
}

// newTestHandler builds a Handler with the given service mocks; nil mocks
// stay nil, so a test touching an unexpected service panics loudly.
func newTestHandler(t *testing.T, auth service.AuthService, users service.UserService, chat service.ChatService) *Handler {
	t.Helper()
	svcs := &service.Services{
		AuthService: auth,
		UserService: users,
		ChatService: chat,
	}
	return NewHandler(svcs, testApp(), logger.Nop())
}

// validUser is a convenience fixture used across multiple tests.
var validUser = models.User{
	UserID:   "u1",
	Username: "maria",
	Email:    "maria@example.com",
	Role:     models.RoleChild,
	AgeGroup: models.AgeGroup6To8,
	IsActive: true,
}

func testTokenPair() models.TokenPair {
	return models.TokenPair{
		AccessToken:  "signed.access.token",
		RefreshToken: "signed.refresh.token",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		User:         validUser,
	}
}
