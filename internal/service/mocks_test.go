package service

import (
	"context"
	"time"

	"github.com/eduagent/eduagent/internal/store"
	"github.com/eduagent/eduagent/models"
)

// ─────────────────────────────────────────────
// Mock repositories
// ─────────────────────────────────────────────

// mockUserRepository implements store.UserRepository for unit tests.
// Each method field can be overridden per test case.
type mockUserRepository struct {
	createUserFn         func(ctx context.Context, user models.User) (models.User, error)
	findUserByIDFn       func(ctx context.Context, userID string) (models.User, error)
	findUserByUsernameFn func(ctx context.Context, username string) (models.User, error)
	findUserByEmailFn    func(ctx context.Context, email string) (models.User, error)
	updateUserFn         func(ctx context.Context, userID string, patch store.UserPatch) (models.User, error)
	deleteUserFn         func(ctx context.Context, userID string) error
	listUsersFn          func(ctx context.Context, skip, limit uint64) ([]models.User, error)
	updateLastLoginFn    func(ctx context.Context, userID string, at time.Time) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return m.createUserFn(ctx, user)
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	return m.findUserByIDFn(ctx, userID)
}

func (m *mockUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return m.findUserByUsernameFn(ctx, username)
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return m.findUserByEmailFn(ctx, email)
}

func (m *mockUserRepository) UpdateUser(ctx context.Context, userID string, patch store.UserPatch) (models.User, error) {
	return m.updateUserFn(ctx, userID, patch)
}

func (m *mockUserRepository) DeleteUser(ctx context.Context, userID string) error {
	return m.deleteUserFn(ctx, userID)
}

func (m *mockUserRepository) ListUsers(ctx context.Context, skip, limit uint64) ([]models.User, error) {
	return m.listUsersFn(ctx, skip, limit)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	return m.updateLastLoginFn(ctx, userID, at)
}

// mockTokenRepository implements store.TokenRepository for unit tests.
type mockTokenRepository struct {
	trackRefreshTokenFn   func(ctx context.Context, token, userID string, expiresAt time.Time) error
	revokeTokenFn         func(ctx context.Context, token string, tokenType models.TokenType, userID string, expiresAt time.Time, reason string) error
	isTokenRevokedFn      func(ctx context.Context, token string, tokenType models.TokenType) (bool, error)
	consumeRefreshTokenFn func(ctx context.Context, token string) error
	revokeAllUserTokensFn func(ctx context.Context, userID, reason string) (int64, error)
	deleteExpiredTokensFn func(ctx context.Context) (int64, error)
}

func (m *mockTokenRepository) TrackRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	return m.trackRefreshTokenFn(ctx, token, userID, expiresAt)
}

func (m *mockTokenRepository) RevokeToken(ctx context.Context, token string, tokenType models.TokenType, userID string, expiresAt time.Time, reason string) error {
	return m.revokeTokenFn(ctx, token, tokenType, userID, expiresAt, reason)
}

func (m *mockTokenRepository) IsTokenRevoked(ctx context.Context, token string, tokenType models.TokenType) (bool, error) {
	return m.isTokenRevokedFn(ctx, token, tokenType)
}

func (m *mockTokenRepository) ConsumeRefreshToken(ctx context.Context, token string) error {
	return m.consumeRefreshTokenFn(ctx, token)
}

func (m *mockTokenRepository) RevokeAllUserTokens(ctx context.Context, userID, reason string) (int64, error) {
	return m.revokeAllUserTokensFn(ctx, userID, reason)
}

func (m *mockTokenRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	return m.deleteExpiredTokensFn(ctx)
}
