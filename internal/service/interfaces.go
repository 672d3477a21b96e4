package service

import (
	"context"

	"github.com/eduagent/eduagent/models"
)

// AuthService owns the account and token lifecycle: registration, credential
// verification, token pair issuance and rotation, and revocation.
type AuthService interface {
	// Register validates the input and creates a new account with a hashed
	// password. The plaintext is discarded immediately after hashing.
	Register(ctx context.Context, input models.UserCreate) (models.User, error)

	// Login authenticates by username or e-mail and issues an access/refresh
	// token pair. An unknown account and a wrong password are
	// indistinguishable to the caller.
	Login(ctx context.Context, login, password string) (models.TokenPair, error)

	// Refresh exchanges a refresh token for a new token pair. The presented
	// token is consumed atomically: a second exchange of the same token fails.
	Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error)

	// Logout revokes the presented access token. An already-expired token is
	// a no-op success.
	Logout(ctx context.Context, user models.User, accessToken string) error

	// LogoutAll revokes every outstanding token of the user and returns the
	// number of revoked ledger entries.
	LogoutAll(ctx context.Context, user models.User) (int64, error)

	// CurrentUser resolves an access token to its active account, checking
	// signature, expiry, token type, and the revocation ledger. A ledger
	// failure propagates as an error: authentication never succeeds on an
	// unreadable ledger.
	CurrentUser(ctx context.Context, accessToken string) (models.User, error)
}

// UserService covers account management on behalf of an authenticated actor.
// Authorization (self-or-admin, admin-only) is enforced here, not in the
// transport layer.
type UserService interface {
	GetUser(ctx context.Context, actor models.User, userID string) (models.User, error)
	UpdateUser(ctx context.Context, actor models.User, userID string, patch models.UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, actor models.User, userID string) error
	ListUsers(ctx context.Context, actor models.User, skip, limit uint64) ([]models.User, error)
}

// ChatService produces age-tailored assistant replies for the learning chat.
type ChatService interface {
	Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}
