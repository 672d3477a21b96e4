package store

import (
	"context"
	"time"

	"github.com/eduagent/eduagent/models"
)

// UserRepository persists user accounts and enforces username/e-mail
// uniqueness. All username and e-mail lookups are case-normalised to
// lower-case at this boundary.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID string) (models.User, error)
	FindUserByUsername(ctx context.Context, username string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, userID string, patch UserPatch) (models.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context, skip, limit uint64) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// UserPatch is the repository-level sparse field set applied by
// [UserRepository.UpdateUser]. Password re-hashing happens in the service
// layer; the patch only ever carries the finished digest.
type UserPatch struct {
	Email          *string
	FullName       *string
	Role           *models.UserRole
	AgeGroup       *models.AgeGroup
	IsActive       *bool
	Avatar         *string
	HashedPassword *string
}

// IsEmpty reports whether the patch carries no fields at all.
func (p UserPatch) IsEmpty() bool {
	return p.Email == nil && p.FullName == nil && p.Role == nil &&
		p.AgeGroup == nil && p.IsActive == nil && p.Avatar == nil && p.HashedPassword == nil
}

// TokenRepository is the revocation ledger: the persistent record of token
// status used both to reject tokens before their natural expiry and to track
// outstanding refresh tokens.
type TokenRepository interface {
	// TrackRefreshToken registers a freshly issued refresh token with
	// status=active. A duplicate token string fails with [ErrDuplicateToken].
	TrackRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error

	// RevokeToken inserts (or upserts) a revoked entry for the token.
	RevokeToken(ctx context.Context, token string, tokenType models.TokenType, userID string, expiresAt time.Time, reason string) error

	// IsTokenRevoked reports whether a revoked entry exists for
	// (token, tokenType). Unseen tokens report false; a database failure is
	// returned as an error so callers can fail closed.
	IsTokenRevoked(ctx context.Context, token string, tokenType models.TokenType) (bool, error)

	// ConsumeRefreshToken atomically transitions the token's ledger entry
	// from active to revoked (reason=rotated). When the entry is missing or
	// not active it fails with [ErrTokenNotActive]; of any number of
	// concurrent calls for the same token at most one succeeds.
	ConsumeRefreshToken(ctx context.Context, token string) error

	// RevokeAllUserTokens bulk-revokes every non-expired entry of the user
	// and returns the number of affected entries.
	RevokeAllUserTokens(ctx context.Context, userID, reason string) (int64, error)

	// DeleteExpiredTokens prunes entries whose expiry has passed and returns
	// the number of deleted rows. Called periodically by the ledger sweeper.
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}
