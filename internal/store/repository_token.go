package store

import (
	"context"
	"fmt"
	"time"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/models"
	"github.com/jackc/pgerrcode"
)

// tokenRepository is the PostgreSQL-backed implementation of
// [TokenRepository] — the revocation ledger over the "token_ledger" table.
//
// Entries are keyed by the full token string (unique index). An entry with
// status=active is bookkeeping of an outstanding refresh token; only
// status=revoked causes a token to be rejected. Expired entries are pruned
// asynchronously by the ledger sweeper and never affect read correctness
// before their expiry.
type tokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewTokenRepository constructs a [TokenRepository] backed by the provided
// database connection and logger.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{
		db:     db,
		logger: logger,
	}
}

// TrackRefreshToken registers a freshly issued refresh token with
// status=active and reason=active_refresh_token.
//
// Error handling:
//   - unique_violation (23505) → [ErrDuplicateToken]. Random jti claims make
//     exact token collisions practically unreachable, but a collision is a
//     conflict, not a crash.
func (r *tokenRepository) TrackRefreshToken(ctx context.Context, token, userID string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, trackRefreshToken, token, userID, expiresAt); err != nil {
		log.Err(err).Str("func", "*tokenRepository.TrackRefreshToken").Msg("error tracking refresh token")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrDuplicateToken
		default:
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return nil
}

// RevokeToken upserts a revoked entry for the token. A pre-existing entry
// (e.g. the active record of a tracked refresh token) is transitioned to
// revoked in place.
func (r *tokenRepository) RevokeToken(ctx context.Context, token string, tokenType models.TokenType, userID string, expiresAt time.Time, reason string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, revokeToken, token, tokenType, userID, reason, expiresAt); err != nil {
		log.Err(err).Str("func", "*tokenRepository.RevokeToken").Msg("error revoking token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// IsTokenRevoked reports whether a revoked entry exists for (token, type).
//
// Unseen tokens report false. Active entries (tracked refresh tokens) also
// report false: tracking is not revocation. A database failure is returned
// to the caller, which must treat it as fatal for the authentication
// attempt — never as "not revoked".
func (r *tokenRepository) IsTokenRevoked(ctx context.Context, token string, tokenType models.TokenType) (bool, error) {
	log := logger.FromContext(ctx)

	var revoked bool
	row := r.db.QueryRowContext(ctx, isTokenRevoked, token, tokenType)
	if err := row.Scan(&revoked); err != nil {
		log.Err(err).Str("func", "*tokenRepository.IsTokenRevoked").Msg("error checking token revocation")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return revoked, nil
}

// ConsumeRefreshToken atomically transitions the token's ledger entry from
// active to revoked (reason=rotated, expiry=now). The conditional UPDATE is
// the compare-and-swap guaranteeing single-use rotation: of any number of
// concurrent calls with the same token, exactly one observes an affected
// row; the rest fail with [ErrTokenNotActive].
func (r *tokenRepository) ConsumeRefreshToken(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, consumeRefreshToken, token)
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.ConsumeRefreshToken").Msg("error consuming refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrTokenNotActive
	}

	return nil
}

// RevokeAllUserTokens bulk-revokes every non-expired, not-yet-revoked entry
// of the user ("logout everywhere") and returns the number of affected
// entries. Revoked entries keep expiry=now so the sweeper prunes them on its
// next pass.
func (r *tokenRepository) RevokeAllUserTokens(ctx context.Context, userID, reason string) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, revokeAllUserTokens, userID, reason)
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.RevokeAllUserTokens").Msg("error revoking user tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().Str("user_id", userID).Int64("revoked", affected).Msg("revoked all user tokens")
	return affected, nil
}

// DeleteExpiredTokens prunes ledger entries whose expiry has passed and
// returns the number of deleted rows.
func (r *tokenRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredTokens)
	if err != nil {
		// A retryable failure (connection loss, deadlock) is picked up again
		// on the sweeper's next tick and does not warrant an error-level log.
		if r.db.errorClassificator.Classify(err) == Retryable {
			log.Warn().Err(err).Str("func", "*tokenRepository.DeleteExpiredTokens").Msg("transient error deleting expired tokens")
		} else {
			log.Err(err).Str("func", "*tokenRepository.DeleteExpiredTokens").Msg("error deleting expired tokens")
		}
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
