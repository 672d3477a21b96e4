package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// userColumns is the canonical column list of the users table, used by every
// SELECT and RETURNING clause so that row scanning stays uniform.
const userColumns = `user_id, username, email, hashed_password, full_name, role, age_group, is_active, avatar, created_at, updated_at, last_login`

const (
	createUser = `INSERT INTO users (user_id, username, email, hashed_password, full_name, role, age_group, avatar)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByUsername = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	deleteUser = `DELETE FROM users
    WHERE user_id = $1;`

	updateLastLogin = `UPDATE users
    SET last_login = $2, updated_at = $2
    WHERE user_id = $1;`
)

const (
	trackRefreshToken = `INSERT INTO token_ledger (token, token_type, user_id, status, reason, expires_at)
    VALUES ($1, 'refresh', $2, 'active', 'active_refresh_token', $3);`

	revokeToken = `INSERT INTO token_ledger (token, token_type, user_id, status, reason, expires_at)
    VALUES ($1, $2, $3, 'revoked', $4, $5)
    ON CONFLICT (token) DO UPDATE
    SET status = 'revoked', reason = EXCLUDED.reason, expires_at = EXCLUDED.expires_at;`

	isTokenRevoked = `SELECT EXISTS (
        SELECT 1 FROM token_ledger
        WHERE token = $1 AND token_type = $2 AND status = 'revoked'
    );`

	// The single-use rotation step: the WHERE clause is the compare-and-swap
	// guard, so concurrent refreshes with the same token race on the row lock
	// and all but the winner observe zero affected rows.
	consumeRefreshToken = `UPDATE token_ledger
    SET status = 'revoked', reason = 'rotated', expires_at = NOW()
    WHERE token = $1 AND token_type = 'refresh' AND status = 'active';`

	revokeAllUserTokens = `UPDATE token_ledger
    SET status = 'revoked', reason = $2, expires_at = NOW()
    WHERE user_id = $1 AND expires_at > NOW() AND status <> 'revoked';`

	deleteExpiredTokens = `DELETE FROM token_ledger
    WHERE expires_at < NOW();`
)

// buildUpdateUserQuery dynamically builds the sparse UPDATE statement for a
// user patch. Only fields present in the patch become SET clauses;
// updated_at is always bumped.
func buildUpdateUserQuery(userID string, patch UserPatch) (string, []any, error) {
	builder := sq.Update("users").
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		PlaceholderFormat(sq.Dollar)

	if patch.Email != nil {
		builder = builder.Set("email", *patch.Email)
	}
	if patch.FullName != nil {
		builder = builder.Set("full_name", *patch.FullName)
	}
	if patch.Role != nil {
		builder = builder.Set("role", string(*patch.Role))
	}
	if patch.AgeGroup != nil {
		builder = builder.Set("age_group", string(*patch.AgeGroup))
	}
	if patch.IsActive != nil {
		builder = builder.Set("is_active", *patch.IsActive)
	}
	if patch.Avatar != nil {
		builder = builder.Set("avatar", *patch.Avatar)
	}
	if patch.HashedPassword != nil {
		builder = builder.Set("hashed_password", *patch.HashedPassword)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListUsersQuery builds the paginated user listing query.
func buildListUsersQuery(skip, limit uint64) (string, []any, error) {
	query, args, err := sq.Select(userColumns).
		From("users").
		OrderBy("created_at").
		Offset(skip).
		Limit(limit).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
