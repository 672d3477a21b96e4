package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes the two kinds of bearer credentials issued by the
// auth service. A token's type claim must match the expectation of every
// consuming endpoint: access-protected routes reject refresh tokens and the
// refresh endpoint rejects access tokens.
type TokenType string

const (
	// TokenTypeAccess is a medium-lived credential authorizing API calls.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh is a long-lived credential exchanged exactly once for
	// a new access/refresh pair.
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether the token type is one of the recognised values.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// TokenClaims is the claim set carried by every issued JWT.
//
// It embeds [jwt.RegisteredClaims] for the standard sub/exp/iat/jti/iss
// fields and adds the token type discriminator.
type TokenClaims struct {
	jwt.RegisteredClaims

	// TokenType is "access" or "refresh".
	TokenType TokenType `json:"type"`
}

// Token wraps a signed JWT together with its decoded claims.
//
// SignedString holds the compact serialized form of the token
// (header.payload.signature) ready to be transmitted in HTTP headers or
// mirrored into cookies.
type Token struct {
	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// Claims holds the decoded claim set of the token.
	Claims TokenClaims `json:"-"`
}

// Subject returns the "sub" claim (the username the token was issued for).
func (t Token) Subject() string {
	return t.Claims.Subject
}

// Type returns the token type claim.
func (t Token) Type() TokenType {
	return t.Claims.TokenType
}

// ExpiresAt returns the expiry instant of the token, or the zero time when
// the claim is absent.
func (t Token) ExpiresAt() time.Time {
	if t.Claims.ExpiresAt == nil {
		return time.Time{}
	}
	return t.Claims.ExpiresAt.Time
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}

// TokenPair is the response payload of a successful login or refresh call.
// ExpiresIn is the access token lifetime in seconds.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         User   `json:"user"`
}

// LedgerStatus is the state of a token ledger entry. An entry is either the
// bookkeeping record of an outstanding refresh token (active) or a revocation
// mark (revoked). Only revoked entries cause a token to be rejected.
type LedgerStatus string

const (
	LedgerStatusActive  LedgerStatus = "active"
	LedgerStatusRevoked LedgerStatus = "revoked"
)

// Well-known ledger entry reasons.
const (
	ReasonActiveRefreshToken = "active_refresh_token"
	ReasonLogout             = "logout"
	ReasonLogoutAll          = "logout_all"
	ReasonRotated            = "rotated"
)

// LedgerEntry is a persisted token record in the revocation ledger.
// Entries are keyed by the full token string (unique index) and pruned
// asynchronously once ExpiresAt has passed.
type LedgerEntry struct {
	ID        int64        `json:"-"`
	Token     string       `json:"token"`
	TokenType TokenType    `json:"token_type"`
	UserID    string       `json:"user_id"`
	Status    LedgerStatus `json:"status"`
	Reason    string       `json:"reason"`
	ExpiresAt time.Time    `json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the LedgerEntry model.
func (e LedgerEntry) TableName() string {
	return "token_ledger"
}
