package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eduagent/eduagent/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateToken creates a signed HMAC-SHA256 JWT token with the given parameters.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the username the token is issued for
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus ttl
//   - ID        (jti): a random unique token identifier
//   - type           : "access" or "refresh"
//
// All parameters are required. Returns an error if any of them are empty or zero.
func GenerateToken(issuer, subject string, tokenType models.TokenType, ttl time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || subject == "" || ttl == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT token")
	}
	if !tokenType.Valid() {
		return models.Token{}, fmt.Errorf("unknown token type %q", tokenType)
	}

	now := time.Now()
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{SignedString: tokenString, Claims: claims}, nil
}

// ParseToken validates the given JWT token string and extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key (HS256 only)
//   - Issuer (iss) claim check against the provided issuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence
//
// The returned error wraps the jwt/v5 sentinel that classifies the failure
// ([jwt.ErrTokenExpired], [jwt.ErrTokenSignatureInvalid],
// [jwt.ErrTokenMalformed]); callers log the class internally but must
// collapse all of them to a single "invalid credentials" response so that
// the failure mode is not observable by the client.
func ParseToken(tokenString, signKey, issuer string) (models.Token, error) {
	claims := &models.TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}

	return models.Token{SignedString: tokenString, Claims: *claims}, nil
}

// IsTokenExpired reports whether err (as returned by [ParseToken]) is caused
// by an expired "exp" claim rather than a bad signature or malformed input.
func IsTokenExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

// ParseBearerToken extracts the bearer token string from a raw
// "Authorization" HTTP header value of the standard form:
//
//	Authorization: Bearer <token>
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
