// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/eduagent/eduagent/internal/config"
	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/store"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,50}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// authService is the concrete implementation of AuthService.
// It handles registration, credential verification, and the full JWT token
// lifecycle: paired access/refresh issuance, single-use refresh rotation,
// and revocation through the token ledger.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenRepository is the revocation ledger consulted on every
	// authenticated call and written on issuance, rotation, and logout.
	tokenRepository store.TokenRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// accessTokenTTL and refreshTokenTTL control the lifetimes of newly
	// issued tokens of the respective type.
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, tokenRepository store.TokenRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
		logger:          logger,
	}
}

// Register creates a new user account.
//
// Input is validated (username shape, e-mail syntax, password strength, role
// and age group enums), the password is hashed, and persistence is delegated
// to the UserRepository. An absent role defaults to child; new accounts are
// active.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - A validation sentinel (ErrValidationUsername et al.) on bad input.
//   - A wrapped storage error if the repository call fails (e.g. username
//     already taken — see store.ErrUsernameAlreadyExists).
func (a *authService) Register(ctx context.Context, input models.UserCreate) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateUserCreate(input); err != nil {
		log.Error().Err(err).Str("username", input.Username).Msg("invalid registration data")
		return models.User{}, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleChild
	}

	registeredUser, err := a.userRepository.CreateUser(ctx, models.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashed,
		FullName:       input.FullName,
		Role:           role,
		AgeGroup:       input.AgeGroup,
		IsActive:       true,
		Avatar:         input.Avatar,
	})
	if err != nil {
		log.Err(err).Str("username", input.Username).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return registeredUser, nil
}

// Login authenticates an existing account by username or e-mail and issues a
// fresh access/refresh token pair.
//
// An unknown account and a wrong password both fail with
// ErrInvalidCredentials so that the two cases cannot be told apart. An
// inactive account with correct credentials fails with ErrInactiveUser.
// On success the account's last_login timestamp is updated and the refresh
// token is tracked in the ledger.
func (a *authService) Login(ctx context.Context, login, password string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if login == "" || password == "" {
		return models.TokenPair{}, ErrInvalidDataProvided
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, login)
	if errors.Is(err, store.ErrNoUserWasFound) {
		foundUser, err = a.userRepository.FindUserByEmail(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.TokenPair{}, ErrInvalidCredentials
		}

		log.Err(err).Str("login", login).Msg("user lookup failed")
		return models.TokenPair{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !utils.CheckPassword(password, foundUser.HashedPassword) {
		log.Warn().Str("login", login).Msg("wrong password")
		return models.TokenPair{}, ErrInvalidCredentials
	}

	if !foundUser.IsActive {
		log.Warn().Str("login", login).Msg("inactive account rejected at login")
		return models.TokenPair{}, ErrInactiveUser
	}

	now := time.Now()
	if err := a.userRepository.UpdateLastLogin(ctx, foundUser.UserID, now); err != nil {
		// Losing the timestamp is not worth failing the login.
		log.Warn().Err(err).Str("user_id", foundUser.UserID).Msg("last login update failed")
	} else {
		foundUser.LastLogin = &now
	}

	return a.issueTokenPair(ctx, foundUser)
}

// Refresh exchanges a refresh token for a new access/refresh pair.
//
// The presented token is validated (signature, expiry, issuer, type=refresh)
// and then consumed atomically in the ledger: its entry transitions from
// active to revoked, so a second exchange of the same token — including a
// concurrent one — fails with ErrTokenIsExpiredOrInvalid.
func (a *authService) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ParseToken(refreshToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		log.Warn().Err(err).Msg("refresh token rejected")
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}

	if token.Type() != models.TokenTypeRefresh {
		log.Warn().Str("type", string(token.Type())).Msg("wrong token type presented for refresh")
		return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
	}

	if err := a.tokenRepository.ConsumeRefreshToken(ctx, token.String()); err != nil {
		if errors.Is(err, store.ErrTokenNotActive) {
			log.Warn().Str("subject", token.Subject()).Msg("refresh token already consumed or revoked")
			return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
		}

		log.Err(err).Msg("refresh token consumption failed")
		return models.TokenPair{}, fmt.Errorf("refresh token consumption failed: %w", err)
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, token.Subject())
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.TokenPair{}, ErrTokenIsExpiredOrInvalid
		}

		log.Err(err).Str("subject", token.Subject()).Msg("user lookup failed during refresh")
		return models.TokenPair{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !foundUser.IsActive {
		return models.TokenPair{}, ErrInactiveUser
	}

	return a.issueTokenPair(ctx, foundUser)
}

// Logout revokes the presented access token by inserting a revoked ledger
// entry that lives exactly as long as the token itself would have.
//
// An already-expired token needs no ledger entry and succeeds immediately.
func (a *authService) Logout(ctx context.Context, user models.User, accessToken string) error {
	log := logger.FromContext(ctx)

	token, err := utils.ParseToken(accessToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if utils.IsTokenExpired(err) {
			return nil
		}

		log.Warn().Err(err).Msg("logout with unparseable token")
		return ErrTokenIsExpiredOrInvalid
	}

	if err := a.tokenRepository.RevokeToken(ctx, token.String(), models.TokenTypeAccess, user.UserID, token.ExpiresAt(), models.ReasonLogout); err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("token revocation failed")
		return fmt.Errorf("token revocation failed: %w", err)
	}

	return nil
}

// LogoutAll revokes every outstanding ledger entry of the user and returns
// the number of revoked entries. Access tokens that were never written to the
// ledger remain valid until expiry; only tracked refresh tokens and
// explicitly revoked tokens are affected.
func (a *authService) LogoutAll(ctx context.Context, user models.User) (int64, error) {
	log := logger.FromContext(ctx)

	revoked, err := a.tokenRepository.RevokeAllUserTokens(ctx, user.UserID, models.ReasonLogoutAll)
	if err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("bulk token revocation failed")
		return 0, fmt.Errorf("bulk token revocation failed: %w", err)
	}

	return revoked, nil
}

// CurrentUser resolves an access token to its account.
//
// Checks, in order: signature/expiry/issuer, type=access, the revocation
// ledger, account existence, account active flag. Every token-shaped failure
// collapses to ErrTokenIsExpiredOrInvalid; a ledger read failure propagates
// as an error so that authentication fails closed.
func (a *authService) CurrentUser(ctx context.Context, accessToken string) (models.User, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ParseToken(accessToken, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.User{}, ErrTokenIsExpiredOrInvalid
	}

	if token.Type() != models.TokenTypeAccess {
		log.Warn().Str("type", string(token.Type())).Msg("wrong token type presented for access")
		return models.User{}, ErrTokenIsExpiredOrInvalid
	}

	revoked, err := a.tokenRepository.IsTokenRevoked(ctx, token.String(), models.TokenTypeAccess)
	if err != nil {
		log.Err(err).Msg("revocation ledger check failed")
		return models.User{}, fmt.Errorf("revocation ledger check failed: %w", err)
	}
	if revoked {
		log.Warn().Str("subject", token.Subject()).Msg("revoked token presented")
		return models.User{}, ErrTokenIsExpiredOrInvalid
	}

	foundUser, err := a.userRepository.FindUserByUsername(ctx, token.Subject())
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, ErrTokenIsExpiredOrInvalid
		}

		log.Err(err).Str("subject", token.Subject()).Msg("user lookup failed during authentication")
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	if !foundUser.IsActive {
		return models.User{}, ErrInactiveUser
	}

	return foundUser, nil
}

// issueTokenPair generates a fresh access/refresh pair for the user and
// tracks the refresh token in the ledger so that rotation and bulk
// revocation can find it later.
func (a *authService) issueTokenPair(ctx context.Context, user models.User) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	accessToken, err := utils.GenerateToken(a.tokenIssuer, user.Username, models.TokenTypeAccess, a.accessTokenTTL, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("access token generation failed")
		return models.TokenPair{}, fmt.Errorf("access token generation failed: %w", err)
	}

	refreshToken, err := utils.GenerateToken(a.tokenIssuer, user.Username, models.TokenTypeRefresh, a.refreshTokenTTL, a.tokenSignKey)
	if err != nil {
		log.Err(err).Msg("refresh token generation failed")
		return models.TokenPair{}, fmt.Errorf("refresh token generation failed: %w", err)
	}

	if err := a.tokenRepository.TrackRefreshToken(ctx, refreshToken.String(), user.UserID, refreshToken.ExpiresAt()); err != nil {
		log.Err(err).Str("user_id", user.UserID).Msg("refresh token tracking failed")
		return models.TokenPair{}, fmt.Errorf("refresh token tracking failed: %w", err)
	}

	return models.TokenPair{
		AccessToken:  accessToken.String(),
		RefreshToken: refreshToken.String(),
		TokenType:    "bearer",
		ExpiresIn:    int64(a.accessTokenTTL.Seconds()),
		User:         user,
	}, nil
}

// validateUserCreate checks a registration request against the account rules:
// username shape, e-mail syntax, password strength, and the role and age
// group enums (both optional).
func validateUserCreate(input models.UserCreate) error {
	if !usernamePattern.MatchString(input.Username) {
		return ErrValidationUsername
	}
	if !emailPattern.MatchString(input.Email) {
		return ErrValidationEmail
	}
	if err := validatePassword(input.Password); err != nil {
		return err
	}
	if input.Role != "" && !input.Role.Valid() {
		return ErrValidationRole
	}
	if input.AgeGroup != "" && !input.AgeGroup.Valid() {
		return ErrValidationAgeGroup
	}

	return nil
}

// validatePassword enforces the minimum password policy: at least 8
// characters with at least one letter and one digit. Letters and digits in
// any script count; length is measured in characters, not bytes.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return ErrValidationPassword
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrValidationPassword
	}

	return nil
}
