package service

import (
	"context"
	"fmt"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/store"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
)

// defaultListLimit caps user listing pages when the caller does not ask for
// a smaller one.
const defaultListLimit = 100

// userService is the concrete implementation of UserService. All access
// control lives here: the transport layer only establishes WHO the actor is,
// this layer decides WHAT they may touch.
type userService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

// NewUserService constructs a UserService on top of the given repository.
func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		logger:         logger,
	}
}

// GetUser returns the account with the given id. Permitted for the account
// owner and for admins; everyone else gets ErrForbidden.
func (u *userService) GetUser(ctx context.Context, actor models.User, userID string) (models.User, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return models.User{}, ErrInvalidDataProvided
	}
	if actor.UserID != userID && !actor.IsAdmin() {
		log.Warn().Str("actor_id", actor.UserID).Str("user_id", userID).Msg("user read denied")
		return models.User{}, ErrForbidden
	}

	foundUser, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user lookup failed: %w", err)
	}

	return foundUser, nil
}

// UpdateUser applies a sparse patch to the account with the given id and
// returns the updated record.
//
// Permitted for the account owner and for admins. Role and is_active changes
// are admin-only regardless of ownership. A patched password is re-hashed
// here; the repository only ever sees the digest.
func (u *userService) UpdateUser(ctx context.Context, actor models.User, userID string, patch models.UserUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if userID == "" || patch.IsEmpty() {
		return models.User{}, ErrInvalidDataProvided
	}
	if actor.UserID != userID && !actor.IsAdmin() {
		log.Warn().Str("actor_id", actor.UserID).Str("user_id", userID).Msg("user update denied")
		return models.User{}, ErrForbidden
	}
	if (patch.Role != nil || patch.IsActive != nil) && !actor.IsAdmin() {
		log.Warn().Str("actor_id", actor.UserID).Msg("privileged field change denied")
		return models.User{}, ErrForbidden
	}

	if err := validateUserUpdate(patch); err != nil {
		return models.User{}, err
	}

	repoPatch := store.UserPatch{
		Email:    patch.Email,
		FullName: patch.FullName,
		Role:     patch.Role,
		AgeGroup: patch.AgeGroup,
		IsActive: patch.IsActive,
		Avatar:   patch.Avatar,
	}
	if patch.Password != nil {
		hashed, err := utils.HashPassword(*patch.Password)
		if err != nil {
			log.Err(err).Msg("password hashing failed")
			return models.User{}, fmt.Errorf("password hashing failed: %w", err)
		}
		repoPatch.HashedPassword = &hashed
	}

	updatedUser, err := u.userRepository.UpdateUser(ctx, userID, repoPatch)
	if err != nil {
		log.Err(err).Str("user_id", userID).Msg("user update ended with error")
		return models.User{}, fmt.Errorf("user update ended with error: %w", err)
	}

	return updatedUser, nil
}

// DeleteUser removes the account with the given id. Admin-only; an admin
// cannot delete their own account (there must always be someone left to
// undo a mistake).
func (u *userService) DeleteUser(ctx context.Context, actor models.User, userID string) error {
	log := logger.FromContext(ctx)

	if userID == "" {
		return ErrInvalidDataProvided
	}
	if !actor.IsAdmin() {
		log.Warn().Str("actor_id", actor.UserID).Str("user_id", userID).Msg("user delete denied")
		return ErrForbidden
	}
	if actor.UserID == userID {
		return ErrSelfDeleteForbidden
	}

	if err := u.userRepository.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("user deletion failed: %w", err)
	}

	return nil
}

// ListUsers returns a page of accounts ordered by creation time. Admin-only.
// A zero or oversized limit is clamped to the default page size.
func (u *userService) ListUsers(ctx context.Context, actor models.User, skip, limit uint64) ([]models.User, error) {
	log := logger.FromContext(ctx)

	if !actor.IsAdmin() {
		log.Warn().Str("actor_id", actor.UserID).Msg("user listing denied")
		return nil, ErrForbidden
	}

	if limit == 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	users, err := u.userRepository.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("user listing failed: %w", err)
	}

	return users, nil
}

// validateUserUpdate checks the patched fields against the same rules the
// registration path applies.
func validateUserUpdate(patch models.UserUpdate) error {
	if patch.Email != nil && !emailPattern.MatchString(*patch.Email) {
		return ErrValidationEmail
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return ErrValidationRole
	}
	if patch.AgeGroup != nil && !patch.AgeGroup.Valid() {
		return ErrValidationAgeGroup
	}
	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return err
		}
	}

	return nil
}
