package service

import (
	"context"
	"testing"

	"github.com/eduagent/eduagent/internal/logger"
	"github.com/eduagent/eduagent/internal/store"
	"github.com/eduagent/eduagent/internal/utils"
	"github.com/eduagent/eduagent/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminUser() models.User {
	return models.User{UserID: "admin-1", Username: "admin", Role: models.RoleAdmin, IsActive: true}
}

func childUser() models.User {
	return models.User{UserID: "child-1", Username: "pedro", Role: models.RoleChild, IsActive: true}
}

// ─────────────────────────────────────────────
// GetUser
// ─────────────────────────────────────────────

func TestGetUser_Self(t *testing.T) {
	actor := childUser()
	users := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, userID string) (models.User, error) {
			require.Equal(t, "child-1", userID)
			return actor, nil
		},
	}

	svc := NewUserService(users, logger.Nop())

	found, err := svc.GetUser(context.Background(), actor, "child-1")
	require.NoError(t, err)
	assert.Equal(t, "child-1", found.UserID)
}

func TestGetUser_AdminReadsAnyone(t *testing.T) {
	target := childUser()
	users := &mockUserRepository{
		findUserByIDFn: func(context.Context, string) (models.User, error) { return target, nil },
	}

	svc := NewUserService(users, logger.Nop())

	found, err := svc.GetUser(context.Background(), adminUser(), "child-1")
	require.NoError(t, err)
	assert.Equal(t, "child-1", found.UserID)
}

func TestGetUser_OtherUserForbidden(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	_, err := svc.GetUser(context.Background(), childUser(), "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)
}

// ─────────────────────────────────────────────
// UpdateUser
// ─────────────────────────────────────────────

func TestUpdateUser_SelfProfilePatch(t *testing.T) {
	actor := childUser()
	fullName := "Pedro P."

	var applied store.UserPatch
	users := &mockUserRepository{
		updateUserFn: func(_ context.Context, userID string, patch store.UserPatch) (models.User, error) {
			require.Equal(t, "child-1", userID)
			applied = patch
			actor.FullName = *patch.FullName
			return actor, nil
		},
	}

	svc := NewUserService(users, logger.Nop())

	updated, err := svc.UpdateUser(context.Background(), actor, "child-1", models.UserUpdate{FullName: &fullName})
	require.NoError(t, err)
	assert.Equal(t, fullName, updated.FullName)
	assert.Nil(t, applied.Role)
	assert.Nil(t, applied.HashedPassword)
}

func TestUpdateUser_PasswordIsRehashed(t *testing.T) {
	actor := childUser()
	password := "newpassw0rd"

	var applied store.UserPatch
	users := &mockUserRepository{
		updateUserFn: func(_ context.Context, _ string, patch store.UserPatch) (models.User, error) {
			applied = patch
			return actor, nil
		},
	}

	svc := NewUserService(users, logger.Nop())

	_, err := svc.UpdateUser(context.Background(), actor, "child-1", models.UserUpdate{Password: &password})
	require.NoError(t, err)
	require.NotNil(t, applied.HashedPassword)
	assert.NotEqual(t, password, *applied.HashedPassword)
	assert.True(t, utils.CheckPassword(password, *applied.HashedPassword))
}

func TestUpdateUser_RoleChangeRequiresAdmin(t *testing.T) {
	role := models.RoleTeacher

	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	_, err := svc.UpdateUser(context.Background(), childUser(), "child-1", models.UserUpdate{Role: &role})
	assert.ErrorIs(t, err, ErrForbidden, "non-admins must not change their own role")
}

func TestUpdateUser_AdminChangesRole(t *testing.T) {
	role := models.RoleTeacher
	target := childUser()

	users := &mockUserRepository{
		updateUserFn: func(_ context.Context, _ string, patch store.UserPatch) (models.User, error) {
			require.NotNil(t, patch.Role)
			target.Role = *patch.Role
			return target, nil
		},
	}

	svc := NewUserService(users, logger.Nop())

	updated, err := svc.UpdateUser(context.Background(), adminUser(), "child-1", models.UserUpdate{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, updated.Role)
}

func TestUpdateUser_OtherUserForbidden(t *testing.T) {
	fullName := "X"

	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	_, err := svc.UpdateUser(context.Background(), childUser(), "someone-else", models.UserUpdate{FullName: &fullName})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateUser_EmptyPatch(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	_, err := svc.UpdateUser(context.Background(), childUser(), "child-1", models.UserUpdate{})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestUpdateUser_ValidationOfPatchedFields(t *testing.T) {
	badEmail := "not-an-email"
	weakPassword := "short"
	badGroup := models.AgeGroup("13-17")

	tests := []struct {
		name    string
		patch   models.UserUpdate
		wantErr error
	}{
		{"bad email", models.UserUpdate{Email: &badEmail}, ErrValidationEmail},
		{"weak password", models.UserUpdate{Password: &weakPassword}, ErrValidationPassword},
		{"bad age group", models.UserUpdate{AgeGroup: &badGroup}, ErrValidationAgeGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(&mockUserRepository{}, logger.Nop())

			_, err := svc.UpdateUser(context.Background(), childUser(), "child-1", tt.patch)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ─────────────────────────────────────────────
// DeleteUser
// ─────────────────────────────────────────────

func TestDeleteUser_AdminDeletesOther(t *testing.T) {
	deleted := ""
	users := &mockUserRepository{
		deleteUserFn: func(_ context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}

	svc := NewUserService(users, logger.Nop())

	require.NoError(t, svc.DeleteUser(context.Background(), adminUser(), "child-1"))
	assert.Equal(t, "child-1", deleted)
}

func TestDeleteUser_NonAdminForbidden(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	err := svc.DeleteUser(context.Background(), childUser(), "someone-else")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteUser_SelfDeleteForbidden(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	err := svc.DeleteUser(context.Background(), adminUser(), "admin-1")
	assert.ErrorIs(t, err, ErrSelfDeleteForbidden)
}

func TestDeleteUser_UnknownTarget(t *testing.T) {
	users := &mockUserRepository{
		deleteUserFn: func(context.Context, string) error { return store.ErrNoUserWasFound },
	}

	svc := NewUserService(users, logger.Nop())

	err := svc.DeleteUser(context.Background(), adminUser(), "missing")
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ─────────────────────────────────────────────
// ListUsers
// ─────────────────────────────────────────────

func TestListUsers_AdminOnly(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.Nop())

	_, err := svc.ListUsers(context.Background(), childUser(), 0, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListUsers_LimitClamped(t *testing.T) {
	tests := []struct {
		name      string
		limit     uint64
		wantLimit uint64
	}{
		{"zero limit gets default", 0, 100},
		{"oversized limit clamped", 10_000, 100},
		{"small limit kept", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit uint64
			users := &mockUserRepository{
				listUsersFn: func(_ context.Context, _, limit uint64) ([]models.User, error) {
					gotLimit = limit
					return nil, nil
				},
			}

			svc := NewUserService(users, logger.Nop())

			_, err := svc.ListUsers(context.Background(), adminUser(), 0, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, gotLimit)
		})
	}
}
