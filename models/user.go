package models

import "time"

// UserRole enumerates the account roles recognised by the platform.
// Authorization decisions (admin-only endpoints, user management) are made
// against these values.
type UserRole string

// Available user roles.
const (
	RoleChild   UserRole = "child"
	RoleParent  UserRole = "parent"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether the role is one of the recognised values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleChild, RoleParent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// AgeGroup enumerates the age brackets used to tailor chat responses and
// learning content.
type AgeGroup string

// Available age groups.
const (
	AgeGroup3To5  AgeGroup = "3-5"
	AgeGroup6To8  AgeGroup = "6-8"
	AgeGroup9To12 AgeGroup = "9-12"
)

// Valid reports whether the age group is one of the recognised values.
func (g AgeGroup) Valid() bool {
	switch g {
	case AgeGroup3To5, AgeGroup6To8, AgeGroup9To12:
		return true
	}
	return false
}

// User represents an account entity used for authentication and authorization.
// Username and Email are stored in lower-case canonical form; both are unique
// across all users.
//
// HashedPassword must never be serialized to clients.
type User struct {
	// UserID is the unique identifier of the user, generated at creation.
	UserID string `json:"id"`

	// Username is the unique login identifier (alphanumeric, 3-50 chars).
	Username string `json:"username"`

	// Email is the unique e-mail address of the account.
	Email string `json:"email"`

	// HashedPassword stores the bcrypt digest of the user's password.
	// Never plaintext, never exposed via JSON.
	HashedPassword string `json:"-"`

	// FullName is the optional display name of the user.
	FullName string `json:"full_name,omitempty"`

	// Role determines the account's authorization level.
	Role UserRole `json:"role"`

	// AgeGroup is the optional age bracket of the user.
	AgeGroup AgeGroup `json:"age_group,omitempty"`

	// IsActive marks whether the account may authenticate. Inactive accounts
	// are rejected at login and on every authenticated request.
	IsActive bool `json:"is_active"`

	// Avatar is an optional URL to the user's avatar image.
	Avatar string `json:"avatar,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// LastLogin is set on every successful authentication.
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserCreate carries the input of a registration request. Password is
// hashed immediately by the auth service and the plaintext is discarded.
type UserCreate struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name,omitempty"`
	Role     UserRole `json:"role,omitempty"`
	AgeGroup AgeGroup `json:"age_group,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
}

// UserUpdate is a sparse patch applied to an existing user. Only non-nil
// fields are written. A non-nil Password triggers a re-hash; the plaintext
// is never persisted.
type UserUpdate struct {
	Email    *string   `json:"email,omitempty"`
	FullName *string   `json:"full_name,omitempty"`
	Role     *UserRole `json:"role,omitempty"`
	AgeGroup *AgeGroup `json:"age_group,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
	Avatar   *string   `json:"avatar,omitempty"`
	Password *string   `json:"password,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (u UserUpdate) IsEmpty() bool {
	return u.Email == nil && u.FullName == nil && u.Role == nil &&
		u.AgeGroup == nil && u.IsActive == nil && u.Avatar == nil && u.Password == nil
}
