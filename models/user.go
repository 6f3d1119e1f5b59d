package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// ID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	ID int64 `json:"-"`

	// Email is the unique user identifier used during authentication.
	// The domain part is normalized to lowercase at registration time;
	// the local part is preserved verbatim.
	Email string `json:"email"`

	// Name is the display name of the user.
	// It is non-sensitive and may be shown in UI.
	Name string `json:"name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a one-way salted hash, never plaintext.
	// It is never exposed via JSON.
	PasswordHash string `json:"-"`

	// IsActive marks whether the account may authenticate.
	// Inactive accounts are rejected at login.
	IsActive bool `json:"-"`

	// IsStaff grants access to administrative tooling.
	IsStaff bool `json:"-"`

	// IsSuperuser grants all permissions implicitly.
	IsSuperuser bool `json:"-"`

	// LastLogin is refreshed every time a token is successfully issued.
	// Nil until the first login.
	LastLogin *time.Time `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	// Used for auditing and lifecycle management.
	CreatedAt time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
