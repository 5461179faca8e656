// Package models defines the client-side shapes exchanged with the MedML
// backend and kept in the local store.
package models

import "time"

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the account creation request body.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// AuthResult is returned by both login and register.
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Summary strips the token off an AuthResult.
func (r AuthResult) Summary() *UserSummary {
	return &UserSummary{Username: r.Username, Email: r.Email}
}

// Identity is the minimal answer of the "me" endpoint.
type Identity struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UserSummary is the serialized user kept in the "user" slot of the local
// store. It survives restarts, unlike the in-memory profile cache.
type UserSummary struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Profile is the full user profile.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	// Contact is a phone number or any free-form contact info.
	Contact string `json:"contact"`
	// Avatar is an absolute URL or empty.
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate is a partial profile update; nil fields are not sent.
type ProfileUpdate struct {
	Email    *string `json:"email,omitempty"`
	FullName *string `json:"full_name,omitempty"`
	Contact  *string `json:"contact,omitempty"`
	Role     *string `json:"role,omitempty"`
}

// Empty reports whether the update carries no field at all.
func (u ProfileUpdate) Empty() bool {
	return u.Email == nil && u.FullName == nil && u.Contact == nil && u.Role == nil
}
