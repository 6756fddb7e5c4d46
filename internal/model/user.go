// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts are created either by email/password registration or by GitHub
// OAuth login. For password accounts GitHubID is 0; for OAuth accounts
// PasswordHash is empty. Both kinds share the same table and the same JWT
// identity, so the rest of the app never needs to care which path created
// the account.
//
// WHY json:"-" ON PasswordHash?
// The hash must never appear in an API response, a log line, or anything
// else that serializes a User. Excluding it at the struct-tag level means
// no handler can leak it by accident.
type User struct {
	ID           int64     `json:"id"        db:"id"`
	Login        string    `json:"login,omitempty" db:"login"` // optional username, unique when chosen
	Email        string    `json:"email"     db:"email"`     // unique, required
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"githubId,omitempty" db:"github_id"` // 0 for password-registered accounts
	AvatarURL    string    `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
