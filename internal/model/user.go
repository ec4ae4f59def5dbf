// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — plain records with JSON and
// db column tags, no ORM layer in between.
package model

import "time"

// User represents a registered account. Every canvas entity (ideas, groups,
// todo lists) is owned by exactly one user.
//
// Two login paths populate this record:
//   - email/password: Email + PasswordHash are set, GitHubID is zero
//   - GitHub OAuth:   GitHubID is set, PasswordHash stays empty
//
// PasswordHash is never serialized — note the `json:"-"` tag. API responses
// must not leak bcrypt hashes.
type User struct {
	ID           string    `json:"id"          db:"id"`
	Email        string    `json:"email"       db:"email"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	PasswordHash string    `json:"-"           db:"password_hash"`
	GitHubID     int64     `json:"githubId,omitempty" db:"github_id"`
	AvatarURL    string    `json:"avatarUrl"   db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"   db:"updated_at"`
}
