// Package models holds the records written when a user is provisioned.
package models

import "time"

// User mirrors a row of the Hub's profiles.users table.
type User struct {
	ID            string
	Email         string
	Username      string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PasswordRecord mirrors a row of profiles.user_passwords. It is one-to-one
// with User and must be committed in the same transaction.
type PasswordRecord struct {
	UserID       string
	PasswordHash string
	HashAlgo     string
	UpdatedAt    time.Time
}
