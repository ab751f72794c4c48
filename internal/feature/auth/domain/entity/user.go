// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
// It contains authentication credentials and the admin flag used for
// role-based request gating.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the salted scrypt digest of the user's password,
	// stored as "saltHex.hashHex". This never holds a plaintext password.
	Password string `gorm:"size:255;not null"`

	// Admin marks the user as an administrator. New users are never admins.
	Admin bool `gorm:"not null;default:false"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
