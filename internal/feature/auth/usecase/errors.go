// Package usecase implements the business logic for the auth feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailInUse is returned when attempting to sign up with an email
	// that already belongs to another user.
	ErrEmailInUse = errors.New("email in use")

	// ErrBadPassword is returned when signin is attempted with a password
	// that does not match the stored digest.
	ErrBadPassword = errors.New("bad password")

	// ErrInvalidPassword is returned when a signup password does not meet
	// the length requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = errors.New("session not found")
)
