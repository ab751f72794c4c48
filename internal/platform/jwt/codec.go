// Package jwtmw provides the session token codec and the identity
// middleware built on top of it.
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec serializes a minimal session reference into a tamper-evident
// cookie value. The token carries only the user ID and the session record
// ID; everything else is re-fetched from the user store per request.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a Codec with the given signing secret and token lifetime.
// The secret is process-wide and never rotated mid-process.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Encode produces a signed HS256 token referencing the given user and session.
func (c *Codec) Encode(userID uint, sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies a token and extracts the user and session references.
// Any failure (missing, malformed, bad signature, wrong algorithm, expired)
// yields ok=false; callers treat that as an anonymous request, never as a
// hard error.
func (c *Codec) Decode(tokenStr string) (userID uint, sessionID string, ok bool) {
	if tokenStr == "" {
		return 0, "", false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is accepted; anything else is a forgery attempt.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	sub, ok := claims["sub"].(float64) // JWT numbers are decoded as float64
	if !ok || sub <= 0 {
		return 0, "", false
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return 0, "", false
	}
	return uint(sub), sid, true
}
