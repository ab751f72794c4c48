// Package password provides scrypt-based password hashing and verification.
package password

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/crypto/scrypt"
	"golang.org/x/sync/semaphore"
)

const (
	// saltLen is the length of the random salt in bytes.
	saltLen = 8
	// keyLen is the length of the derived key in bytes.
	keyLen = 32

	// scrypt cost parameters. These are fixed for the lifetime of the
	// stored digests: Verify recomputes with the exact same values.
	scryptN = 32768
	scryptR = 8
	scryptP = 1

	// separator joins the hex-encoded salt and hash in a digest.
	separator = "."
)

// Hasher derives and verifies salted scrypt digests of the form
// "saltHex.hashHex". Key derivation is CPU-bound, so concurrent work is
// bounded by a weighted semaphore to keep hashing from monopolizing the
// request-handling goroutines.
type Hasher struct {
	sem *semaphore.Weighted
}

// NewHasher creates a Hasher whose concurrent key derivations are capped
// at GOMAXPROCS.
func NewHasher() *Hasher {
	return &Hasher{sem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0)))}
}

// Hash derives a digest for the given plaintext with a fresh random salt.
// Two calls with the same plaintext produce different digests.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := h.derive(ctx, []byte(plaintext), salt)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(salt) + separator + hex.EncodeToString(key), nil
}

// Verify reports whether plaintext matches the stored digest.
// A malformed digest yields false, never an error. The comparison is
// constant-time.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) bool {
	saltHex, hashHex, found := strings.Cut(digest, separator)
	if !found {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) != saltLen {
		return false
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != keyLen {
		return false
	}

	got, err := h.derive(ctx, []byte(plaintext), salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// derive runs scrypt behind the semaphore. It honours context cancellation
// while waiting for a slot.
func (h *Hasher) derive(ctx context.Context, plaintext, salt []byte) ([]byte, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer h.sem.Release(1)
	return scrypt.Key(plaintext, salt, scryptN, scryptR, scryptP, keyLen)
}
