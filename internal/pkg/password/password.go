// Package password provides one-way password hashing and verification.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt. The cost is
// injectable so tests can run at bcrypt.MinCost.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher, clamping out-of-range costs to the default
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes the given plaintext password
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: failed to generate hash: %w", err)
	}
	return string(hash), nil
}

// Matches reports whether the plaintext password matches the stored hash.
// The comparison is constant time; the stored hash is never recoverable.
func (h *Hasher) Matches(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}
