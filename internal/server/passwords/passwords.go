// Package passwords provides one-way password hashing and verification.
// The hash is self-salted: hashing the same plaintext twice yields two
// different values, and verification does not need the salt stored
// separately.
package passwords

import "golang.org/x/crypto/bcrypt"

// Hasher hashes plaintext passwords and verifies candidates against
// previously produced hashes.
type Hasher interface {
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches hash. It never returns an
	// error: a malformed or truncated hash simply does not match.
	Verify(plaintext, hash string) bool
}

// BcryptHasher implements Hasher using bcrypt with the default cost.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
