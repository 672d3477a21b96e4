package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the fixed work factor applied to every new password digest.
// Raising it later does not invalidate old digests: bcrypt output is
// self-describing, so verification always uses the cost encoded in the
// stored digest.
const bcryptCost = 12

// HashPassword produces a salted, adaptive-cost bcrypt digest of the given
// plaintext password.
//
// Returns an error if the plaintext exceeds bcrypt's 72-byte input limit.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	return string(digest), nil
}

// CheckPassword verifies the plaintext password against the stored bcrypt
// digest. It never fails on a malformed digest; any mismatch or decoding
// problem reports false.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
