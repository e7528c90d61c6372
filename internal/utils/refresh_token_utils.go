package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashRefreshToken digests a raw refresh token with SHA-256 for storage.
// Only the hash ever reaches the database.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash reports whether the raw token matches the stored hash.
func CompareRefreshTokenHash(token string, storedHash string) bool {
	return HashRefreshToken(token) == storedHash
}
