package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString returns n lowercase hex characters from crypto/rand.
func GenerateRandomString(n int) (string, error) {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", ErrorHandler(err, "failed to read random bytes")
	}
	return hex.EncodeToString(buf)[:n], nil
}
