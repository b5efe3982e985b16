package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateShareCode returns a 40-char hex invitation code carrying 160 bits
// of entropy.
func GenerateShareCode() (string, error) {
	code := make([]byte, 20)
	if _, err := rand.Read(code); err != nil {
		return "", err
	}
	return hex.EncodeToString(code), nil
}
