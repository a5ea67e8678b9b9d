package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateSecureToken returns a URL-safe random token built from n random
// bytes. Tokens end up inside object keys, so the alphabet must stay
// filesystem- and URL-clean.
func GenerateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
