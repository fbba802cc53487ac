package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateRefreshToken returns a 256-bit random value, base64-encoded.
// Refresh tokens are opaque: they are stored server-side against the user
// and compared by exact match, never parsed.
func GenerateRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
