package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RandomToken returns a URL-safe string carrying size bytes of entropy.
// Shared by session IDs, OAuth state values, and PKCE verifiers, all of
// which need the same opaque unguessable shape.
func RandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("utils: read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
