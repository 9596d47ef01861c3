package session

import (
	"fmt"

	"google-signin-starter/internal/utils"
)

// GenerateID returns a new session ID: 32 bytes (256 bits) of entropy,
// URL-safe so it survives cookie and redis round-trips unescaped.
func GenerateID() (string, error) {
	id, err := utils.RandomToken(32)
	if err != nil {
		return "", fmt.Errorf("session: generate id: %w", err)
	}
	return id, nil
}
