package web

import (
	"testing"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/authstate"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		expected    string
	}{
		{
			name:        "two tokens",
			displayName: "Ada Lovelace",
			expected:    "AL",
		},
		{
			name:        "single lowercase token keeps its case",
			displayName: "madonna",
			expected:    "m",
		},
		{
			name:        "empty name falls back to U",
			displayName: "",
			expected:    "U",
		},
		{
			name:        "three tokens",
			displayName: "Jean Luc Picard",
			expected:    "JLP",
		},
		{
			name:        "double space contributes nothing",
			displayName: "Ada  Lovelace",
			expected:    "AL",
		},
		{
			name:        "mixed case preserved as-is",
			displayName: "ada Lovelace",
			expected:    "aL",
		},
		{
			name:        "spaces only yields nothing",
			displayName: "   ",
			expected:    "",
		},
		{
			name:        "multi-byte first characters",
			displayName: "Álvaro Ñúñez",
			expected:    "ÁÑ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Initials(tt.displayName))
		})
	}
}

func TestNewHeaderView_SignedOut(t *testing.T) {
	view := NewHeaderView(authstate.Session{})

	assert.False(t, view.SignedIn)
	assert.Empty(t, view.DisplayName)
	assert.Empty(t, view.PhotoURL)
	assert.Empty(t, view.Initials)
}

func TestNewHeaderView_SignedIn(t *testing.T) {
	view := NewHeaderView(authstate.Session{
		Identity: &auth.UserIdentity{
			DisplayName: "Ada Lovelace",
			PhotoURL:    "https://lh3.googleusercontent.com/a/photo",
		},
	})

	assert.True(t, view.SignedIn)
	assert.Equal(t, "Ada Lovelace", view.DisplayName)
	assert.Equal(t, "https://lh3.googleusercontent.com/a/photo", view.PhotoURL)
	assert.Equal(t, "AL", view.Initials)
}

func TestNewHeaderView_SignedInWithoutName(t *testing.T) {
	view := NewHeaderView(authstate.Session{
		Identity: &auth.UserIdentity{},
	})

	assert.True(t, view.SignedIn)
	assert.Equal(t, "U", view.Initials)
}
