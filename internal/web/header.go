package web

import (
	"strings"
	"unicode/utf8"

	"google-signin-starter/internal/authstate"
)

// HeaderView is the render model for the page header: a login affordance
// when signed out, an avatar with a logout menu when signed in. It is a
// pure projection of the auth session and has no state of its own.
type HeaderView struct {
	SignedIn    bool
	DisplayName string
	PhotoURL    string
	Initials    string
}

func NewHeaderView(sess authstate.Session) HeaderView {
	if sess.Identity == nil {
		return HeaderView{}
	}
	return HeaderView{
		SignedIn:    true,
		DisplayName: sess.Identity.DisplayName,
		PhotoURL:    sess.Identity.PhotoURL,
		Initials:    Initials(sess.Identity.DisplayName),
	}
}

// Initials derives the avatar fallback from a display name: the first
// character of each space-separated token, concatenated in order with the
// original casing kept. An empty name yields "U".
func Initials(displayName string) string {
	if displayName == "" {
		return "U"
	}

	var b strings.Builder
	for _, token := range strings.Split(displayName, " ") {
		if token == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(token)
		b.WriteRune(r)
	}
	return b.String()
}
