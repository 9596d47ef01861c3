package resolver

import (
	"context"

	"google-signin-starter/internal/auth"
)

// Profile is the locally stored projection of a resolved user.
// DisplayName and PhotoURL mirror whatever the provider last reported.
type Profile struct {
	UserID      string
	DisplayName string
	PhotoURL    string
}

// Resolver determines which internal user an external identity belongs to.
// It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (*Profile, error)
}
