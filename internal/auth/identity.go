package auth

// Identity represents a normalized external authentication identity
// returned by an OAuth provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google"
	ProviderUserID string // provider-scoped unique user identifier (sub)
	Email          string // verified email returned by provider
	EmailVerified  bool   // whether provider asserts email ownership
	DisplayName    string // human-readable name claim, may be empty
	PictureURL     string // avatar URL claim, may be empty
}

// UserIdentity is the read-only projection of the signed-in user that the
// auth state store distributes to views. A nil *UserIdentity means
// signed out. Fields come straight from the provider; no local mutation.
type UserIdentity struct {
	DisplayName string
	PhotoURL    string
}
