package idp

import (
	"crypto/sha256"
	"encoding/base64"

	"google-signin-starter/internal/auth/provider"
	"google-signin-starter/internal/utils"
)

// pendingFlow tracks one in-progress interactive sign-in. It is keyed by
// the OAuth state value, so the callback request can be paired with the
// goroutine blocked inside SignInInteractive.
type pendingFlow struct {
	provider provider.OAuthProvider
	verifier string
	done     chan error // buffered; receives exactly one completion
}

func newPendingFlow(p provider.OAuthProvider) (state string, fl *pendingFlow, err error) {
	state, err = utils.RandomToken(32)
	if err != nil {
		return "", nil, err
	}

	verifier, err := utils.RandomToken(32)
	if err != nil {
		return "", nil, err
	}

	fl = &pendingFlow{
		provider: p,
		verifier: verifier,
		done:     make(chan error, 1),
	}
	return state, fl, nil
}

// challenge derives the S256 PKCE challenge for the flow's verifier.
func (f *pendingFlow) challenge() string {
	sum := sha256.Sum256([]byte(f.verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
