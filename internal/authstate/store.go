// Package authstate bridges the identity provider's push notifications
// into a pull-based session readable by any view. One store instance is
// constructed at application entry and handed to everything that needs
// it; there is no package-level singleton.
package authstate

import (
	"context"
	"errors"
	"sync"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/logger"
)

// GoogleProvider is the only provider this starter wires up.
const GoogleProvider = "google"

// Provider is the slice of the identity layer the store consumes.
type Provider interface {
	SubscribeToAuthChanges(cb func(*auth.UserIdentity)) (unsubscribe func())
	SignInInteractive(ctx context.Context, providerName string) error
	SignOut(ctx context.Context) error
}

// Session is the local projection of the signed-in state. Identity is nil
// when signed out. Resolving is true from store creation until the first
// provider notification, then permanently false.
type Session struct {
	Identity  *auth.UserIdentity
	Resolving bool
}

// Outcome classifies how a login or logout attempt ended.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

// ActionResult carries the outcome of Login or Logout. The store already
// logged any failure; callers may inspect it but are not required to.
type ActionResult struct {
	Outcome Outcome
	Err     error
}

type Store struct {
	svc Provider

	mu          sync.RWMutex
	session     Session
	unsubscribe func()
	initialized bool
}

func New(svc Provider) *Store {
	return &Store{
		svc:     svc,
		session: Session{Resolving: true},
	}
}

// Initialize registers the store's single subscription with the identity
// provider. Calling it twice is a wiring bug and panics.
func (s *Store) Initialize() {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		panic("authstate: store initialized twice")
	}
	s.initialized = true
	s.mu.Unlock()

	// Subscribe outside the lock: the provider may deliver the current
	// state synchronously.
	unsubscribe := s.svc.SubscribeToAuthChanges(s.apply)

	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
}

// Teardown releases the subscription. After it returns, no notification
// mutates the session. Safe to call more than once.
func (s *Store) Teardown() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Session returns the current snapshot. Reading from a store that was
// never initialized is a wiring bug and fails loudly instead of handing
// back a default.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		panic("authstate: session read on an uninitialized store")
	}
	return s.session
}

// Login runs the interactive Google sign-in. The session only changes via
// the provider's notification, never here. Failures are logged exactly
// once and classified in the result; nothing is surfaced to views.
func (s *Store) Login(ctx context.Context) ActionResult {
	err := s.svc.SignInInteractive(ctx, GoogleProvider)
	switch {
	case err == nil:
		return ActionResult{Outcome: OutcomeSuccess}
	case errors.Is(err, auth.ErrFlowCancelled):
		logger.Warn("google sign-in cancelled", map[string]any{
			"error": err.Error(),
		})
		return ActionResult{Outcome: OutcomeCancelled, Err: err}
	default:
		logger.Error("google sign-in failed", map[string]any{
			"error": err.Error(),
		})
		return ActionResult{Outcome: OutcomeFailed, Err: err}
	}
}

// Logout signs out at the provider. On failure the session stays as-is
// until the provider says otherwise.
func (s *Store) Logout(ctx context.Context) ActionResult {
	if err := s.svc.SignOut(ctx); err != nil {
		logger.Error("sign-out failed", map[string]any{
			"error": err.Error(),
		})
		return ActionResult{Outcome: OutcomeFailed, Err: err}
	}
	return ActionResult{Outcome: OutcomeSuccess}
}

// apply is the subscription callback. The identity is replaced wholesale
// and the first notification ends the resolving window for good.
func (s *Store) apply(identity *auth.UserIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{Identity: identity, Resolving: false}
}
