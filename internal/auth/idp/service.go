// Package idp is the identity-provider client the auth state store
// consumes. It exposes exactly three operations — a subscription feed of
// auth-state changes, an interactive sign-in, and a sign-out — and
// delegates OAuth mechanics to the provider layer and persistence to the
// session store.
package idp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/auth/provider"
	"google-signin-starter/internal/auth/resolver"
	"google-signin-starter/internal/logger"
	"google-signin-starter/internal/session"
)

const defaultSessionTTL = 24 * time.Hour

// Subscriber receives auth-state change notifications. A nil identity
// means signed out. Callbacks are invoked serially, never concurrently.
type Subscriber func(*auth.UserIdentity)

type Service struct {
	providers *provider.Registry
	sessions  session.Store
	resolver  resolver.Resolver

	// openURL launches the sign-in "popup"; swapped out in tests.
	openURL func(url string) error

	sessionTTL time.Duration

	mu      sync.Mutex
	subs    []*subscription
	nextID  int
	flows   map[string]*pendingFlow
	started bool
	current *auth.UserIdentity

	// dispatchMu serializes subscriber callbacks across notifications.
	dispatchMu sync.Mutex
}

type subscription struct {
	id int
	cb Subscriber
}

func New(
	registry *provider.Registry,
	sessions session.Store,
	identityResolver resolver.Resolver,
) *Service {
	return &Service{
		providers:  registry,
		sessions:   sessions,
		resolver:   identityResolver,
		openURL:    openBrowser,
		sessionTTL: defaultSessionTTL,
		flows:      make(map[string]*pendingFlow),
	}
}

// Start restores any persisted session and emits the first auth-state
// notification. A missing or expired session still notifies, with a nil
// identity: subscribers use that first event to end their resolving state.
func (s *Service) Start(ctx context.Context) {
	var identity *auth.UserIdentity

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		logger.Warn("session restore failed", map[string]any{
			"error": err.Error(),
		})
	}

	if sess != nil && time.Now().Before(sess.ExpiresAt) {
		identity = &auth.UserIdentity{
			DisplayName: sess.DisplayName,
			PhotoURL:    sess.PhotoURL,
		}
	}

	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	s.notify(identity)
}

// SubscribeToAuthChanges registers cb for every auth-state change and
// returns its disposer. If the first resolution already happened, cb
// immediately receives the current state.
//
// The parameter is the literal func type, not Subscriber: this method is
// what satisfies the store's contract.
func (s *Service) SubscribeToAuthChanges(cb func(*auth.UserIdentity)) (unsubscribe func()) {
	// Holding dispatchMu across registration and the initial delivery
	// keeps the snapshot consistent with in-flight notifications: a
	// notify that copied the subscriber list before this append delivers
	// either entirely before or entirely after this block. Safe because
	// notify never holds mu while waiting on dispatchMu.
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	s.nextID++
	sub := &subscription{id: s.nextID, cb: cb}
	s.subs = append(s.subs, sub)
	started := s.started
	current := s.current
	s.mu.Unlock()

	if started {
		cb(current)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, candidate := range s.subs {
			if candidate.id == sub.id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// SignInInteractive runs the full interactive sign-in against the named
// provider: it opens the authorization URL in the user's browser and
// blocks until the local callback completes or cancels the flow. On
// success the session is already persisted and subscribers notified by
// the time this returns.
func (s *Service) SignInInteractive(ctx context.Context, providerName string) error {
	p, err := s.providers.Get(providerName)
	if err != nil {
		return err
	}

	state, fl, err := newPendingFlow(p)
	if err != nil {
		return fmt.Errorf("idp: create sign-in flow: %w", err)
	}

	s.mu.Lock()
	s.flows[state] = fl
	s.mu.Unlock()
	defer s.dropFlow(state)

	authURL := p.AuthCodeURL(state, fl.challenge())

	if err := s.openURL(authURL); err != nil {
		// Not fatal: the user can still open the URL by hand.
		logger.Warn("could not open browser for sign-in", map[string]any{
			"error": err.Error(),
			"url":   authURL,
		})
	}

	logger.Info("waiting for sign-in callback", map[string]any{
		"provider": providerName,
	})

	select {
	case err := <-fl.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CompleteSignIn is invoked by the HTTP callback route. It pairs the
// request with its pending flow via the state value, finishes the code
// exchange, persists the session, and notifies subscribers. The returned
// session lets the caller issue a cookie.
func (s *Service) CompleteSignIn(
	ctx context.Context,
	state string,
	code string,
	errParam string,
) (*session.Session, error) {

	fl := s.takeFlow(state)
	if fl == nil {
		return nil, errors.New("idp: unknown or expired sign-in state")
	}

	finish := func(err error) { fl.done <- err }

	if errParam != "" {
		err := fmt.Errorf("%w: %s", auth.ErrFlowCancelled, errParam)
		finish(err)
		return nil, err
	}

	if code == "" {
		err := errors.New("idp: callback missing authorization code")
		finish(err)
		return nil, err
	}

	identity, err := fl.provider.ExchangeCode(ctx, code, fl.verifier)
	if err != nil {
		finish(err)
		return nil, err
	}

	profile, err := s.resolver.Resolve(ctx, identity)
	if err != nil {
		err = fmt.Errorf("idp: resolve identity: %w", err)
		finish(err)
		return nil, err
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		finish(err)
		return nil, err
	}

	now := time.Now()
	sess := session.Session{
		SessionID:   sessionID,
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		err = fmt.Errorf("idp: persist session: %w", err)
		finish(err)
		return nil, err
	}

	if err := s.sessions.SetCurrent(ctx, sess.SessionID, sess.ExpiresAt); err != nil {
		// Sign-in still succeeded; only restore-after-restart is lost.
		logger.Warn("could not persist current-session pointer", map[string]any{
			"error": err.Error(),
		})
	}

	s.notify(&auth.UserIdentity{
		DisplayName: profile.DisplayName,
		PhotoURL:    profile.PhotoURL,
	})

	finish(nil)
	return &sess, nil
}

// SignOut deletes the persisted session and notifies subscribers with a
// nil identity.
func (s *Service) SignOut(ctx context.Context) error {
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return fmt.Errorf("idp: load current session: %w", err)
	}

	if sess != nil {
		if err := s.sessions.Delete(ctx, sess.SessionID); err != nil {
			return fmt.Errorf("idp: delete session: %w", err)
		}
	}

	if err := s.sessions.ClearCurrent(ctx); err != nil {
		return fmt.Errorf("idp: clear current session: %w", err)
	}

	s.notify(nil)
	return nil
}

func (s *Service) takeFlow(state string) *pendingFlow {
	s.mu.Lock()
	defer s.mu.Unlock()
	fl, ok := s.flows[state]
	if !ok {
		return nil
	}
	delete(s.flows, state)
	return fl
}

func (s *Service) dropFlow(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, state)
}

// notify replaces the current identity and delivers it to every
// subscriber, serially and in subscription order.
func (s *Service) notify(identity *auth.UserIdentity) {
	s.mu.Lock()
	s.current = identity
	subs := make([]*subscription, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()
	for _, sub := range subs {
		sub.cb(identity)
	}
}
