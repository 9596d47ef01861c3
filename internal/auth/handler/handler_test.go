package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/authstate"
	"google-signin-starter/internal/session"
	"google-signin-starter/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	subscriber func(*auth.UserIdentity)
	signOutErr error
}

func (f *fakeAuthService) SubscribeToAuthChanges(cb func(*auth.UserIdentity)) func() {
	f.subscriber = cb
	return func() { f.subscriber = nil }
}

func (f *fakeAuthService) SignInInteractive(ctx context.Context, providerName string) error {
	return nil
}

func (f *fakeAuthService) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	if f.subscriber != nil {
		f.subscriber(nil)
	}
	return nil
}

func (f *fakeAuthService) notify(identity *auth.UserIdentity) {
	if f.subscriber != nil {
		f.subscriber(identity)
	}
}

type fakeFlows struct {
	sess *session.Session
	err  error
}

func (f *fakeFlows) CompleteSignIn(
	ctx context.Context,
	state string,
	code string,
	errParam string,
) (*session.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

func newTestRouter(t *testing.T, svc *fakeAuthService, flows FlowCompleter) (*gin.Engine, *authstate.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := authstate.New(svc)
	store.Initialize()

	router := gin.New()
	router.SetHTMLTemplate(web.Templates())
	NewHandler(store, flows).RegisterRoutes(router)

	return router, store
}

func TestIndexRendersNothingWhileResolving(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAuthService{}, &fakeFlows{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	// Neither affordance may flash before the first notification.
	assert.NotContains(t, w.Body.String(), "Log in with Google")
	assert.NotContains(t, w.Body.String(), "Log out")
}

func TestIndexRendersLoginAffordanceWhenSignedOut(t *testing.T) {
	svc := &fakeAuthService{}
	router, _ := newTestRouter(t, svc, &fakeFlows{})
	svc.notify(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log in with Google")
	assert.NotContains(t, w.Body.String(), "Log out")
}

func TestIndexRendersAvatarMenuWhenSignedIn(t *testing.T) {
	svc := &fakeAuthService{}
	router, _ := newTestRouter(t, svc, &fakeFlows{})
	svc.notify(&auth.UserIdentity{DisplayName: "Ada Lovelace"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Log in with Google")
	assert.Contains(t, body, "Log out")
	// No photo claim, so the initials fallback renders.
	assert.Contains(t, body, ">AL<")
}

func TestIndexPrefersPhotoOverInitials(t *testing.T) {
	svc := &fakeAuthService{}
	router, _ := newTestRouter(t, svc, &fakeFlows{})
	svc.notify(&auth.UserIdentity{
		DisplayName: "Ada Lovelace",
		PhotoURL:    "https://example.com/ada.png",
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	body := w.Body.String()
	assert.Contains(t, body, `src="https://example.com/ada.png"`)
	assert.NotContains(t, body, ">AL<")
}

func TestLoginKicksOffFlowAndRedirects(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAuthService{}, &fakeFlows{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login/google", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLoginRejectsUnknownProvider(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAuthService{}, &fakeFlows{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login/github", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackRejectsUnknownProvider(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAuthService{}, &fakeFlows{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/oauth/callback/github?state=abc&code=authcode", nil,
	))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackRequiresState(t *testing.T) {
	router, _ := newTestRouter(t, &fakeAuthService{}, &fakeFlows{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/oauth/callback/google", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackIssuesSessionCookieAndRedirects(t *testing.T) {
	flows := &fakeFlows{
		sess: &session.Session{
			SessionID: "sid-1",
			UserID:    "user-1",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	router, _ := newTestRouter(t, &fakeAuthService{}, flows)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/oauth/callback/google?state=abc&code=authcode", nil,
	))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var found bool
	for _, c := range cookies {
		if c.Name == session.CookieName {
			found = true
			assert.Equal(t, "sid-1", c.Value)
			assert.True(t, c.Secure)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found, "session cookie not issued")
}

func TestCallbackCancelledRedirectsHome(t *testing.T) {
	flows := &fakeFlows{err: auth.ErrFlowCancelled}
	router, _ := newTestRouter(t, &fakeAuthService{}, flows)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(
		http.MethodGet, "/oauth/callback/google?state=abc&error=access_denied", nil,
	))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	svc := &fakeAuthService{}
	router, store := newTestRouter(t, svc, &fakeFlows{})
	svc.notify(&auth.UserIdentity{DisplayName: "Ada Lovelace"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Nil(t, store.Session().Identity)

	setCookie := strings.Join(w.Header().Values("Set-Cookie"), ";")
	assert.Contains(t, setCookie, session.CookieName+"=")
	assert.Contains(t, setCookie, "Max-Age=0")
}
