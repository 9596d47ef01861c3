package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordedCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestSetCookiePinsHostPrefixAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	expires := time.Now().Add(time.Hour)

	SetCookie(w, "sid-1", expires, CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c := recordedCookie(t, w)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "sid-1", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Empty(t, c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly, "HttpOnly must default on")
	assert.WithinDuration(t, expires, c.Expires, time.Second)
}

func TestClearCookieExpiresImmediately(t *testing.T) {
	w := httptest.NewRecorder()

	ClearCookie(w, CookieOptions{Secure: true, SameSite: http.SameSiteLaxMode})

	c := recordedCookie(t, w)
	assert.Equal(t, CookieName, c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Negative(t, c.MaxAge)
}

func TestGenerateIDProducesDistinctOpaqueIDs(t *testing.T) {
	a, err := GenerateID()
	require.NoError(t, err)
	b, err := GenerateID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}
