package handler

import (
	"context"
	"errors"
	"net/http"

	"google-signin-starter/internal/auth"
	"google-signin-starter/internal/authstate"
	"google-signin-starter/internal/logger"
	"google-signin-starter/internal/session"
	"google-signin-starter/internal/web"

	"github.com/gin-gonic/gin"
)

// FlowCompleter finishes a pending interactive sign-in flow. Implemented
// by the idp service.
type FlowCompleter interface {
	CompleteSignIn(
		ctx context.Context,
		state string,
		code string,
		errParam string,
	) (*session.Session, error)
}

type Handler struct {
	store *authstate.Store
	flows FlowCompleter
}

func NewHandler(store *authstate.Store, flows FlowCompleter) *Handler {
	return &Handler{
		store: store,
		flows: flows,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.POST("/auth/login/:provider", h.login)
	r.GET("/oauth/callback/:provider", h.callback)
	r.POST("/auth/logout", h.Logout)
}

// index renders the root view. While the auth state is still resolving it
// renders the loading shell: flashing a signed-out header before the
// first notification is a bug, not a cosmetic choice.
func (h *Handler) index(c *gin.Context) {
	sess := h.store.Session()

	if sess.Resolving {
		c.HTML(http.StatusOK, "loading.html", nil)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Header": web.NewHeaderView(sess),
	})
}

// login kicks off the interactive sign-in and returns immediately. The
// result only becomes authoritative via the auth-change notification;
// failures are logged by the store and never shown here.
func (h *Handler) login(c *gin.Context) {
	// The store's sign-in is Google-only; the route stays parameterized
	// so adding a provider is a registry entry plus a case here.
	if c.Param("provider") != authstate.GoogleProvider {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	// Deliberately not the request context: the flow outlives this
	// request and carries no timeout of its own.
	go func() {
		_ = h.store.Login(context.Background())
	}()

	c.Redirect(http.StatusSeeOther, "/")
}

// callback finishes the OAuth flow. It blocks on the code exchange so it
// can issue the session cookie before sending the user back to the app.
func (h *Handler) callback(c *gin.Context) {
	if c.Param("provider") != authstate.GoogleProvider {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "unknown oauth provider",
		})
		return
	}

	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing state",
		})
		return
	}

	sess, err := h.flows.CompleteSignIn(
		c.Request.Context(),
		state,
		c.Query("code"),
		c.Query("error"),
	)
	if err != nil {
		if errors.Is(err, auth.ErrFlowCancelled) {
			// User backed out at the provider. Start over from the app.
			c.Redirect(http.StatusFound, "/")
			return
		}
		// Already logged where the flow completion was awaited.
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "authentication failed",
		})
		return
	}

	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("sign-in completed", map[string]any{
		"user_id": sess.UserID,
	})

	c.Redirect(http.StatusFound, "/")
}

// Logout signs out and clears the cookie. Idempotent: signing out while
// signed out is a no-op that still lands on the signed-out page.
func (h *Handler) Logout(c *gin.Context) {
	_ = h.store.Logout(c.Request.Context())

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusSeeOther, "/")
}
