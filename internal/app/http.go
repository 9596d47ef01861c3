package app

import (
	"context"
	"net/http"

	"google-signin-starter/internal/auth/handler"
	"google-signin-starter/internal/auth/idp"
	"google-signin-starter/internal/auth/provider"
	"google-signin-starter/internal/auth/provider/google"
	"google-signin-starter/internal/auth/resolver"
	"google-signin-starter/internal/authstate"
	"google-signin-starter/internal/config"
	"google-signin-starter/internal/middleware"
	"google-signin-starter/internal/session"
	"google-signin-starter/internal/web"

	"github.com/gin-gonic/gin"
)

// The idp service is what the store consumes; keep that contract checked
// where the two are wired together.
var _ authstate.Provider = (*idp.Service)(nil)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	identityResolver := resolver.NewDBResolver(infra.DB)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(googleProvider)

	idpService := idp.New(registry, sessionStore, identityResolver)

	// One store per app instance, injected wherever a view needs it.
	// Subscribe first, then Start, so the restore notification is the
	// store's first event.
	store := authstate.New(idpService)
	store.Initialize()
	idpService.Start(ctx)

	authHandler := handler.NewHandler(store, idpService)
	authMiddleware := middleware.NewAuthMiddleware(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(web.Templates())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/api")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	api.GET("/me", func(c *gin.Context) {
		userID, _ := middleware.UserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		store.Teardown()
		return infra.DB.Close()
	}, nil
}
