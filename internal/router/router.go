package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/actions"
	"github.com/anonto42/lumina/backend/internal/auth"
	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/handlers"
	"github.com/anonto42/lumina/backend/internal/middleware"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/internal/services"
)

// Dependencies are the long-lived clients the routes are built from.
type Dependencies struct {
	Store         *repositories.Store
	Notifications repositories.NotificationRepository
	Pages         *cache.PageCache
	Notifier      *notifications.Notifier
	JWT           *auth.JWTProvider
	// Firebase is nil when Firebase credentials are not configured.
	Firebase *auth.FirebaseProvider
	Health   map[string]handlers.Pinger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Use(eMiddleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(middleware.Metrics())
	log.Info().Msg("global middleware configured")
}

// SetupRoutes builds the services and registers every route.
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	var firebase auth.IdentityProvider
	providers := auth.Chain{deps.JWT}
	if deps.Firebase != nil {
		firebase = deps.Firebase
		providers = append(providers, deps.Firebase)
	}

	engagement := services.NewEngagementService(deps.Store, deps.Pages, deps.Notifier)
	graph := services.NewGraphService(deps.Store, deps.Pages, deps.Notifier)
	feed := services.NewFeedService(deps.Store, deps.Pages)
	content := services.NewContentService(deps.Store, deps.Pages)
	profiles := services.NewProfileService(deps.Store, deps.Pages)
	authSvc := services.NewAuthService(deps.Store, deps.JWT, firebase)
	notificationSvc := services.NewNotificationService(deps.Notifications, deps.Store.Users)
	acts := actions.New(engagement, graph)

	e.GET("/health", handlers.NewHealthHandler(deps.Health).HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(authSvc).RegisterAuthRoutes(authGroup)

	userHandler := handlers.NewUserHandler(profiles)

	// Profiles are readable anonymously.
	userHandler.RegisterPublicRoutes(e.Group("/api/v1"), middleware.Authenticate(providers, authSvc, false))

	// --- Protected routes ---
	api := e.Group("/api/v1", middleware.Authenticate(providers, authSvc, true))
	userHandler.RegisterProfileRoutes(api)
	handlers.NewLikeHandler(acts, engagement).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(acts, engagement).RegisterCommentRoutes(api)
	handlers.NewFollowHandler(acts, graph).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(feed).RegisterFeedRoutes(api)
	handlers.NewPostHandler(content).RegisterPostRoutes(api)
	handlers.NewNotificationHandler(notificationSvc, deps.Notifier).RegisterNotificationRoutes(api)

	log.Info().Int("routes", len(e.Routes())).Msg("routes configured")
}
