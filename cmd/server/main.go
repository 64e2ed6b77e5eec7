package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/auth"
	"github.com/anonto42/lumina/backend/internal/cache"
	"github.com/anonto42/lumina/backend/internal/handlers"
	"github.com/anonto42/lumina/backend/internal/notifications"
	"github.com/anonto42/lumina/backend/internal/observability"
	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/internal/router"
	"github.com/anonto42/lumina/backend/pkg/config"
	"github.com/anonto42/lumina/backend/pkg/firebase"
	"github.com/anonto42/lumina/backend/pkg/logger"
	"github.com/anonto42/lumina/backend/validators"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty, cfg.OTELServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  cfg.OTELServiceName,
		Environment:  cfg.Env,
		Enabled:      cfg.OTELEnabled,
		Exporter:     cfg.OTELExporter,
		OTLPEndpoint: cfg.OTELEndpoint,
		SamplerRatio: cfg.OTELSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	// Initialize database connections
	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	if err := repositories.AutoMigrate(db.Postgres); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase")
	}

	store := repositories.NewStore(db.Postgres)
	notificationRepo, err := notificationRepository(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize notification store")
	}

	deps := router.Dependencies{
		Store:         store,
		Notifications: notificationRepo,
		Pages:         cache.New(db.Redis, cfg.FeedCacheTTL, cfg.ProfileCacheTTL),
		Notifier:      notifications.NewNotifier(notificationRepo, store.Users, db.Redis),
		JWT:           auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTTTL),
		Health:        healthChecks(db),
	}
	if firebaseApp != nil {
		deps.Firebase = auth.NewFirebaseProvider(firebaseApp.AuthClient)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, deps)

	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.MetricsPort).Msg("metrics server starting")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("metrics server shutdown error")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown error")
	}
}

func notificationRepository(ctx context.Context, cfg *config.Config, db *config.DB) (repositories.NotificationRepository, error) {
	if cfg.NotificationStore != config.NotificationStoreMongo {
		return repositories.NewPostgresNotificationRepository(db.Postgres), nil
	}
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	if err := repositories.EnsureNotificationIndexes(ctx, mongoDB); err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.MongoDatabase).Msg("notifications stored in MongoDB")
	return repositories.NewMongoNotificationRepository(mongoDB), nil
}

func healthChecks(db *config.DB) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": handlers.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if db.Redis != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
			return db.Redis.Ping(ctx).Err()
		})
	}
	if db.Mongo != nil {
		checks["mongo"] = handlers.PingFunc(func(ctx context.Context) error {
			return db.Mongo.Ping(ctx, nil)
		})
	}
	return checks
}
