// Command reconcile recomputes the denormalized like, comment, follower and
// post counters from the underlying rows. It is safe to run while the API
// is serving.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/anonto42/lumina/backend/internal/repositories"
	"github.com/anonto42/lumina/backend/pkg/config"
	"github.com/anonto42/lumina/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogPretty, "lumina-reconcile")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.ReconcileTimeout)
	defer cancel()

	db, err := config.InitDB(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize databases")
	}
	defer db.CloseDB()

	report, err := repositories.NewStore(db.Postgres).Reconcile.ReconcileCounters(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile failed")
		db.CloseDB()
		os.Exit(1)
	}
	log.Info().
		Int64("users", report.Users).
		Int64("posts", report.Posts).
		Int64("videos", report.Videos).
		Int64("comments", report.Comments).
		Int64("hashtags", report.Hashtags).
		Msg("counters reconciled")
}
