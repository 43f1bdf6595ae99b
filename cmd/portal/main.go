package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"civicpulse/portal/internal/cache"
	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/database"
	"civicpulse/portal/internal/handlers"
	"civicpulse/portal/internal/jobs"
	"civicpulse/portal/internal/log"
	"civicpulse/portal/internal/repository"
	"civicpulse/portal/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	if cfg.Postgres.AutoMigrate {
		applied, err := database.Migrate(ctx, dbPool)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		for _, name := range applied {
			logger.Info().Str("migration", name).Msg("migration applied")
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	incidents := repository.NewIncidentRepository(dbPool)
	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		DB:        dbPool,
		Cache:     redisClient,
		Users:     repository.NewUserRepository(dbPool),
		Incidents: incidents,
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(cfg.Jobs, incidents, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduler did not stop in time")
	}

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
