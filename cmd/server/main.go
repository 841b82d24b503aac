package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifepath/internal/access"
	"lifepath/internal/audit"
	categorycache "lifepath/internal/category/cache"
	categorymetrics "lifepath/internal/category/metrics"
	categoryservice "lifepath/internal/category/service"
	categorystore "lifepath/internal/category/store"
	personmetrics "lifepath/internal/person/metrics"
	personservice "lifepath/internal/person/service"
	personstore "lifepath/internal/person/store"
	"lifepath/internal/platform/config"
	"lifepath/internal/platform/httpserver"
	"lifepath/internal/platform/logger"
	"lifepath/internal/platform/postgres"
	platformredis "lifepath/internal/platform/redis"
	"lifepath/internal/storage"
	httptransport "lifepath/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to open database", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.Migrate(db); err != nil {
		log.Error("failed to run migrations", "error", err.Error())
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var catCache categorycache.Cache
	if redisClient != nil {
		catCache = categorycache.NewRedis(redisClient.Client, cfg.CategoryCacheTTL)
		log.Info("category cache backed by redis", "ttl", cfg.CategoryCacheTTL.String())
	} else {
		catCache = categorycache.NewMemory(cfg.CategoryCacheTTL)
		log.Info("category cache in-process", "ttl", cfg.CategoryCacheTTL.String())
	}

	trail := audit.NewRecorder(audit.NewPostgres(db), log)

	persons := personservice.New(
		personstore.NewPostgres(db),
		log,
		personservice.WithMetrics(personmetrics.New()),
		personservice.WithAudit(trail),
	)
	categories := categoryservice.New(
		categorystore.NewPostgres(db),
		catCache,
		log,
		categoryservice.WithMetrics(categorymetrics.New()),
	)

	sessions := access.NewSessions(cfg.JWTSigningKey, cfg.SessionTTL)
	if cfg.AccessCode == "" {
		log.Warn("no access code configured; registry API is open")
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:     log,
		Sessions:   sessions,
		AccessCode: cfg.AccessCode,
		Persons:    persons,
		Categories: categories,
		Health: func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Health(ctx)
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting lifepath registry", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}
