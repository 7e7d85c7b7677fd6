// board-service serves the job board.
//
// Job postings are read from the Airtable Jobs table, normalized and kept as
// an in-memory snapshot that is refreshed on a fixed interval. The snapshot
// is exposed as JSON over HTTP and as the jobboard.v1.JobBoard gRPC service.
//
// Redis (REDIS_URL) shares the raw records between instances and announces
// refreshes on EVENT_JOBS_REFRESHED. Postgres (DATABASE_URL) keeps a mirror
// used when both Airtable and the cache are unavailable. Both are optional.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jobmate/board-service/internal/airtable"
	"jobmate/board-service/internal/catalog"
	"jobmate/board-service/internal/config"
	"jobmate/board-service/internal/db"
	"jobmate/board-service/internal/grpcserver"
	"jobmate/board-service/internal/httpapi"
	"jobmate/board-service/internal/mirror"
	"jobmate/board-service/internal/scheduler"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	setupLogging(cfg)

	site, err := config.LoadSite(cfg.SiteConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("site config error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Airtable ────────────────────────────────────────────────────────────
	source := airtable.NewClient(cfg.AirtableToken, cfg.AirtableBaseID, cfg.AirtableTable)
	if err := source.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("airtable unreachable at startup, relying on fallbacks")
	}

	opts := []catalog.Option{}

	// ── Redis ───────────────────────────────────────────────────────────────
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rdb.Close()
		log.Info().Msg("redis connected")
		opts = append(opts, catalog.WithCache(catalog.NewCache(rdb, cfg.Revalidate)))
	}

	// ── PostgreSQL ──────────────────────────────────────────────────────────
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres")
		}
		defer pool.Close()

		m := mirror.NewPostgres(pool)
		if err := m.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema")
		}
		log.Info().Msg("postgres connected")
		opts = append(opts, catalog.WithMirror(m))
	}

	cat := catalog.New(source, cfg.Revalidate, opts...)

	// ── Scheduler ───────────────────────────────────────────────────────────
	sched := scheduler.New(cat, cfg.Revalidate)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

	// ── HTTP server ─────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      httpapi.NewHandler(cat, site).Router(cfg.CORSOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// ── gRPC server ─────────────────────────────────────────────────────────
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Msg("grpc listen")
	}
	grpcSrv := grpcserver.New(cat)
	go func() {
		log.Info().Str("addr", lis.Addr().String()).Msg("grpc listening")
		if err := grpcSrv.Serve(lis); err != nil {
			log.Fatal().Err(err).Msg("grpc server error")
		}
	}()

	// ── Graceful shutdown ───────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	grpcSrv.GracefulStop()
	log.Info().Msg("stopped")
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(os.Stdout)
	if cfg.Environment == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	log.Logger = logger.With().Timestamp().Str("service", "board-service").Logger()
}
