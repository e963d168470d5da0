// Command server runs the club administration API.
//
// @title                       Club Admin API
// @version                     1.0
// @description                 Members, tasks, events, meetings and news for a single club.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/99minutos/club-admin/internal/api"
	"github.com/99minutos/club-admin/internal/api/handler"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/core/service"
	"github.com/99minutos/club-admin/internal/infrastructure/config"
	"github.com/99minutos/club-admin/internal/infrastructure/db"
	"github.com/99minutos/club-admin/internal/infrastructure/db/redis"
	"github.com/99minutos/club-admin/internal/infrastructure/report"
	"github.com/99minutos/club-admin/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	devJWTSecret    = "dev-only-secret"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "club-admin",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handler.Pinger{}

	var rdb *goredis.Client
	if cfg.UsesRedis() {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	}

	backend, err := db.Open(ctx, cfg, rdb, logger.Component("storage"))
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing state backend")
		}
	}()
	checks["storage"] = backend.KV

	store, err := service.NewStore(ctx, backend.KV, logger.Component("store"))
	if err != nil {
		return err
	}

	secret := cfg.JWTSecret
	if secret == "" {
		log.Warn().Msg("JWT_SECRET not set, using development secret")
		secret = devJWTSecret
	}
	auth := service.NewAuthService(store, secret, cfg.TokenTTL, logger.Component("auth"))
	if cfg.Throttle.Enabled {
		auth.WithThrottle(redis.NewLoginThrottle(rdb, cfg.Storage.Namespace, cfg.Throttle.Max, cfg.Throttle.Window))
	}

	generator, err := newReportGenerator(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Dependencies{
		Store:      store,
		Auth:       auth,
		Dashboards: service.NewDashboardService(store, time.Now),
		Reports:    service.NewReportService(store, generator, cfg.Report.Timeout, logger.Component("report")),
		Checks:     checks,
		Log:        logger.Component("http"),
		Now:        time.Now,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", backend.Driver).Msg("starting server")
		if err := router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Dur("timeout", shutdownTimeout).Msg("server shutdown")
	}
	return nil
}

// newReportGenerator prefers Gemini and falls back to the offline renderer
// when no API key is configured.
func newReportGenerator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.ReportGenerator, error) {
	if cfg.Report.GeminiAPIKey == "" {
		log.Info().Msg("GEMINI_API_KEY not set, reports use the local generator")
		return report.NewLocalGenerator(time.Now), nil
	}
	return report.NewGeminiGenerator(ctx, cfg.Report.GeminiAPIKey, cfg.Report.Model, logger.Component("gemini"))
}
