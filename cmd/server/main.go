package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recordshop-be/internal/catalog"
	"recordshop-be/internal/cms"
	"recordshop-be/internal/config"
	"recordshop-be/internal/logger"
	"recordshop-be/internal/middleware"
	"recordshop-be/internal/tracing"
	"recordshop-be/internal/web"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// startServerFunc is swapped out in tests.
var startServerFunc = func(addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, cfg.TraceEndpoint, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.L().Warn("trace flush failed", zap.Error(err))
		}
	}()

	handler := newServer(ctx, cfg)

	logger.L().Info("storefront listening",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.String("cms_url", cfg.CMSURL),
	)
	return startServerFunc(":"+cfg.AppPort, handler)
}

// newServer wires the CMS gateway, page layer and router. Background work
// stops with ctx.
func newServer(ctx context.Context, cfg *config.Config) http.Handler {
	health := cms.NewHealth()
	client := cms.NewClient(cms.Options{
		BaseURL: cfg.CMSURL,
		Token:   cfg.CMSToken,
		Timeout: cfg.CMSTimeout,
		Health:  health,
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	return web.NewHandler(web.Dependencies{
		Catalog:        catalog.NewService(client, cfg.FacetCacheTTL),
		Health:         health,
		Metrics:        client.Metrics(),
		RateLimiter:    limiter,
		AllowedOrigins: cfg.AllowedOrigins,
	}).Router()
}
