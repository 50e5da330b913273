package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"tabungan/internal/cache"
	"tabungan/internal/cli"
	apphttp "tabungan/internal/http"
	applog "tabungan/internal/log"
	"tabungan/internal/middleware/ratelimit"
	"tabungan/internal/middleware/security"
	"tabungan/internal/services"
)

const (
	shutdownTimeout  = 30 * time.Second
	cacheSweepPeriod = time.Minute
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig()

	store := cli.InitBackend(context.Background(), logger, cfg)

	svc := services.NewDashboardService(store.Reader, services.DashboardOptions{
		PreferredGroupName: cfg.PreferredGroupName,
		QueryTimeout:       cfg.QueryTimeout,
		CacheTTL:           cfg.DashboardCacheTTL,
		Logger:             logger.WithComponent(applog.ComponentDashboard).Logger,
	})

	caches := cache.NewManager(logger.WithComponent(applog.ComponentCache).Logger)
	svc.RegisterCache(caches)
	if cfg.DashboardCacheTTL > 0 {
		caches.StartCleanup(cacheSweepPeriod)
	}

	clientIP := security.NewClientIPResolver()
	for _, cidr := range cfg.TrustedProxies {
		if err := clientIP.AddTrustedProxy(cidr); err != nil {
			logger.Error("Invalid trusted proxy", applog.FieldError, err)
			os.Exit(1)
		}
	}

	limiterCfg := ratelimit.DefaultConfig()
	limiterCfg.RequestsPerMinute = cfg.RateLimitPerMinute

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		Logger:      logger,
		RateLimiter: ratelimit.NewLimiter(limiterCfg),
		ClientIP:    clientIP,
	})

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		caches.Stop()
		if store.Cleanup != nil {
			if err := store.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting tabungan server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"preferred_group", cfg.PreferredGroupName,
		"cache_ttl", cfg.DashboardCacheTTL.String(),
		"rate_limit_per_minute", cfg.RateLimitPerMinute,
		"log_level", cli.LevelOf(logger).String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
