package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevNation593/beauty-saas-backend-sub001/internal/api"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/config"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/cqrs"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/domain"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/events"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/distlock"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/pkg/logger"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/repository/postgres"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/campaigns"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/dashboards"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/reports"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/service/tenants"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/storage"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/tenant"
	"github.com/DevNation593/beauty-saas-backend-sub001/internal/worker"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))
	logger.SetRedactPII(cfg.Log.RedactPII)

	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		logger.Error("database connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis is an accelerator here, not a hard dependency: tenant
			// resolution falls back to the database and the scheduler lock
			// falls back to a Postgres advisory lock.
			logger.Warn("redis unreachable, continuing degraded", "addr", cfg.Redis.Addr, "error", err.Error())
		}
		cancel()
	}

	var payloadStore storage.Store
	switch cfg.Storage.Type {
	case "s3":
		payloadStore, err = storage.NewS3Store(context.Background(), storage.S3Options{
			Region:    cfg.Storage.S3Region,
			Bucket:    cfg.Storage.S3Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
		})
	default:
		payloadStore, err = storage.NewLocalStore(cfg.Storage.LocalPath)
	}
	if err != nil {
		logger.Error("payload store init failed", "type", cfg.Storage.Type, "error", err.Error())
		os.Exit(1)
	}

	pub := events.NewRedisPublisher(rdb).WithStream(cfg.Events.Stream)

	tenantRepo := postgres.NewTenantRepo(db)
	campaignRepo := postgres.NewCampaignRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	dashboardRepo := postgres.NewDashboardRepo(db)
	reportData := postgres.NewReportDataSource(db)

	cache := tenant.NewRedisCache(rdb, time.Duration(cfg.Tenancy.CacheTTLSeconds)*time.Second)

	clock := domain.SystemClock
	tenantHandlers := tenants.NewHandlers(tenantRepo, clock, pub).WithResolutionCache(cache)
	campaignHandlers := campaigns.NewHandlers(campaignRepo, clock, pub)
	reportHandlers := reports.NewHandlers(reportRepo, reportData, payloadStore, clock, pub)
	dashboardHandlers := dashboards.NewHandlers(dashboardRepo, clock)

	bus := cqrs.NewBus()
	tenantHandlers.Register(bus)
	campaignHandlers.Register(bus)
	reportHandlers.Register(bus)
	dashboardHandlers.Register(bus)

	resolver := tenant.NewResolver(tenantRepo, cfg.Tenancy.BaseDomain,
		tenant.WithHeader(cfg.Tenancy.Header),
		tenant.WithCache(cache),
	)

	if cfg.Scheduler.Enabled {
		lock := distlock.New(rdb, db, "domain-sweeps", time.Duration(cfg.Scheduler.LockTTLSeconds)*time.Second)
		sched := worker.NewScheduler(lock, time.Duration(cfg.Scheduler.PollIntervalSeconds)*time.Second)
		sched.AddSweep("tenants.expire_trials", tenantHandlers.ExpireOverdueTrials)
		sched.AddSweep("campaigns.launch_scheduled", campaignHandlers.LaunchDueScheduled)
		sched.AddSweep("reports.run_due", reportHandlers.RunDue)
		if err := sched.Start(); err != nil {
			logger.Error("scheduler start failed", "error", err.Error())
			os.Exit(1)
		}
		defer sched.Stop()
	}

	router := api.SetupRoutes(
		api.NewHandlers(bus),
		api.NewHealthChecker(db, rdb),
		resolver,
		cfg.Server.AllowedOrigins,
	)
	server := api.NewServer(router)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("server stopped", "error", err.Error())
		os.Exit(1)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}
