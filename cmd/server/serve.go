package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymbros/fitness-tracker/internal/api"
	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/metrics"
	"gymbros/fitness-tracker/internal/planner"
	"gymbros/fitness-tracker/internal/seed"
	"gymbros/fitness-tracker/internal/service"
	"gymbros/fitness-tracker/internal/storage"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func serve(ctx context.Context) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Append(err, store.Close(closeCtx))
	}()

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	err = store.Migrate(migrateCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	redisClient, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var loginLimiter api.RequestRateLimiter
	if redisClient != nil {
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		loginLimiter = redis_rate.NewLimiter(redisClient)
	} else {
		log.Warn("redis disabled: login is not rate limited and job state is per instance")
	}

	var fileStorage storage.FileStorage
	if cfg.S3.Enabled {
		fileStorage, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
	} else {
		log.Warn("s3 disabled: wallpaper endpoints will answer 503")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("gymbros", "server", reg)

	tracker := jobs.NewTracker(newJobStore(redisClient, cfg.Jobs.CacheBytes), cfg.Jobs.CompletedTTL)
	queue := jobs.NewQueue(tracker, cfg.Jobs.Workers, cfg.Jobs.QueueSize, func(name string, status jobs.Status, took time.Duration) {
		metricsManager.CounterJobs.WithLabelValues(name, string(status)).Inc()
		if name == service.SetupTaskName {
			metricsManager.HistSeedDuration.Observe(took.Seconds())
		}
	})
	queue.Start(context.Background())
	defer queue.Stop()

	services := api.Services{
		Auth:      service.NewAuthService(store.Users, store.Stats, cfg.JWT.Secret, cfg.JWT.Expiration),
		Setup:     service.NewSetupService(store.Users, seed.NewGenerator(store.Workouts, store.Stats), tracker, queue),
		Workouts:  service.NewWorkoutService(store.Workouts, store.Stats, store.Activities),
		Stats:     service.NewStatsService(store.Stats, store.Workouts),
		Rehab:     service.NewRehabService(store.Users, store.Rehab, store.Activities),
		Habits:    service.NewHabitService(store.Habits),
		Friends:   service.NewFriendService(store.Users, store.Friendships, store.Privacy),
		Feed:      service.NewFeedService(store),
		Privacy:   service.NewPrivacyService(store.Privacy),
		Plans:     service.NewGymPlanService(store.GymPlans, store.Activities, planner.New(cfg.Planner.Endpoint, cfg.Planner.APIKey, cfg.Planner.Timeout)),
		Wallpaper: service.NewWallpaperService(store.Users, fileStorage, cfg.S3.URLExpiry),
	}

	if cfg.Log.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.SetupRoutes(router, services, api.RouterConfig{
		CookieName:       cfg.Server.CookieName,
		CookieSecure:     cfg.Server.CookieSecure,
		LoginRateLimiter: loginLimiter,
		LoginPerMinute:   cfg.RateLimit.LoginPerMinute,
		Metrics:          metricsManager,
		Gatherer:         reg,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
