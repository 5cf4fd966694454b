package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"gymbros/fitness-tracker/internal/config"
	"gymbros/fitness-tracker/internal/jobs"
	"gymbros/fitness-tracker/internal/logging"
	"gymbros/fitness-tracker/internal/repository"
	"gymbros/fitness-tracker/internal/repository/mongo"
	"gymbros/fitness-tracker/internal/repository/sqlstore"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// loadConfig reads the config and sets up logging. Every subcommand starts here.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	hostname, _ := os.Hostname()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Log.File,
		LogToStdout:      cfg.Log.Stdout,
		LogLevel:         cfg.Log.Level,
		LogFormatJSON:    cfg.Log.JSON,
		Environment:      cfg.Log.Environment,
		SentryEnabled:    cfg.Log.SentryDSN != "",
		SentryDSN:        cfg.Log.SentryDSN,
		SentryServerName: hostname,
	})
	return cfg, nil
}

// openStore connects the configured backend.
func openStore(cfg config.DatabaseConfig) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return repository.Store{}, fmt.Errorf("connect mongo: %w", err)
		}
		log.Infof("connected to mongo, database %s", cfg.Name)
		return mongo.NewStore(client, client.Database(cfg.Name)), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := sqlstore.Open(cfg.Driver, cfg.URI, cfg.Debug)
		if err != nil {
			return repository.Store{}, err
		}
		log.Infof("connected to %s", cfg.Driver)
		return sqlstore.NewStore(db), nil
	default:
		return repository.Store{}, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// openRedis returns nil when redis is disabled.
func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	log.Infof("connected to redis %s", cfg.Addr)
	return client, nil
}

// newJobStore keeps job state in redis when available so any instance can
// answer a poll, and in process memory otherwise.
func newJobStore(redisClient *redis.Client, cacheBytes int) jobs.Store {
	if redisClient != nil {
		return jobs.NewRedisStore(redisClient, "gymbros:jobs:")
	}
	return jobs.NewMemoryStore(cacheBytes)
}
