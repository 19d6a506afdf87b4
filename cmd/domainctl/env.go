package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"domainflow/internal/platform/config"
	"domainflow/internal/platform/kafka"
	"domainflow/internal/platform/logger"
	"domainflow/internal/platform/postgres"
	platformredis "domainflow/internal/platform/redis"
	"domainflow/internal/tenant"
	"domainflow/internal/tenant/notifier"
)

// env holds the resources one CLI invocation runs against. It is built from
// the same environment variables as the server.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *sql.DB
	rdb    *platformredis.Client
	kafka  *kafka.Producer
	module *tenant.Module
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.Logging), nil
}

// openDB connects to Postgres. The CLI needs persistent state, so a missing
// DATABASE_URL is an error.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.Postgres.DSN == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return postgres.Open(ctx, cfg.Postgres)
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: log}

	if e.db, err = openDB(ctx, cfg); err != nil {
		return nil, err
	}
	if e.rdb, err = platformredis.New(ctx, cfg.Redis); err != nil {
		e.close()
		return nil, err
	}
	if e.kafka, err = kafka.NewProducer(cfg.Kafka); err != nil {
		e.close()
		return nil, err
	}

	deps := tenant.Deps{Config: cfg, Logger: log, DB: e.db}
	if e.rdb != nil {
		deps.Redis = e.rdb.Client
	}
	if e.kafka != nil {
		deps.Trigger = notifier.NewKafkaTrigger(e.kafka, cfg.Kafka.EmailTopic, log)
	}
	if e.module, err = tenant.New(deps); err != nil {
		e.close()
		return nil, err
	}
	return e, nil
}

func (e *env) close() {
	if e.module != nil {
		e.module.Close()
	}
	if e.kafka != nil {
		e.kafka.Close()
	}
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
}
