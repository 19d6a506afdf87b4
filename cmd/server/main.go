package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	jwttoken "domainflow/internal/jwt_token"
	"domainflow/internal/platform/config"
	"domainflow/internal/platform/httpserver"
	"domainflow/internal/platform/kafka"
	"domainflow/internal/platform/logger"
	"domainflow/internal/platform/metrics"
	"domainflow/internal/platform/postgres"
	platformredis "domainflow/internal/platform/redis"
	"domainflow/internal/tenant"
	"domainflow/internal/tenant/notifier"
	"domainflow/internal/tenant/service"
)

// resumeBatch caps how many in-flight verifications are rescheduled at boot.
const resumeBatch = 1000

func main() {
	if err := run(); err != nil {
		slog.Error("domainflow exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging)

	var db *sql.DB
	if cfg.Postgres.DSN != "" {
		db, err = postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer db.Close()
		if cfg.Postgres.AutoMigrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
		}
	} else {
		log.Warn("DATABASE_URL not set, using in-memory tenant store")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var cmdable goredis.Cmdable
	if rdb != nil {
		defer rdb.Close()
		cmdable = rdb.Client
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return err
	}
	var trigger service.EmailDomainTrigger
	if producer != nil {
		defer producer.Close()
		trigger = notifier.NewKafkaTrigger(producer, cfg.Kafka.EmailTopic, log)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	module, err := tenant.New(tenant.Deps{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Redis:    cmdable,
		Trigger:  trigger,
		Registry: reg,
	})
	if err != nil {
		return err
	}
	defer module.Close()

	resumed, err := module.Service.ResumePending(ctx, resumeBatch)
	if err != nil {
		log.WarnContext(ctx, "failed to resume pending verifications", "error", err)
	} else if resumed > 0 {
		log.InfoContext(ctx, "resumed pending verifications", "count", resumed)
	}

	jwt := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	router := newRouter(routerDeps{
		logger:     log,
		module:     module,
		validator:  jwttoken.NewJWTServiceAdapter(jwt),
		adminToken: cfg.Auth.AdminToken,
		httpm:      metrics.New(reg),
		gatherer:   reg,
		checks:     healthChecks(db, rdb, producer),
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, cfg.Server.ShutdownTimeout, log)
	})
	g.Go(func() error {
		return module.Worker.Run(gctx)
	})

	log.InfoContext(ctx, "domainflow started", "addr", cfg.Server.Addr, "environment", cfg.Environment)
	return g.Wait()
}

// healthChecks lists the dependencies /healthz checks. Unconfigured ones are skipped.
func healthChecks(db *sql.DB, rdb *platformredis.Client, producer *kafka.Producer) map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if rdb != nil {
		checks["redis"] = rdb.Health
	}
	if producer != nil {
		checks["kafka"] = producer.Health
	}
	return checks
}
