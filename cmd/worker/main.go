package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/medora-health/emr-admin-api/config"
	"github.com/medora-health/emr-admin-api/internal/repository/postgres"
	"github.com/medora-health/emr-admin-api/pkg/logger"
	"github.com/medora-health/emr-admin-api/pkg/messaging/redis"
	"github.com/medora-health/emr-admin-api/pkg/metrics"
	"github.com/medora-health/emr-admin-api/pkg/worker"
)

// workerEnv holds settings specific to the worker process.
type workerEnv struct {
	HealthAddr string `envconfig:"WORKER_HEALTH_ADDR" default:":8081"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var env workerEnv
	if err := envconfig.Process("", &env); err != nil {
		log.Fatal().Err(err).Msg("failed to load environment")
	}

	l := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor, err := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		cfg.Outbox.ToProcessorConfig(),
		l,
		metrics.NewMetrics("emr_admin", "outbox"),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create outbox processor")
	}

	startHealthServer(env.HealthAddr, l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		l.Info("shutting down...")
		cancel()
	}()

	processor.Start(ctx)
}

func startHealthServer(addr string, l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			l.Fatal(err, "health server failed")
		}
	}()
}
