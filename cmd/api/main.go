package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/database/postgres"
	"github.com/sysantonio/api-boukii-sub001/infrastructure/repository"
	"github.com/sysantonio/api-boukii-sub001/internal/api"
	"github.com/sysantonio/api-boukii-sub001/internal/cache"
	"github.com/sysantonio/api-boukii-sub001/internal/config"
	"github.com/sysantonio/api-boukii-sub001/internal/scheduler"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/analyzing"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/authenticating"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level: %s, using 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	aggregateRepo := repository.NewAggregateRepository(pgConn, cfg.Analytics.QueryTimeout)
	seasonRepo := repository.NewSeasonRepository(pgConn)

	store := cache.NewMemoryStore()
	store.StartJanitor(cfg.Analytics.JanitorInterval)
	defer store.Stop()

	orchestrator := cache.NewOrchestrator(store).WithLeaseTTL(cfg.Analytics.ComputeLeaseTTL)
	resolver := analyzing.NewDateRangeResolver(seasonRepo, store, cfg.Analytics.SeasonCacheTTL)

	analyticsService := analyzing.NewService(cfg, aggregateRepo, resolver, orchestrator)
	authenticator := authenticating.NewService(cfg)

	warmupService := scheduler.NewDashboardWarmupService(analyticsService, cfg)
	if err := warmupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start dashboard warmup job")
	}

	server, err := api.New(cfg, analyticsService, authenticator)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger sets the log format and anchors the working directory so
// the .env discovery behaves the same regardless of the launch directory.
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("error connecting to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("error pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
