package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dat-archive/internal/application/auth"
	fileapp "github.com/dat-archive/internal/application/file"
	"github.com/dat-archive/internal/application/notification"
	"github.com/dat-archive/internal/application/session"
	"github.com/dat-archive/internal/application/stats"
	"github.com/dat-archive/internal/application/summary"
	"github.com/dat-archive/internal/config"
	"github.com/dat-archive/internal/infrastructure/dynamo"
	jwtinfra "github.com/dat-archive/internal/infrastructure/jwt"
	"github.com/dat-archive/internal/infrastructure/memory"
	"github.com/dat-archive/internal/infrastructure/postgres"
	s3infra "github.com/dat-archive/internal/infrastructure/s3"
	"github.com/dat-archive/internal/infrastructure/smtp"
	"github.com/dat-archive/internal/infrastructure/sns"
	"github.com/dat-archive/internal/logger"
	"github.com/dat-archive/internal/metrics"
	transporthttp "github.com/dat-archive/internal/transport/http"
	"github.com/dat-archive/internal/worker"
	"github.com/dat-archive/internal/worker/sweep"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	if envErr != nil {
		log.Info("no .env file found, reading from environment")
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	devSecret := cfg.JWTSecret == ""
	if err := cfg.Validate(); err != nil {
		return err
	}
	if devSecret {
		log.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	// Freight data always lives in Postgres.
	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		return err
	}
	pool, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	sched := worker.NewScheduler(log)

	store, err := credentialStore(ctx, cfg, pool, sched, log)
	if err != nil {
		return err
	}

	tokens, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	var objects fileapp.ObjectStore
	if cfg.S3BucketName != "" {
		client, err := s3infra.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		objects = s3infra.NewStore(client, cfg.S3BucketName)
	} else {
		log.Info("S3_BUCKET_NAME not set, raw uploads will not be archived")
	}

	var publisher notification.Publisher
	if cfg.SNSTopicARN != "" {
		client, err := sns.NewClient(ctx, cfg)
		if err != nil {
			return err
		}
		publisher = sns.NewPublisher(client, cfg.SNSTopicARN)
	}

	summaryJob := summary.NewJob(postgres.NewSummaryRepo(pool), log, recorder)
	sched.Add(worker.Task{
		Name:     "route-summaries",
		Interval: cfg.SummaryInterval,
		Run:      summaryJob.Tick,
	})

	deps := &transporthttp.Deps{
		Auth: auth.NewService(auth.ServiceDeps{
			Store:         store,
			Notifier:      smtp.NewNotifier(cfg, log),
			Recorder:      recorder,
			AllowedDomain: cfg.AllowedDomain,
			CodeTTL:       cfg.CodeTTL,
		}),
		Sessions: session.NewService(tokens, recorder),
		Files: fileapp.NewService(
			postgres.NewFileRepo(pool),
			postgres.NewRateRepo(pool),
			objects,
			notification.NewService(publisher),
			recorder,
		),
		Stats:     stats.NewService(postgres.NewStatsRepo(pool)),
		Summaries: summaryJob,
		Recorder:  recorder,
		Logger:    log,
	}

	app := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(cfg, deps),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ops := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.OpsPort),
		Handler:     transporthttp.NewOpsRouter(reg),
		ReadTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{app, ops} {
		go func(srv *http.Server) {
			log.Info("server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.AppEnv))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sched.Start(ctx)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		stop()
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{app, ops} {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("forced shutdown", slog.String("addr", srv.Addr), slog.Any("err", err))
		}
	}
	wg.Wait()
	log.Info("server stopped")
	return serveErr
}

// credentialStore builds the configured backend. Backends without native
// expiry get a sweep task on sched.
func credentialStore(ctx context.Context, cfg *config.Config, pool postgres.DB, sched *worker.Scheduler, log *slog.Logger) (auth.CredentialStore, error) {
	switch cfg.CredentialStore {
	case config.StoreDynamo:
		client, err := dynamo.NewClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		dynamo.Bootstrap(ctx, client, cfg.DynamoTables)
		return dynamo.NewCredentialRepo(client, cfg.DynamoTables.Credentials), nil
	case config.StorePostgres:
		repo := postgres.NewCredentialRepo(pool)
		addSweep(sched, repo, cfg.SweepInterval, log)
		return repo, nil
	default:
		log.Warn("using in-memory credential store, codes are lost on restart")
		store := memory.NewCredentialStore()
		addSweep(sched, store, cfg.SweepInterval, log)
		return store, nil
	}
}

func addSweep(sched *worker.Scheduler, store sweep.Sweeper, interval time.Duration, log *slog.Logger) {
	sched.Add(worker.Task{
		Name:     "credential-sweep",
		Interval: interval,
		Run:      sweep.NewJob(store, log).Run,
	})
}
