package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/chrimage/atlas-divisions/adapters/events"
	"github.com/chrimage/atlas-divisions/adapters/notify"
	"github.com/chrimage/atlas-divisions/adapters/store"
	"github.com/chrimage/atlas-divisions/adapters/tokenizer"
	"github.com/chrimage/atlas-divisions/config"
	"github.com/chrimage/atlas-divisions/ports"
	"github.com/chrimage/atlas-divisions/service"
	transport "github.com/chrimage/atlas-divisions/transport/http"
)

// main wires the adapters into the services and keeps the server lifecycle
// small. Business logic lives in the service package.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to parse redis URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	var submissionStore ports.SubmissionStore
	switch cfg.StoreBackend {
	case "sqlite":
		sqliteStore, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			logger.Error("failed to open sqlite store", "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		submissionStore = sqliteStore
	case "redis":
		submissionStore = store.NewRedisStore(redisClient)
	default:
		submissionStore = store.NewMemoryStore()
	}
	logger.Info("submission store ready", "backend", cfg.StoreBackend)

	var publisher ports.EventPublisher
	if cfg.EventsEnabled {
		wmPublisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: redisClient},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			logger.Error("failed to create event publisher", "error", err)
			os.Exit(1)
		}
		publisher = events.NewWatermillPublisher(wmPublisher)
	}

	var notifier ports.Notifier
	if cfg.Mail.Enabled {
		notifier = notify.NewMailgunNotifier(cfg.Mail.APIKey, cfg.Mail.Domain, cfg.Mail.From, cfg.Mail.AdminEmail)
	} else {
		logger.Info("email notifications disabled")
	}

	verifier := tokenizer.NewAccessVerifier(cfg.Access.TeamName, logger)
	if cfg.Access.TeamName == "" {
		logger.Warn("no trust domain configured; access tokens will not be signature-verified")
	}

	contact := service.NewContactService(
		submissionStore,
		notifier,
		publisher,
		cfg.ServiceTypes,
		cfg.Statuses(),
		logger,
	)

	policy := service.AccessPolicy{
		EnableAdminAuth:    cfg.Access.EnableAdminAuth,
		EnableTokenAccess:  cfg.Access.EnableCloudflareAccess,
		AllowedAdminEmails: cfg.Access.AllowedAdminEmails,
	}

	guard := service.NewCSRFGuard(cfg.CSRFTTL, cfg.CSRFSweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The guard exposes Sweep; the runtime schedules it here.
	go guard.Run(ctx)

	handlers := transport.NewHandlers(contact, policy, guard, logger)
	router := transport.NewRouter(handlers, verifier, logger)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	logger.Info("listening", "addr", cfg.Addr)

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
