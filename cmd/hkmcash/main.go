package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hikmagitz/hkmcash-sub000/internal/app"
	"github.com/hikmagitz/hkmcash-sub000/internal/backend"
	"github.com/hikmagitz/hkmcash-sub000/internal/cli"
	"github.com/hikmagitz/hkmcash-sub000/internal/events"
	apphttp "github.com/hikmagitz/hkmcash-sub000/internal/http"
	"github.com/hikmagitz/hkmcash-sub000/internal/identity"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
	"github.com/hikmagitz/hkmcash-sub000/internal/storage"
	"github.com/hikmagitz/hkmcash-sub000/internal/taxonomy"
)

func main() {
	cfg, logger := cli.Bootstrap()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Local taxonomy database; migrations run inside the constructor.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open taxonomy database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	tax := taxonomy.NewStore(repo, logger)
	if err := tax.Load(ctx); err != nil {
		logger.Error("Failed to load taxonomy", applog.FieldError, err)
		os.Exit(1)
	}

	// Remote ledger backend.
	be, err := backend.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize remote backend", applog.FieldError, err)
		os.Exit(1)
	}

	// Optional mutation event feed.
	var publisher app.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to event broker", applog.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
		logger.Info("Event feed enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	session := identity.NewSession(logger)
	mode := session.Probe(ctx, be.Prober, cfg.ProbeTimeout)
	logger.Info("Connectivity resolved", applog.FieldMode, mode.String())

	a := app.New(session, tax, be.Store, be.Profiles, publisher, logger)

	srv := apphttp.NewServer(":"+cfg.Port, a, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", "port", cfg.Port, "backend", cfg.RemoteBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
