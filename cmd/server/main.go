// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/company_insights/internal/config"
	dbconfig "github.com/festy23/company_insights/internal/database/config"
	"github.com/festy23/company_insights/internal/database/database"
	"github.com/festy23/company_insights/internal/database/migrate"
	"github.com/festy23/company_insights/internal/dispatch"
	"github.com/festy23/company_insights/internal/reconcile"
	"github.com/festy23/company_insights/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		log.Printf("server exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger, err := logger.NewWithConfig(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, dbconfig.LoadConfigFromEnv(), appLogger)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			appLogger.Errorw("Database close failed", "error", err)
		}
	}()

	if cfg.MigrateOnStart {
		migrationsPath := migrate.GetMigrationsPath()
		if err := migrate.Up(db, migrationsPath); err != nil {
			return err
		}
		appLogger.Infow("Migrations applied", "path", migrationsPath)
	}

	gin.SetMode(cfg.GinMode)

	pool := dispatch.NewPool(cfg.Pipeline.Workers, cfg.Pipeline.QueueSize, appLogger)
	app := newApp(cfg, db, pool, newEnricher(cfg.Enrichment, appLogger), appLogger)
	sweeper := reconcile.NewSweeper(app.requests, cfg.Pipeline.SweepInterval, cfg.Pipeline.StaleAfter, appLogger)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddress(),
		Handler:           app.engine,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pool.Run(gctx)
	})
	g.Go(func() error {
		return sweeper.Run(gctx)
	})
	g.Go(func() error {
		appLogger.Infow("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, cfg.Server, appLogger)
	})

	return g.Wait()
}

// shutdown stops accepting connections and waits for in-flight requests.
// The dispatcher drains separately once the run group's context is done.
func shutdown(srv *http.Server, cfg config.ServerConfig, log *zap.SugaredLogger) error {
	log.Infow("Shutting down HTTP server", "timeout", cfg.ShutdownTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
