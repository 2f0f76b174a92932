package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"procurement/db"
	"procurement/db/memstore"
	"procurement/db/migrations"
	"procurement/internal/config"
	"procurement/internal/handlers"
	"procurement/internal/identity"
	"procurement/internal/logging"
	"procurement/internal/render"
	"procurement/internal/workflow"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Суммы в ответах числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens := identity.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	h := handlers.NewHandler(
		workflow.NewEngine(store, logger.Named("workflow")),
		identity.NewService(store, tokens, logger.Named("identity")),
		render.NewRenderer(cfg.Render.Workers, cfg.Render.Timeout, logger.Named("render")),
		logger,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      handlers.NewRouter(h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", cfg.Server.Address), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore postgres с миграциями или хранилище в памяти
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (workflow.Store, func(), error) {
	if cfg.Driver == "memory" {
		logger.Warn("using in-memory storage, data is lost on restart")
		return memstore.New(), func() {}, nil
	}

	conn, err := db.Open(ctx, cfg.URL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		return nil, nil, err
	}
	closeConn := func() {
		if err := conn.Close(); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}
	if cfg.Migrate {
		if err := migrations.Run(ctx, conn.DB, logger.Named("migrations")); err != nil {
			closeConn()
			return nil, nil, err
		}
	}
	policy := db.RetryPolicy{MaxRetries: cfg.Retry.MaxRetries, BaseDelay: cfg.Retry.BaseDelay}
	return db.NewStorage(conn, policy), closeConn, nil
}
