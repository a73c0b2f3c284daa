package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"sitelog/internal/config"
	apphttp "sitelog/internal/http"
	applog "sitelog/internal/log"
	"sitelog/internal/services"
	ports "sitelog/internal/sheets"
	gsheet "sitelog/internal/sheets/google"
	mem "sitelog/internal/sheets/memory"
	"sitelog/internal/storage"
	"sitelog/internal/store"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: "sitelog"})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		backend ports.Store
		cleanup func() error
	)
	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		backend = cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite backend", "error", err, "db_path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		backend = repo
		cleanup = repo.Close
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	default:
		backend = mem.New()
		logger.Info("Initialized memory backend")
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}()
	}

	configStore := store.NewConfigStore(backend)
	ledgerStore := store.NewLedgerStore(backend)

	srv := apphttp.NewServer(":"+cfg.Port,
		services.NewRecorder(configStore, ledgerStore),
		services.NewEditor(configStore, ledgerStore),
		services.NewCascade(configStore, ledgerStore),
		services.NewDashboard(ledgerStore),
		services.NewBackup(configStore, ledgerStore),
		configStore,
	)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting sitelog server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
