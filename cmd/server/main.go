package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/ClickHouse/clickhouse-go"
	"github.com/caarlos0/env/v11"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"salesdash/internal/api"
	"salesdash/internal/config"
	"salesdash/internal/engine"
	"salesdash/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:], env.ToMap(os.Environ()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Handler starts without data; /api answers 503 until the load finishes.
	h := api.NewHandler(nil, logger, api.Settings{
		TopN:          cfg.TopN,
		HistogramBins: cfg.HistogramBins,
	})
	e := api.NewEcho(h, logger, cfg.RateLimit)

	// 2. Load the dataset in the background. A failed load is fatal.
	go func() {
		logger.Info("loading dataset", zap.String("source", sourceName(cfg)))
		t0 := time.Now()

		ds, err := loadDataset(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("dataset load failed", zap.Error(err))
		}
		h.SetData(ds)

		logger.Info("dashboard ready", zap.Int("rows", ds.Len()), zap.Duration("elapsed", time.Since(t0)))
	}()

	// 3. Serve until interrupted.
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func loadDataset(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*engine.Dataset, error) {
	if cfg.SourceDriver == "" {
		return engine.LoadCSV(cfg.DataPath, logger)
	}

	db, err := sql.Open(cfg.SourceDriver, cfg.SourceDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.SourceDriver, err)
	}
	defer db.Close()

	return engine.LoadSQL(ctx, db, cfg.SourceTable, logger)
}

func sourceName(cfg *config.Config) string {
	if cfg.SourceDriver == "" {
		return cfg.DataPath
	}
	return cfg.SourceDriver + ":" + cfg.SourceTable
}
