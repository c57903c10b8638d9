package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/api"
	"github.com/quantkit/crossbt/internal/api/handler"
	"github.com/quantkit/crossbt/internal/api/job"
	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/logger"
	"github.com/quantkit/crossbt/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the backtest API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	store, err := newArchive(cfg)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}

	registry := metrics.NewRegistry()
	jobs := job.NewStore(cfg.Server.MaxJobs, time.Duration(cfg.Server.JobTTLHours)*time.Hour)

	backtests := handler.NewBacktest(
		jobs,
		backtest.New(provider),
		cfg.Backtest,
		store,
		registry,
		log,
	)

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		MetricsPath: metricsPath,
	}, backtests, registry, log)

	log.Info("starting crossbt server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down crossbt server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
