package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/logger"
	"github.com/quantkit/crossbt/internal/report"
)

var (
	sweepFrom    string
	sweepTo      string
	sweepShorts  []int
	sweepLongs   []int
	sweepCapital float64
	sweepWorkers int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [ticker...]",
	Short: "Sweep crossover window combinations",
	Long: `Run the crossover strategy for every (short, long) window pair over
one or more tickers, and rank the results by total return. Pairs where
the short window is not strictly smaller than the long window are
skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "Start date YYYY-MM-DD (required)")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "End date YYYY-MM-DD (required)")
	sweepCmd.Flags().IntSliceVar(&sweepShorts, "short", []int{10, 20, 50}, "Short windows to try")
	sweepCmd.Flags().IntSliceVar(&sweepLongs, "long", []int{50, 100, 200}, "Long windows to try")
	sweepCmd.Flags().Float64Var(&sweepCapital, "capital", 0, "Initial capital (default from config)")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 4, "Concurrent backtest workers")

	sweepCmd.MarkFlagRequired("from")
	sweepCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	start, err := time.Parse("2006-01-02", sweepFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", sweepTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must not precede start date")
	}
	if sweepWorkers < 1 {
		sweepWorkers = 1
	}

	capital := sweepCapital
	if capital == 0 {
		capital = cfg.Backtest.InitialCapital
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	bt := backtest.New(provider)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()

	var (
		mu   sync.Mutex
		rows []report.SweepRow
		wg   sync.WaitGroup
		sem  = make(chan struct{}, sweepWorkers)
	)

	for _, ticker := range args {
		// One fetch per ticker, reused across every window pair.
		bars, err := provider.FetchDaily(ctx, ticker, start, end)
		if err != nil {
			log.Warn("fetching bars failed, skipping ticker",
				zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		if len(bars) == 0 {
			log.Warn("no bars, skipping ticker", zap.String("ticker", ticker))
			continue
		}

		for _, short := range sweepShorts {
			for _, long := range sweepLongs {
				if short <= 0 || short >= long {
					continue
				}

				runCfg := backtest.RunConfig{
					Ticker:         ticker,
					Start:          start,
					End:            end,
					ShortWindow:    short,
					LongWindow:     long,
					InitialCapital: capital,
					Stats: backtest.StatsOptions{
						RiskFreeRate:    cfg.Backtest.RiskFreeRate,
						TradingDaysYear: float64(cfg.Backtest.TradingDaysYear),
					},
				}

				wg.Add(1)
				sem <- struct{}{}
				go func(runCfg backtest.RunConfig, bars []core.PriceBar) {
					defer wg.Done()
					defer func() { <-sem }()

					res, err := bt.RunBars(ctx, runCfg, bars)
					if err != nil {
						log.Warn("backtest failed, skipping",
							zap.String("ticker", runCfg.Ticker),
							zap.Int("short", runCfg.ShortWindow),
							zap.Int("long", runCfg.LongWindow),
							zap.Error(err),
						)
						return
					}

					mu.Lock()
					rows = append(rows, report.SweepRow{
						Ticker:      runCfg.Ticker,
						ShortWindow: runCfg.ShortWindow,
						LongWindow:  runCfg.LongWindow,
						Report:      res.Report,
					})
					mu.Unlock()
				}(runCfg, bars)
			}
		}
	}

	wg.Wait()

	if len(rows) == 0 {
		return core.WrapError(core.ErrNoData, fmt.Errorf("no sweep run succeeded"))
	}

	report.WriteSweep(os.Stdout, rows)
	return nil
}
