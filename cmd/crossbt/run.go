package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/collector/csvfile"
	"github.com/quantkit/crossbt/internal/llm"
	"github.com/quantkit/crossbt/internal/llm/factory"
	"github.com/quantkit/crossbt/internal/logger"
	"github.com/quantkit/crossbt/internal/report"
	"github.com/quantkit/crossbt/internal/storage/archive"
)

var (
	runFrom     string
	runTo       string
	runShort    int
	runLong     int
	runCapital  float64
	runCSV      string
	runChartOut string
	runArchive  bool
	runExplain  bool
)

var runCmd = &cobra.Command{
	Use:   "run [ticker]",
	Short: "Run a single crossover backtest",
	Long:  "Run the moving average crossover strategy for one ticker and print the performance report",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFrom, "from", "", "Start date YYYY-MM-DD (required)")
	runCmd.Flags().StringVar(&runTo, "to", "", "End date YYYY-MM-DD (required)")
	runCmd.Flags().IntVar(&runShort, "short", 0, "Short window in days (default from config)")
	runCmd.Flags().IntVar(&runLong, "long", 0, "Long window in days (default from config)")
	runCmd.Flags().Float64Var(&runCapital, "capital", 0, "Initial capital (default from config)")
	runCmd.Flags().StringVar(&runCSV, "csv", "", "Load bars from this CSV file instead of Yahoo")
	runCmd.Flags().StringVar(&runChartOut, "chart", "", "Write signal and equity charts with this path prefix")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "Archive the result")
	runCmd.Flags().BoolVar(&runExplain, "explain", false, "Add an LLM narration of the report")

	runCmd.MarkFlagRequired("from")
	runCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	start, err := time.Parse("2006-01-02", runFrom)
	if err != nil {
		return fmt.Errorf("invalid from date format (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", runTo)
	if err != nil {
		return fmt.Errorf("invalid to date format (expected YYYY-MM-DD): %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must not precede start date")
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	if runCSV != "" {
		provider = csvfile.New(runCSV)
	}

	runCfg := backtest.RunConfig{
		Ticker:         ticker,
		Start:          start,
		End:            end,
		ShortWindow:    runShort,
		LongWindow:     runLong,
		InitialCapital: runCapital,
		Stats: backtest.StatsOptions{
			RiskFreeRate:    cfg.Backtest.RiskFreeRate,
			TradingDaysYear: float64(cfg.Backtest.TradingDaysYear),
		},
	}
	if runCfg.ShortWindow == 0 {
		runCfg.ShortWindow = cfg.Backtest.ShortWindow
	}
	if runCfg.LongWindow == 0 {
		runCfg.LongWindow = cfg.Backtest.LongWindow
	}
	if runCfg.InitialCapital == 0 {
		runCfg.InitialCapital = cfg.Backtest.InitialCapital
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	res, err := backtest.New(provider).Run(ctx, runCfg)
	if err != nil {
		return err
	}

	report.Write(os.Stdout, res)

	if runChartOut != "" {
		if err := writeCharts(res, runChartOut); err != nil {
			return err
		}
	}

	if runArchive {
		store, err := newArchive(cfg)
		if err != nil {
			return err
		}
		key, err := archive.Save(ctx, store, res)
		if err != nil {
			return err
		}
		log.Info("result archived", zap.String("key", key))
	}

	// Narration is best effort; the report above already printed.
	if runExplain {
		if llmProvider, err := factory.New(cfg.LLM); err != nil {
			log.Warn("narration unavailable", zap.Error(err))
		} else if narration, err := llm.NewNarrator(llmProvider).Narrate(ctx, res); err != nil {
			log.Warn("narration failed", zap.Error(err))
		} else {
			fmt.Println()
			fmt.Println(narration)
		}
	}

	return nil
}

func writeCharts(res *backtest.Result, prefix string) error {
	signals, err := report.SignalChart(res)
	if err != nil {
		return fmt.Errorf("rendering signal chart: %w", err)
	}
	equity, err := report.EquityChart(res)
	if err != nil {
		return fmt.Errorf("rendering equity chart: %w", err)
	}

	if err := os.WriteFile(prefix+"_signals.png", signals, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(prefix+"_equity.png", equity, 0o644); err != nil {
		return err
	}

	fmt.Printf("\nCharts written: %s_signals.png, %s_equity.png\n", prefix, prefix)
	return nil
}
