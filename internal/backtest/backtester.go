package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/signal"
)

// BarProvider defines the interface for fetching historical daily bars.
type BarProvider interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error)
}

// RunConfig describes a single backtest run.
type RunConfig struct {
	Ticker         string
	Start          time.Time
	End            time.Time
	ShortWindow    int
	LongWindow     int
	InitialCapital float64
	Stats          StatsOptions // zero value means defaults
}

// Backtester runs moving-average-crossover backtests against historical
// daily bars.
type Backtester struct {
	provider BarProvider
}

// New creates a Backtester with the given bar provider.
func New(provider BarProvider) *Backtester {
	return &Backtester{provider: provider}
}

// Run fetches history for the configured ticker and evaluates the
// crossover rule over it.
func (b *Backtester) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	bars, err := b.provider.FetchDaily(ctx, cfg.Ticker, cfg.Start, cfg.End)
	if err != nil {
		return nil, core.WrapError(core.ErrCollectorFailed, err)
	}
	if len(bars) == 0 {
		return nil, core.WrapError(core.ErrNoData,
			fmt.Errorf("no bars for %s", cfg.Ticker))
	}

	return b.RunBars(ctx, cfg, bars)
}

// RunBars evaluates the crossover rule over bars the caller already
// holds. Sweeps use this to fetch a ticker's history once and reuse it
// across window grids; each call owns disjoint state and is safe to run
// concurrently with others.
func (b *Backtester) RunBars(ctx context.Context, cfg RunConfig, bars []core.PriceBar) (*Result, error) {
	points, err := signal.Generate(bars, cfg.ShortWindow, cfg.LongWindow)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ledger, trades, err := Simulate(points, cfg.InitialCapital)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := Analyze(ledger, trades, cfg.InitialCapital, cfg.Stats)
	if err != nil {
		return nil, err
	}

	return &Result{
		Ticker:         cfg.Ticker,
		ShortWindow:    cfg.ShortWindow,
		LongWindow:     cfg.LongWindow,
		InitialCapital: cfg.InitialCapital,
		StartDate:      bars[0].Date,
		EndDate:        bars[len(bars)-1].Date,
		Signals:        points,
		Ledger:         ledger,
		Trades:         trades,
		Report:         report,
	}, nil
}
