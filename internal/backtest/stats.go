package backtest

import (
	"fmt"
	"math"

	"github.com/quantkit/crossbt/internal/core"
)

// StatsOptions control annualization and the Sharpe risk-free rate.
type StatsOptions struct {
	RiskFreeRate    float64
	TradingDaysYear float64
}

// DefaultStatsOptions returns the standard 2% risk-free rate and 252
// trading days per year.
func DefaultStatsOptions() StatsOptions {
	return StatsOptions{RiskFreeRate: 0.02, TradingDaysYear: 252}
}

// Analyze turns a ledger and trade list into the summary report. Every
// ratio-like metric handles division by zero deterministically:
// volatility, Sharpe and drawdown all report 0 on a degenerate return
// series instead of raising. That is policy, not an error.
func Analyze(ledger []LedgerRow, trades []Trade, initialCapital float64, opts StatsOptions) (Report, error) {
	if opts.TradingDaysYear <= 0 {
		opts = DefaultStatsOptions()
	}

	years := float64(len(ledger)) / opts.TradingDaysYear
	if years <= 0 {
		return Report{}, core.WrapError(core.ErrZeroDuration,
			fmt.Errorf("ledger has %d rows", len(ledger)))
	}

	finalEquity := ledger[len(ledger)-1].Equity
	totalReturn := (finalEquity - initialCapital) / initialCapital
	annualized := math.Pow(1+totalReturn, 1/years) - 1

	// Strategy returns with the undefined first row dropped.
	daily := make([]float64, 0, len(ledger)-1)
	for _, row := range ledger {
		if !math.IsNaN(row.StrategyReturn) {
			daily = append(daily, row.StrategyReturn)
		}
	}

	volatility := 0.0
	if len(daily) >= 2 {
		volatility = stdev(daily) * math.Sqrt(opts.TradingDaysYear)
	}

	sharpe := 0.0
	if volatility > 0 {
		sharpe = (annualized - opts.RiskFreeRate) / volatility
	}

	firstPrice := ledger[0].Price
	lastPrice := ledger[len(ledger)-1].Price
	buyHold := (lastPrice - firstPrice) / firstPrice
	buyHoldAnnualized := math.Pow(1+buyHold, 1/years) - 1

	pairs, wins := pairTrades(trades)
	winRate := 0.0
	if pairs > 0 {
		winRate = float64(wins) / float64(pairs)
	}

	return Report{
		TotalReturn:       totalReturn,
		AnnualizedReturn:  annualized,
		Volatility:        volatility,
		SharpeRatio:       sharpe,
		MaxDrawdown:       maxDrawdown(daily),
		BuyHoldReturn:     buyHold,
		BuyHoldAnnualized: buyHoldAnnualized,
		TotalTrades:       pairs,
		WinRate:           winRate,
		FinalValue:        finalEquity,
	}, nil
}

// stdev is the sample standard deviation.
func stdev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// maxDrawdown is the largest peak-to-trough decline of the cumulative
// return curve, as a non-positive ratio. 0 for an empty series.
func maxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	cumulative := 1.0
	peak := math.Inf(-1)
	worst := 0.0

	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > peak {
			peak = cumulative
		}
		dd := (cumulative - peak) / peak
		if dd < worst {
			worst = dd
		}
	}

	return worst
}

// pairTrades walks the trade list pairing each buy with the sell that
// follows it. Any adjacency that is not buy-then-sell is skipped, not an
// error; a trailing open buy is never counted.
func pairTrades(trades []Trade) (pairs, wins int) {
	for i := 0; i+1 < len(trades); i += 2 {
		if trades[i].Side != core.SideBuy || trades[i+1].Side != core.SideSell {
			continue
		}
		pairs++
		if trades[i+1].Notional-trades[i].Notional > 0 {
			wins++
		}
	}
	return pairs, wins
}
