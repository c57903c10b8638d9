package backtest

import (
	"time"

	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/signal"
)

// LedgerRow is one time step of the simulated portfolio, the primary
// "what happened" artifact of a run. Equity is always Cash plus the
// mark-to-market value of held shares.
type LedgerRow struct {
	Date   time.Time
	Price  float64
	Shares int64
	Cash   float64
	Equity float64
	// DailyReturn is the price return, StrategyReturn the equity-curve
	// return. Both are NaN on the first row: there is no prior value,
	// and statistics must drop that row rather than treat it as zero.
	DailyReturn    float64
	StrategyReturn float64
}

// Trade is one executed order. Trades alternate strictly
// buy,sell,buy,sell starting with a buy.
type Trade struct {
	Date     time.Time `json:"date"`
	Side     core.Side `json:"side"`
	Price    float64   `json:"price"`
	Shares   int64     `json:"shares"`
	Notional float64   `json:"notional"`
}

// Report holds the summary risk/return statistics of a run. All
// percentage-like fields are plain ratios; formatting is a presentation
// concern.
type Report struct {
	TotalReturn       float64 `json:"total_return"`
	AnnualizedReturn  float64 `json:"annualized_return"`
	Volatility        float64 `json:"volatility"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	BuyHoldReturn     float64 `json:"buy_hold_return"`
	BuyHoldAnnualized float64 `json:"buy_hold_annualized"`
	TotalTrades       int     `json:"total_trades"`
	WinRate           float64 `json:"win_rate"`
	FinalValue        float64 `json:"final_value"`
}

// Result bundles the complete output of one backtest run.
type Result struct {
	Ticker         string
	ShortWindow    int
	LongWindow     int
	InitialCapital float64
	StartDate      time.Time
	EndDate        time.Time
	Signals        []signal.Point
	Ledger         []LedgerRow
	Trades         []Trade
	Report         Report
}
