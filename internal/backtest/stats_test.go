package backtest

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/quantkit/crossbt/internal/core"
)

func TestAnalyze_FlatMarket(t *testing.T) {
	closes := make([]float64, 60)
	signals := make([]core.Signal, 60)
	for i := range closes {
		closes[i] = 100
	}
	ledger, trades, err := Simulate(testPoints(closes, signals), 10000)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	report, err := Analyze(ledger, trades, 10000, DefaultStatsOptions())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.TotalReturn != 0 {
		t.Errorf("TotalReturn = %v, want 0", report.TotalReturn)
	}
	if report.AnnualizedReturn != 0 {
		t.Errorf("AnnualizedReturn = %v, want 0", report.AnnualizedReturn)
	}
	if report.Volatility != 0 || report.SharpeRatio != 0 || report.MaxDrawdown != 0 {
		t.Errorf("vol/sharpe/drawdown = %v/%v/%v, want all 0",
			report.Volatility, report.SharpeRatio, report.MaxDrawdown)
	}
	if report.FinalValue != 10000 {
		t.Errorf("FinalValue = %v, want 10000", report.FinalValue)
	}
	if report.TotalTrades != 0 || report.WinRate != 0 {
		t.Errorf("trades/winrate = %d/%v, want 0/0", report.TotalTrades, report.WinRate)
	}
}

func TestAnalyze_FullCycle(t *testing.T) {
	closes := []float64{10, 12, 8}
	signals := []core.Signal{core.SignalLong, core.SignalLong, core.SignalShort}
	ledger, trades, err := Simulate(testPoints(closes, signals), 105)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	report, err := Analyze(ledger, trades, 105, DefaultStatsOptions())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	wantTotal := (85.0 - 105.0) / 105.0
	if math.Abs(report.TotalReturn-wantTotal) > 1e-12 {
		t.Errorf("TotalReturn = %v, want %v", report.TotalReturn, wantTotal)
	}

	years := 3.0 / 252.0
	wantAnnualized := math.Pow(1+wantTotal, 1/years) - 1
	if math.Abs(report.AnnualizedReturn-wantAnnualized) > 1e-12 {
		t.Errorf("AnnualizedReturn = %v, want %v", report.AnnualizedReturn, wantAnnualized)
	}

	wantBuyHold := (8.0 - 10.0) / 10.0
	if math.Abs(report.BuyHoldReturn-wantBuyHold) > 1e-12 {
		t.Errorf("BuyHoldReturn = %v, want %v", report.BuyHoldReturn, wantBuyHold)
	}

	// One buy/sell pair, losing: 80 notional out vs 100 in.
	if report.TotalTrades != 1 {
		t.Errorf("TotalTrades = %d, want 1", report.TotalTrades)
	}
	if report.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0", report.WinRate)
	}
	if report.Volatility <= 0 {
		t.Errorf("Volatility = %v, want > 0", report.Volatility)
	}
	if report.MaxDrawdown >= 0 {
		t.Errorf("MaxDrawdown = %v, want negative", report.MaxDrawdown)
	}
}

func TestAnalyze_DegenerateSeries(t *testing.T) {
	ledger := []LedgerRow{{
		Date:           time.Now(),
		Price:          100,
		Cash:           1000,
		Equity:         1000,
		DailyReturn:    math.NaN(),
		StrategyReturn: math.NaN(),
	}}

	report, err := Analyze(ledger, nil, 1000, DefaultStatsOptions())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if report.Volatility != 0 || report.SharpeRatio != 0 || report.MaxDrawdown != 0 {
		t.Errorf("vol/sharpe/drawdown = %v/%v/%v, want all 0 without raising",
			report.Volatility, report.SharpeRatio, report.MaxDrawdown)
	}
}

func TestAnalyze_EmptyLedger(t *testing.T) {
	_, err := Analyze(nil, nil, 1000, DefaultStatsOptions())
	if !errors.Is(err, core.ErrZeroDuration) {
		t.Errorf("error = %v, want ErrZeroDuration", err)
	}
}

func TestAnalyze_ZeroOptionsUseDefaults(t *testing.T) {
	ledger := []LedgerRow{
		{Price: 100, Cash: 1000, Equity: 1000, DailyReturn: math.NaN(), StrategyReturn: math.NaN()},
		{Price: 110, Cash: 1000, Equity: 1000, DailyReturn: 0.1, StrategyReturn: 0},
	}

	report, err := Analyze(ledger, nil, 1000, StatsOptions{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if report.FinalValue != 1000 {
		t.Errorf("FinalValue = %v, want 1000", report.FinalValue)
	}
}

func TestStdev(t *testing.T) {
	got := stdev([]float64{1, 2, 3, 4})
	want := math.Sqrt(5.0 / 3.0)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("stdev = %v, want %v", got, want)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{"empty", nil, 0},
		{"monotonic rise", []float64{0.1, 0.1, 0.1}, 0},
		{"single crash", []float64{0.1, -0.5, 0.25}, -0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxDrawdown(tt.returns)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("maxDrawdown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPairTrades(t *testing.T) {
	buy := func(notional float64) Trade {
		return Trade{Side: core.SideBuy, Notional: notional}
	}
	sell := func(notional float64) Trade {
		return Trade{Side: core.SideSell, Notional: notional}
	}

	tests := []struct {
		name      string
		trades    []Trade
		wantPairs int
		wantWins  int
	}{
		{"empty", nil, 0, 0},
		{"winning pair", []Trade{buy(100), sell(110)}, 1, 1},
		{"losing pair", []Trade{buy(100), sell(90)}, 1, 0},
		{"trailing open buy ignored", []Trade{buy(100), sell(110), buy(50)}, 1, 1},
		{"malformed adjacency skipped", []Trade{sell(100), buy(100)}, 0, 0},
		{"two pairs one win", []Trade{buy(100), sell(150), buy(100), sell(80)}, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, wins := pairTrades(tt.trades)
			if pairs != tt.wantPairs || wins != tt.wantWins {
				t.Errorf("pairTrades() = (%d, %d), want (%d, %d)",
					pairs, wins, tt.wantPairs, tt.wantWins)
			}
		})
	}
}
