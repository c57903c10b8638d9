// Package report renders backtest results for humans. All percent and
// currency formatting lives here; the backtest core only deals in
// ratios.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/quantkit/crossbt/internal/backtest"
)

const rule = "------------------------------------------------------------"

// Write renders the run header, metric summary and trade list.
func Write(w io.Writer, res *backtest.Result) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "MOVING AVERAGE CROSSOVER BACKTEST - %s\n", res.Ticker)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Strategy: %d-day MA vs %d-day MA\n", res.ShortWindow, res.LongWindow)
	fmt.Fprintf(w, "Period: %s to %s\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	fmt.Fprintf(w, "Initial Capital: $%.2f\n", res.InitialCapital)
	fmt.Fprintln(w, rule)

	r := res.Report
	writeMetric(w, "Total Return", percent(r.TotalReturn))
	writeMetric(w, "Annualized Return", percent(r.AnnualizedReturn))
	writeMetric(w, "Volatility", percent(r.Volatility))
	writeMetric(w, "Sharpe Ratio", fmt.Sprintf("%.2f", r.SharpeRatio))
	writeMetric(w, "Max Drawdown", percent(r.MaxDrawdown))
	writeMetric(w, "Buy & Hold Return", percent(r.BuyHoldReturn))
	writeMetric(w, "Buy & Hold Annualized", percent(r.BuyHoldAnnualized))
	writeMetric(w, "Total Trades", fmt.Sprintf("%d", r.TotalTrades))
	writeMetric(w, "Win Rate", percent(r.WinRate))
	writeMetric(w, "Final Portfolio Value", fmt.Sprintf("$%.2f", r.FinalValue))

	if len(res.Trades) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Trades (%d executed):\n", len(res.Trades))
		for _, trade := range res.Trades {
			fmt.Fprintf(w, "  %s  %-4s %6d @ %10.2f  ($%.2f)\n",
				trade.Date.Format("2006-01-02"), trade.Side, trade.Shares,
				trade.Price, trade.Notional)
		}
	}
}

func writeMetric(w io.Writer, name, value string) {
	fmt.Fprintf(w, "%-25s: %s\n", name, value)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// SweepRow is one completed run of a parameter sweep.
type SweepRow struct {
	Ticker      string
	ShortWindow int
	LongWindow  int
	Report      backtest.Report
}

// WriteSweep renders sweep results ranked by total return, best first.
func WriteSweep(w io.Writer, rows []SweepRow) {
	sorted := make([]SweepRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Report.TotalReturn > sorted[j].Report.TotalReturn
	})

	fmt.Fprintf(w, "%-8s %7s %7s %12s %12s %8s %8s %8s\n",
		"TICKER", "SHORT", "LONG", "RETURN", "ANNUAL", "SHARPE", "MAXDD", "WINRATE")
	for _, row := range sorted {
		fmt.Fprintf(w, "%-8s %7d %7d %12s %12s %8.2f %8s %8s\n",
			row.Ticker, row.ShortWindow, row.LongWindow,
			percent(row.Report.TotalReturn), percent(row.Report.AnnualizedReturn),
			row.Report.SharpeRatio, percent(row.Report.MaxDrawdown),
			percent(row.Report.WinRate))
	}
}
