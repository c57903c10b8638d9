package report

import (
	"errors"
	"fmt"
	"math"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/quantkit/crossbt/internal/backtest"
)

// SignalChart renders the closing price with both moving averages as a
// PNG. Undefined average entries render as gaps.
func SignalChart(res *backtest.Result) ([]byte, error) {
	if len(res.Signals) < 2 {
		return nil, errors.New("not enough data points")
	}

	labels := make([]string, len(res.Signals))
	closes := make([]float64, len(res.Signals))
	shortMA := make([]float64, len(res.Signals))
	longMA := make([]float64, len(res.Signals))
	for i, p := range res.Signals {
		labels[i] = p.Date.Format("2006-01-02")
		closes[i] = p.Close
		shortMA[i] = orNull(p.ShortMA)
		longMA[i] = orNull(p.LongMA)
	}

	names := []string{
		"Close",
		fmt.Sprintf("MA %d", res.ShortWindow),
		fmt.Sprintf("MA %d", res.LongWindow),
	}

	painter, err := charts.LineRender([][]float64{closes, shortMA, longMA},
		charts.TitleTextOptionFunc(res.Ticker+" • MA crossover"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// EquityChart renders the strategy equity curve against a buy-and-hold
// equity curve of the same starting capital.
func EquityChart(res *backtest.Result) ([]byte, error) {
	if len(res.Ledger) < 2 {
		return nil, errors.New("not enough data points")
	}

	labels := make([]string, len(res.Ledger))
	equity := make([]float64, len(res.Ledger))
	buyHold := make([]float64, len(res.Ledger))
	firstPrice := res.Ledger[0].Price
	for i, row := range res.Ledger {
		labels[i] = row.Date.Format("2006-01-02")
		equity[i] = row.Equity
		buyHold[i] = res.InitialCapital * row.Price / firstPrice
	}

	painter, err := charts.LineRender([][]float64{equity, buyHold},
		charts.TitleTextOptionFunc(res.Ticker+" • strategy vs buy & hold"),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: 10}),
		charts.LegendOptionFunc(charts.LegendOption{Data: []string{"Strategy", "Buy & Hold"}}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

func orNull(v float64) float64 {
	if math.IsNaN(v) {
		return charts.GetNullValue()
	}
	return v
}
