// Package signal derives discrete trading signals from moving-average
// crossovers of closing price.
package signal

import (
	"fmt"
	"math"
	"time"

	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/indicator"
)

// Point is one entry of the signal series, aligned index-for-index with
// the input price series. Immutable once computed.
type Point struct {
	Date    time.Time
	Close   float64
	ShortMA float64 // NaN until the short window fills
	LongMA  float64 // NaN until the long window fills
	Signal  core.Signal
	// PositionDelta is signal minus the previous bar's signal (0 on the
	// first bar). A jump of +2 marks an entry, -2 an exit.
	PositionDelta int
	Entry         bool
	Exit          bool
}

// Generate produces the signal series for a price history and a pair of
// window sizes. The signal at index t depends only on closes up to t:
// long when the short average is above the long average, short when
// below, neutral on exact equality or while either average is still
// undefined.
//
// Entry/Exit flags fire only on a direct two-step jump (short to long or
// long to short). A transition that passes through neutral never flags;
// the simulator keys off the signal level instead, so these flags are
// display markers only.
func Generate(bars []core.PriceBar, shortWindow, longWindow int) ([]Point, error) {
	if shortWindow <= 0 || longWindow <= 0 || shortWindow >= longWindow {
		return nil, core.WrapError(core.ErrInvalidWindow,
			fmt.Errorf("got short=%d long=%d", shortWindow, longWindow))
	}
	if len(bars) < longWindow {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("series has %d bars, need at least %d", len(bars), longWindow))
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	shortMA := indicator.RollingMean(closes, shortWindow)
	longMA := indicator.RollingMean(closes, longWindow)

	points := make([]Point, len(bars))
	prev := core.SignalNeutral
	for i, b := range bars {
		sig := classify(shortMA[i], longMA[i])

		delta := 0
		if i > 0 {
			delta = int(sig) - int(prev)
		}

		points[i] = Point{
			Date:          b.Date,
			Close:         b.Close,
			ShortMA:       shortMA[i],
			LongMA:        longMA[i],
			Signal:        sig,
			PositionDelta: delta,
			Entry:         delta == 2,
			Exit:          delta == -2,
		}
		prev = sig
	}

	return points, nil
}

// classify maps a pair of averages to a signal level. Any comparison
// involving an undefined average is neutral, never long/short.
func classify(short, long float64) core.Signal {
	if math.IsNaN(short) || math.IsNaN(long) {
		return core.SignalNeutral
	}
	switch {
	case short > long:
		return core.SignalLong
	case short < long:
		return core.SignalShort
	default:
		return core.SignalNeutral
	}
}
