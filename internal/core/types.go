package core

import "time"

// PriceBar is one trading day of OHLCV data. Bars are immutable once
// ingested; the backtest core only consumes Close.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// IsValid checks if the bar can be fed to the backtest core.
func (b PriceBar) IsValid() bool {
	return !b.Date.IsZero() && b.Close > 0
}

// Signal is the discrete trading signal level for one bar.
type Signal int

const (
	SignalShort   Signal = -1
	SignalNeutral Signal = 0
	SignalLong    Signal = 1
)

// String returns a human-readable signal name.
func (s Signal) String() string {
	switch s {
	case SignalLong:
		return "long"
	case SignalShort:
		return "short"
	default:
		return "neutral"
	}
}

// Side is the direction of an executed trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Position is the simulator's position state. Long-only: there is no
// short position state.
type Position int

const (
	PositionFlat Position = iota
	PositionLong
)

// String returns a human-readable position name.
func (p Position) String() string {
	if p == PositionLong {
		return "long"
	}
	return "flat"
}
