package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/signal"
)

// simState is the simulator's portfolio state between two time steps.
// It is a small value passed by value through each transition; nothing
// outside the fold ever reads it.
type simState struct {
	position core.Position
	cash     float64
	shares   int64
}

// step applies one time step of the trading state machine and returns
// the next state plus the trade executed at this step, if any.
//
// The transition keys off the signal level, not the generator's
// entry/exit display flags: a long level while flat buys, a short level
// while long liquidates, everything else holds. A buy signal without
// enough cash for a single whole share is a silent no-op by policy.
func step(st simState, sig core.Signal, price float64, date time.Time) (simState, *Trade) {
	switch {
	case st.position == core.PositionFlat && sig == core.SignalLong:
		shares := int64(math.Floor(st.cash / price))
		if shares == 0 {
			return st, nil
		}
		st.shares += shares
		st.cash -= float64(shares) * price
		st.position = core.PositionLong
		return st, &Trade{
			Date:     date,
			Side:     core.SideBuy,
			Price:    price,
			Shares:   shares,
			Notional: float64(shares) * price,
		}

	case st.position == core.PositionLong && sig == core.SignalShort:
		trade := &Trade{
			Date:     date,
			Side:     core.SideSell,
			Price:    price,
			Shares:   st.shares,
			Notional: float64(st.shares) * price,
		}
		st.cash += float64(st.shares) * price
		st.shares = 0
		st.position = core.PositionFlat
		return st, trade

	default:
		return st, nil
	}
}

// Simulate walks the signal series exactly once in ascending date order
// and produces the day-by-day ledger plus the executed trades. Long
// only, whole shares, no borrowing: cash and holdings can never go
// negative.
func Simulate(points []signal.Point, initialCapital float64) ([]LedgerRow, []Trade, error) {
	if len(points) == 0 {
		return nil, nil, core.ErrEmptySeries
	}
	if initialCapital <= 0 {
		return nil, nil, core.WrapError(core.ErrNonPositiveCapital,
			fmt.Errorf("got %v", initialCapital))
	}

	st := simState{position: core.PositionFlat, cash: initialCapital}
	ledger := make([]LedgerRow, 0, len(points))
	var trades []Trade

	for i, p := range points {
		if p.Close <= 0 {
			return nil, nil, core.WrapError(core.ErrNonPositivePrice,
				fmt.Errorf("close %v at %s", p.Close, p.Date.Format("2006-01-02")))
		}

		var trade *Trade
		st, trade = step(st, p.Signal, p.Close, p.Date)
		if trade != nil {
			trades = append(trades, *trade)
		}

		row := LedgerRow{
			Date:           p.Date,
			Price:          p.Close,
			Shares:         st.shares,
			Cash:           st.cash,
			Equity:         st.cash + float64(st.shares)*p.Close,
			DailyReturn:    math.NaN(),
			StrategyReturn: math.NaN(),
		}
		if i > 0 {
			prev := ledger[i-1]
			row.DailyReturn = (p.Close - prev.Price) / prev.Price
			row.StrategyReturn = (row.Equity - prev.Equity) / prev.Equity
		}
		ledger = append(ledger, row)
	}

	return ledger, trades, nil
}
