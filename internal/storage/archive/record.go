package archive

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/core"
)

// Record is the JSON document archived per run: parameters, summary
// statistics and executed trades. The full ledger and signal series
// stay in memory only.
type Record struct {
	Ticker         string           `json:"ticker"`
	ShortWindow    int              `json:"short_window"`
	LongWindow     int              `json:"long_window"`
	InitialCapital float64          `json:"initial_capital"`
	StartDate      time.Time        `json:"start_date"`
	EndDate        time.Time        `json:"end_date"`
	Bars           int              `json:"bars"`
	Report         backtest.Report  `json:"report"`
	Trades         []backtest.Trade `json:"trades"`
	ArchivedAt     time.Time        `json:"archived_at"`
}

// NewRecord builds the archive document for a result.
func NewRecord(res *backtest.Result) Record {
	return Record{
		Ticker:         res.Ticker,
		ShortWindow:    res.ShortWindow,
		LongWindow:     res.LongWindow,
		InitialCapital: res.InitialCapital,
		StartDate:      res.StartDate,
		EndDate:        res.EndDate,
		Bars:           len(res.Ledger),
		Report:         res.Report,
		Trades:         res.Trades,
		ArchivedAt:     time.Now().UTC(),
	}
}

// Save archives a result and returns the key it was stored under.
func Save(ctx context.Context, store Storage, res *backtest.Result) (string, error) {
	rec := NewRecord(res)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}

	key := ResultKey(rec.Ticker, rec.ArchivedAt)
	if err := store.Write(ctx, key, data); err != nil {
		return "", core.WrapError(core.ErrArchiveFailed, err)
	}
	return key, nil
}
