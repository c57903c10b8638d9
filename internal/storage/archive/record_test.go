package archive

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/core"
)

func TestSave(t *testing.T) {
	store, err := NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS() error = %v", err)
	}

	res := &backtest.Result{
		Ticker:         "AAPL",
		ShortWindow:    20,
		LongWindow:     50,
		InitialCapital: 100000,
		StartDate:      time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Ledger:         make([]backtest.LedgerRow, 250),
		Trades: []backtest.Trade{
			{Side: core.SideBuy, Price: 150, Shares: 600, Notional: 90000},
			{Side: core.SideSell, Price: 170, Shares: 600, Notional: 102000},
		},
		Report: backtest.Report{TotalReturn: 0.12, FinalValue: 112000},
	}

	ctx := context.Background()
	key, err := Save(ctx, store, res)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := store.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if rec.Ticker != "AAPL" || rec.Bars != 250 || len(rec.Trades) != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.Report.TotalReturn != 0.12 {
		t.Errorf("Report.TotalReturn = %v, want 0.12", rec.Report.TotalReturn)
	}
}
