package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/api/job"
	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/config"
	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/metrics"
)

type stubProvider struct {
	bars []core.PriceBar
}

func (p *stubProvider) FetchDaily(ctx context.Context, symbol string, start, end time.Time) ([]core.PriceBar, error) {
	return p.bars, nil
}

func testHandler() *Backtest {
	closes := []float64{10, 9, 8, 20, 30, 5, 4}
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]core.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = core.PriceBar{Date: base.AddDate(0, 0, i), Close: c}
	}

	return NewBacktest(
		job.NewStore(10, time.Hour),
		backtest.New(&stubProvider{bars: bars}),
		config.BacktestConfig{
			ShortWindow: 2, LongWindow: 3, InitialCapital: 1000,
			RiskFreeRate: 0.02, TradingDaysYear: 252,
		},
		nil,
		metrics.NewRegistry(),
		zap.NewNop(),
	)
}

// jobView mirrors the job JSON shape for assertions.
type jobView struct {
	ID     string          `json:"id"`
	Status job.Status      `json:"status"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func createJob(t *testing.T, h *Backtest, body string) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest("POST", "/api/v1/backtests", strings.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data jobView `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.Data.ID
}

func pollJob(t *testing.T, h *Backtest, id string) jobView {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req := httptest.NewRequest("GET", "/api/v1/backtests/"+id, nil)
		req.SetPathValue("id", id)
		rec := httptest.NewRecorder()
		h.Get(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Get status = %d", rec.Code)
		}

		var resp struct {
			Data jobView `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Data.Status == job.StatusComplete || resp.Data.Status == job.StatusFailed {
			return resp.Data
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return jobView{}
}

func TestBacktest_CreateAndGet(t *testing.T) {
	h := testHandler()

	id := createJob(t, h, `{"ticker":"AAPL","start":"2024-01-02","end":"2024-01-08"}`)
	finished := pollJob(t, h, id)

	if finished.Status != job.StatusComplete {
		t.Fatalf("job status = %s, want complete", finished.Status)
	}
	if len(finished.Result) == 0 {
		t.Fatal("expected a result payload")
	}
}

func TestBacktest_Create_BadRequest(t *testing.T) {
	h := testHandler()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing ticker", `{"start":"2024-01-02","end":"2024-01-08"}`},
		{"bad start date", `{"ticker":"AAPL","start":"tomorrow","end":"2024-01-08"}`},
		{"end before start", `{"ticker":"AAPL","start":"2024-01-08","end":"2024-01-02"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest("POST", "/api/v1/backtests", strings.NewReader(tt.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestBacktest_Create_InvalidWindowsFailJob(t *testing.T) {
	h := testHandler()

	id := createJob(t, h, `{"ticker":"AAPL","start":"2024-01-02","end":"2024-01-08","short_window":50,"long_window":20}`)
	finished := pollJob(t, h, id)

	if finished.Status != job.StatusFailed {
		t.Fatalf("job status = %s, want failed", finished.Status)
	}
	if finished.Error == nil || finished.Error.Code != "INVALID_WINDOW" {
		t.Errorf("Error = %+v, want INVALID_WINDOW", finished.Error)
	}
}

func TestBacktest_Get_Unknown(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest("GET", "/api/v1/backtests/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
