// Package handler implements the backtest API endpoints.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/quantkit/crossbt/internal/api/job"
	"github.com/quantkit/crossbt/internal/api/response"
	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/config"
	"github.com/quantkit/crossbt/internal/core"
	"github.com/quantkit/crossbt/internal/metrics"
	"github.com/quantkit/crossbt/internal/storage/archive"
)

const backtestTimeout = 5 * time.Minute

// BacktestRequest is the request body for starting a backtest.
type BacktestRequest struct {
	Ticker         string  `json:"ticker"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	ShortWindow    int     `json:"short_window,omitempty"`
	LongWindow     int     `json:"long_window,omitempty"`
	InitialCapital float64 `json:"initial_capital,omitempty"`
}

// Backtest handles backtest API requests.
type Backtest struct {
	jobs       *job.Store
	backtester *backtest.Backtester
	defaults   config.BacktestConfig
	store      archive.Storage // nil disables archiving
	registry   *metrics.Registry
	logger     *zap.Logger
}

// NewBacktest creates a backtest handler.
func NewBacktest(
	jobs *job.Store,
	backtester *backtest.Backtester,
	defaults config.BacktestConfig,
	store archive.Storage,
	registry *metrics.Registry,
	logger *zap.Logger,
) *Backtest {
	return &Backtest{
		jobs:       jobs,
		backtester: backtester,
		defaults:   defaults,
		store:      store,
		registry:   registry,
		logger:     logger,
	}
}

// Create starts a new backtest job.
func (h *Backtest) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrConfigInvalid, err))
		return
	}

	cfg, err := h.runConfig(req)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	j := h.jobs.Create()
	h.registry.JobsActiveInc()

	go h.run(j.ID, cfg)

	response.JSON(w, http.StatusAccepted, j)
}

// Get returns the state of a backtest job.
func (h *Backtest) Get(w http.ResponseWriter, r *http.Request) {
	j := h.jobs.Get(r.PathValue("id"))
	if j == nil {
		response.Error(w, http.StatusNotFound,
			core.WrapError(core.ErrNoData, errors.New("job not found")))
		return
	}
	response.JSON(w, http.StatusOK, j)
}

func (h *Backtest) runConfig(req BacktestRequest) (backtest.RunConfig, error) {
	if req.Ticker == "" {
		return backtest.RunConfig{}, core.WrapError(core.ErrConfigMissing,
			errors.New("ticker is required"))
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		return backtest.RunConfig{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		return backtest.RunConfig{}, core.WrapError(core.ErrConfigInvalid, err)
	}
	if end.Before(start) {
		return backtest.RunConfig{}, core.WrapError(core.ErrConfigInvalid,
			errors.New("end date must not precede start date"))
	}

	cfg := backtest.RunConfig{
		Ticker:         req.Ticker,
		Start:          start,
		End:            end,
		ShortWindow:    req.ShortWindow,
		LongWindow:     req.LongWindow,
		InitialCapital: req.InitialCapital,
		Stats: backtest.StatsOptions{
			RiskFreeRate:    h.defaults.RiskFreeRate,
			TradingDaysYear: float64(h.defaults.TradingDaysYear),
		},
	}
	if cfg.ShortWindow == 0 {
		cfg.ShortWindow = h.defaults.ShortWindow
	}
	if cfg.LongWindow == 0 {
		cfg.LongWindow = h.defaults.LongWindow
	}
	if cfg.InitialCapital == 0 {
		cfg.InitialCapital = h.defaults.InitialCapital
	}
	return cfg, nil
}

// run executes the backtest in the background and records the outcome
// on the job.
func (h *Backtest) run(jobID string, cfg backtest.RunConfig) {
	defer h.registry.JobsActiveDec()

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()

	h.jobs.SetRunning(jobID)
	start := time.Now()

	res, err := h.backtester.Run(ctx, cfg)
	if err != nil {
		h.registry.RecordBacktest("error", time.Since(start).Seconds())
		h.logger.Warn("backtest failed",
			zap.String("job_id", jobID),
			zap.String("ticker", cfg.Ticker),
			zap.Error(err),
		)
		h.jobs.Fail(jobID, asCoreError(err))
		return
	}

	h.registry.RecordBacktest("success", time.Since(start).Seconds())

	if h.store != nil {
		if key, err := archive.Save(ctx, h.store, res); err != nil {
			h.logger.Warn("archiving result failed", zap.String("job_id", jobID), zap.Error(err))
		} else {
			h.logger.Info("result archived", zap.String("key", key))
		}
	}

	h.jobs.Complete(jobID, archive.NewRecord(res))
}

func asCoreError(err error) *core.Error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return &core.Error{Code: "INTERNAL_ERROR", Message: err.Error()}
}
