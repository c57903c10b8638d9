package llm

import (
	"context"
	"fmt"

	"github.com/quantkit/crossbt/internal/backtest"
	"github.com/quantkit/crossbt/internal/core"
)

const narratorSystem = `You are a quantitative analyst reviewing the result of a ` +
	`moving-average-crossover backtest. Write a short assessment (at most ` +
	`three paragraphs) of the strategy's risk/return profile: how it compared ` +
	`to buy-and-hold, whether the Sharpe ratio and drawdown justify the ` +
	`turnover, and what the win rate suggests. Plain prose, no headings, no ` +
	`investment advice disclaimers.`

// Narrator renders a report as a plain-language assessment.
type Narrator struct {
	provider Provider
}

// NewNarrator creates a Narrator backed by the given provider.
func NewNarrator(provider Provider) *Narrator {
	return &Narrator{provider: provider}
}

// Narrate asks the provider for an assessment of the run.
func (n *Narrator) Narrate(ctx context.Context, res *backtest.Result) (string, error) {
	r := res.Report
	prompt := fmt.Sprintf(
		`Ticker: %s
Windows: %d-day vs %d-day simple moving averages
Period: %s to %s
Initial capital: %.2f

Total return: %.2f%%
Annualized return: %.2f%%
Volatility (annualized): %.2f%%
Sharpe ratio: %.2f
Max drawdown: %.2f%%
Buy & hold return: %.2f%%
Completed round trips: %d
Win rate: %.2f%%
Final portfolio value: %.2f`,
		res.Ticker, res.ShortWindow, res.LongWindow,
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
		res.InitialCapital,
		r.TotalReturn*100, r.AnnualizedReturn*100, r.Volatility*100,
		r.SharpeRatio, r.MaxDrawdown*100, r.BuyHoldReturn*100,
		r.TotalTrades, r.WinRate*100, r.FinalValue,
	)

	text, err := n.provider.Complete(ctx, Request{
		System:    narratorSystem,
		Prompt:    prompt,
		MaxTokens: 800,
	})
	if err != nil {
		return "", core.WrapError(core.ErrLLMFailed, err)
	}
	return text, nil
}
