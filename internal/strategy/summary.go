package strategy

import (
	"fmt"

	"FibSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

// BacktestSummary renders a one-paragraph description of a backtest.
func BacktestSummary(res *model.BacktestResult) string {
	total := len(res.Touches)
	days := humanize.Comma(int64(res.TotalBars))
	if total == 0 {
		return fmt.Sprintf("Across %s trading days, %s never closed near enough to the 61.8%% Golden Zone to count as a test, "+
			"so there is no history to judge how the level tends to behave.", days, res.Ticker)
	}
	return fmt.Sprintf("Across %s trading days, %s touched the 61.8%% Golden Zone %s. "+
		"Price moved in the expected direction %d days later in %d of them and against it in %d, "+
		"a %.1f%% historical win rate that suggests, but does not guarantee, how the level may hold next time.",
		days, res.Ticker, plural(total, "time", "times"), OutcomeHorizon, res.Successes, res.Failures, res.WinRate)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
