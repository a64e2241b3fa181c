package notifier

import (
	"fmt"
	"html"
	"strings"

	"FibSentinel/internal/model"

	"github.com/dustin/go-humanize"
)

const dateLayout = "2006-01-02"

var signalIcon = map[model.Category]string{
	model.Favorable:   "🟢",
	model.Caution:     "🟡",
	model.Unfavorable: "🔴",
}

var trendIcon = map[model.Trend]string{
	model.Uptrend:   "📈",
	model.Downtrend: "📉",
}

// FormatAnalysis formats an analysis result into a Telegram message.
func FormatAnalysis(res *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>FibSentinel</b> | %s\n\n", html.EscapeString(res.Ticker)))
	b.WriteString(fmt.Sprintf("%s Trend: <b>%s</b>\n", trendIcon[res.Trend], res.Trend))
	b.WriteString(fmt.Sprintf("Swing high: %.2f (%s)\n", res.SwingHigh.Price, res.SwingHigh.Date.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Swing low: %.2f (%s)\n", res.SwingLow.Price, res.SwingLow.Date.Format(dateLayout)))
	b.WriteString(fmt.Sprintf("Range: %.2f | Bars: %s\n\n", res.Range, humanize.Comma(int64(res.BarCount))))

	b.WriteString(formatLevels(res.Levels))

	b.WriteString(fmt.Sprintf("\nCurrent price: <b>%.2f</b>\n", res.CurrentPrice))
	b.WriteString(fmt.Sprintf("%s Signal: <b>%s</b>\n", signalIcon[res.Signal], res.Signal))
	b.WriteString(html.EscapeString(res.Reason))
	b.WriteString("\n")
	return b.String()
}

// FormatLevels formats only the retracement table of an analysis.
func FormatLevels(res *model.AnalysisResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📐 <b>%s levels</b> (%s)\n\n", html.EscapeString(res.Ticker), res.Trend))
	b.WriteString(formatLevels(res.Levels))
	return b.String()
}

func formatLevels(levels []model.RetracementLevel) string {
	var b strings.Builder
	b.WriteString("<b>Retracement levels:</b>\n")
	for _, l := range levels {
		marker := ""
		if l.IsGoldenZone {
			marker = " ⭐"
		}
		b.WriteString(fmt.Sprintf("  %5.1f%%  %10.2f  %s%s\n", l.Ratio*100, l.Price, signalIcon[l.Category], marker))
	}
	return b.String()
}

// FormatBacktest formats a backtest result into a Telegram message.
// Only the most recent touches are listed.
func FormatBacktest(res *model.BacktestResult, maxTouches int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧪 <b>Golden Zone backtest</b> | %s\n\n", html.EscapeString(res.Ticker)))
	b.WriteString(fmt.Sprintf("Bars scanned: %s\n", humanize.Comma(int64(res.TotalBars))))
	b.WriteString(fmt.Sprintf("Touches: %d | ✅ %d | ❌ %d\n", len(res.Touches), res.Successes, res.Failures))
	b.WriteString(fmt.Sprintf("Win rate: <b>%.1f%%</b>\n", res.WinRate))

	touches := res.Touches
	if maxTouches > 0 && len(touches) > maxTouches {
		touches = touches[len(touches)-maxTouches:]
	}
	if len(touches) > 0 {
		b.WriteString("\n<b>Recent touches:</b>\n")
		for _, t := range touches {
			icon := "✅"
			if t.Outcome == model.OutcomeFail {
				icon = "❌"
			}
			b.WriteString(fmt.Sprintf("  %s %s %s %.2f → %.2f (%+.2f%%)\n",
				icon, t.Date.Format(dateLayout), trendIcon[t.Trend], t.TouchPrice, t.PriceAfterHorizon, t.PercentChange))
		}
	}

	if res.Summary != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(res.Summary))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError formats a failed command for the chat.
func FormatError(action string, err error) string {
	return fmt.Sprintf("⚠️ %s failed: %s", action, html.EscapeString(err.Error()))
}
