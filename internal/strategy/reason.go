package strategy

import "FibSentinel/internal/model"

type reasonKey struct {
	Trend  model.Trend
	Signal model.Category
}

var reasons = map[reasonKey]string{
	{model.Uptrend, model.Favorable}: "Price is holding above the 23.6% retracement, so the uptrend looks intact. " +
		"Shallow pullbacks like this have tended to resolve higher, though a reversal is always possible.",
	{model.Uptrend, model.Caution}: "Price has pulled back between the 23.6% and 61.8% levels. " +
		"This zone often acts as support in an uptrend, but a deeper retracement remains plausible.",
	{model.Uptrend, model.Unfavorable}: "Price has slipped below the 61.8% Golden Zone, which raises the likelihood " +
		"that the uptrend is weakening. Further downside would not be unusual from here.",
	{model.Downtrend, model.Unfavorable}: "Price is still near the lows, below the 23.6% bounce level. " +
		"In a downtrend this suggests selling pressure is likely to persist for now.",
	{model.Downtrend, model.Caution}: "Price is bouncing between the 23.6% and 61.8% levels. " +
		"Rallies into this zone during a downtrend frequently stall, so the bounce may fade.",
	{model.Downtrend, model.Favorable}: "Price has climbed back above the 61.8% Golden Zone, which increases the chance " +
		"that the downtrend is reversing, although confirmation may take time.",
}

// SignalReason returns the fixed rationale for a trend/signal branch.
func SignalReason(trend model.Trend, signal model.Category) string {
	if r, ok := reasons[reasonKey{trend, signal}]; ok {
		return r
	}
	return "Not enough structure in the price history to judge the retracement."
}
