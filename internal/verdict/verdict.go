package verdict

import "asset-insight/internal/types"

// Thresholds of the decision table. All comparisons are strict, so a growth
// of exactly ±2.0 lands in the flat band.
const (
	growthUp   = 2.0
	growthDown = -2.0

	sentimentPositive = 0.2
	sentimentNegative = -0.2
	// A falling price needs stronger positive conviction than a rising one
	// before it reads as a value opportunity.
	sentimentValueBuy = 0.5
)

// Decide maps (growth percentage, normalized sentiment) to a verdict and a
// fixed rationale. Pure and deterministic: same inputs, same outputs.
func Decide(growthPct, sentiment float64) (types.Verdict, string) {
	switch {
	case growthPct > growthUp:
		switch {
		case sentiment > sentimentPositive:
			return types.VerdictStrongBuy, "Price trend is strong and news is positive."
		case sentiment < sentimentNegative:
			return types.VerdictHold, "Math says UP, but bad news suggests a trap. Wait."
		default:
			return types.VerdictBuy, "Technical trend is up, neutral news."
		}

	case growthPct < growthDown:
		switch {
		case sentiment > sentimentValueBuy:
			return types.VerdictBuy, "Price is falling but news is very positive. Value buy opportunity."
		case sentiment < sentimentNegative:
			return types.VerdictStrongSell, "Falling price and bad news. Get out."
		default:
			return types.VerdictSell, "Downward trend with no positive catalyst."
		}

	default:
		return types.VerdictHold, "Market is sideways. No clear signal."
	}
}
