package strategy

import "MarketAdvisor/internal/model"

const (
	baseRisk = 5
	minRisk  = 1
	maxRisk  = 10
)

// Tally counts the bullish and bearish signal points.
func Tally(s model.SignalSet) (bullish, bearish int) {
	for _, on := range []bool{s.MACDBullish, s.RSIOversold, s.PriceAboveSMA, s.VolumeSpike, s.Bollinger == model.BollingerBelow} {
		if on {
			bullish++
		}
	}
	for _, on := range []bool{s.MACDBearish, s.RSIOverbought, s.Bollinger == model.BollingerAbove} {
		if on {
			bearish++
		}
	}
	return bullish, bearish
}

// Recommend combines trend and signals into an action. A strong trend
// decides on its own; otherwise one side must lead by more than one point.
func Recommend(trend model.Trend, signals model.SignalSet) model.Recommendation {
	switch trend {
	case model.TrendStrongUp:
		return model.StrongBuy
	case model.TrendStrongDown:
		return model.StrongSell
	}

	bullish, bearish := Tally(signals)
	switch {
	case bullish > bearish+1:
		return model.Buy
	case bearish > bullish+1:
		return model.Sell
	default:
		return model.Hold
	}
}

// volatilityRisk returns the risk points for annualised volatility (%).
func volatilityRisk(volatility *float64) int {
	if volatility == nil {
		return 0
	}
	v := *volatility
	switch {
	case v > 50:
		return 3
	case v > 30:
		return 2
	case v > 20:
		return 1
	default:
		return 0
	}
}

// RiskScore rates the position risk from 1 (low) to 10 (high).
func RiskScore(summary *model.TrendSummary, signals model.SignalSet) int {
	score := baseRisk
	if summary != nil {
		score += volatilityRisk(summary.Volatility)
		switch {
		case summary.Trend.IsStrong():
			score += 2
		case summary.Trend.IsDirectional():
			score++
		}
	}
	if signals.RSIOverbought || signals.RSIOversold {
		score++
	}
	if signals.VolumeSpike {
		score++
	}

	if score < minRisk {
		score = minRisk
	}
	if score > maxRisk {
		score = maxRisk
	}
	return score
}
