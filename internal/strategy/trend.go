package strategy

import (
	"math"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/model"
)

// DefaultPeriodDays is the trend window used when none is requested.
const DefaultPeriodDays = 30

// Trend band edges in percent. Each band includes its outer edge.
const (
	strongMovePct = 5.0
	movePct       = 2.0
)

// classifyTrend maps a window's percent change to a Trend.
// The change is rounded to 10 decimals so an exact 5% move stays exact.
func classifyTrend(changePct float64) model.Trend {
	pct := math.Round(changePct*1e10) / 1e10
	switch {
	case pct >= strongMovePct:
		return model.TrendStrongUp
	case pct >= movePct:
		return model.TrendUp
	case pct <= -strongMovePct:
		return model.TrendStrongDown
	case pct <= -movePct:
		return model.TrendDown
	default:
		return model.TrendSideways
	}
}

// AnalyzeTrend summarises the last periodDays bars of the series.
// It reports false when the window holds no bars.
func AnalyzeTrend(series *model.PriceSeries, periodDays int) (*model.TrendSummary, bool) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	window := series.Tail(periodDays)
	if window.Len() == 0 {
		return nil, false
	}

	closes := window.Closes()
	start := closes[0]
	current := closes[len(closes)-1]
	change := current - start
	changePct := 0.0
	if start != 0 {
		changePct = change / start * 100
	}

	summary := &model.TrendSummary{
		Trend:          classifyTrend(changePct),
		PriceChange:    change,
		PriceChangePct: changePct,
		CurrentPrice:   current,
		PeriodDays:     periodDays,
	}
	if vol, err := calculator.AnnualizedVolatility(closes); err == nil {
		summary.Volatility = &vol
	}
	// window is non-empty so the range is always available
	summary.Support, summary.Resistance, _ = calculator.SupportResistance(window.Highs(), window.Lows())
	return summary, true
}
