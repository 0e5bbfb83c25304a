package calculator

import (
	"math"

	"MarketAdvisor/internal/model"
)

// RSI computes the relative strength index from simple rolling means of
// gains and losses. The first bar contributes a zero change, so the first
// defined value is at index period-1. A window without losses yields 100.
func RSI(closes []float64, period int) model.Column {
	n := len(closes)
	out := model.Undefined(n)
	if period <= 0 || n < period {
		return out
	}

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)
	for i := period - 1; i < n; i++ {
		g, l := avgGain[i], avgLoss[i]
		if l == 0 {
			out[i] = 100
			continue
		}
		rsi := 100 - 100/(1+g/l)
		out[i] = math.Max(0, math.Min(100, rsi))
	}
	return out
}
