package calculator

import "MarketAdvisor/internal/model"

// Bollinger computes the middle band (SMA) and the bands k population
// standard deviations above and below it.
func Bollinger(closes []float64, period int, k float64) (middle, upper, lower model.Column) {
	middle = SMA(closes, period)
	std := RollingStd(closes, period)
	upper = model.Undefined(len(closes))
	lower = model.Undefined(len(closes))
	for i := range closes {
		m, ok1 := middle.Get(i)
		s, ok2 := std.Get(i)
		if !ok1 || !ok2 {
			continue
		}
		upper[i] = m + k*s
		lower[i] = m - k*s
	}
	return middle, upper, lower
}
