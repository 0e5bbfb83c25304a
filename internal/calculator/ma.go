package calculator

import (
	"math"

	"MarketAdvisor/internal/model"

	"gonum.org/v1/gonum/stat"
)

// SMA computes the simple moving average of values over a trailing window of
// period points. The first period-1 values are undefined.
func SMA(values []float64, period int) model.Column {
	out := model.Undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.Mean(values[i-period+1:i+1], nil)
	}
	return out
}

// EMA computes the bias-adjusted exponentially weighted mean with
// alpha = 2/(span+1). Every point is defined; use Mask to hide the warm-up.
func EMA(values []float64, span int) model.Column {
	out := model.Undefined(len(values))
	if span <= 0 {
		return out
	}
	decay := 1 - 2/float64(span+1)
	var num, den float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		num = v + decay*num
		den = 1 + decay*den
		out[i] = num / den
	}
	return out
}

// Mask returns a copy of c with the first n values undefined.
func Mask(c model.Column, n int) model.Column {
	out := make(model.Column, len(c))
	copy(out, c)
	for i := 0; i < n && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

// RollingStd computes the population standard deviation over a trailing
// window of period points.
func RollingStd(values []float64, period int) model.Column {
	out := model.Undefined(len(values))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		out[i] = stat.PopStdDev(values[i-period+1:i+1], nil)
	}
	return out
}
