package calculator

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// SupportResistance returns the lowest low and the highest high.
func SupportResistance(highs, lows []float64) (support, resistance float64, err error) {
	if len(highs) == 0 || len(lows) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	return floats.Min(lows), floats.Max(highs), nil
}

// Position returns where current sits between support and resistance
// (0.0~1.0). A flat range yields 0.5.
func Position(current, support, resistance float64) float64 {
	if resistance <= support {
		return 0.5
	}
	pos := (current - support) / (resistance - support)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos
}
