package calculator

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualisation factor for daily returns.
const TradingDaysPerYear = 252

// PctReturns returns the fractional change between consecutive closes.
func PctReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		out = append(out, closes[i]/closes[i-1]-1)
	}
	return out
}

// AnnualizedVolatility returns the population standard deviation of daily
// returns, annualised and expressed as a percentage.
func AnnualizedVolatility(closes []float64) (float64, error) {
	returns := PctReturns(closes)
	if len(returns) < 2 {
		return 0, errors.New("not enough data for volatility calculation")
	}
	return stat.PopStdDev(returns, nil) * math.Sqrt(TradingDaysPerYear) * 100, nil
}
