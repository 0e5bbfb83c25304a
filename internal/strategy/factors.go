package strategy

import (
	"MarketAdvisor/internal/model"

	"gonum.org/v1/gonum/stat"
)

const (
	// SignalWindow is the number of trailing bars the signals look at.
	SignalWindow = 20

	rsiOverbought     = 70.0
	rsiOversold       = 30.0
	volumeSpikeBars   = 5
	volumeSpikeFactor = 1.5
)

// DetectSignals derives the technical signals from the trailing window.
// Any signal whose inputs are undefined stays false.
func DetectSignals(series *model.PriceSeries, ind *model.IndicatorSet) model.SignalSet {
	signals := model.SignalSet{Bollinger: model.BollingerMiddle}
	n := series.Len()
	if n == 0 || ind == nil {
		return signals
	}
	window := series.Tail(SignalWindow)
	last := n - 1

	if window.Len() >= 2 {
		signals.MACDBullish, signals.MACDBearish = macdCross(ind, last)
	}

	if rsi, ok := ind.RSI14.Get(last); ok {
		switch {
		case rsi > rsiOverbought:
			signals.RSIOverbought = true
		case rsi < rsiOversold:
			signals.RSIOversold = true
		}
	}

	price := series.Points[last].Close
	if sma, ok := ind.SMA20.Get(last); ok && price > sma {
		signals.PriceAboveSMA = true
	}

	signals.VolumeSpike = volumeSpike(window.Volumes())
	signals.Bollinger = bollingerPosition(price, ind, last)

	signals.RSI = ind.RSI14.Ptr(last)
	signals.MACD = ind.MACD.Ptr(last)
	signals.MACDSignal = ind.MACDSignal.Ptr(last)
	signals.SMA20 = ind.SMA20.Ptr(last)
	return signals
}

// macdCross checks for the oscillator crossing its signal line between the
// previous bar and bar i.
func macdCross(ind *model.IndicatorSet, i int) (bullish, bearish bool) {
	curMACD, ok1 := ind.MACD.Get(i)
	prevMACD, ok2 := ind.MACD.Get(i - 1)
	curSig, ok3 := ind.MACDSignal.Get(i)
	prevSig, ok4 := ind.MACDSignal.Get(i - 1)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false, false
	}
	bullish = prevMACD <= prevSig && curMACD > curSig
	bearish = prevMACD >= prevSig && curMACD < curSig
	return bullish, bearish
}

// volumeSpike compares the latest volume against the mean of the last few
// bars. The baseline includes the latest bar itself.
func volumeSpike(volumes []float64) bool {
	if len(volumes) == 0 {
		return false
	}
	start := len(volumes) - volumeSpikeBars
	if start < 0 {
		start = 0
	}
	avg := stat.Mean(volumes[start:], nil)
	return volumes[len(volumes)-1] > avg*volumeSpikeFactor
}

func bollingerPosition(price float64, ind *model.IndicatorSet, i int) model.BollingerPosition {
	upper, ok1 := ind.BBUpper.Get(i)
	lower, ok2 := ind.BBLower.Get(i)
	switch {
	case ok1 && price > upper:
		return model.BollingerAbove
	case ok2 && price < lower:
		return model.BollingerBelow
	default:
		return model.BollingerMiddle
	}
}
