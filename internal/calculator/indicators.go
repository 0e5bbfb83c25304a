package calculator

import "MarketAdvisor/internal/model"

const (
	ShortMAPeriod   = 20
	LongMAPeriod    = 50
	MACDFast        = 12
	MACDSlow        = 26
	MACDSignalSpan  = 9
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerWidth  = 2.0
	VolumePeriod    = 20
)

// Compute derives every indicator column for the series. The series is not
// modified.
func Compute(series *model.PriceSeries) *model.IndicatorSet {
	closes := series.Closes()
	volumes := series.Volumes()

	ind := &model.IndicatorSet{
		SMA20: SMA(closes, ShortMAPeriod),
		SMA50: SMA(closes, LongMAPeriod),
		EMA12: Mask(EMA(closes, MACDFast), MACDFast-1),
		EMA26: Mask(EMA(closes, MACDSlow), MACDSlow-1),
		RSI14: RSI(closes, RSIPeriod),
	}
	ind.MACD, ind.MACDSignal, ind.MACDHistogram = MACD(closes, MACDFast, MACDSlow, MACDSignalSpan)
	ind.BBMiddle, ind.BBUpper, ind.BBLower = Bollinger(closes, BollingerPeriod, BollingerWidth)
	ind.VolumeSMA20, ind.VolumeRatio = VolumeRatio(volumes, VolumePeriod)
	return ind
}
