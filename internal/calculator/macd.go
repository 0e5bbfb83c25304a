package calculator

import "MarketAdvisor/internal/model"

// MACD computes the oscillator (fast EMA minus slow EMA), its signal line and
// the histogram. The oscillator is undefined until the slow span is filled,
// the signal line until its own span is filled on top of that.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist model.Column) {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	raw := make(model.Column, len(closes))
	for i := range closes {
		raw[i] = fastEMA[i] - slowEMA[i]
	}
	rawSignal := EMA(raw, signal)

	lineWarmup := slow - 1
	sigWarmup := slow + signal - 2
	line = Mask(raw, lineWarmup)
	sig = Mask(rawSignal, sigWarmup)
	hist = model.Undefined(len(closes))
	for i := range closes {
		l, ok1 := line.Get(i)
		s, ok2 := sig.Get(i)
		if ok1 && ok2 {
			hist[i] = l - s
		}
	}
	return line, sig, hist
}
