package calculator

import (
	"math"
	"testing"

	"MarketAdvisor/internal/model"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMA(t *testing.T) {
	got := SMA([]float64{1, 2, 3, 4, 5}, 3)
	want := []float64{math.NaN(), math.NaN(), 2, 3, 4}
	for i := range want {
		v, ok := got.Get(i)
		if math.IsNaN(want[i]) {
			if ok {
				t.Errorf("SMA[%d]: expected undefined, got %.4f", i, v)
			}
			continue
		}
		if !ok || !almostEqual(v, want[i]) {
			t.Errorf("SMA[%d]: expected %.4f, got %.4f (defined=%v)", i, want[i], v, ok)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	got := SMA([]float64{1, 2}, 20)
	if _, ok := got.Last(); ok {
		t.Error("expected undefined SMA for short input")
	}
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		span   int
		want   float64
	}{
		{"constant", []float64{7, 7, 7, 7}, 12, 7},
		{"single point", []float64{42}, 26, 42},
		{"adjusted two points", []float64{1, 2}, 3, 2.5 / 1.5},
		{"span one tracks input", []float64{3, 9, 4}, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EMA(tt.values, tt.span).Last()
			if !ok || !almostEqual(got, tt.want) {
				t.Errorf("expected %.6f, got %.6f (defined=%v)", tt.want, got, ok)
			}
		})
	}
}

func TestRSI_StrictlyIncreasing(t *testing.T) {
	closes := rising(14, 100, 1)
	rsi := RSI(closes, 14)
	if _, ok := rsi.Get(12); ok {
		t.Error("expected RSI undefined before the window is full")
	}
	v, ok := rsi.Last()
	if !ok || v != 100 {
		t.Errorf("expected RSI=100 for rising closes, got %.4f (defined=%v)", v, ok)
	}
}

func TestRSI_KnownValues(t *testing.T) {
	rsi := RSI([]float64{1, 2, 1}, 2)
	if v, ok := rsi.Get(1); !ok || v != 100 {
		t.Errorf("RSI[1]: expected 100, got %.4f", v)
	}
	if v, ok := rsi.Get(2); !ok || !almostEqual(v, 50) {
		t.Errorf("RSI[2]: expected 50, got %.4f", v)
	}
}

func TestRSI_Bounded(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.2, 45.6, 46.3, 46.3, 46.0, 46.4, 46.2, 45.6, 46.2, 40.1, 39.0}
	for i, v := range RSI(closes, 14) {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Errorf("RSI[%d]=%.4f out of range", i, v)
		}
	}
	falling := RSI(rising(20, 100, -1), 14)
	if v, _ := falling.Last(); v != 0 {
		t.Errorf("expected RSI=0 for falling closes, got %.4f", v)
	}
}

func TestBollinger_PopulationStd(t *testing.T) {
	mid, upper, lower := Bollinger([]float64{1, 3}, 2, 2)
	m, _ := mid.Last()
	u, _ := upper.Last()
	l, _ := lower.Last()
	if !almostEqual(m, 2) || !almostEqual(u, 4) || !almostEqual(l, 0) {
		t.Errorf("expected 2/4/0, got %.4f/%.4f/%.4f", m, u, l)
	}
	if _, ok := upper.Get(0); ok {
		t.Error("expected upper band undefined during warm-up")
	}
}

func TestMACD_WarmUp(t *testing.T) {
	closes := rising(40, 100, 0.5)
	line, sig, hist := MACD(closes, 12, 26, 9)
	if _, ok := line.Get(24); ok {
		t.Error("expected MACD undefined at index 24")
	}
	if _, ok := line.Get(25); !ok {
		t.Error("expected MACD defined at index 25")
	}
	if _, ok := sig.Get(32); ok {
		t.Error("expected signal undefined at index 32")
	}
	if _, ok := sig.Get(33); !ok {
		t.Error("expected signal defined at index 33")
	}
	l, _ := line.Last()
	s, _ := sig.Last()
	h, _ := hist.Last()
	if l <= 0 {
		t.Errorf("expected positive MACD in a rising market, got %.4f", l)
	}
	if !almostEqual(h, l-s) {
		t.Errorf("histogram %.6f != line-signal %.6f", h, l-s)
	}
}

func TestVolumeRatio(t *testing.T) {
	vols := []float64{100, 100, 100, 400}
	avg, ratio := VolumeRatio(vols, 4)
	a, _ := avg.Last()
	r, _ := ratio.Last()
	if !almostEqual(a, 175) || !almostEqual(r, 400.0/175) {
		t.Errorf("expected avg 175 ratio %.4f, got %.4f %.4f", 400.0/175, a, r)
	}

	_, ratio = VolumeRatio([]float64{0, 0, 0}, 2)
	if _, ok := ratio.Last(); ok {
		t.Error("expected undefined ratio for zero average volume")
	}
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name                 string
		cur, support, resist float64
		want                 float64
	}{
		{"flat range", 10, 10, 10, 0.5},
		{"inverted range", 10, 12, 8, 0.5},
		{"at support", 10, 10, 20, 0},
		{"middle", 15, 10, 20, 0.5},
		{"clamped above", 25, 10, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Position(tt.cur, tt.support, tt.resist); !almostEqual(got, tt.want) {
				t.Errorf("expected %.2f, got %.2f", tt.want, got)
			}
		})
	}
}

func TestSupportResistance(t *testing.T) {
	sup, res, err := SupportResistance([]float64{11, 15, 12}, []float64{9, 10, 8})
	if err != nil {
		t.Fatal(err)
	}
	if sup != 8 || res != 15 {
		t.Errorf("expected 8/15, got %.2f/%.2f", sup, res)
	}
	if _, _, err := SupportResistance(nil, nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestAnnualizedVolatility(t *testing.T) {
	v, err := AnnualizedVolatility([]float64{100, 100, 100, 100})
	if err != nil || v != 0 {
		t.Errorf("expected zero volatility for flat closes, got %.4f (%v)", v, err)
	}
	// returns +10%, -10%: population std 0.1
	v, err = AnnualizedVolatility([]float64{100, 110, 99})
	if err != nil {
		t.Fatal(err)
	}
	want := 0.1 * math.Sqrt(252) * 100
	if math.Abs(v-want) > 1e-6 {
		t.Errorf("expected %.4f, got %.4f", want, v)
	}
	if _, err := AnnualizedVolatility([]float64{100, 101}); err == nil {
		t.Error("expected error with a single return")
	}
}

func TestCompute_ColumnsAligned(t *testing.T) {
	series := &model.PriceSeries{Symbol: "TEST"}
	for i, c := range rising(60, 100, 1) {
		series.Points = append(series.Points, model.PricePoint{Open: c, High: c + 1, Low: c - 1, Close: c, Volume: int64(1000 + i)})
	}
	ind := Compute(series)
	cols := []model.Column{ind.SMA20, ind.SMA50, ind.EMA12, ind.EMA26, ind.MACD, ind.MACDSignal,
		ind.MACDHistogram, ind.RSI14, ind.BBMiddle, ind.BBUpper, ind.BBLower, ind.VolumeSMA20, ind.VolumeRatio}
	for i, c := range cols {
		if c.Len() != 60 {
			t.Errorf("column %d: expected length 60, got %d", i, c.Len())
		}
		if _, ok := c.Last(); !ok {
			t.Errorf("column %d: expected last value defined", i)
		}
	}
	if _, ok := ind.SMA50.Get(48); ok {
		t.Error("expected SMA50 undefined at index 48")
	}
	if _, ok := ind.EMA12.Get(10); ok {
		t.Error("expected EMA12 undefined at index 10")
	}
}
