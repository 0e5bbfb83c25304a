package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
)

func ptr(v float64) *float64 { return &v }

func sampleAdvice() *model.Advice {
	return &model.Advice{
		Symbol: "AAPL",
		Trend: model.TrendSummary{
			Trend:          model.TrendUp,
			PriceChange:    4.5,
			PriceChangePct: 3.456,
			CurrentPrice:   134.5,
			Volatility:     ptr(25.04),
			Support:        120,
			Resistance:     140,
			PeriodDays:     30,
		},
		Signals:        model.SignalSet{Bollinger: model.BollingerMiddle, RSI: ptr(61)},
		Recommendation: model.Buy,
		RiskScore:      7,
		AnalysisPeriod: 30,
	}
}

func TestFormatInsight_BuyAdvice(t *testing.T) {
	got := FormatInsight(sampleAdvice(), model.IntentShouldIBuy)
	want := "Based on my analysis of AAPL:\n\n" +
		"Current Price: $134.50\n" +
		"Recent Change: +3.46%\n" +
		"Recommendation: BUY\n" +
		"Risk Level: 7/10\n\n" +
		"This appears to be a good time to consider buying. Technical indicators are moderately bullish."
	if got != want {
		t.Errorf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
	if general := FormatInsight(sampleAdvice(), model.IntentGeneral); general != got {
		t.Error("general intent should reuse the buy template")
	}
	if unknown := FormatInsight(sampleAdvice(), model.ParseIntent("what's up")); unknown != got {
		t.Error("unknown intent should fall back to the buy template")
	}
}

func TestFormatInsight_RecommendationPhrases(t *testing.T) {
	tests := []struct {
		rec  model.Recommendation
		want string
	}{
		{model.StrongBuy, "strongly bullish"},
		{model.Buy, "moderately bullish"},
		{model.Hold, "mixed signals"},
		{model.Sell, "moderately bearish"},
		{model.StrongSell, "strongly bearish"},
	}
	for _, tt := range tests {
		a := sampleAdvice()
		a.Recommendation = tt.rec
		if got := FormatInsight(a, model.IntentShouldIBuy); !strings.Contains(got, tt.want) {
			t.Errorf("%s: expected %q in %q", tt.rec, tt.want, got)
		}
	}
}

func TestFormatInsight_TrendAnalysis(t *testing.T) {
	a := sampleAdvice()
	a.Trend.PriceChangePct = -6.2
	a.Trend.Trend = model.TrendStrongDown
	got := FormatInsight(a, model.IntentTrendAnalysis)
	for _, want := range []string{
		"Trend Analysis for AAPL:\n\n",
		"Current Trend: STRONG_DOWNTREND\n",
		"Price Change: -6.20%\n",
		"Volatility: 25.0%\n\n",
		"strong downward trend with significant selling pressure.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestFormatInsight_RiskBands(t *testing.T) {
	tests := []struct {
		risk int
		want string
	}{
		{1, "Low risk investment"},
		{3, "Low risk investment"},
		{4, "Moderate risk"},
		{6, "Moderate risk"},
		{7, "High risk investment"},
		{10, "High risk investment"},
	}
	for _, tt := range tests {
		a := sampleAdvice()
		a.RiskScore = tt.risk
		got := FormatInsight(a, model.IntentRiskAssessment)
		if !strings.Contains(got, tt.want) {
			t.Errorf("risk %d: expected %q in %q", tt.risk, tt.want, got)
		}
		if !strings.Contains(got, "Support Level: $120.00\nResistance Level: $140.00\n") {
			t.Errorf("risk %d: missing levels in %q", tt.risk, got)
		}
	}
}

func TestFormatInsight_PriceAnalysis(t *testing.T) {
	tests := []struct {
		name       string
		price      float64
		support    float64
		resistance float64
		volatility *float64
		position   string
		vol        string
	}{
		{"near support", 121, 120, 140, ptr(5), "near support levels", "Low volatility"},
		{"near resistance", 139, 120, 140, ptr(25), "near resistance levels", "High volatility"},
		{"middle", 130, 120, 140, ptr(15), "middle range", "Moderate volatility"},
		{"flat range", 100, 100, 100, ptr(20), "middle range", "Moderate volatility"},
		{"undefined volatility", 130, 120, 140, nil, "middle range", "Moderate volatility"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := sampleAdvice()
			a.Trend.CurrentPrice = tt.price
			a.Trend.Support = tt.support
			a.Trend.Resistance = tt.resistance
			a.Trend.Volatility = tt.volatility
			got := FormatInsight(a, model.IntentPriceAnalysis)
			if !strings.HasPrefix(got, "Price Analysis for AAPL:\n\n") {
				t.Errorf("unexpected header: %q", got)
			}
			if !strings.Contains(got, tt.position) || !strings.Contains(got, tt.vol) {
				t.Errorf("expected %q and %q in %q", tt.position, tt.vol, got)
			}
		})
	}
}

func TestFormatInsight_Unavailable(t *testing.T) {
	for _, intent := range []model.Intent{model.IntentShouldIBuy, model.IntentTrendAnalysis, model.IntentRiskAssessment, model.IntentPriceAnalysis} {
		got := FormatInsight(&model.Unavailable{Symbol: "ZZZZ"}, intent)
		want := "I don't have enough data to analyze ZZZZ. Please check if the stock symbol is correct."
		if got != want {
			t.Errorf("%s: got %q", intent, got)
		}
		if strings.Contains(got, "HOLD") {
			t.Error("unavailable must not read as a HOLD")
		}
	}
}

func TestFormatDigest(t *testing.T) {
	at := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	got := FormatDigest([]model.Outcome{sampleAdvice(), &model.Unavailable{Symbol: "<X>"}}, at)
	for _, want := range []string{"2025-03-14", "<b>AAPL</b> $134.50 (+3.46%)", "UPTREND | BUY | risk 7/10", "RSI 61", "no data: &lt;X&gt;"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if empty := FormatDigest(nil, at); !strings.Contains(empty, "watchlist is empty") {
		t.Errorf("unexpected empty digest: %s", empty)
	}
}

func TestFormatSymbols(t *testing.T) {
	got := FormatSymbols([]store.SymbolRef{
		{Category: "Crypto", Symbol: "BTC_USD"},
		{Category: "Crypto", Symbol: "ETH_USD"},
		{Category: "Tech", Symbol: "AAPL"},
	})
	if !strings.Contains(got, "3 symbols") || !strings.Contains(got, "<b>Crypto</b>: BTC_USD, ETH_USD") || !strings.Contains(got, "<b>Tech</b>: AAPL") {
		t.Errorf("unexpected listing:\n%s", got)
	}
	if FormatSymbols(nil) != "No symbols available." {
		t.Error("unexpected empty listing")
	}
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if !strings.HasSuffix(r.URL.Path, "/bottoken/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["chat_id"] != "42" || payload["text"] != "hello" {
			t.Errorf("unexpected payload %+v", payload)
		}
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.BaseURL = srv.URL
	if err := tn.SendWithRetry(context.Background(), "hello", 1); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestFormatReport(t *testing.T) {
	a := sampleAdvice()
	a.Category = "Tech"
	a.Signals.PriceAboveSMA = true
	a.Signals.VolumeSpike = true
	got := FormatReport(a)
	for _, want := range []string{
		"AAPL (Tech), last 30 bars",
		"Price: $134.50 (+4.50, +3.46%)",
		"Volatility: 25.0%",
		"RSI(14): 61.0",
		"MACD: n/a (signal n/a)",
		"Signals: price above SMA20, volume spike",
		"Recommendation: BUY (2 bullish / 0 bearish)",
		"Risk Level: 7/10",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if got := FormatReport(&model.Unavailable{Symbol: "ZZ"}); !strings.HasPrefix(got, "I don't have enough data to analyze ZZ") {
		t.Errorf("unexpected unavailable report: %q", got)
	}
}

func TestEscapeHTML(t *testing.T) {
	if got := EscapeHTML(`I don't <b>& "x"`); got != `I don't &lt;b&gt;&amp; "x"` {
		t.Errorf("unexpected escape: %s", got)
	}
}
