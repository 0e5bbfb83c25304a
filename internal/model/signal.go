package model

import (
	"strings"
	"time"
)

// Trend is the directional label of a trailing window.
type Trend string

const (
	TrendStrongUp   Trend = "STRONG_UPTREND"
	TrendUp         Trend = "UPTREND"
	TrendSideways   Trend = "SIDEWAYS"
	TrendDown       Trend = "DOWNTREND"
	TrendStrongDown Trend = "STRONG_DOWNTREND"
)

// IsStrong reports whether t is one of the strong variants.
func (t Trend) IsStrong() bool {
	return t == TrendStrongUp || t == TrendStrongDown
}

// IsDirectional reports whether t is a plain up or down trend.
func (t Trend) IsDirectional() bool {
	return t == TrendUp || t == TrendDown
}

// BollingerPosition locates the latest close against the volatility bands.
type BollingerPosition string

const (
	BollingerAbove  BollingerPosition = "above"
	BollingerMiddle BollingerPosition = "middle"
	BollingerBelow  BollingerPosition = "below"
)

// Recommendation is the final action label.
type Recommendation string

const (
	StrongBuy  Recommendation = "STRONG_BUY"
	Buy        Recommendation = "BUY"
	Hold       Recommendation = "HOLD"
	Sell       Recommendation = "SELL"
	StrongSell Recommendation = "STRONG_SELL"
)

// Intent selects the insight template.
type Intent string

const (
	IntentShouldIBuy     Intent = "should_i_buy"
	IntentTrendAnalysis  Intent = "trend_analysis"
	IntentRiskAssessment Intent = "risk_assessment"
	IntentPriceAnalysis  Intent = "price_analysis"
	IntentGeneral        Intent = "general"
)

// ParseIntent maps a free-form tag to an Intent. Unknown tags fall back to
// IntentGeneral.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentShouldIBuy:
		return IntentShouldIBuy
	case IntentTrendAnalysis:
		return IntentTrendAnalysis
	case IntentRiskAssessment:
		return IntentRiskAssessment
	case IntentPriceAnalysis:
		return IntentPriceAnalysis
	default:
		return IntentGeneral
	}
}

// TrendSummary describes price movement over the analysis window.
type TrendSummary struct {
	Trend          Trend    `json:"trend"`
	PriceChange    float64  `json:"price_change"`
	PriceChangePct float64  `json:"price_change_pct"`
	CurrentPrice   float64  `json:"current_price"`
	Volatility     *float64 `json:"volatility,omitempty"` // annualised %, nil with fewer than two returns
	Support        float64  `json:"support"`
	Resistance     float64  `json:"resistance"`
	PeriodDays     int      `json:"period_days"`
}

// SignalSet holds the boolean technical signals of the trailing window.
// The pointer fields carry the latest indicator readings for display.
type SignalSet struct {
	MACDBullish   bool              `json:"macd_bullish"`
	MACDBearish   bool              `json:"macd_bearish"`
	RSIOverbought bool              `json:"rsi_overbought"`
	RSIOversold   bool              `json:"rsi_oversold"`
	PriceAboveSMA bool              `json:"price_above_sma"`
	VolumeSpike   bool              `json:"volume_spike"`
	Bollinger     BollingerPosition `json:"bollinger_position"`

	RSI        *float64 `json:"rsi,omitempty"`
	MACD       *float64 `json:"macd,omitempty"`
	MACDSignal *float64 `json:"macd_signal,omitempty"`
	SMA20      *float64 `json:"sma_20,omitempty"`
}

// Outcome is the result of one analysis: either *Advice or *Unavailable.
type Outcome interface {
	outcome()
	SymbolName() string
}

// Advice is a fully scored analysis.
type Advice struct {
	Symbol         string         `json:"symbol"`
	Category       string         `json:"category"`
	Trend          TrendSummary   `json:"trend"`
	Signals        SignalSet      `json:"signals"`
	Recommendation Recommendation `json:"recommendation"`
	RiskScore      int            `json:"risk_score"`
	AnalysisPeriod int            `json:"analysis_period"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

func (*Advice) outcome()             {}
func (a *Advice) SymbolName() string { return a.Symbol }

// Unavailable is returned when no usable price data exists for a symbol.
type Unavailable struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

func (*Unavailable) outcome()             {}
func (u *Unavailable) SymbolName() string { return u.Symbol }
