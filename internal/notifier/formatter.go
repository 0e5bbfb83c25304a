package notifier

import (
	"fmt"
	"strings"
	"time"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/strategy"
)

// FormatInsight renders an analysis outcome as plain text for intent.
func FormatInsight(outcome model.Outcome, intent model.Intent) string {
	advice, ok := outcome.(*model.Advice)
	if !ok {
		return FormatUnavailable(outcome.SymbolName())
	}
	switch intent {
	case model.IntentTrendAnalysis:
		return formatTrendAnalysis(advice)
	case model.IntentRiskAssessment:
		return formatRiskAssessment(advice)
	case model.IntentPriceAnalysis:
		return formatPriceAnalysis(advice)
	default:
		return formatBuyAdvice(advice)
	}
}

// FormatUnavailable is the reply for a symbol without data.
func FormatUnavailable(symbol string) string {
	return fmt.Sprintf("I don't have enough data to analyze %s. Please check if the stock symbol is correct.", symbol)
}

func formatVolatility(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func formatBuyAdvice(a *model.Advice) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Based on my analysis of %s:\n\n", a.Symbol))
	b.WriteString(fmt.Sprintf("Current Price: $%.2f\n", a.Trend.CurrentPrice))
	b.WriteString(fmt.Sprintf("Recent Change: %+.2f%%\n", a.Trend.PriceChangePct))
	b.WriteString(fmt.Sprintf("Recommendation: %s\n", a.Recommendation))
	b.WriteString(fmt.Sprintf("Risk Level: %d/10\n\n", a.RiskScore))

	switch a.Recommendation {
	case model.StrongBuy:
		b.WriteString("This appears to be a good time to consider buying. Technical indicators are strongly bullish.")
	case model.Buy:
		b.WriteString("This appears to be a good time to consider buying. Technical indicators are moderately bullish.")
	case model.StrongSell:
		b.WriteString("This might not be the best time to buy. Technical indicators are strongly bearish.")
	case model.Sell:
		b.WriteString("This might not be the best time to buy. Technical indicators are moderately bearish.")
	default:
		b.WriteString("The stock is showing mixed signals. Consider waiting for clearer trends.")
	}
	return b.String()
}

func formatTrendAnalysis(a *model.Advice) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Trend Analysis for %s:\n\n", a.Symbol))
	b.WriteString(fmt.Sprintf("Current Trend: %s\n", a.Trend.Trend))
	b.WriteString(fmt.Sprintf("Price Change: %+.2f%%\n", a.Trend.PriceChangePct))
	b.WriteString(fmt.Sprintf("Volatility: %s\n\n", formatVolatility(a.Trend.Volatility)))

	switch a.Trend.Trend {
	case model.TrendStrongUp:
		b.WriteString("The stock is in a strong upward trend with significant momentum.")
	case model.TrendUp:
		b.WriteString("The stock is showing positive momentum with an upward trend.")
	case model.TrendStrongDown:
		b.WriteString("The stock is in a strong downward trend with significant selling pressure.")
	case model.TrendDown:
		b.WriteString("The stock is showing negative momentum with a downward trend.")
	default:
		b.WriteString("The stock is moving sideways with no clear directional trend.")
	}
	return b.String()
}

func formatRiskAssessment(a *model.Advice) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Risk Assessment for %s:\n\n", a.Symbol))
	b.WriteString(fmt.Sprintf("Risk Score: %d/10\n", a.RiskScore))
	b.WriteString(fmt.Sprintf("Volatility: %s\n", formatVolatility(a.Trend.Volatility)))
	b.WriteString(fmt.Sprintf("Support Level: $%.2f\n", a.Trend.Support))
	b.WriteString(fmt.Sprintf("Resistance Level: $%.2f\n\n", a.Trend.Resistance))

	switch {
	case a.RiskScore <= 3:
		b.WriteString("Low risk investment with stable price movements.")
	case a.RiskScore <= 6:
		b.WriteString("Moderate risk with some price volatility.")
	default:
		b.WriteString("High risk investment with significant price volatility.")
	}
	return b.String()
}

func formatPriceAnalysis(a *model.Advice) string {
	t := a.Trend
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Price Analysis for %s:\n\n", a.Symbol))
	b.WriteString(fmt.Sprintf("Current Price: $%.2f\n", t.CurrentPrice))
	b.WriteString(fmt.Sprintf("Recent Change: %+.2f%%\n", t.PriceChangePct))
	b.WriteString(fmt.Sprintf("Support Level: $%.2f\n", t.Support))
	b.WriteString(fmt.Sprintf("Resistance Level: $%.2f\n", t.Resistance))
	b.WriteString(fmt.Sprintf("Volatility: %s\n\n", formatVolatility(t.Volatility)))

	pos := calculator.Position(t.CurrentPrice, t.Support, t.Resistance)
	switch {
	case pos < 0.3:
		b.WriteString("The stock is trading near support levels, which could indicate a potential buying opportunity.")
	case pos > 0.7:
		b.WriteString("The stock is trading near resistance levels, which could indicate a potential selling opportunity.")
	default:
		b.WriteString("The stock is trading in the middle range between support and resistance levels.")
	}

	switch {
	case t.Volatility != nil && *t.Volatility > 20:
		b.WriteString(" High volatility suggests significant price swings are possible.")
	case t.Volatility != nil && *t.Volatility < 10:
		b.WriteString(" Low volatility suggests relatively stable price movements.")
	default:
		b.WriteString(" Moderate volatility indicates balanced risk and opportunity.")
	}
	return b.String()
}

// FormatDigest formats the scheduled watchlist digest as a Telegram message.
func FormatDigest(outcomes []model.Outcome, at time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>MarketAdvisor digest</b> | %s\n\n", at.Format("2006-01-02")))

	var missing []string
	for _, o := range outcomes {
		a, ok := o.(*model.Advice)
		if !ok {
			missing = append(missing, EscapeHTML(o.SymbolName()))
			continue
		}
		bull, bear := strategy.Tally(a.Signals)
		b.WriteString(fmt.Sprintf("<b>%s</b> $%.2f (%+.2f%%)\n", EscapeHTML(a.Symbol), a.Trend.CurrentPrice, a.Trend.PriceChangePct))
		b.WriteString(fmt.Sprintf("  %s | %s | risk %d/10\n", a.Trend.Trend, a.Recommendation, a.RiskScore))
		b.WriteString(fmt.Sprintf("  signals: %d bullish / %d bearish, bollinger %s", bull, bear, a.Signals.Bollinger))
		if a.Signals.RSI != nil {
			b.WriteString(fmt.Sprintf(", RSI %.0f", *a.Signals.RSI))
		}
		b.WriteString("\n\n")
	}
	if len(missing) > 0 {
		b.WriteString(fmt.Sprintf("⚠️ no data: %s\n", strings.Join(missing, ", ")))
	}
	if len(outcomes) == 0 {
		b.WriteString("watchlist is empty\n")
	}
	return b.String()
}

// FormatSymbols lists the stored series grouped by category.
func FormatSymbols(refs []store.SymbolRef) string {
	if len(refs) == 0 {
		return "No symbols available."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%d symbols available</b>\n", len(refs)))
	current := ""
	var line []string
	flush := func() {
		if current != "" {
			b.WriteString(fmt.Sprintf("\n<b>%s</b>: %s", EscapeHTML(current), strings.Join(line, ", ")))
		}
	}
	for _, r := range refs {
		if r.Category != current {
			flush()
			current, line = r.Category, nil
		}
		line = append(line, EscapeHTML(r.Symbol))
	}
	flush()
	return b.String()
}

// FormatReport renders every field of an analysis as plain text, one line
// per metric. Used for /analyze and the CLI.
func FormatReport(outcome model.Outcome) string {
	a, ok := outcome.(*model.Advice)
	if !ok {
		return FormatUnavailable(outcome.SymbolName())
	}
	t, s := a.Trend, a.Signals
	var b strings.Builder
	header := a.Symbol
	if a.Category != "" {
		header += " (" + a.Category + ")"
	}
	fmt.Fprintf(&b, "%s, last %d bars\n\n", header, a.AnalysisPeriod)
	fmt.Fprintf(&b, "Price: $%.2f (%+.2f, %+.2f%%)\n", t.CurrentPrice, t.PriceChange, t.PriceChangePct)
	fmt.Fprintf(&b, "Trend: %s\n", t.Trend)
	fmt.Fprintf(&b, "Volatility: %s\n", formatVolatility(t.Volatility))
	fmt.Fprintf(&b, "Support / Resistance: $%.2f / $%.2f\n\n", t.Support, t.Resistance)

	fmt.Fprintf(&b, "RSI(14): %s\n", formatReading(s.RSI, "%.1f"))
	fmt.Fprintf(&b, "MACD: %s (signal %s)\n", formatReading(s.MACD, "%.4f"), formatReading(s.MACDSignal, "%.4f"))
	fmt.Fprintf(&b, "SMA(20): %s\n", formatReading(s.SMA20, "$%.2f"))
	fmt.Fprintf(&b, "Bollinger: %s\n", s.Bollinger)

	var flags []string
	for _, f := range []struct {
		on   bool
		name string
	}{
		{s.MACDBullish, "MACD bullish cross"},
		{s.MACDBearish, "MACD bearish cross"},
		{s.RSIOversold, "RSI oversold"},
		{s.RSIOverbought, "RSI overbought"},
		{s.PriceAboveSMA, "price above SMA20"},
		{s.VolumeSpike, "volume spike"},
	} {
		if f.on {
			flags = append(flags, f.name)
		}
	}
	if len(flags) == 0 {
		flags = append(flags, "none")
	}
	fmt.Fprintf(&b, "Signals: %s\n\n", strings.Join(flags, ", "))

	bull, bear := strategy.Tally(s)
	fmt.Fprintf(&b, "Recommendation: %s (%d bullish / %d bearish)\n", a.Recommendation, bull, bear)
	fmt.Fprintf(&b, "Risk Level: %d/10", a.RiskScore)
	return b.String()
}

func formatReading(v *float64, layout string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(layout, *v)
}
