package advisor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"MarketAdvisor/internal/calculator"
	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/notifier"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/strategy"

	"go.uber.org/zap"
)

// Engine runs the analysis pipeline for one symbol per call. Apart from the
// optional series cache it holds no state between calls.
type Engine struct {
	loader store.Loader
	cache  *seriesCache
	now    func() time.Time
	period int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache keeps loaded series for ttl. Zero keeps them until purged; a
// negative ttl disables the cache.
func WithCache(ttl time.Duration) Option {
	return func(e *Engine) {
		if ttl < 0 {
			e.cache = nil
			return
		}
		e.cache = newSeriesCache(ttl)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPeriod sets the default trend window in bars.
func WithPeriod(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.period = days
		}
	}
}

// New creates an Engine reading from loader.
func New(loader store.Loader, opts ...Option) *Engine {
	e := &Engine{loader: loader, now: time.Now, period: strategy.DefaultPeriodDays}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze scores symbol over a trend window of periodDays bars (the engine
// default when periodDays <= 0). Missing data yields *model.Unavailable and
// a nil error; only store access faults are returned as errors.
func (e *Engine) Analyze(symbol string, periodDays int) (model.Outcome, error) {
	symbol = strings.TrimSpace(symbol)
	if periodDays <= 0 {
		periodDays = e.period
	}
	if symbol == "" {
		return &model.Unavailable{Symbol: symbol, Reason: "empty symbol"}, nil
	}

	series, err := e.load(symbol)
	if errors.Is(err, store.ErrUnavailable) {
		zap.L().Info("no data for symbol", zap.String("symbol", symbol), zap.Error(err))
		return &model.Unavailable{Symbol: symbol, Reason: err.Error()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", symbol, err)
	}

	ind := calculator.Compute(series)
	summary, ok := strategy.AnalyzeTrend(series, periodDays)
	if !ok {
		return &model.Unavailable{Symbol: symbol, Reason: "empty trend window"}, nil
	}
	if summary.Volatility == nil {
		zap.L().Warn("volatility undefined, risk tier skipped", zap.String("symbol", symbol), zap.Int("bars", series.Len()))
	}
	signals := strategy.DetectSignals(series, ind)

	advice := &model.Advice{
		Symbol:         symbol,
		Category:       series.Category,
		Trend:          *summary,
		Signals:        signals,
		Recommendation: strategy.Recommend(summary.Trend, signals),
		RiskScore:      strategy.RiskScore(summary, signals),
		AnalysisPeriod: periodDays,
		GeneratedAt:    e.now(),
	}
	zap.L().Debug("analysis complete",
		zap.String("symbol", symbol),
		zap.String("trend", string(advice.Trend.Trend)),
		zap.String("recommendation", string(advice.Recommendation)),
		zap.Int("risk", advice.RiskScore),
	)
	return advice, nil
}

// Insight analyzes symbol over the default window and renders the text for
// intent. Unknown intents use the general template.
func (e *Engine) Insight(symbol, intent string) (string, error) {
	outcome, err := e.Analyze(symbol, 0)
	if err != nil {
		return "", err
	}
	return notifier.FormatInsight(outcome, model.ParseIntent(intent)), nil
}

// Invalidate drops symbol from the cache.
func (e *Engine) Invalidate(symbol string) {
	if e.cache != nil {
		e.cache.invalidate(symbol)
	}
}

// Purge empties the cache.
func (e *Engine) Purge() {
	if e.cache != nil {
		e.cache.purge()
	}
}

func (e *Engine) load(symbol string) (*model.PriceSeries, error) {
	if e.cache != nil {
		if s, ok := e.cache.get(symbol, e.now()); ok {
			return s, nil
		}
	}
	s, err := e.loader.Load(symbol, "")
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.put(symbol, s, e.now())
	}
	return s, nil
}
