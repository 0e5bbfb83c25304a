package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/symbols"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  map[string][]model.PricePoint
	Err   map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, ticker string, days int) ([]model.PricePoint, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ticker)
	m.mu.Unlock()
	if err := m.Err[ticker]; err != nil {
		return nil, err
	}
	if bars, ok := m.Bars[ticker]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, days), nil
}

// Calls returns the tickers requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func generateMockBars(basePrice float64, count int) []model.PricePoint {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PricePoint{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Report summarises one collector run.
type Report struct {
	Written int
	Skipped int
	Failed  map[string]error
}

// Collector downloads daily history for a universe of tickers and writes it
// into the series store.
type Collector struct {
	Fetcher  Fetcher
	Writer   store.Writer
	Days     int
	Manifest *Manifest
	// MaxAge skips tickers fetched successfully more recently than this.
	MaxAge time.Duration

	now func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, writer store.Writer, days int) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Writer:   writer,
		Days:     days,
		Manifest: &Manifest{Records: map[string]FetchRecord{}},
		now:      time.Now,
	}
}

// Run fetches every ticker in the universe, category by category. A failed
// ticker is logged and recorded; only a write fault or cancellation aborts
// the run.
func (c *Collector) Run(ctx context.Context, u symbols.Universe) (*Report, error) {
	report := &Report{Failed: map[string]error{}}
	log := zap.L().With(zap.String("fetcher", c.Fetcher.Name()))
	log.Info("collector run started", zap.Int("tickers", u.Len()), zap.Int("days", c.Days))

	for _, cat := range u.Categories() {
		for _, ticker := range u[cat] {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			if c.Manifest.Fresh(ticker, c.MaxAge, c.now()) {
				report.Skipped++
				continue
			}

			points, err := c.Fetcher.FetchDailyBars(ctx, ticker, c.Days)
			if err == nil && len(points) == 0 {
				err = fmt.Errorf("no bars returned")
			}
			if err != nil {
				log.Warn("fetch failed", zap.String("ticker", ticker), zap.String("category", cat), zap.Error(err))
				report.Failed[ticker] = err
				c.Manifest.Put(ticker, FetchRecord{Category: cat, FetchedAt: c.now(), Error: err.Error()})
				continue
			}

			if err := c.Writer.Write(cat, ticker, points); err != nil {
				return report, fmt.Errorf("write %s/%s: %w", cat, ticker, err)
			}
			c.Manifest.Put(ticker, FetchRecord{
				Category:  cat,
				Bars:      len(points),
				LastDate:  points[len(points)-1].Date,
				FetchedAt: c.now(),
			})
			report.Written++
			log.Debug("ticker stored", zap.String("ticker", ticker), zap.Int("bars", len(points)))
		}
	}

	log.Info("collector run finished",
		zap.Int("written", report.Written),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", len(report.Failed)))
	return report, nil
}
