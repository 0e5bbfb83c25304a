package collector

import (
	"context"

	"MarketAdvisor/internal/model"
)

// Fetcher downloads daily bars for a provider ticker, oldest first.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, ticker string, days int) ([]model.PricePoint, error)
	Name() string
}
