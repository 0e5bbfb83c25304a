package store

import (
	"strings"
	"sync"

	"MarketAdvisor/internal/model"
)

// MockLoader serves fixed series from memory for development and testing.
// Keys are matched case-insensitively after symbol normalisation.
type MockLoader struct {
	mu     sync.Mutex
	Series map[string]*model.PriceSeries
	Err    error
	Calls  int
}

// NewMockLoader creates an empty MockLoader.
func NewMockLoader() *MockLoader {
	return &MockLoader{Series: map[string]*model.PriceSeries{}}
}

// Put registers a series under its symbol.
func (m *MockLoader) Put(series *model.PriceSeries) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Series[strings.ToUpper(NormalizeSymbol(series.Symbol))] = series
}

func (m *MockLoader) Load(symbol, _ string) (*model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	for _, cand := range candidates(symbol) {
		if s, ok := m.Series[strings.ToUpper(cand)]; ok && s.Len() > 0 {
			return s, nil
		}
	}
	return nil, unavailable(symbol, "not registered")
}

// LoadCount returns how many times Load was called.
func (m *MockLoader) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
