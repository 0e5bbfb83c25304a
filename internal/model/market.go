package model

import "time"

// PricePoint represents a single daily bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the daily bars of one symbol, oldest first.
// A loaded series is treated as read-only.
type PriceSeries struct {
	Symbol   string
	Category string
	Points   []PricePoint
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Tail returns a series holding the last n bars. The bars are shared with
// the receiver, so callers must not modify them.
func (s *PriceSeries) Tail(n int) *PriceSeries {
	if n < 0 {
		n = 0
	}
	start := s.Len() - n
	if start < 0 {
		start = 0
	}
	return &PriceSeries{Symbol: s.Symbol, Category: s.Category, Points: s.Points[start:]}
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if s.Len() == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, s.Len())
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

func (s *PriceSeries) Highs() []float64 {
	out := make([]float64, s.Len())
	for i, p := range s.Points {
		out[i] = p.High
	}
	return out
}

func (s *PriceSeries) Lows() []float64 {
	out := make([]float64, s.Len())
	for i, p := range s.Points {
		out[i] = p.Low
	}
	return out
}

// Volumes returns the volume column as floats for the rolling statistics.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, s.Len())
	for i, p := range s.Points {
		out[i] = float64(p.Volume)
	}
	return out
}
