package model

import "math"

// Column is a per-bar indicator series. NaN marks a bar where the
// indicator is undefined (not enough history), which is distinct from zero.
type Column []float64

// Undefined returns a column of length n with every value undefined.
func Undefined(n int) Column {
	c := make(Column, n)
	for i := range c {
		c[i] = math.NaN()
	}
	return c
}

func (c Column) Len() int { return len(c) }

// Get returns the value at i and whether it is defined.
func (c Column) Get(i int) (float64, bool) {
	if i < 0 || i >= len(c) || math.IsNaN(c[i]) {
		return 0, false
	}
	return c[i], true
}

// Last returns the most recent value and whether it is defined.
func (c Column) Last() (float64, bool) {
	return c.Get(len(c) - 1)
}

// Ptr returns the value at i as an optional.
func (c Column) Ptr(i int) *float64 {
	v, ok := c.Get(i)
	if !ok {
		return nil
	}
	return &v
}

// IndicatorSet holds all computed technical indicator columns, aligned
// bar-for-bar with the series they were computed from.
type IndicatorSet struct {
	SMA20         Column
	SMA50         Column
	EMA12         Column
	EMA26         Column
	MACD          Column
	MACDSignal    Column
	MACDHistogram Column
	RSI14         Column
	BBMiddle      Column
	BBUpper       Column
	BBLower       Column
	VolumeSMA20   Column
	VolumeRatio   Column
}
