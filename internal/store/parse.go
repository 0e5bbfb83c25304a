package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"MarketAdvisor/internal/model"

	"github.com/shopspring/decimal"
)

// HeaderRows is the number of metadata rows preceding the data rows.
const HeaderRows = 3

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339,
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func parsePrice(s string) (float64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

var maxVolume = decimal.NewFromInt(math.MaxInt64)

func parseVolume(s string) (int64, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return 0, false
	}
	d = d.Round(0)
	if d.GreaterThan(maxVolume) {
		return 0, false
	}
	return d.IntPart(), true
}

// parseRow reads one data row in the fixed column order
// date, close, high, low, open, volume.
func parseRow(rec []string) (model.PricePoint, bool) {
	var p model.PricePoint
	if len(rec) < 6 {
		return p, false
	}
	var ok bool
	if p.Date, ok = parseDate(rec[0]); !ok {
		return p, false
	}
	if p.Close, ok = parsePrice(rec[1]); !ok {
		return p, false
	}
	if p.High, ok = parsePrice(rec[2]); !ok {
		return p, false
	}
	if p.Low, ok = parsePrice(rec[3]); !ok {
		return p, false
	}
	if p.Open, ok = parsePrice(rec[4]); !ok {
		return p, false
	}
	if p.Volume, ok = parseVolume(rec[5]); !ok {
		return p, false
	}
	return p, true
}

// ParseHistory reads a history file. Rows with an unparseable date or any
// unparseable field are dropped; the result is sorted by date with duplicate
// dates removed (first occurrence wins).
func ParseHistory(r io.Reader) ([]model.PricePoint, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	var points []model.PricePoint
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if row < HeaderRows {
			continue
		}
		if p, ok := parseRow(rec); ok {
			points = append(points, p)
		}
	}

	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:0]
	for i, p := range points {
		if i > 0 && p.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// WriteHistory writes points in the layout ParseHistory reads.
func WriteHistory(w io.Writer, symbol string, points []model.PricePoint) error {
	cw := csv.NewWriter(w)
	header := [][]string{
		{"Price", "Close", "High", "Low", "Open", "Volume"},
		{"Ticker", symbol, symbol, symbol, symbol, symbol},
		{"Date", "", "", "", "", ""},
	}
	if err := cw.WriteAll(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range points {
		rec := []string{
			p.Date.Format("2006-01-02"),
			decimal.NewFromFloat(p.Close).String(),
			decimal.NewFromFloat(p.High).String(),
			decimal.NewFromFloat(p.Low).String(),
			decimal.NewFromFloat(p.Open).String(),
			decimal.NewFromInt(p.Volume).String(),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
