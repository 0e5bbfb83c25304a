package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/symbols"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1704205800,1704292200,1704378600],
"indicators":{"quote":[{"open":[185.1,null,182.0],"high":[188.4,null,183.1],
"low":[183.9,null,180.9],"close":[185.6,null,181.9],"volume":[82488700,null,71983600.4]}]}}],"error":null}}`

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/BTC-USD" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "1mo" {
			t.Errorf("expected range 1mo, got %s", got)
		}
		w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	points, err := f.FetchDailyBars(context.Background(), "BTC-USD", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Fatalf("expected null bar skipped, got %d points", len(points))
	}
	if points[0].Close != 185.6 || points[0].Volume != 82488700 {
		t.Errorf("unexpected first bar: %+v", points[0])
	}
	if points[1].Volume != 71983600 {
		t.Errorf("expected rounded volume, got %d", points[1].Volume)
	}
	if points[0].Date.Hour() != 0 || points[0].Date.Location() != time.UTC {
		t.Errorf("expected dates at UTC midnight, got %s", points[0].Date)
	}
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http error", http.StatusNotFound, `{}`, "status 404"},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, "No data found"},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, "no data returned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			f := NewYahooFetcher("")
			f.BaseURL = srv.URL
			_, err := f.FetchDailyBars(context.Background(), "ZZZ", 30)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestChartRange(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "1mo"}, {30, "1mo"}, {31, "3mo"}, {365, "1y"}, {366, "2y"}, {3000, "10y"}, {9000, "max"},
	}
	for _, tt := range tests {
		if got := chartRange(tt.days); got != tt.want {
			t.Errorf("chartRange(%d) = %s, want %s", tt.days, got, tt.want)
		}
	}
}

func TestCollector_RunWritesLoadableFiles(t *testing.T) {
	root := t.TempDir()
	csv := store.NewCSVStore(root)
	f := &MockFetcher{
		Price: 100,
		Err:   map[string]error{"BAD": errors.New("boom")},
		Bars:  map[string][]model.PricePoint{"EMPTY": nil},
	}
	c := NewCollector(f, csv, 40)
	u := symbols.Universe{
		"Crypto": {"BTC-USD"},
		"Tech":   {"AAPL", "BAD", "EMPTY"},
	}

	report, err := c.Run(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if report.Written != 2 || len(report.Failed) != 2 {
		t.Errorf("unexpected report: %+v", report)
	}

	series, err := csv.Load("btc", "")
	if err != nil {
		t.Fatalf("collected crypto series not loadable: %v", err)
	}
	if series.Category != "Crypto" || series.Len() != 40 {
		t.Errorf("unexpected series: %s with %d bars", series.Category, series.Len())
	}
	if _, err := csv.Load("AAPL", "Tech"); err != nil {
		t.Errorf("expected AAPL stored: %v", err)
	}

	rec, ok := c.Manifest.Get("BAD")
	if !ok || rec.Error == "" {
		t.Errorf("expected failure recorded in manifest, got %+v", rec)
	}
	if rec, _ := c.Manifest.Get("AAPL"); rec.Bars != 40 {
		t.Errorf("expected 40 bars recorded, got %d", rec.Bars)
	}
}

func TestCollector_SkipsFreshTickers(t *testing.T) {
	f := &MockFetcher{Price: 10}
	c := NewCollector(f, store.NewCSVStore(t.TempDir()), 5)
	c.MaxAge = time.Hour
	u := symbols.Universe{"Tech": {"MSFT"}}

	if _, err := c.Run(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	report, err := c.Run(context.Background(), u)
	if err != nil {
		t.Fatal(err)
	}
	if report.Skipped != 1 || len(f.Calls()) != 1 {
		t.Errorf("expected second run to skip, got report %+v and calls %v", report, f.Calls())
	}
}

func TestCollector_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCollector(&MockFetcher{Price: 1}, store.NewCSVStore(t.TempDir()), 5)
	if _, err := c.Run(ctx, symbols.Universe{"Tech": {"A"}}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestManifest_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "manifest.json")
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	fetched := time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)
	m.Put("AAPL", FetchRecord{Category: "Tech", Bars: 250, FetchedAt: fetched})
	if err := SaveManifest(path, m); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	rec, ok := loaded.Get("AAPL")
	if !ok || rec.Bars != 250 || !rec.FetchedAt.Equal(fetched) {
		t.Errorf("unexpected record after reload: %+v", rec)
	}
	if !loaded.Fresh("AAPL", time.Hour, fetched.Add(30*time.Minute)) {
		t.Error("expected fresh within max age")
	}
	if loaded.Fresh("AAPL", time.Hour, fetched.Add(2*time.Hour)) {
		t.Error("expected stale after max age")
	}
}
