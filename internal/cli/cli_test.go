package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"MarketAdvisor/internal/model"
	"MarketAdvisor/internal/store"
)

// setupWorkspace writes a config and a CSV store holding one rising
// equity and one crypto series.
func setupWorkspace(t *testing.T) (cfgPath, dataDir, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dataDir = filepath.Join(dir, "data")
	dbPath = filepath.Join(dir, "prices.db")
	csv := store.NewCSVStore(dataDir)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var rising, flat []model.PricePoint
	for i := 0; i < 60; i++ {
		c := 100 + float64(i)
		rising = append(rising, model.PricePoint{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000})
		flat = append(flat, model.PricePoint{Date: start.AddDate(0, 0, i), Open: 50, High: 51, Low: 49, Close: 50, Volume: 500})
	}
	if err := csv.Write("Tech", "UPCO", rising); err != nil {
		t.Fatal(err)
	}
	if err := csv.Write("Crypto", "ETH-USD", flat); err != nil {
		t.Fatal(err)
	}

	cfgPath = filepath.Join(dir, "config.yaml")
	body := "store:\n  data_dir: " + dataDir + "\n  sqlite_path: " + dbPath + "\n" +
		"log:\n  level: error\nwatchlist:\n  symbols: [UPCO, ETH, NEWCO]\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, dataDir, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, app := NewRootCmd(&out)
	defer app.Close()
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCmd(t *testing.T) {
	cfg, _, _ := setupWorkspace(t)
	out, err := run(t, "--config", cfg, "analyze", "upco", "eth")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"upco (Tech), last 30 bars", "Trend: STRONG_UPTREND", "eth (Crypto)", "Trend: SIDEWAYS"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestAnalyzeCmd_JSON(t *testing.T) {
	cfg, _, _ := setupWorkspace(t)
	out, err := run(t, "--config", cfg, "analyze", "UPCO", "--json", "--days", "10")
	if err != nil {
		t.Fatal(err)
	}
	var advice model.Advice
	if err := json.Unmarshal([]byte(out), &advice); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if advice.AnalysisPeriod != 10 || advice.Recommendation != model.StrongBuy {
		t.Errorf("unexpected advice: %+v", advice)
	}
}

func TestInsightCmd(t *testing.T) {
	cfg, _, _ := setupWorkspace(t)
	out, err := run(t, "--config", cfg, "insight", "UPCO", "--intent", "risk_assessment")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "Risk Assessment for UPCO:") {
		t.Errorf("unexpected insight:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "insight", "MISSING")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "I don't have enough data to analyze MISSING") {
		t.Errorf("unexpected unavailable text:\n%s", out)
	}
}

func TestSymbolsAndImportCmd(t *testing.T) {
	cfg, _, dbPath := setupWorkspace(t)
	out, err := run(t, "--config", cfg, "symbols")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Crypto\tETH_USD") || !strings.Contains(out, "Tech\tUPCO") {
		t.Errorf("unexpected listing:\n%s", out)
	}

	out, err = run(t, "--config", cfg, "import")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "imported 2 series") {
		t.Errorf("unexpected import output: %s", out)
	}

	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", dbPath)
	out, err = run(t, "--config", cfg, "analyze", "eth")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "eth (Crypto)") {
		t.Errorf("expected analysis from sqlite store:\n%s", out)
	}
}

func TestCollectCmd_BadUniverse(t *testing.T) {
	cfg, _, _ := setupWorkspace(t)
	if _, err := run(t, "--config", cfg, "collect", "--universe", "galaxy"); err == nil {
		t.Error("expected error for unknown universe")
	}
}

func TestServeCmd_RequiresTelegram(t *testing.T) {
	cfg, _, _ := setupWorkspace(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	_, err := run(t, "--config", cfg, "serve")
	if err == nil || !strings.Contains(err.Error(), "telegram") {
		t.Errorf("expected telegram validation error, got %v", err)
	}
}

func TestWatchlistUniverse(t *testing.T) {
	_, dataDir, _ := setupWorkspace(t)
	u, err := watchlistUniverse(store.NewCSVStore(dataDir), []string{"UPCO", "ETH", "NEWCO"})
	if err != nil {
		t.Fatal(err)
	}
	if got := u["Tech"]; len(got) != 1 || got[0] != "UPCO" {
		t.Errorf("expected stored equity kept in its category, got %v", u)
	}
	if got := u["Crypto"]; len(got) != 1 || got[0] != "ETH-USD" {
		t.Errorf("expected crypto ticker, got %v", u)
	}
	if got := u[watchlistCategory]; len(got) != 1 || got[0] != "NEWCO" {
		t.Errorf("expected new equity in the watchlist category, got %v", u)
	}
}
