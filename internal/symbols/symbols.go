// Package symbols holds the static symbol tables: which base assets are
// cryptocurrencies and the default download universe per category.
package symbols

import (
	"sort"
	"strings"
)

// CategoryCrypto is the store category crypto series are filed under.
const CategoryCrypto = "Crypto"

var cryptoBases = map[string]struct{}{}

func init() {
	for _, s := range []string{
		"BTC", "ETH", "BNB", "ADA", "XRP", "DOT", "LINK", "LTC", "BCH", "UNI",
		"ATOM", "VET", "TRX", "ETC", "ALGO", "SOL", "MATIC", "AVAX", "FTM", "NEAR",
		"ICP", "FIL", "XTZ", "THETA", "CAKE", "CHZ", "HOT", "DOGE", "SHIB", "MANA",
		"SAND", "ENJ", "AXS", "GALA",
	} {
		cryptoBases[s] = struct{}{}
	}
}

// Base strips a USD quote suffix: "btc-usd", "BTC_USD" and "BTC" all give "BTC".
func Base(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	for _, suffix := range []string{"-USD", "_USD"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// IsCrypto reports whether the symbol names a known cryptocurrency, with or
// without a USD quote suffix.
func IsCrypto(symbol string) bool {
	_, ok := cryptoBases[Base(symbol)]
	return ok
}

// YahooTicker maps a stored symbol to the ticker the Yahoo chart API expects.
// Crypto base assets get a "-USD" quote; equities pass through.
func YahooTicker(category, symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if category == CategoryCrypto || IsCrypto(s) {
		return Base(s) + "-USD"
	}
	return s
}

// Universe maps a category to the tickers downloaded into it.
type Universe map[string][]string

// Categories returns the category names in lexical order.
func (u Universe) Categories() []string {
	out := make([]string, 0, len(u))
	for c := range u {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Len counts the (category, ticker) pairs.
func (u Universe) Len() int {
	n := 0
	for _, tickers := range u {
		n += len(tickers)
	}
	return n
}

// FromWatchlist files each symbol under Crypto or the given equity category.
func FromWatchlist(list []string, equityCategory string) Universe {
	u := Universe{}
	seen := map[string]bool{}
	for _, sym := range list {
		cat := equityCategory
		if IsCrypto(sym) {
			cat = CategoryCrypto
		}
		ticker := YahooTicker(cat, sym)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		u[cat] = append(u[cat], ticker)
	}
	return u
}

// DefaultUniverse returns the stock and crypto universe grouped by sector.
// Duplicate tickers within a category are removed.
func DefaultUniverse() Universe {
	raw := Universe{
		"Tech": {"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX", "ADBE", "CRM",
			"PYPL", "INTC", "AMD", "ORCL", "CSCO", "IBM", "QCOM", "TXN", "AVGO", "MU",
			"AMAT", "KLAC", "LRCX", "ADI", "MCHP", "ASML", "TSM"},
		"Telecommunications":    {"TMUS", "VZ", "T", "CMCSA", "CHTR", "DISH", "LUMN", "CTL"},
		"Financial":             {"JPM", "BAC", "WFC", "GS", "MS", "C", "USB", "PNC", "TFC", "COF"},
		"Healthcare":            {"JNJ", "PFE", "UNH", "ABBV", "MRK", "TMO", "ABT", "DHR", "BMY", "AMGN"},
		"Energy":                {"XOM", "CVX", "COP", "EOG", "SLB", "PSX", "VLO", "MPC", "HAL", "BKR"},
		"ConsumerRetail":        {"DIS", "NKE", "HD", "LOW", "COST", "TGT", "WMT", "SBUX", "MCD", "KO", "PEP", "PG"},
		"Industrial":            {"BA", "CAT", "GE", "MMM", "HON", "UPS", "FDX", "RTX", "LMT", "NOC"},
		"RealEstate":            {"SPG", "PLD", "AMT", "CCI", "EQIX", "DLR", "PSA", "O", "WELL", "VICI"},
		"Materials":             {"LIN", "APD", "FCX", "NEM", "BLL", "SHW", "ECL", "NUE", "X"},
		"Utilities":             {"NEE", "DUK", "SO", "D", "AEP", "SRE", "XEL", "DTE", "WEC", "ED"},
		"ConsumerDiscretionary": {"AMZN", "TSLA", "HD", "MCD", "NKE", "SBUX", "LOW", "TJX", "BKNG", "MAR"},
		"ConsumerStaples":       {"PG", "KO", "PEP", "WMT", "COST", "PM", "MO", "CL", "GIS", "KMB"},
		"CommunicationServices": {"GOOGL", "META", "NFLX", "DIS", "CMCSA", "CHTR", "VZ", "T", "TMUS", "DISH"},
		CategoryCrypto: {"BTC-USD", "ETH-USD", "BNB-USD", "ADA-USD", "XRP-USD", "DOT-USD", "LINK-USD", "LTC-USD",
			"BCH-USD", "UNI-USD", "ATOM-USD", "VET-USD", "TRX-USD", "ETC-USD", "ALGO-USD", "SOL-USD",
			"MATIC-USD", "AVAX-USD", "FTM-USD", "NEAR-USD", "ICP-USD", "FIL-USD", "XTZ-USD",
			"THETA-USD", "CAKE-USD", "CHZ-USD", "HOT-USD", "DOGE-USD", "SHIB-USD", "MANA-USD",
			"SAND-USD", "ENJ-USD", "AXS-USD", "GALA-USD"},
	}
	for cat, tickers := range raw {
		raw[cat] = dedupe(tickers)
	}
	return raw
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
