// Package catalog holds the static currency-pair universe used for local pair search
// and for anchoring generated exchange rates.
package catalog

import (
	"strings"

	"MarketDashboard/internal/model"
)

// Pair is one entry of the well-known pair table.
type Pair struct {
	Symbol     string
	FromSymbol string
	ToSymbol   string
	Name       string
}

// PopularPairs is the pair universe searched by Search.
var PopularPairs = []Pair{
	{"EUR/USD", "EUR", "USD", "Euro to US Dollar"},
	{"GBP/USD", "GBP", "USD", "British Pound to US Dollar"},
	{"USD/JPY", "USD", "JPY", "US Dollar to Japanese Yen"},
	{"USD/CHF", "USD", "CHF", "US Dollar to Swiss Franc"},
	{"AUD/USD", "AUD", "USD", "Australian Dollar to US Dollar"},
	{"USD/CAD", "USD", "CAD", "US Dollar to Canadian Dollar"},
	{"NZD/USD", "NZD", "USD", "New Zealand Dollar to US Dollar"},
	{"EUR/GBP", "EUR", "GBP", "Euro to British Pound"},
	{"EUR/JPY", "EUR", "JPY", "Euro to Japanese Yen"},
	{"GBP/JPY", "GBP", "JPY", "British Pound to Japanese Yen"},
	{"AUD/JPY", "AUD", "JPY", "Australian Dollar to Japanese Yen"},
	{"EUR/CHF", "EUR", "CHF", "Euro to Swiss Franc"},
}

// CurrencyNames maps ISO codes to display names.
var CurrencyNames = map[string]string{
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"JPY": "Japanese Yen",
	"CHF": "Swiss Franc",
	"AUD": "Australian Dollar",
	"CAD": "Canadian Dollar",
	"NZD": "New Zealand Dollar",
	"CNY": "Chinese Yuan",
	"SEK": "Swedish Krona",
	"NOK": "Norwegian Krone",
	"DKK": "Danish Krone",
	"PLN": "Polish Zloty",
	"CZK": "Czech Koruna",
	"HUF": "Hungarian Forint",
	"RUB": "Russian Ruble",
	"TRY": "Turkish Lira",
	"ZAR": "South African Rand",
	"BRL": "Brazilian Real",
	"MXN": "Mexican Peso",
}

// baseRates are approximate real-world rates used to anchor synthetic pair data.
var baseRates = map[string]float64{
	"EUR/USD": 1.085,
	"GBP/USD": 1.265,
	"USD/JPY": 149.5,
	"USD/CHF": 0.875,
	"AUD/USD": 0.655,
	"USD/CAD": 1.365,
	"NZD/USD": 0.615,
	"EUR/GBP": 0.858,
	"EUR/JPY": 162.25,
	"GBP/JPY": 189.15,
}

// BaseRate returns the reference rate for a pair, or 1.0 when the pair is unknown.
func BaseRate(key model.PairKey) float64 {
	if r, ok := baseRates[key.Symbol()]; ok {
		return r
	}
	return 1.0
}

// PairName returns a display name such as "Euro to US Dollar", falling back to the codes.
func PairName(key model.PairKey) string {
	for _, p := range PopularPairs {
		if p.FromSymbol == key.From && p.ToSymbol == key.To {
			return p.Name
		}
	}
	from, ok := CurrencyNames[key.From]
	if !ok {
		from = key.From
	}
	to, ok := CurrencyNames[key.To]
	if !ok {
		to = key.To
	}
	return from + " to " + to
}

// Search filters PopularPairs by case-insensitive substring match against the symbol,
// the name or either unit. A blank query returns nothing.
func Search(query string, limit int) []model.PairSearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.PairSearchResult{}
	}
	if limit <= 0 || limit > model.MaxSearchResults {
		limit = model.MaxSearchResults
	}

	out := make([]model.PairSearchResult, 0, limit)
	for _, p := range PopularPairs {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(p.Symbol), q) ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.FromSymbol), q) ||
			strings.Contains(strings.ToLower(p.ToSymbol), q) {
			out = append(out, model.PairSearchResult{
				Symbol:     p.Symbol,
				Name:       p.Name,
				FromSymbol: p.FromSymbol,
				ToSymbol:   p.ToSymbol,
				Type:       "Currency Pair",
			})
		}
	}
	return out
}
