package model

import (
	"strings"
	"time"
)

// Quote is a point-in-time price snapshot for an equity or a currency pair.
// Pair quotes carry FromSymbol/ToSymbol and Bid/Ask; equity quotes carry Volume and MarketCap.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	FromSymbol    string  `json:"fromSymbol,omitempty"`
	ToSymbol      string  `json:"toSymbol,omitempty"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Bid           float64 `json:"bid,omitempty"`
	Ask           float64 `json:"ask,omitempty"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Volume        int64   `json:"volume,omitempty"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	LastUpdated   string  `json:"lastUpdated"`

	// Synthetic marks generated data. Never serialized.
	Synthetic bool `json:"-"`
}

// IsPair reports whether the quote describes a currency pair.
func (q Quote) IsPair() bool {
	return q.FromSymbol != "" && q.ToSymbol != ""
}

// Point is a single bar of a historical or intraday series.
// Historical points use a date-only Time; intraday points carry a full timestamp.
type Point struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume,omitempty"`
}

// Series is a chronologically ascending run of points for one instrument.
type Series struct {
	Symbol    string  `json:"symbol"`
	Points    []Point `json:"points"`
	Synthetic bool    `json:"-"`
}

// PairKey identifies a currency pair in a watchlist.
type PairKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NewPairKey normalizes both units to upper case.
func NewPairKey(from, to string) PairKey {
	return PairKey{From: strings.ToUpper(strings.TrimSpace(from)), To: strings.ToUpper(strings.TrimSpace(to))}
}

// Symbol returns the composite "FROM/TO" form.
func (p PairKey) Symbol() string {
	return p.From + "/" + p.To
}

// ParsePairSymbol splits "EUR/USD" (or "EURUSD") into a PairKey.
func ParsePairSymbol(s string) (PairKey, error) {
	s = strings.TrimSpace(s)
	if from, to, ok := strings.Cut(s, "/"); ok && from != "" && to != "" {
		return NewPairKey(from, to), nil
	}
	if len(s) == 6 {
		return NewPairKey(s[:3], s[3:]), nil
	}
	return PairKey{}, Validation("parse pair", "invalid currency pair %q", s)
}
