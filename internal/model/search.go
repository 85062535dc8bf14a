package model

// SearchResult is one equity match from a symbol search.
type SearchResult struct {
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Region      string `json:"region"`
	MarketOpen  string `json:"marketOpen"`
	MarketClose string `json:"marketClose"`
	Timezone    string `json:"timezone"`
	Currency    string `json:"currency"`
}

// PairSearchResult is one currency-pair match.
type PairSearchResult struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	FromSymbol string `json:"fromSymbol"`
	ToSymbol   string `json:"toSymbol"`
	Type       string `json:"type"`
}

// MaxSearchResults caps every search response.
const MaxSearchResults = 10
