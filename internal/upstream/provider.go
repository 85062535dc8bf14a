package upstream

import (
	"context"

	"MarketDashboard/internal/model"
)

// Provider defines the market-data operations the data service depends on.
type Provider interface {
	FetchQuote(ctx context.Context, symbol string) (model.Quote, error)
	FetchPair(ctx context.Context, pair model.PairKey) (model.Quote, error)
	FetchSearch(ctx context.Context, query string) ([]model.SearchResult, error)
	FetchHistorical(ctx context.Context, symbol string, period model.Period) ([]model.Point, error)
	FetchIntraday(ctx context.Context, pair model.PairKey, interval model.Interval) ([]model.Point, error)
	Name() string
}
