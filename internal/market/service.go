package market

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/catalog"
	"MarketDashboard/internal/fallback"
	"MarketDashboard/internal/model"
	"MarketDashboard/internal/upstream"
)

// Service is the read API the dashboard and the HTTP layer consume.
// Upstream failures on read paths are replaced by generated data and never returned.
type Service struct {
	Provider upstream.Provider
	Fallback *fallback.Generator
	Log      logrus.FieldLogger
}

// NewService creates a data service.
func NewService(p upstream.Provider, fb *fallback.Generator, log logrus.FieldLogger) *Service {
	return &Service{Provider: p, Fallback: fb, Log: log}
}

func (s *Service) warnFallback(op, symbol string, err error) {
	s.Log.WithFields(logrus.Fields{
		"op":       op,
		"symbol":   symbol,
		"kind":     model.KindOf(err),
		"provider": s.Provider.Name(),
	}).WithError(err).Warn("upstream unavailable, serving fallback data")
}

// SearchEquities looks up equities by keyword. A blank query short-circuits to no results.
func (s *Service) SearchEquities(ctx context.Context, query string) ([]model.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []model.SearchResult{}, nil
	}
	results, err := s.Provider.FetchSearch(ctx, query)
	if err != nil {
		s.warnFallback("search equities", query, err)
		return s.Fallback.EquitySearch(query), nil
	}
	return results, nil
}

// SearchPairs filters the static pair catalog; it never touches the network.
func (s *Service) SearchPairs(query string) []model.PairSearchResult {
	return catalog.Search(query, model.MaxSearchResults)
}

// GetQuote returns the quote for symbol. ok is false when the provider knows no such symbol.
func (s *Service) GetQuote(ctx context.Context, symbol string) (model.Quote, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Quote{}, false, model.Validation("get quote", "empty symbol")
	}

	q, err := s.Provider.FetchQuote(ctx, symbol)
	switch {
	case err == nil:
		return q, true, nil
	case model.IsKind(err, model.KindNotFound):
		return model.Quote{}, false, nil
	case ctx.Err() != nil:
		return model.Quote{}, false, ctx.Err()
	default:
		s.warnFallback("get quote", symbol, err)
		return s.Fallback.Quote(symbol), true, nil
	}
}

// GetPair returns the exchange rate for a pair, falling back to generated data on any failure.
func (s *Service) GetPair(ctx context.Context, pair model.PairKey) (model.Quote, error) {
	if pair.From == "" || pair.To == "" {
		return model.Quote{}, model.Validation("get pair", "incomplete pair %q", pair.Symbol())
	}

	q, err := s.Provider.FetchPair(ctx, pair)
	if err != nil {
		if ctx.Err() != nil {
			return model.Quote{}, ctx.Err()
		}
		s.warnFallback("get pair", pair.Symbol(), err)
		return s.Fallback.Pair(pair), nil
	}
	return q, nil
}

// GetHistorical returns the series for symbol over period ("" selects 1M).
func (s *Service) GetHistorical(ctx context.Context, symbol, period string) (model.Series, error) {
	p, err := model.ParsePeriod(period)
	if err != nil {
		return model.Series{}, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Series{}, model.Validation("get historical", "empty symbol")
	}

	points, err := s.Provider.FetchHistorical(ctx, symbol, p)
	if err != nil {
		if ctx.Err() != nil {
			return model.Series{}, ctx.Err()
		}
		s.warnFallback("get historical", symbol, err)
		return s.Fallback.Historical(symbol, p), nil
	}
	return model.Series{Symbol: symbol, Points: points}, nil
}

// GetIntraday returns intraday bars for a pair at interval ("" selects 5min).
func (s *Service) GetIntraday(ctx context.Context, pair model.PairKey, interval string) (model.Series, error) {
	iv, err := model.ParseInterval(interval)
	if err != nil {
		return model.Series{}, err
	}
	if pair.From == "" || pair.To == "" {
		return model.Series{}, model.Validation("get intraday", "incomplete pair %q", pair.Symbol())
	}

	points, err := s.Provider.FetchIntraday(ctx, pair, iv)
	if err != nil {
		if ctx.Err() != nil {
			return model.Series{}, ctx.Err()
		}
		s.warnFallback("get intraday", pair.Symbol(), err)
		return s.Fallback.Intraday(pair, iv), nil
	}
	return model.Series{Symbol: pair.Symbol(), Points: points}, nil
}

// GetMultipleQuotes fetches all symbols concurrently and keeps input order.
// Absent and failed symbols are dropped, so the result may be shorter than the input.
func (s *Service) GetMultipleQuotes(ctx context.Context, symbols []string) []model.Quote {
	slots := make([]*model.Quote, len(symbols))
	var wg sync.WaitGroup
	for i, sym := range symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			q, ok, err := s.GetQuote(ctx, sym)
			if err != nil || !ok {
				return
			}
			slots[i] = &q
		}(i, sym)
	}
	wg.Wait()
	return settled(slots)
}

// GetMultiplePairs is the pair counterpart of GetMultipleQuotes.
func (s *Service) GetMultiplePairs(ctx context.Context, pairs []model.PairKey) []model.Quote {
	slots := make([]*model.Quote, len(pairs))
	var wg sync.WaitGroup
	for i, pair := range pairs {
		wg.Add(1)
		go func(i int, pair model.PairKey) {
			defer wg.Done()
			q, err := s.GetPair(ctx, pair)
			if err != nil {
				return
			}
			slots[i] = &q
		}(i, pair)
	}
	wg.Wait()
	return settled(slots)
}

func settled(slots []*model.Quote) []model.Quote {
	out := make([]model.Quote, 0, len(slots))
	for _, q := range slots {
		if q != nil {
			out = append(out, *q)
		}
	}
	return out
}
