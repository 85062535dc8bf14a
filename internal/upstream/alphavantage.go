package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/cache"
	"MarketDashboard/internal/model"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// AlphaVantage implements Provider against the Alpha Vantage REST API.
// Every raw payload is cached by its canonical request signature before it is mapped.
type AlphaVantage struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Cache   *cache.Cache
	Log     logrus.FieldLogger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAlphaVantage creates a client with optional proxy support.
func NewAlphaVantage(baseURL, apiKey, proxyURL string, timeout time.Duration, c *cache.Cache, log logrus.FieldLogger) *AlphaVantage {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if c == nil {
		c = cache.New(cache.DefaultTTL)
	}
	return &AlphaVantage{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Cache: c,
		Log:   log,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *AlphaVantage) Name() string { return "alphavantage" }

// CacheKey is the canonical signature of a request: every parameter except the API key,
// sorted by name, so parameter order never changes the key.
func CacheKey(params url.Values) string {
	return params.Encode()
}

// query performs one Alpha Vantage call and returns the decoded top-level payload.
func (a *AlphaVantage) query(ctx context.Context, op string, params url.Values) (map[string]json.RawMessage, error) {
	key := CacheKey(params)
	if raw, ok := a.Cache.Get(key); ok {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal(raw, &payload); err == nil {
			a.Log.WithFields(logrus.Fields{"op": op, "key": key}).Debug("serving cached upstream payload")
			return payload, nil
		}
	}

	full := url.Values{}
	for k, v := range params {
		full[k] = v
	}
	full.Set("apikey", a.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"?"+full.Encode(), nil)
	if err != nil {
		return nil, model.Fault(model.KindValidation, op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")

	a.Log.WithFields(logrus.Fields{"op": op, "function": params.Get("function"), "request_id": reqID}).Info("querying Alpha Vantage")
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, model.Fault(model.KindTransport, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, model.Fault(model.KindTransport, op, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.Faultf(model.KindProvider, op, "status %d", resp.StatusCode)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, model.Fault(model.KindProvider, op, fmt.Errorf("decode payload: %w", err))
	}
	if msg, ok := stringField(payload, "Error Message"); ok {
		return nil, model.Faultf(model.KindProvider, op, "%s", msg)
	}
	for _, field := range []string{"Note", "Information"} {
		if msg, ok := stringField(payload, field); ok {
			return nil, model.Faultf(model.KindRateLimited, op, "%s", msg)
		}
	}

	a.Cache.Put(key, body)
	return payload, nil
}

func stringField(payload map[string]json.RawMessage, field string) (string, bool) {
	raw, ok := payload[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw), true
	}
	return s, true
}

// FetchQuote returns the latest GLOBAL_QUOTE for an equity symbol.
func (a *AlphaVantage) FetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	const op = "fetch quote"
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.Quote{}, model.Validation(op, "empty symbol")
	}

	payload, err := a.query(ctx, op, url.Values{
		"function": {"GLOBAL_QUOTE"},
		"symbol":   {symbol},
	})
	if err != nil {
		return model.Quote{}, err
	}

	var gq globalQuote
	raw, ok := payload["Global Quote"]
	if !ok {
		return model.Quote{}, model.NotFound(op, symbol)
	}
	if err := json.Unmarshal(raw, &gq); err != nil {
		return model.Quote{}, model.Fault(model.KindProvider, op, fmt.Errorf("decode global quote: %w", err))
	}
	if gq.Symbol == "" {
		return model.Quote{}, model.NotFound(op, symbol)
	}
	return gq.toQuote(), nil
}

// FetchPair returns the realtime exchange rate for a currency pair.
func (a *AlphaVantage) FetchPair(ctx context.Context, pair model.PairKey) (model.Quote, error) {
	const op = "fetch pair"
	if pair.From == "" || pair.To == "" {
		return model.Quote{}, model.Validation(op, "incomplete pair %q", pair.Symbol())
	}

	payload, err := a.query(ctx, op, url.Values{
		"function":      {"CURRENCY_EXCHANGE_RATE"},
		"from_currency": {pair.From},
		"to_currency":   {pair.To},
	})
	if err != nil {
		return model.Quote{}, err
	}

	raw, ok := payload["Realtime Currency Exchange Rate"]
	if !ok {
		return model.Quote{}, model.NotFound(op, pair.Symbol())
	}
	var er exchangeRate
	if err := json.Unmarshal(raw, &er); err != nil {
		return model.Quote{}, model.Fault(model.KindProvider, op, fmt.Errorf("decode exchange rate: %w", err))
	}
	if er.Rate <= 0 {
		return model.Quote{}, model.NotFound(op, pair.Symbol())
	}
	return er.toQuote(pair, a.jitter()), nil
}

// jitter returns a value in [-0.5, 0.5) used to approximate a previous close,
// which the exchange-rate endpoint does not report.
func (a *AlphaVantage) jitter() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rnd.Float64() - 0.5
}

// FetchSearch runs SYMBOL_SEARCH. A blank query returns an empty slice without a request.
func (a *AlphaVantage) FetchSearch(ctx context.Context, query string) ([]model.SearchResult, error) {
	const op = "fetch search"
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, nil
	}

	payload, err := a.query(ctx, op, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {query},
	})
	if err != nil {
		return nil, err
	}

	var matches []searchMatch
	if raw, ok := payload["bestMatches"]; ok {
		if err := json.Unmarshal(raw, &matches); err != nil {
			return nil, model.Fault(model.KindProvider, op, fmt.Errorf("decode matches: %w", err))
		}
	}
	if len(matches) > model.MaxSearchResults {
		matches = matches[:model.MaxSearchResults]
	}
	results := make([]model.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = m.toResult()
	}
	return results, nil
}

// FetchHistorical returns daily (1W, 1M) or weekly (3M, 1Y) closes for the period,
// oldest first. A payload without a series block yields an empty slice.
func (a *AlphaVantage) FetchHistorical(ctx context.Context, symbol string, period model.Period) ([]model.Point, error) {
	const op = "fetch historical"
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, model.Validation(op, "empty symbol")
	}

	function, seriesKey := "TIME_SERIES_DAILY", "Time Series (Daily)"
	if period.Weekly() {
		function, seriesKey = "TIME_SERIES_WEEKLY", "Weekly Time Series"
	}

	payload, err := a.query(ctx, op, url.Values{
		"function":   {function},
		"symbol":     {symbol},
		"outputsize": {"compact"},
	})
	if err != nil {
		return nil, err
	}

	raw, ok := payload[seriesKey]
	if !ok {
		return []model.Point{}, nil
	}
	points, err := decodeSeries(raw, time.DateOnly, period.Days())
	if err != nil {
		return nil, model.Fault(model.KindProvider, op, err)
	}
	return points, nil
}

// FetchIntraday returns at most MaxIntradayPoints FX bars, oldest first.
func (a *AlphaVantage) FetchIntraday(ctx context.Context, pair model.PairKey, interval model.Interval) ([]model.Point, error) {
	const op = "fetch intraday"
	if pair.From == "" || pair.To == "" {
		return nil, model.Validation(op, "incomplete pair %q", pair.Symbol())
	}

	payload, err := a.query(ctx, op, url.Values{
		"function":    {"FX_INTRADAY"},
		"from_symbol": {pair.From},
		"to_symbol":   {pair.To},
		"interval":    {string(interval)},
		"outputsize":  {"compact"},
	})
	if err != nil {
		return nil, err
	}

	raw, ok := payload[fmt.Sprintf("Time Series FX (%s)", interval)]
	if !ok {
		return nil, model.NotFound(op, pair.Symbol())
	}
	points, err := decodeSeries(raw, time.DateTime, model.MaxIntradayPoints)
	if err != nil {
		return nil, model.Fault(model.KindProvider, op, err)
	}
	return points, nil
}
