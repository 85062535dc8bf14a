package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketDashboard/internal/cache"
	"MarketDashboard/internal/dashboard"
	"MarketDashboard/internal/fallback"
	"MarketDashboard/internal/logx"
	"MarketDashboard/internal/market"
	"MarketDashboard/internal/model"
	"MarketDashboard/internal/scheduler"
	"MarketDashboard/internal/storage"
	"MarketDashboard/internal/watchlist"
)

type stubProvider struct{}

func (stubProvider) Name() string { return "stub" }

func (stubProvider) FetchQuote(_ context.Context, symbol string) (model.Quote, error) {
	if symbol != "AAPL" {
		return model.Quote{}, model.NotFound("fetch quote", symbol)
	}
	return model.Quote{Symbol: "AAPL", Price: 195.89, High: 196.2, Low: 193.1}, nil
}

func (stubProvider) FetchPair(_ context.Context, pair model.PairKey) (model.Quote, error) {
	return model.Quote{Symbol: pair.Symbol(), FromSymbol: pair.From, ToSymbol: pair.To, Price: 1.085}, nil
}

func (stubProvider) FetchSearch(_ context.Context, q string) ([]model.SearchResult, error) {
	return []model.SearchResult{{Symbol: strings.ToUpper(q), Name: "Match"}}, nil
}

func (stubProvider) FetchHistorical(context.Context, string, model.Period) ([]model.Point, error) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	return []model.Point{
		{Time: day, Open: 10, High: 10, Low: 10, Close: 10},
		{Time: day.AddDate(0, 0, 1), Open: 10, High: 12, Low: 12, Close: 12},
		{Time: day.AddDate(0, 0, 2), Open: 12, High: 11, Low: 11, Close: 11},
	}, nil
}

func (stubProvider) FetchIntraday(context.Context, model.PairKey, model.Interval) ([]model.Point, error) {
	return []model.Point{{Time: time.Unix(0, 0), Open: 1.08, High: 1.09, Low: 1.07, Close: 1.085}}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestApp(t *testing.T) (*fiber.App, *dashboard.Dashboard) {
	t.Helper()
	log := logx.Discard()
	store := storage.NewMemoryStore()
	ctx := context.Background()
	d := dashboard.New(
		market.NewService(stubProvider{}, fallback.NewGenerator(1), log),
		watchlist.OpenStocks(ctx, store, log),
		watchlist.OpenPairs(ctx, store, log),
		scheduler.NewScheduler(time.Hour, log),
		10*time.Millisecond,
		log,
	)
	t.Cleanup(d.Stop)
	return NewApp(NewHandler(d, cache.New(time.Minute), log)), d
}

func call(t *testing.T, app *fiber.App, method, target string) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(body, &env), string(body))
	}
	return resp, env
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 0, body["stocks"])
}

func TestGetStock(t *testing.T) {
	app, _ := newTestApp(t)

	resp, env := call(t, app, http.MethodGet, "/api/v1/stocks/aapl")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var q model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, 195.89, q.Price)

	resp, env = call(t, app, http.MethodGet, "/api/v1/stocks/GHOST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestGetStocks_Batch(t *testing.T) {
	app, _ := newTestApp(t)
	_, env := call(t, app, http.MethodGet, "/api/v1/stocks?symbols=aapl,GHOST")
	var quotes []model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quotes))
	require.Len(t, quotes, 1)
	assert.Equal(t, "AAPL", quotes[0].Symbol)
}

func TestStockHistory(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := call(t, app, http.MethodGet, "/api/v1/stocks/AAPL/history?period=5Y")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env := call(t, app, http.MethodGet, "/api/v1/stocks/AAPL/history?period=1W")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var chart struct {
		Symbol  string        `json:"symbol"`
		Points  []model.Point `json:"points"`
		Summary struct {
			High float64 `json:"high"`
			Low  float64 `json:"low"`
			Last float64 `json:"last"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &chart))
	assert.Equal(t, "AAPL", chart.Symbol)
	assert.Len(t, chart.Points, 3)
	assert.Equal(t, 12.0, chart.Summary.High)
	assert.Equal(t, 10.0, chart.Summary.Low)
	assert.Equal(t, 11.0, chart.Summary.Last)
}

func TestExportStockHistory(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/stocks/AAPL/history/export?period=1W&format=csv", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "AAPL-1W.csv")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, strings.HasPrefix(string(body), "symbol,t,o,h,l,c,v\n"), string(body))
	assert.Equal(t, 4, strings.Count(string(body), "\n"))

	resp, _ = call(t, app, http.MethodGet, "/api/v1/stocks/AAPL/history/export?format=xlsx")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForexRoutes(t *testing.T) {
	app, _ := newTestApp(t)

	_, env := call(t, app, http.MethodGet, "/api/v1/forex/search?q=EUR")
	var matches []model.PairSearchResult
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	assert.Len(t, matches, 4)

	resp, env := call(t, app, http.MethodGet, "/api/v1/forex/eur/usd")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var q model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	assert.Equal(t, "EUR/USD", q.Symbol)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/forex/EUR/USD/intraday?interval=2min")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/forex/EUR/USD/intraday?interval=15min")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/v1/forex?pairs=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, env = call(t, app, http.MethodGet, "/api/v1/forex?pairs=EUR/USD,GBPUSD")
	var quotes []model.Quote
	require.NoError(t, json.Unmarshal(env.Data, &quotes))
	require.Len(t, quotes, 2)
	assert.Equal(t, "GBP/USD", quotes[1].Symbol)
}

func TestWatchlistRoutes(t *testing.T) {
	app, d := newTestApp(t)

	resp, _ := call(t, app, http.MethodPost, "/api/v1/watchlist/stocks/aapl")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = call(t, app, http.MethodPost, "/api/v1/watchlist/stocks/AAPL")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, env := call(t, app, http.MethodGet, "/api/v1/watchlist/stocks")
	assert.JSONEq(t, `["AAPL"]`, string(env.Data))

	resp, _ = call(t, app, http.MethodPost, "/api/v1/watchlist/forex/gbp/jpy")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, d.Scheduler.Watching("forex:GBP/JPY"))

	_, env = call(t, app, http.MethodDelete, "/api/v1/watchlist/stocks/AAPL")
	assert.JSONEq(t, `{"removed":true,"items":[]}`, string(env.Data))
	_, env = call(t, app, http.MethodDelete, "/api/v1/watchlist/forex/GBP/JPY")
	assert.JSONEq(t, `{"removed":true,"items":[]}`, string(env.Data))
}

func TestWatchlistRoutes_ParamsOutliveRequest(t *testing.T) {
	app, d := newTestApp(t)

	for _, sym := range []string{"AAPL", "MSFT", "TSLA", "GOOG"} {
		resp, _ := call(t, app, http.MethodPost, "/api/v1/watchlist/stocks/"+sym)
		require.Equal(t, http.StatusCreated, resp.StatusCode, sym)
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA", "GOOG"}, d.Stocks.Items())

	for _, path := range []string{"EUR/USD", "GBP/JPY"} {
		resp, _ := call(t, app, http.MethodPost, "/api/v1/watchlist/forex/"+path)
		require.Equal(t, http.StatusCreated, resp.StatusCode, path)
	}
	assert.Equal(t, []model.PairKey{{From: "EUR", To: "USD"}, {From: "GBP", To: "JPY"}}, d.Pairs.Items())

	assert.Equal(t, []string{
		"forex:EUR/USD", "forex:GBP/JPY",
		"stock:AAPL", "stock:GOOG", "stock:MSFT", "stock:TSLA",
	}, d.Scheduler.Keys())
}

func TestSelectionAndErrorBanner(t *testing.T) {
	app, d := newTestApp(t)

	resp, _ := call(t, app, http.MethodPost, "/api/v1/select/stock/GHOST")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, env := call(t, app, http.MethodGet, "/api/v1/error")
	assert.JSONEq(t, `"Stock GHOST not found"`, string(env.Data))

	resp, _ = call(t, app, http.MethodPost, "/api/v1/select/stock/AAPL")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, env = call(t, app, http.MethodGet, "/api/v1/error")
	assert.JSONEq(t, `null`, string(env.Data))

	_, env = call(t, app, http.MethodGet, "/api/v1/select")
	assert.JSONEq(t, `{"symbol":"AAPL"}`, string(env.Data))

	resp, _ = call(t, app, http.MethodPost, "/api/v1/select/forex/EUR/USD")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, d.Selected().Pair)

	resp, _ = call(t, app, http.MethodDelete, "/api/v1/select")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, d.Selected().IsZero())

	d.Errors.Set("boom")
	resp, _ = call(t, app, http.MethodDelete, "/api/v1/error")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, set := d.Errors.Current()
	assert.False(t, set)
}
