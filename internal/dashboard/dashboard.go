package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/market"
	"MarketDashboard/internal/model"
	"MarketDashboard/internal/scheduler"
	"MarketDashboard/internal/watchlist"
)

const selectionKey = "selection"

// ErrSuperseded is returned by a selection whose result arrived after a newer selection
// or a ClearSelection. Such results are discarded.
var ErrSuperseded = errors.New("dashboard: selection superseded")

func stockKey(symbol string) string       { return "stock:" + symbol }
func pairKey(pair model.PairKey) string   { return "forex:" + pair.Symbol() }
func chartKey(symbol, span string) string { return symbol + "|" + span }

// Selection is the instrument currently shown in detail. Exactly one of Symbol and Pair is set.
type Selection struct {
	Symbol string         `json:"symbol,omitempty"`
	Pair   *model.PairKey `json:"pair,omitempty"`
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool { return s.Symbol == "" && s.Pair == nil }

// Dashboard is the user session: the selected instrument, both watchlists with their
// periodic refreshes, the latest value per instrument, and the error banner.
type Dashboard struct {
	Market    *market.Service
	Stocks    *watchlist.Stocks
	Pairs     *watchlist.Pairs
	Scheduler *scheduler.Scheduler
	Log       logrus.FieldLogger

	Quotes      *Board[model.Quote]
	Charts      *Board[model.Series]
	Errors      *ErrorState
	StockSearch *SearchSession[model.SearchResult]
	PairSearch  *SearchSession[model.PairSearchResult]

	mu       sync.Mutex
	selected Selection
	selGen   uint64
}

// New wires a dashboard session. debounce applies to both search sessions.
func New(svc *market.Service, stocks *watchlist.Stocks, pairs *watchlist.Pairs, sched *scheduler.Scheduler, debounce time.Duration, log logrus.FieldLogger) *Dashboard {
	pairSearch := func(_ context.Context, q string) ([]model.PairSearchResult, error) {
		return svc.SearchPairs(q), nil
	}
	return &Dashboard{
		Market:      svc,
		Stocks:      stocks,
		Pairs:       pairs,
		Scheduler:   sched,
		Log:         log,
		Quotes:      NewBoard[model.Quote](),
		Charts:      NewBoard[model.Series](),
		Errors:      &ErrorState{},
		StockSearch: NewSearchSession(debounce, svc.SearchEquities, log.WithField("search", "stocks")),
		PairSearch:  NewSearchSession(debounce, pairSearch, log.WithField("search", "forex")),
	}
}

// SelectStock loads symbol, makes it the selection and refreshes it periodically.
// An unknown symbol sets the error banner and leaves the previous selection untouched.
func (d *Dashboard) SelectStock(ctx context.Context, symbol string) (model.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	token := d.nextSelection()
	ticket := d.Quotes.Ticket()
	q, ok, err := d.Market.GetQuote(ctx, symbol)
	if err != nil {
		return model.Quote{}, d.reject(token, err.Error(), err)
	}
	if !ok {
		return model.Quote{}, d.reject(token, fmt.Sprintf("Stock %s not found", symbol), model.NotFound("select stock", symbol))
	}

	if !d.commitSelection(token, Selection{Symbol: symbol}, d.refreshStock(symbol)) {
		return model.Quote{}, ErrSuperseded
	}
	d.Quotes.Apply(symbol, ticket, q)
	return q, nil
}

// SelectPair loads pair, makes it the selection and refreshes it periodically.
func (d *Dashboard) SelectPair(ctx context.Context, pair model.PairKey) (model.Quote, error) {
	token := d.nextSelection()
	ticket := d.Quotes.Ticket()
	q, err := d.Market.GetPair(ctx, pair)
	if err != nil {
		return model.Quote{}, d.reject(token, err.Error(), err)
	}

	if !d.commitSelection(token, Selection{Pair: &pair}, d.refreshPair(pair)) {
		return model.Quote{}, ErrSuperseded
	}
	d.Quotes.Apply(pair.Symbol(), ticket, q)
	return q, nil
}

// nextSelection issues the generation token of a new selection attempt.
func (d *Dashboard) nextSelection() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selGen++
	return d.selGen
}

// commitSelection makes sel current and schedules its refresh, unless a newer selection
// or a clear happened since token was issued.
func (d *Dashboard) commitSelection(token uint64, sel Selection, job scheduler.Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.selGen {
		d.Log.WithField("selection", sel).Debug("discarding superseded selection")
		return false
	}
	d.selected = sel
	d.Errors.Clear()
	if err := d.Scheduler.Watch(selectionKey, job); err != nil {
		d.Log.WithError(err).Error("failed to schedule selection refresh")
	}
	return true
}

// reject raises the banner for a failed selection attempt that is still current.
func (d *Dashboard) reject(token uint64, banner string, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if token != d.selGen {
		return ErrSuperseded
	}
	d.Errors.Set(banner)
	return err
}

// ClearSelection cancels the selection refresh and forgets the selection.
// Selections still in flight are discarded when they complete.
func (d *Dashboard) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selGen++
	d.selected = Selection{}
	d.Scheduler.Unwatch(selectionKey)
}

func (d *Dashboard) Selected() Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// AddStock adds symbol to the equity watchlist and starts refreshing its row.
func (d *Dashboard) AddStock(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || !d.Stocks.Add(symbol) {
		return false
	}
	d.watch(stockKey(symbol), d.refreshStock(symbol))
	return true
}

// RemoveStock removes symbol from the equity watchlist and cancels its refresh.
func (d *Dashboard) RemoveStock(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	d.Scheduler.Unwatch(stockKey(symbol))
	if d.Selected().Symbol != symbol {
		d.Quotes.Delete(symbol)
	}
	return d.Stocks.Remove(symbol)
}

// AddPair adds pair to the forex watchlist and starts refreshing its row.
func (d *Dashboard) AddPair(pair model.PairKey) bool {
	if pair.From == "" || pair.To == "" || !d.Pairs.Add(pair) {
		return false
	}
	d.watch(pairKey(pair), d.refreshPair(pair))
	return true
}

// RemovePair removes pair from the forex watchlist and cancels its refresh.
func (d *Dashboard) RemovePair(pair model.PairKey) bool {
	d.Scheduler.Unwatch(pairKey(pair))
	if sel := d.Selected(); sel.Pair == nil || *sel.Pair != pair {
		d.Quotes.Delete(pair.Symbol())
	}
	return d.Pairs.Remove(pair)
}

func (d *Dashboard) watch(key string, job scheduler.Job) {
	if err := d.Scheduler.Watch(key, job); err != nil {
		d.Log.WithError(err).WithField("key", key).Error("failed to schedule refresh")
	}
}

// Start schedules a refresh for every persisted watchlist row, loads the rows once
// and starts the scheduler.
func (d *Dashboard) Start(ctx context.Context) {
	for _, sym := range d.Stocks.Items() {
		d.watch(stockKey(sym), d.refreshStock(sym))
	}
	for _, p := range d.Pairs.Items() {
		d.watch(pairKey(p), d.refreshPair(p))
	}
	d.WatchlistQuotes(ctx)
	d.WatchlistPairs(ctx)
	d.Scheduler.Start()
	d.Log.WithFields(logrus.Fields{"stocks": d.Stocks.Len(), "pairs": d.Pairs.Len()}).Info("dashboard started")
}

// Stop cancels every refresh and pending search.
func (d *Dashboard) Stop() {
	d.StockSearch.Clear()
	d.PairSearch.Clear()
	d.Scheduler.Stop()
}

// WatchlistQuotes fetches every watched equity and records the results on the quote board.
// Unknown and failed symbols are left out.
func (d *Dashboard) WatchlistQuotes(ctx context.Context) []model.Quote {
	symbols := d.Stocks.Items()
	tickets := make(map[string]uint64, len(symbols))
	for _, s := range symbols {
		tickets[s] = d.Quotes.Ticket()
	}
	quotes := d.Market.GetMultipleQuotes(ctx, symbols)
	for _, q := range quotes {
		d.Quotes.Apply(q.Symbol, tickets[q.Symbol], q)
	}
	return quotes
}

// WatchlistPairs is the forex counterpart of WatchlistQuotes.
func (d *Dashboard) WatchlistPairs(ctx context.Context) []model.Quote {
	pairs := d.Pairs.Items()
	tickets := make(map[string]uint64, len(pairs))
	for _, p := range pairs {
		tickets[p.Symbol()] = d.Quotes.Ticket()
	}
	quotes := d.Market.GetMultiplePairs(ctx, pairs)
	for _, q := range quotes {
		d.Quotes.Apply(q.Symbol, tickets[q.Symbol], q)
	}
	return quotes
}

// StockChart loads the historical series for symbol and records it on the chart board.
func (d *Dashboard) StockChart(ctx context.Context, symbol, period string) (model.Series, error) {
	ticket := d.Charts.Ticket()
	s, err := d.Market.GetHistorical(ctx, symbol, period)
	if err != nil {
		return model.Series{}, err
	}
	if period == "" {
		period = string(model.Period1M)
	}
	d.Charts.Apply(chartKey(s.Symbol, period), ticket, s)
	return s, nil
}

// PairChart loads intraday bars for pair and records them on the chart board.
func (d *Dashboard) PairChart(ctx context.Context, pair model.PairKey, interval string) (model.Series, error) {
	ticket := d.Charts.Ticket()
	s, err := d.Market.GetIntraday(ctx, pair, interval)
	if err != nil {
		return model.Series{}, err
	}
	if interval == "" {
		interval = string(model.Interval5Min)
	}
	d.Charts.Apply(chartKey(s.Symbol, interval), ticket, s)
	return s, nil
}

// refreshStock returns the periodic job for one equity. Refresh failures are logged only.
func (d *Dashboard) refreshStock(symbol string) scheduler.Job {
	return func(ctx context.Context) {
		ticket := d.Quotes.Ticket()
		q, ok, err := d.Market.GetQuote(ctx, symbol)
		if ctx.Err() != nil {
			return
		}
		if err != nil || !ok {
			d.Log.WithFields(logrus.Fields{"symbol": symbol, "found": ok}).WithError(err).Debug("refresh skipped")
			return
		}
		d.Quotes.Apply(symbol, ticket, q)
	}
}

func (d *Dashboard) refreshPair(pair model.PairKey) scheduler.Job {
	return func(ctx context.Context) {
		ticket := d.Quotes.Ticket()
		q, err := d.Market.GetPair(ctx, pair)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			d.Log.WithField("symbol", pair.Symbol()).WithError(err).Debug("refresh skipped")
			return
		}
		d.Quotes.Apply(pair.Symbol(), ticket, q)
	}
}
