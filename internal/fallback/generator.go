package fallback

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"MarketDashboard/internal/catalog"
	"MarketDashboard/internal/model"
)

type reference struct {
	name      string
	price     float64
	marketCap float64
}

// Reference prices used for the well-known tickers, so a rate-limited dashboard
// still shows plausible values for them.
var references = map[string]reference{
	"AAPL":  {"Apple Inc.", 195.89, 3020000000000},
	"GOOGL": {"Alphabet Inc.", 142.56, 1800000000000},
	"MSFT":  {"Microsoft Corporation", 378.85, 2810000000000},
	"TSLA":  {"Tesla, Inc.", 248.42, 790000000000},
	"AMZN":  {"Amazon.com, Inc.", 155.89, 1620000000000},
}

// Generator produces synthetic quotes and series. Every value it returns is tagged Synthetic.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewGenerator creates a generator. A zero seed seeds from the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rnd: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// WithClock replaces the time source.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

func (g *Generator) float() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64()
}

// basePrice returns the reference price for symbol, or a random one in [100, 300).
func (g *Generator) basePrice(symbol string) float64 {
	if ref, ok := references[symbol]; ok {
		return ref.price
	}
	return 100 + g.float()*200
}

// Quote returns a synthetic equity quote within 0.5% of the symbol's reference price.
func (g *Generator) Quote(symbol string) model.Quote {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	base := g.basePrice(symbol)
	price := base * (1 + (g.float()-0.5)*0.01)
	change := price - base
	band := g.float() * 0.005

	q := model.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         model.Round(price, 2),
		Change:        model.Round(change, 2),
		ChangePercent: model.Round(model.ChangePercent(change, base), 2),
		High:          model.Round(math.Max(price, base)*(1+band), 2),
		Low:           model.Round(math.Min(price, base)*(1-band), 2),
		Volume:        10_000_000 + int64(g.float()*50_000_000),
		LastUpdated:   g.now().UTC().Format(time.RFC3339),
		Synthetic:     true,
	}
	if ref, ok := references[symbol]; ok {
		q.Name = ref.name
		q.MarketCap = ref.marketCap
	}
	return q
}

// Pair returns a synthetic exchange-rate quote within 0.5% of the catalog base rate.
func (g *Generator) Pair(pair model.PairKey) model.Quote {
	base := catalog.BaseRate(pair)
	price := base * (1 + (g.float()-0.5)*0.01)
	change := price - base

	return model.Quote{
		Symbol:        pair.Symbol(),
		Name:          catalog.PairName(pair),
		FromSymbol:    pair.From,
		ToSymbol:      pair.To,
		Price:         model.Round(price, 5),
		Change:        model.Round(change, 5),
		ChangePercent: model.Round(model.ChangePercent(change, base), 2),
		Bid:           model.Round(price*0.9999, 5),
		Ask:           model.Round(price*1.0001, 5),
		High:          model.Round(price*1.002, 5),
		Low:           model.Round(price*0.998, 5),
		LastUpdated:   g.now().UTC().Format(time.RFC3339),
		Synthetic:     true,
	}
}

// Historical returns exactly period.Days() daily points ending today, oldest first.
// Drift shrinks towards the present so the series converges on the base price.
func (g *Generator) Historical(symbol string, period model.Period) model.Series {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	n := period.Days()
	base := g.basePrice(symbol)
	now := g.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	points := make([]model.Point, n)
	prev := 0.0
	for i := 0; i < n; i++ {
		age := n - 1 - i
		last := base * (1 + (g.float()-0.5)*0.1*float64(age)/float64(n))
		open := prev
		if open == 0 {
			open = last
		}
		points[i] = bracket(today.AddDate(0, 0, -age), open, last, g.float()*0.01, g.float()*0.01, 2)
		points[i].Volume = 10_000_000 + int64(g.float()*50_000_000)
		prev = last
	}
	return model.Series{Symbol: symbol, Points: points, Synthetic: true}
}

// Intraday returns MaxIntradayPoints bars spaced by interval and ending at the current bar.
func (g *Generator) Intraday(pair model.PairKey, interval model.Interval) model.Series {
	const volatility = 0.0005
	n := model.MaxIntradayPoints
	base := catalog.BaseRate(pair)
	step := interval.Duration()
	last := g.now().Truncate(step)

	points := make([]model.Point, n)
	for i := 0; i < n; i++ {
		age := n - 1 - i
		open := base * (1 + (g.float()-0.5)*0.002*float64(age)/float64(n))
		high := open * (1 + g.float()*volatility)
		low := open * (1 - g.float()*volatility)
		settle := low + g.float()*(high-low)
		points[i] = model.Point{
			Time:  last.Add(-time.Duration(age) * step),
			Open:  model.Round(open, 5),
			High:  model.Round(high, 5),
			Low:   model.Round(low, 5),
			Close: model.Round(settle, 5),
		}
	}
	return model.Series{Symbol: pair.Symbol(), Points: points, Synthetic: true}
}

// EquitySearch returns a single placeholder match for the query.
func (g *Generator) EquitySearch(query string) []model.SearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return []model.SearchResult{}
	}
	return []model.SearchResult{{
		Symbol:      q,
		Name:        q + " Company",
		Type:        "Equity",
		Region:      "United States",
		MarketOpen:  "09:30",
		MarketClose: "16:00",
		Timezone:    "UTC-4",
		Currency:    "USD",
	}}
}

// bracket builds a bar whose high and low enclose both open and close.
func bracket(t time.Time, open, last, up, down float64, places int32) model.Point {
	return model.Point{
		Time:  t,
		Open:  model.Round(open, places),
		High:  model.Round(math.Max(open, last)*(1+up), places),
		Low:   model.Round(math.Min(open, last)*(1-down), places),
		Close: model.Round(last, places),
	}
}
