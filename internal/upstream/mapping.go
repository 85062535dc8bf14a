package upstream

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"MarketDashboard/internal/model"
)

type globalQuote struct {
	Symbol           string  `json:"01. symbol"`
	Open             float64 `json:"02. open,string"`
	High             float64 `json:"03. high,string"`
	Low              float64 `json:"04. low,string"`
	Price            float64 `json:"05. price,string"`
	Volume           int64   `json:"06. volume,string"`
	LatestTradingDay string  `json:"07. latest trading day"`
	PreviousClose    float64 `json:"08. previous close,string"`
	Change           float64 `json:"09. change,string"`
	ChangePercent    string  `json:"10. change percent"`
}

func (g globalQuote) toQuote() model.Quote {
	pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(g.ChangePercent), "%"), 64)
	if err != nil {
		pct = model.ChangePercent(g.Change, g.PreviousClose)
	}
	return model.Quote{
		Symbol:        g.Symbol,
		Name:          g.Symbol,
		Price:         g.Price,
		Change:        g.Change,
		ChangePercent: pct,
		High:          g.High,
		Low:           g.Low,
		Volume:        g.Volume,
		LastUpdated:   g.LatestTradingDay,
	}
}

type exchangeRate struct {
	FromCode      string  `json:"1. From_Currency Code"`
	FromName      string  `json:"2. From_Currency Name"`
	ToCode        string  `json:"3. To_Currency Code"`
	ToName        string  `json:"4. To_Currency Name"`
	Rate          float64 `json:"5. Exchange Rate,string"`
	LastRefreshed string  `json:"6. Last Refreshed"`
	TimeZone      string  `json:"7. Time Zone"`
	Bid           string  `json:"8. Bid Price"`
	Ask           string  `json:"9. Ask Price"`
}

// toQuote maps the exchange-rate block. The endpoint has no previous close or day range,
// so both are approximated around the rate; jitter is in [-0.5, 0.5).
func (e exchangeRate) toQuote(pair model.PairKey, jitter float64) model.Quote {
	price := e.Rate
	previous := price * (1 + jitter*0.01)
	change := price - previous

	bid, err := strconv.ParseFloat(e.Bid, 64)
	if err != nil || bid <= 0 {
		bid = price * 0.9999
	}
	ask, err := strconv.ParseFloat(e.Ask, 64)
	if err != nil || ask <= 0 {
		ask = price * 1.0001
	}

	return model.Quote{
		Symbol:        pair.Symbol(),
		Name:          pairName(e, pair),
		FromSymbol:    pair.From,
		ToSymbol:      pair.To,
		Price:         price,
		Change:        model.Round(change, 5),
		ChangePercent: model.Round(model.ChangePercent(change, previous), 2),
		Bid:           model.Round(bid, 5),
		Ask:           model.Round(ask, 5),
		High:          model.Round(price*1.002, 5),
		Low:           model.Round(price*0.998, 5),
		LastUpdated:   e.LastRefreshed,
	}
}

func pairName(e exchangeRate, pair model.PairKey) string {
	if e.FromName != "" && e.ToName != "" {
		return e.FromName + " to " + e.ToName
	}
	return pair.Symbol()
}

type searchMatch struct {
	Symbol      string `json:"1. symbol"`
	Name        string `json:"2. name"`
	Type        string `json:"3. type"`
	Region      string `json:"4. region"`
	MarketOpen  string `json:"5. marketOpen"`
	MarketClose string `json:"6. marketClose"`
	Timezone    string `json:"7. timezone"`
	Currency    string `json:"8. currency"`
}

func (m searchMatch) toResult() model.SearchResult {
	return model.SearchResult{
		Symbol:      m.Symbol,
		Name:        m.Name,
		Type:        m.Type,
		Region:      m.Region,
		MarketOpen:  m.MarketOpen,
		MarketClose: m.MarketClose,
		Timezone:    m.Timezone,
		Currency:    m.Currency,
	}
}

type bar struct {
	Open   float64 `json:"1. open,string"`
	High   float64 `json:"2. high,string"`
	Low    float64 `json:"3. low,string"`
	Close  float64 `json:"4. close,string"`
	Volume int64   `json:"5. volume,string"`
}

// decodeSeries parses a timestamp-keyed series block, keeps the newest limit bars
// and returns them in chronological order.
func decodeSeries(raw json.RawMessage, layout string, limit int) ([]model.Point, error) {
	var series map[string]bar
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decode series: %w", err)
	}

	points := make([]model.Point, 0, len(series))
	for stamp, b := range series {
		t, err := time.Parse(layout, stamp)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", stamp, err)
		}
		points = append(points, model.Point{
			Time:   t,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points, nil
}
