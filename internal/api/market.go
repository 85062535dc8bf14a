package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"MarketDashboard/internal/calculator"
	"MarketDashboard/internal/export"
	"MarketDashboard/internal/model"
)

type chartResponse struct {
	model.Series
	Summary *calculator.Summary `json:"summary,omitempty"`
}

func chart(s model.Series) chartResponse {
	resp := chartResponse{Series: s}
	if sum, err := calculator.Summarize(s.Points); err == nil {
		resp.Summary = &sum
	}
	return resp
}

func (h *Handler) SearchStocks(c *fiber.Ctx) error {
	results, err := h.Dashboard.Market.SearchEquities(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, results)
}

// GetStocks quotes ?symbols=A,B, or the whole stock watchlist when the parameter is absent.
func (h *Handler) GetStocks(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("symbols"))
	if raw == "" {
		return ok(c, h.Dashboard.WatchlistQuotes(c.UserContext()))
	}
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			symbols = append(symbols, s)
		}
	}
	return ok(c, h.Dashboard.Market.GetMultipleQuotes(c.UserContext(), symbols))
}

func (h *Handler) GetStock(c *fiber.Ctx) error {
	symbol := c.Params("symbol")
	q, found, err := h.Dashboard.Market.GetQuote(c.UserContext(), symbol)
	if err != nil {
		return fail(c, err)
	}
	if !found {
		return fail(c, model.NotFound("get quote", strings.ToUpper(symbol)))
	}
	return ok(c, q)
}

func (h *Handler) GetStockHistory(c *fiber.Ctx) error {
	s, err := h.Dashboard.StockChart(c.UserContext(), c.Params("symbol"), c.Query("period"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, chart(s))
}

// ExportStockHistory streams the historical series as a json, csv or parquet attachment.
func (h *Handler) ExportStockHistory(c *fiber.Ctx) error {
	saver := export.NewSaver(c.Query("format"))
	if saver == nil {
		return fail(c, model.Validation("export", "unsupported format %q", c.Query("format")))
	}
	period := c.Query("period", string(model.Period1M))
	s, err := h.Dashboard.Market.GetHistorical(c.UserContext(), c.Params("symbol"), period)
	if err != nil {
		return fail(c, err)
	}

	c.Set(fiber.HeaderContentType, saver.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-%s.%s"`, s.Symbol, period, saver.Extension()))
	if err := saver.Write(c.Response().BodyWriter(), export.Rows(s)); err != nil {
		h.Log.WithError(err).WithField("symbol", s.Symbol).Error("export failed")
		return fmt.Errorf("export %s: %w", s.Symbol, err)
	}
	return nil
}

func (h *Handler) SearchPairs(c *fiber.Ctx) error {
	return ok(c, h.Dashboard.Market.SearchPairs(c.Query("q")))
}

// GetPairs quotes ?pairs=EUR/USD,GBP/USD, or the whole forex watchlist when the parameter is absent.
func (h *Handler) GetPairs(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("pairs"))
	if raw == "" {
		return ok(c, h.Dashboard.WatchlistPairs(c.UserContext()))
	}
	var pairs []model.PairKey
	for _, s := range strings.Split(raw, ",") {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p, err := model.ParsePairSymbol(s)
		if err != nil {
			return fail(c, err)
		}
		pairs = append(pairs, p)
	}
	return ok(c, h.Dashboard.Market.GetMultiplePairs(c.UserContext(), pairs))
}

func (h *Handler) GetPair(c *fiber.Ctx) error {
	pair, err := pairParam(c)
	if err != nil {
		return fail(c, err)
	}
	q, err := h.Dashboard.Market.GetPair(c.UserContext(), pair)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, q)
}

func (h *Handler) GetPairIntraday(c *fiber.Ctx) error {
	pair, err := pairParam(c)
	if err != nil {
		return fail(c, err)
	}
	s, err := h.Dashboard.PairChart(c.UserContext(), pair, c.Query("interval"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, chart(s))
}
