package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/cache"
	"MarketDashboard/internal/dashboard"
	"MarketDashboard/internal/model"
)

// Handler serves the dashboard over JSON.
type Handler struct {
	Dashboard *dashboard.Dashboard
	Cache     *cache.Cache
	Log       logrus.FieldLogger
}

func NewHandler(d *dashboard.Dashboard, c *cache.Cache, log logrus.FieldLogger) *Handler {
	return &Handler{Dashboard: d, Cache: c, Log: log}
}

// NewApp builds the fiber app with every route registered.
func NewApp(h *Handler) *fiber.App {
	// Params and query values outlive the request in watchlists and refresh jobs,
	// so they must not alias fasthttp's reused buffers.
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})
	app.Use(h.requestLog)
	h.Register(app)
	return app
}

// Register mounts the routes. Literal segments are registered before parameters.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	api.Get("/stocks/search", h.SearchStocks)
	api.Get("/stocks", h.GetStocks)
	api.Get("/stocks/:symbol", h.GetStock)
	api.Get("/stocks/:symbol/history", h.GetStockHistory)
	api.Get("/stocks/:symbol/history/export", h.ExportStockHistory)

	api.Get("/forex/search", h.SearchPairs)
	api.Get("/forex", h.GetPairs)
	api.Get("/forex/:from/:to", h.GetPair)
	api.Get("/forex/:from/:to/intraday", h.GetPairIntraday)

	wl := api.Group("/watchlist")
	wl.Get("/stocks", h.ListStocks)
	wl.Post("/stocks/:symbol", h.AddStock)
	wl.Delete("/stocks/:symbol", h.RemoveStock)
	wl.Get("/forex", h.ListPairs)
	wl.Post("/forex/:from/:to", h.AddPair)
	wl.Delete("/forex/:from/:to", h.RemovePair)

	api.Get("/select", h.GetSelection)
	api.Post("/select/stock/:symbol", h.SelectStock)
	api.Post("/select/forex/:from/:to", h.SelectPair)
	api.Delete("/select", h.ClearSelection)

	api.Get("/error", h.GetError)
	api.Delete("/error", h.ClearError)
}

func (h *Handler) requestLog(c *fiber.Ctx) error {
	id := c.Get("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("X-Request-Id", id)
	start := time.Now()
	err := c.Next()
	h.Log.WithFields(logrus.Fields{
		"request_id": id,
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     c.Response().StatusCode(),
		"took":       time.Since(start),
	}).Debug("request")
	return err
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "ok",
		"cacheEntries": h.Cache.Len(),
		"stocks":       h.Dashboard.Stocks.Len(),
		"pairs":        h.Dashboard.Pairs.Len(),
		"timestamp":    time.Now().Unix(),
	})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, dashboard.ErrSuperseded) {
		status = fiber.StatusConflict
	}
	switch model.KindOf(err) {
	case model.KindNotFound:
		status = fiber.StatusNotFound
	case model.KindValidation:
		status = fiber.StatusBadRequest
	case model.KindRateLimited:
		status = fiber.StatusTooManyRequests
	case model.KindProvider, model.KindTransport:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func pairParam(c *fiber.Ctx) (model.PairKey, error) {
	pair := model.NewPairKey(c.Params("from"), c.Params("to"))
	if pair.From == "" || pair.To == "" {
		return model.PairKey{}, model.Validation("parse pair", "both currencies are required")
	}
	return pair, nil
}
