package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/api"
	"MarketDashboard/internal/cache"
	"MarketDashboard/internal/config"
	"MarketDashboard/internal/dashboard"
	"MarketDashboard/internal/fallback"
	"MarketDashboard/internal/logx"
	"MarketDashboard/internal/market"
	"MarketDashboard/internal/scheduler"
	"MarketDashboard/internal/storage"
	"MarketDashboard/internal/upstream"
	"MarketDashboard/internal/watchlist"
)

// ProviderSet builds an App from the environment.
var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	ProvideCache,
	ProvideAlphaVantage,
	wire.Bind(new(upstream.Provider), new(*upstream.AlphaVantage)),
	ProvideFallback,
	market.NewService,
	ProvideStore,
	ProvideStocks,
	ProvidePairs,
	ProvideScheduler,
	ProvideDashboard,
	api.NewHandler,
	api.NewApp,
	wire.Struct(new(App), "Config", "Log", "Dashboard", "HTTP"),
)

// ProvideConfig loads and validates the config at CONFIG_PATH.
func ProvideConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func ProvideLogger(cfg *config.Config) *logrus.Logger {
	return logx.New(cfg.Log.Level, cfg.Log.Format)
}

func ProvideCache(cfg *config.Config) *cache.Cache {
	return cache.New(cfg.Cache.TTL)
}

func ProvideAlphaVantage(cfg *config.Config, c *cache.Cache, log logrus.FieldLogger) *upstream.AlphaVantage {
	return upstream.NewAlphaVantage(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey, cfg.Proxy, cfg.AlphaVantage.Timeout, c, log)
}

// ProvideFallback seeds the generator from the clock.
func ProvideFallback() *fallback.Generator {
	return fallback.NewGenerator(0)
}

// ProvideStore opens the configured snapshot backend. The cleanup closes it.
func ProvideStore(cfg *config.Config, log logrus.FieldLogger) (storage.Store, func(), error) {
	store, err := storage.Open(strings.ToLower(cfg.Storage.Driver), cfg.Storage.DSN, cfg.Storage.File, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("failed to close storage")
		}
	}
	return store, cleanup, nil
}

func ProvideStocks(store storage.Store, log logrus.FieldLogger) *watchlist.Stocks {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return watchlist.OpenStocks(ctx, store, log)
}

func ProvidePairs(store storage.Store, log logrus.FieldLogger) *watchlist.Pairs {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return watchlist.OpenPairs(ctx, store, log)
}

func ProvideScheduler(cfg *config.Config, log logrus.FieldLogger) *scheduler.Scheduler {
	return scheduler.NewScheduler(cfg.Refresh.Interval, log)
}

func ProvideDashboard(cfg *config.Config, svc *market.Service, stocks *watchlist.Stocks, pairs *watchlist.Pairs, sched *scheduler.Scheduler, log logrus.FieldLogger) *dashboard.Dashboard {
	return dashboard.New(svc, stocks, pairs, sched, cfg.Search.Debounce, log)
}
