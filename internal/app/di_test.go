package app

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketDashboard/internal/api"
	"MarketDashboard/internal/market"
)

func TestProviders_BuildApp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "storage:\n  driver: memory\nrefresh:\n  interval: 1h\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := ProvideConfig()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Refresh.Interval != time.Hour {
		t.Errorf("expected 1h refresh, got %v", cfg.Refresh.Interval)
	}

	log := ProvideLogger(cfg)
	c := ProvideCache(cfg)
	store, cleanup, err := ProvideStore(cfg, log)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer cleanup()

	svc := market.NewService(ProvideAlphaVantage(cfg, c, log), ProvideFallback(), log)
	d := ProvideDashboard(cfg, svc, ProvideStocks(store, log), ProvidePairs(store, log), ProvideScheduler(cfg, log), log)
	defer d.Stop()

	if d.Scheduler.Interval != time.Hour {
		t.Errorf("expected scheduler interval 1h, got %v", d.Scheduler.Interval)
	}

	a := &App{Config: cfg, Log: log, Dashboard: d, HTTP: api.NewApp(api.NewHandler(d, c, log))}
	resp, err := a.HTTP.Test(httptest.NewRequest("GET", "/health", nil), -1)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestProvideConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  driver: redis\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	if _, err := ProvideConfig(); err == nil {
		t.Error("expected validation error")
	}
}
