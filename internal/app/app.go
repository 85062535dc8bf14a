package app

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"MarketDashboard/internal/config"
	"MarketDashboard/internal/dashboard"
)

// App holds application dependencies built by Wire.
type App struct {
	Config    *config.Config
	Log       *logrus.Logger
	Dashboard *dashboard.Dashboard
	HTTP      *fiber.App
}

// Run starts the refreshes and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Dashboard.Start(ctx)
	defer a.Dashboard.Stop()

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", a.Config.Server.Addr).Info("http server listening")
		errCh <- a.HTTP.Listen(a.Config.Server.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down http server")
	if err := a.HTTP.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
