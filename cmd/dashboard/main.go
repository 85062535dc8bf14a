package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	a, cleanup, err := InitializeApp()
	if err != nil {
		logrus.WithError(err).Fatal("initialize app")
	}
	defer cleanup()

	a.Log.WithFields(logrus.Fields{
		"provider": "alphavantage",
		"storage":  a.Config.Storage.Driver,
		"refresh":  a.Config.Refresh.Interval,
		"cache":    a.Config.Cache.TTL,
	}).Info("MarketDashboard starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Log.WithError(err).Error("server stopped with error")
		cleanup()
		os.Exit(1)
	}
	a.Log.Info("MarketDashboard stopped")
}
