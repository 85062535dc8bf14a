//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"MarketDashboard/internal/app"
)

// InitializeApp builds the App via Wire. Caller must call cleanup when done.
func InitializeApp() (*app.App, func(), error) {
	wire.Build(app.ProviderSet)
	return nil, nil, nil
}
