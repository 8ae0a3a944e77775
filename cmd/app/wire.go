//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/vpd-calculator/internal/bootstrap"
	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
	"github.com/yanqian/vpd-calculator/internal/infra/config"
	httpiface "github.com/yanqian/vpd-calculator/internal/interface/http"
	"github.com/yanqian/vpd-calculator/pkg/logger"
	"github.com/yanqian/vpd-calculator/pkg/metrics"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		metrics.NewMetrics,
		provideCalculatorConfig,
		provideMemoryCache,
		provideFrameCache,
		provideJanitor,
		vpdcalc.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
