package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/vpd-calculator/internal/domain/psychro"
	"github.com/yanqian/vpd-calculator/internal/domain/vpdcalc"
	"github.com/yanqian/vpd-calculator/internal/infra/config"
	"github.com/yanqian/vpd-calculator/internal/infra/gridcache"
	"github.com/yanqian/vpd-calculator/pkg/metrics"
)

func provideCalculatorConfig(cfg *config.Config) vpdcalc.Config {
	unit, err := psychro.ParseUnit(cfg.Calculator.DefaultUnit)
	if err != nil {
		unit = psychro.Fahrenheit
	}
	return vpdcalc.Config{
		DefaultTemperature: cfg.Calculator.DefaultTemperature,
		DefaultUnit:        unit,
		DefaultHumidity:    cfg.Calculator.DefaultHumidity,
		Resolution:         cfg.Chart.Resolution,
		Palette:            cfg.Chart.Palette,
		CacheTTL:           cfg.Cache.TTL,
	}
}

func provideMemoryCache(cfg *config.Config, m *metrics.Metrics) *gridcache.MemoryCache {
	return gridcache.NewMemoryCache(cfg.Cache.MaxEntries, gridcache.WithEvictionHook(m.CacheEvictions.Inc))
}

func provideFrameCache(cfg *config.Config, memory *gridcache.MemoryCache, logger *slog.Logger) vpdcalc.FrameCache {
	if !cfg.Cache.Enabled {
		logger.Info("frame cache disabled")
		return vpdcalc.NoopCache()
	}
	if cfg.Cache.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory cache", "error", err)
			return memory
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory cache", "error", err)
			return memory
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory cache", "error", err)
			client.Close()
			return memory
		}
		logger.Info("frame valkey cache enabled", "addr", cfg.Cache.Valkey.Addr)
		return gridcache.NewValkeyCache(client, cfg.Cache.Valkey.Prefix)
	}
	return memory
}

func provideJanitor(cfg *config.Config, memory *gridcache.MemoryCache, logger *slog.Logger) (*gridcache.Janitor, error) {
	if !cfg.Cache.Enabled {
		return gridcache.NewJanitor(nil, 0, logger)
	}
	return gridcache.NewJanitor(memory, cfg.Cache.SweepInterval, logger)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Cache.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Cache.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Cache.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
