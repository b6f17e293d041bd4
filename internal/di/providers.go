package di

import (
	"context"
	"fmt"
	"time"

	"CoinPulse/internal/domain/models"
	"CoinPulse/internal/domain/repository"
	domsvc "CoinPulse/internal/domain/service"
	"CoinPulse/internal/handler/api"
	internalrepo "CoinPulse/internal/repository"
	icache "CoinPulse/internal/service/cache"
	"CoinPulse/internal/services/analytics"
	"CoinPulse/internal/services/remote"
	"CoinPulse/internal/usecase"
	pkgcache "CoinPulse/pkg/cache"
	pkgch "CoinPulse/pkg/clickhouse"
	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
	"CoinPulse/pkg/metrics"
	pkgqueue "CoinPulse/pkg/queue"
	"CoinPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger builds the service logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := cfg.Logger.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logger.Format
	if format == "" {
		format = "json"
	}
	output := cfg.Logger.Output
	if output == "" {
		output = "stdout"
	}
	l, err := applogger.New(&applogger.Config{
		Level:      level,
		Format:     format,
		Output:     output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS coinpulse",
		"CREATE TABLE IF NOT EXISTS coinpulse.daily_bars (symbol String, date Date, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)",
		"CREATE TABLE IF NOT EXISTS coinpulse.assets (symbol String, name String, listed_at DateTime) ENGINE=ReplacingMergeTree ORDER BY symbol",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideBarStore creates the ClickHouse-backed daily bar store.
func ProvideBarStore(chClient *pkgch.Client, l *applogger.Logger) repository.BarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideRedisCache creates the Redis cache client when layered caching is
// configured; memory mode returns nil and needs no connection.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if cfg.Cache.Mode != "layered" {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideBytesCache builds the response byte cache: a process-local TTL map
// in memory mode, memory-over-Redis in layered mode.
func ProvideBytesCache(cfg *config.Config, rc *pkgcache.RedisCache) icache.BytesCache {
	if rc != nil {
		return icache.NewServiceCache(pkgcache.NewLayeredCache(rc))
	}
	return icache.NewTTLCache()
}

// ProvideTelemetryQueue starts the aggregated-log publisher when telemetry is
// enabled, attaching the collector to the logger.
func ProvideTelemetryQueue(cfg *config.Config, l *applogger.Logger) *pkgqueue.RedisQueue {
	if !cfg.Telemetry.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	q := pkgqueue.NewRedisPublisher(l, client)

	interval := cfg.Telemetry.FlushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	threshold := cfg.Telemetry.CountThreshold
	if threshold <= 0 {
		threshold = 100
	}
	topic := cfg.Telemetry.Topic
	if topic == "" {
		topic = "logs"
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   interval,
		CountThreshold: threshold,
		Topic:          topic,
		Publisher:      q,
	})
	return q
}

// ProvideTechnicalStrategy maps the indicator windows from config.
func ProvideTechnicalStrategy(cfg *config.Config) *analytics.TechnicalStrategy {
	return analytics.NewTechnicalStrategy(analytics.TechnicalConfig{
		ShortWindow: cfg.Technical.ShortWindow,
		LongWindow:  cfg.Technical.LongWindow,
		EMAWindow:   cfg.Technical.EMAWindow,
		WMAWindow:   cfg.Technical.WMAWindow,
		HMAWindow:   cfg.Technical.HMAWindow,
		RSIPeriod:   cfg.Technical.RSIPeriod,
		MACDFast:    cfg.Technical.MACDFast,
		MACDSlow:    cfg.Technical.MACDSlow,
		MACDSignal:  cfg.Technical.MACDSignal,
		StochPeriod: cfg.Technical.StochPeriod,
		StochSmooth: cfg.Technical.StochSmooth,
		CCIPeriod:   cfg.Technical.CCIPeriod,
		MFIPeriod:   cfg.Technical.MFIPeriod,
	})
}

// ProvidePredictionStrategy maps the forecaster hyperparameters from config.
// The caller-facing lookback and epochs domains stay at their defaults.
func ProvidePredictionStrategy(cfg *config.Config) *analytics.PredictionStrategy {
	return analytics.NewPredictionStrategy(analytics.PredictionConfig{
		TrainPolicy:  cfg.Prediction.TrainPolicy,
		Hidden1:      cfg.Prediction.Hidden1,
		Hidden2:      cfg.Prediction.Hidden2,
		LearningRate: cfg.Prediction.LearningRate,
		TrainSplit:   cfg.Prediction.TrainSplit,
	})
}

// ProvideOnchainStrategy overlays configured thresholds on the stock
// heuristic tables.
func ProvideOnchainStrategy(cfg *config.Config) *analytics.OnchainStrategy {
	oc := analytics.DefaultOnchainConfig()
	if cfg.Onchain.SentimentWindow > 0 {
		oc.SentimentWindow = cfg.Onchain.SentimentWindow
	}
	if cfg.Onchain.UpDayThreshold > 0 {
		oc.UpDayThreshold = cfg.Onchain.UpDayThreshold
	}
	if cfg.Onchain.LabelThreshold > 0 {
		oc.LabelThreshold = cfg.Onchain.LabelThreshold
	}
	return analytics.NewOnchainStrategy(oc)
}

func provideFacade(cfg *config.Config, store repository.BarStore, l *applogger.Logger, strat domsvc.Strategy) *analytics.Facade {
	f := analytics.NewFacade(store, analytics.FetchDepths{
		Technical:  cfg.Technical.FetchDepth,
		Prediction: cfg.Prediction.FetchDepth,
		Onchain:    cfg.Onchain.FetchDepth,
	}, strat)
	f.SetLogger(l)
	return f
}

// ProvideTechnicalFacade hosts only the technical strategy.
func ProvideTechnicalFacade(cfg *config.Config, store repository.BarStore, l *applogger.Logger, s *analytics.TechnicalStrategy) *analytics.Facade {
	return provideFacade(cfg, store, l, s)
}

// ProvidePredictionFacade hosts only the prediction strategy.
func ProvidePredictionFacade(cfg *config.Config, store repository.BarStore, l *applogger.Logger, s *analytics.PredictionStrategy) *analytics.Facade {
	return provideFacade(cfg, store, l, s)
}

// ProvideOnchainFacade hosts only the onchain strategy.
func ProvideOnchainFacade(cfg *config.Config, store repository.BarStore, l *applogger.Logger, s *analytics.OnchainStrategy) *analytics.Facade {
	return provideFacade(cfg, store, l, s)
}

func provideUnitHandler(cfg *config.Config, facade *analytics.Facade, store repository.BarStore, bytesCache icache.BytesCache, l *applogger.Logger, kind models.AnalysisKind) xhttp.Handler {
	h := api.NewAnalysisHandler(facade, store, []models.AnalysisKind{kind}, cfg.Cache.ResponseTTL)
	h.SetCache(bytesCache)
	h.SetLogger(l)
	return h
}

// ProvideTechnicalHandler registers the technical unit routes.
func ProvideTechnicalHandler(cfg *config.Config, facade *analytics.Facade, store repository.BarStore, bytesCache icache.BytesCache, l *applogger.Logger) xhttp.Handler {
	return provideUnitHandler(cfg, facade, store, bytesCache, l, models.KindTechnical)
}

// ProvidePredictionHandler registers the prediction unit routes.
func ProvidePredictionHandler(cfg *config.Config, facade *analytics.Facade, store repository.BarStore, bytesCache icache.BytesCache, l *applogger.Logger) xhttp.Handler {
	return provideUnitHandler(cfg, facade, store, bytesCache, l, models.KindPrediction)
}

// ProvideOnchainHandler registers the onchain unit routes.
func ProvideOnchainHandler(cfg *config.Config, facade *analytics.Facade, store repository.BarStore, bytesCache icache.BytesCache, l *applogger.Logger) xhttp.Handler {
	return provideUnitHandler(cfg, facade, store, bytesCache, l, models.KindOnchain)
}

// ProvideCatalogUseCase composes the catalog limits from config.
func ProvideCatalogUseCase(cfg *config.Config, store repository.BarStore, m repository.Metrics, l *applogger.Logger) *usecase.CatalogUseCase {
	uc := usecase.NewCatalogUseCase(store, m, usecase.CatalogConfig{
		DefaultLimit:  cfg.Catalog.DefaultLimit,
		MaxLimit:      cfg.Catalog.MaxLimit,
		ListingDepth:  cfg.Catalog.ListingDepth,
		DetailDepth:   cfg.Catalog.DetailDepth,
		Workers:       cfg.Catalog.Workers,
		DisplaySupply: cfg.Catalog.DisplaySupply,
	})
	uc.SetLogger(l)
	return uc
}

// ProvideCompareUseCase bounds the comparison windows from config.
func ProvideCompareUseCase(cfg *config.Config, store repository.BarStore, m repository.Metrics, l *applogger.Logger) *usecase.CompareUseCase {
	uc := usecase.NewCompareUseCase(store, m, cfg.Gateway.Compare.DefaultDays, cfg.Gateway.Compare.MaxDays)
	uc.SetLogger(l)
	return uc
}

// ProvideForwardClient routes analysis kinds to their computation units.
// Prediction and onchain default to longer timeouts; training and the
// sentiment window make them slower than indicator math.
func ProvideForwardClient(cfg *config.Config, m repository.Metrics, l *applogger.Logger) *remote.Client {
	c := remote.New(remote.Config{
		Technical:  unitConfig(cfg.Gateway.Units.Technical, 30*time.Second),
		Prediction: unitConfig(cfg.Gateway.Units.Prediction, 60*time.Second),
		Onchain:    unitConfig(cfg.Gateway.Units.Onchain, 60*time.Second),
	}, m)
	c.SetLogger(l)
	return c
}

func unitConfig(u config.UnitAddress, defaultTimeout time.Duration) remote.UnitConfig {
	timeout := u.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return remote.UnitConfig{BaseURL: u.BaseURL, Timeout: timeout}
}

// ProvideGatewayHandler assembles the public API routes.
func ProvideGatewayHandler(cfg *config.Config, catalog *usecase.CatalogUseCase, compare *usecase.CompareUseCase, fwd *remote.Client, store repository.BarStore, bytesCache icache.BytesCache, l *applogger.Logger) xhttp.Handler {
	h := api.NewGatewayHandler(catalog, compare, fwd, store, api.GatewayConfig{
		ListingTTL:   cfg.Cache.ListingTTL,
		RateCapacity: cfg.Gateway.RateLimit.Capacity,
		RateRefill:   cfg.Gateway.RateLimit.RefillPerSec,
	})
	h.SetCache(bytesCache)
	h.SetLogger(l)
	return h
}

// ProvideApp wraps the wired handler in a server App and registers
// infrastructure closers.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, chClient *pkgch.Client, rc *pkgcache.RedisCache, telemetry *pkgqueue.RedisQueue) *server.App {
	app := server.New(cfg, l, handler)
	app.AddCloser("clickhouse", chClient.Close)
	if rc != nil {
		app.AddCloser("redis cache", rc.Close)
	}
	if telemetry != nil {
		app.AddCloser("telemetry queue", func() error {
			l.RemoveCollector()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return telemetry.Stop(ctx)
		})
	}
	return app
}
