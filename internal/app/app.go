package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/mlb-schedule/external/mlbstats"
	"github.com/riskibarqy/mlb-schedule/external/theodds"
	"github.com/riskibarqy/mlb-schedule/internal/config"
	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/team"
	providercache "github.com/riskibarqy/mlb-schedule/internal/infrastructure/provider/cache"
	"github.com/riskibarqy/mlb-schedule/internal/interfaces/httpapi"
	"github.com/riskibarqy/mlb-schedule/internal/observability"
	basecache "github.com/riskibarqy/mlb-schedule/internal/platform/cache"
	idgen "github.com/riskibarqy/mlb-schedule/internal/platform/id"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/reconcile"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
)

const redisConnectTimeout = 5 * time.Second

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	catalog := team.NewStaticCatalog()
	var onShutdown []func()

	scheduleClient := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:        cfg.MLBBaseURL,
		Timeout:        cfg.MLBTimeout,
		MaxRetries:     cfg.MLBMaxRetries,
		WindowDays:     cfg.MLBWindowDays,
		MaxWorkers:     cfg.MLBMaxWorkers,
		Logger:         logger.With("provider", usecase.ProviderSchedule),
		CircuitBreaker: cfg.MLBCircuit,
	})

	serviceCfg := usecase.ScheduleServiceConfig{
		Schedules: scheduleClient,
		Indexer: reconcile.NewIndexer(
			odds.SourceSelector{Bookmaker: cfg.OddsBookmaker, Market: cfg.OddsMarket},
			cfg.ReconcileLocation,
			catalog,
		),
		Merger:  reconcile.NewMerger(cfg.ReconcileLocation),
		Timeout: cfg.ScheduleRequestTimeout,
		Logger:  logger,
	}
	if metrics != nil {
		serviceCfg.Recorder = metrics
	}
	if cfg.OddsEnabled {
		var oddsProvider odds.Provider = theodds.NewClient(theodds.ClientConfig{
			BaseURL:        cfg.OddsBaseURL,
			APIKey:         cfg.OddsAPIKey,
			Sport:          cfg.OddsSport,
			Regions:        cfg.OddsRegions,
			Timeout:        cfg.OddsTimeout,
			MaxRetries:     cfg.OddsMaxRetries,
			Logger:         logger.With("provider", usecase.ProviderOdds),
			CircuitBreaker: cfg.OddsCircuit,
		})
		oddsProvider, closeCache, err := wrapOddsCache(oddsProvider, cfg, logger)
		if err != nil {
			return nil, err
		}
		if closeCache != nil {
			onShutdown = append(onShutdown, closeCache)
		}
		serviceCfg.Odds = oddsProvider
	} else {
		logger.Info("odds provider disabled", "reason", "ODDS_ENABLED=false")
	}

	scheduleSvc := usecase.NewScheduleService(serviceCfg)
	teamSvc := usecase.NewTeamService(catalog)

	routerCfg := httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestIDs:         idgen.NewUUIDGenerator(),
		Logger:             logger,
	}
	if metrics != nil {
		routerCfg.Metrics = metrics.Handler()
		routerCfg.Recorder = metrics
	}

	handler := httpapi.NewHandler(scheduleSvc, teamSvc, logger)
	router := httpapi.NewRouter(handler, routerCfg)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	for _, fn := range onShutdown {
		srv.RegisterOnShutdown(fn)
	}

	return srv, nil
}

// wrapOddsCache returns next unchanged when ODDS_CACHE_TTL is zero.
func wrapOddsCache(next odds.Provider, cfg config.Config, logger *logging.Logger) (odds.Provider, func(), error) {
	if cfg.OddsCacheTTL <= 0 {
		return next, nil, nil
	}

	if cfg.OddsCacheBackend != config.CacheBackendRedis {
		return providercache.NewOddsProvider(next, cfg.OddsCacheTTL), nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()

	rdb, err := basecache.ConnectRedis(ctx, basecache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect odds cache: %w", err)
	}
	logger.Info("odds snapshot cache connected", "backend", config.CacheBackendRedis, "addr", cfg.RedisAddr, "ttl", cfg.OddsCacheTTL.String())

	provider := providercache.NewRedisOddsProvider(providercache.RedisOddsConfig{
		Next:   next,
		Store:  rdb,
		TTL:    cfg.OddsCacheTTL,
		Key:    cfg.ServiceName + ":odds:" + cfg.OddsSport,
		Logger: logger.With("cache", config.CacheBackendRedis),
	})
	closeFn := func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis client failed", "error", err)
		}
	}
	return provider, closeFn, nil
}
