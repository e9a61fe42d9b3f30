// Package app wires configuration into a running planning service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apidemand "github.com/chargeway/chargeway/api/demand"
	apiplan "github.com/chargeway/chargeway/api/plan"
	"github.com/chargeway/chargeway/config"
	"github.com/chargeway/chargeway/core/demand"
	coremetrics "github.com/chargeway/chargeway/core/metrics"
	"github.com/chargeway/chargeway/core/model"
	"github.com/chargeway/chargeway/core/planner"
	"github.com/chargeway/chargeway/core/routing"
	"github.com/chargeway/chargeway/infra/logger"
	"github.com/chargeway/chargeway/infra/metrics"
	infrarouting "github.com/chargeway/chargeway/infra/routing"
	"github.com/chargeway/chargeway/infra/stationfeed"
	"github.com/chargeway/chargeway/internal/eventbus"
)

// Service orchestrates the planner, predictor and connectors.
type Service struct {
	Planner   *planner.Planner
	Predictor demand.Predictor
	Catalog   []model.ChargingStation

	cfg    *config.Config
	bus    eventbus.EventBus
	cache  *demand.CachedPredictor
	sink   coremetrics.MetricsSink
	feed   *stationfeed.Feed
	log    logger.Logger
	server *http.Server
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.NewWithOptions("service", cfg.Logging.Level, cfg.Logging.Format)

	var catalog []model.ChargingStation
	if cfg.Catalog.Path != "" {
		var err error
		catalog, err = config.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("station catalog: %w", err)
		}
		logg.Infof("loaded %d stations from %s", len(catalog), cfg.Catalog.Path)
	}

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink
	switch len(sinks) {
	case 0:
		sink = coremetrics.NopSink{}
	case 1:
		sink = sinks[0]
	default:
		sink = metrics.NewMultiSink(sinks...)
	}

	var (
		est  demand.Estimator = demand.NopEstimator{}
		feed *stationfeed.Feed
	)
	if cfg.StationFeed.Enabled {
		f, err := stationfeed.New(cfg.StationFeed)
		if err != nil {
			// Telemetry is advisory; run on the deterministic curve alone.
			logg.Warnf("station feed unavailable, running without telemetry: %v", err)
		} else {
			feed = f
			est = demand.NewTelemetryEstimator(f, 2*time.Hour)
		}
	}

	blend := demand.NewBlendingPredictor(catalog, cfg.Demand, est, logg)
	cache := demand.NewCachedPredictor(blend, time.Duration(cfg.Demand.CacheTTLSeconds)*time.Second)

	var inner routing.SegmentRouter
	if cfg.Router.BaseURL != "" {
		osrm, err := infrarouting.NewOSRMRouter(cfg.Router)
		if err != nil {
			return nil, fmt.Errorf("osrm router: %w", err)
		}
		inner = osrm
	}
	router := routing.NewFallbackRouter(inner, logg)

	pl, err := planner.NewPlanner(router, cache, cfg.Planner, logg)
	if err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	bus := eventbus.New()
	pl.SetEventBus(bus)
	pl.SetMetricsSink(sink)

	return &Service{
		Planner:   pl,
		Predictor: cache,
		Catalog:   catalog,
		cfg:       cfg,
		bus:       bus,
		cache:     cache,
		sink:      sink,
		feed:      feed,
		log:       logg,
	}, nil
}

// Run starts the HTTP API and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	go s.logEvents(ctx)
	go s.reportCacheStats(ctx)
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/plan", apiplan.NewHandler(s.Planner, s.Catalog, s.log))
	mux.Handle("/api/demand", apidemand.NewHandler(s.Predictor, predictionRecorder(s.sink), s.log))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.server = &http.Server{Addr: s.cfg.API.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("api listening on %s", s.cfg.API.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

// logEvents drains the bus so planning events show up in the logs even when
// no other subscriber exists.
func (s *Service) logEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			s.log.Debugw("plan event", map[string]any{"event": fmt.Sprintf("%+v", ev)})
		}
	}
}

func (s *Service) reportCacheStats(ctx context.Context) {
	rec, ok := s.sink.(coremetrics.CacheStatsRecorder)
	if !ok {
		return
	}
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hits, misses := s.cache.Stats()
			if err := rec.RecordCacheStats(hits, misses); err != nil {
				s.log.Warnf("cache stats: %v", err)
			}
		}
	}
}

func predictionRecorder(sink coremetrics.MetricsSink) coremetrics.PredictionRecorder {
	if rec, ok := sink.(coremetrics.PredictionRecorder); ok {
		return rec
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.feed != nil {
		s.feed.Close()
	}
	s.bus.Close()
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}
