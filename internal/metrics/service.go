package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// OrderSource is the order query collaborator. Implementations return raw
// records already restricted to the supplied filter; the engine trusts that
// restriction and never re-filters.
type OrderSource interface {
	ListOrders(ctx context.Context, filter FilterContext) ([]RawOrder, error)
}

// DashboardRequest scopes one dashboard computation. Compare requests the
// prior-period fetch; it only takes effect when the filter carries a date
// range, since no comparable window exists otherwise.
type DashboardRequest struct {
	Filter  FilterContext
	Compare bool
}

// DashboardResult pairs the metrics tree with normalization observability.
type DashboardResult struct {
	Metrics        Result `json:"metrics"`
	ExcludedOrders int    `json:"excluded_orders"`
	PriorExcluded  int    `json:"prior_excluded_orders"`
}

// Service coordinates order fetching, normalization, and metric computation
// with the cache layer. The engine stays pure; all I/O lives here.
type Service struct {
	source OrderSource
	engine *Engine
	cache  *Cache
	logger *slog.Logger
}

// NewService wires an OrderSource and Engine with an optional Cache.
func NewService(source OrderSource, engine *Engine, cache *Cache, logger *slog.Logger) *Service {
	return &Service{source: source, engine: engine, cache: cache, logger: logger}
}

// Dashboard resolves the full metrics tree for one filter, cache-aware.
func (s *Service) Dashboard(ctx context.Context, req DashboardRequest) (DashboardResult, error) {
	if s == nil || s.source == nil || s.engine == nil {
		return DashboardResult{}, fmt.Errorf("metrics: service not configured")
	}

	loader := func(ctx context.Context) (interface{}, error) {
		return s.compute(ctx, req)
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return DashboardResult{}, err
		}
		return value.(DashboardResult), nil
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(req.Filter, req.Compare))
	if err != nil {
		return DashboardResult{}, err
	}
	var result DashboardResult
	if err := s.cache.FetchJSON(ctx, key, &result, loader); err != nil {
		return DashboardResult{}, err
	}
	return result, nil
}

func (s *Service) compute(ctx context.Context, req DashboardRequest) (DashboardResult, error) {
	var currentRaw, priorRaw []RawOrder
	fetchPrior := req.Compare && req.Filter.DateRange != nil

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.source.ListOrders(gctx, req.Filter)
		if err != nil {
			return fmt.Errorf("metrics: list orders: %w", err)
		}
		currentRaw = raw
		return nil
	})
	if fetchPrior {
		priorFilter := req.Filter
		prev := req.Filter.DateRange.Previous()
		priorFilter.DateRange = &prev
		g.Go(func() error {
			raw, err := s.source.ListOrders(gctx, priorFilter)
			if err != nil {
				return fmt.Errorf("metrics: list prior orders: %w", err)
			}
			priorRaw = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}

	orders, excluded := Normalize(currentRaw)
	prior := NoPriorPeriod()
	priorExcluded := 0
	if fetchPrior {
		var priorOrders []Order
		priorOrders, priorExcluded = Normalize(priorRaw)
		prior = PriorOrders(priorOrders)
	}
	if excluded > 0 || priorExcluded > 0 {
		s.log().Warn("excluded malformed order records",
			slog.Int("current", excluded),
			slog.Int("prior", priorExcluded))
	}

	return DashboardResult{
		Metrics:        s.engine.Compute(orders, req.Filter, prior),
		ExcludedOrders: excluded,
		PriorExcluded:  priorExcluded,
	}, nil
}

// Invalidate bumps the cache version after order data changes.
func (s *Service) Invalidate(ctx context.Context) error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.Bump(ctx)
}

func (s *Service) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
