package main

import (
	"context"
	"fmt"
	"time"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/chart"
	"github.com/heliacal/returncast/pkg/astronomy/ephemeris"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
	"github.com/heliacal/returncast/pkg/astronomy/returns"
	"github.com/heliacal/returncast/pkg/astronomy/solver"
	"github.com/heliacal/returncast/pkg/cache"
	"github.com/heliacal/returncast/pkg/metrics"
)

// pipeline bundles the configured oracle, solver and orchestrator.
type pipeline struct {
	oracle ephemeris.Oracle
	solver *solver.Solver
	orch   *returns.Orchestrator
	closer func() error
}

// newPipeline assembles the return engine from the loaded config.
func newPipeline(ctx context.Context) (*pipeline, error) {
	var oracle ephemeris.Oracle = ephemeris.NewKeplerOracle()
	closer := func() error { return nil }

	switch cfg.Cache.Backend {
	case "memory":
		oracle = cachedOracle(oracle, cache.NewMemory())
	case "redis":
		store, err := cache.NewRedis(ctx, cfg.Cache.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		oracle = cachedOracle(oracle, store)
		closer = store.Close
	}

	s := solver.New(oracle, cfg.SolverOptions())
	d := chart.NewDeriver(oracle,
		chart.WithHouseSystem(cfg.HouseSystem()),
		chart.WithAspects(cfg.AspectTable()))
	orch := returns.New(s, d,
		returns.WithBodies(cfg.Bodies()),
		returns.WithLogger(log))

	return &pipeline{oracle: oracle, solver: s, orch: orch, closer: closer}, nil
}

func cachedOracle(inner ephemeris.Oracle, store cache.Service) ephemeris.Oracle {
	cached := ephemeris.NewCachedOracle(inner, store, cfg.Cache.TTL)
	cached.Hit = metrics.RecordCacheHit
	cached.Miss = metrics.RecordCacheMiss
	return cached
}

func (p *pipeline) Close() error {
	return p.closer()
}

// natalRecord resolves the birth record from the configured oracle.
func (p *pipeline) natalRecord(ctx context.Context, birth time.Time, loc types.Location) (types.BirthRecord, error) {
	return returns.NatalRecord(ctx, p.oracle, julian.FromTime(birth), loc, cfg.Bodies())
}
