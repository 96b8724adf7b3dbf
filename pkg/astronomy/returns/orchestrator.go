// Package returns composes the return-time solver and the chart geometry
// deriver into complete return charts, and relates pairs of charts that
// share a birth record.
package returns

import (
	"context"
	"fmt"

	"cosmossdk.io/errors"
	"github.com/rs/zerolog"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/chart"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
	"github.com/heliacal/returncast/pkg/astronomy/solver"
	"github.com/heliacal/returncast/pkg/metrics"
)

// Search-window policy: slow movers get a tight window around the
// anniversary anchor, fast movers a wider one. Windows are never widened
// internally on failure; the caller re-invokes with a different anchor.
const (
	slowPeriodDays = 90.0
	slowWindowHalf = 0.5
	fastWindowHalf = 1.0
)

// Orchestrator produces return charts. Stateless between calls and safe
// for concurrent use.
type Orchestrator struct {
	solver  *solver.Solver
	deriver *chart.Deriver
	bodies  []types.Body
	log     zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBodies overrides the default charted body set.
func WithBodies(bodies []types.Body) Option {
	return func(o *Orchestrator) { o.bodies = bodies }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New creates an orchestrator over a solver and a deriver.
func New(s *solver.Solver, d *chart.Deriver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		solver:  s,
		deriver: d,
		bodies:  types.DefaultBodies,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GenerateReturn solves for the moment at which body returns to its natal
// longitude near the anchor, casts the chart there and stamps the
// validity period. Solver failures propagate unchanged so the caller can
// tell convergence from validation problems; geometry failures are
// wrapped as a chart error preserving the cause.
func (o *Orchestrator) GenerateReturn(ctx context.Context, body types.Body, birth types.BirthRecord, anchor julian.Day, castLoc types.Location) (*types.ReturnChart, error) {
	target, ok := birth.KnownLongitude(body)
	if !ok {
		return nil, errors.Wrapf(types.ErrValidation, "birth record has no position for %q", body)
	}
	profile, ok := o.solver.Profile(body)
	if !ok {
		return nil, errors.Wrapf(types.ErrValidation, "no solving profile for body %q", body)
	}

	half := fastWindowHalf
	if profile.NominalPeriod >= slowPeriodDays {
		half = slowWindowHalf
	}
	windowStart := anchor.Add(-half)
	windowEnd := anchor.Add(half)

	res, err := o.solver.Solve(ctx, body, target, windowStart, windowEnd, castLoc)
	if err != nil {
		metrics.RecordSolveFailure(errorCategory(err))
		o.log.Warn().Err(err).Str("body", string(body)).
			Float64("target", target).
			Float64("window_start", float64(windowStart)).
			Float64("window_end", float64(windowEnd)).
			Msg("return solve failed")
		return nil, err
	}

	c, err := o.deriver.Derive(ctx, res.Moment, castLoc, o.bodies)
	if err != nil {
		metrics.RecordSolveFailure("chart")
		return nil, fmt.Errorf("%w: casting %s return chart: %w", types.ErrChart, body, err)
	}

	c.Body = body
	c.Target = target
	c.Validity = types.ValidityPeriod{
		Start: res.Moment,
		End:   res.Moment.Add(profile.NominalPeriod),
	}

	metrics.RecordChart(string(body))
	metrics.ObserveSolverIterations(string(body), res.Iterations)
	o.log.Debug().Str("body", string(body)).
		Float64("moment", float64(res.Moment)).
		Int("iterations", res.Iterations).
		Float64("residual", res.Residual).
		Msg("return chart cast")

	return c, nil
}

// SolarReturn generates the solar return nearest the anchor.
func (o *Orchestrator) SolarReturn(ctx context.Context, birth types.BirthRecord, anchor julian.Day, castLoc types.Location) (*types.ReturnChart, error) {
	return o.GenerateReturn(ctx, types.BodySun, birth, anchor, castLoc)
}

// LunarReturn generates the lunar return nearest the anchor.
func (o *Orchestrator) LunarReturn(ctx context.Context, birth types.BirthRecord, anchor julian.Day, castLoc types.Location) (*types.ReturnChart, error) {
	return o.GenerateReturn(ctx, types.BodyMoon, birth, anchor, castLoc)
}

// CombinedReturns generates the solar and lunar returns nearest their
// anchors and relates them.
func (o *Orchestrator) CombinedReturns(ctx context.Context, birth types.BirthRecord, solarAnchor, lunarAnchor julian.Day, castLoc types.Location) (*types.ReturnChart, *types.ReturnChart, types.CombinedAnalysis, error) {
	sol, err := o.SolarReturn(ctx, birth, solarAnchor, castLoc)
	if err != nil {
		return nil, nil, types.CombinedAnalysis{}, err
	}
	lun, err := o.LunarReturn(ctx, birth, lunarAnchor, castLoc)
	if err != nil {
		return nil, nil, types.CombinedAnalysis{}, err
	}
	return sol, lun, Combine(sol, lun), nil
}

func errorCategory(err error) string {
	switch {
	case errors.IsOf(err, types.ErrValidation):
		return "validation"
	case errors.IsOf(err, types.ErrConvergence):
		return "convergence"
	case errors.IsOf(err, types.ErrOracle):
		return "oracle"
	default:
		return "other"
	}
}
