// Package solver finds the moment at which a body's geocentric longitude
// matches a target value inside a bounded search window, using damped
// Newton-Raphson iteration on the signed angular error.
package solver

import (
	"context"
	"math"

	"cosmossdk.io/errors"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
	"github.com/heliacal/returncast/pkg/astronomy/ephemeris"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// Options bound the iteration.
type Options struct {
	MaxIterations      int     // iteration budget
	MaxStepDays        float64 // Newton step clamp, days
	DerivativeStepDays float64 // forward finite-difference delta, days
	DerivativeFloor    float64 // minimum usable |e'(t)|, degrees/day
	NudgeDays          float64 // fixed fallback step near stationary points, days
	StagnationFloor    float64 // minimum progress between iterations, degrees
}

// DefaultOptions returns the standard iteration bounds.
func DefaultOptions() Options {
	return Options{
		MaxIterations:      50,
		MaxStepDays:        1.0,
		DerivativeStepDays: 1.0 / 96.0, // 15 minutes
		DerivativeFloor:    1e-4,
		NudgeDays:          0.05,
		StagnationFloor:    1e-9,
	}
}

// Result carries the resolved moment and iteration diagnostics.
type Result struct {
	Moment     julian.Day // moment at which the longitude matches the target
	Iterations int        // iterations consumed
	Residual   float64    // final |error| in degrees
}

// Solver finds return moments. It holds no per-call state and is safe
// for concurrent use.
type Solver struct {
	oracle   ephemeris.Oracle
	opts     Options
	profiles map[types.Body]Profile
}

// New creates a solver with the default tolerance table.
func New(oracle ephemeris.Oracle, opts Options) *Solver {
	return NewWithProfiles(oracle, opts, DefaultProfiles)
}

// NewWithProfiles creates a solver with an injected tolerance table.
func NewWithProfiles(oracle ephemeris.Oracle, opts Options, profiles map[types.Body]Profile) *Solver {
	return &Solver{oracle: oracle, opts: opts, profiles: profiles}
}

// Profile returns the solving profile for a body.
func (s *Solver) Profile(body types.Body) (Profile, bool) {
	p, ok := s.profiles[body]
	return p, ok
}

// Solve finds the moment within [windowStart, windowEnd] at which the
// body's longitude equals targetLongitude, within the body's tolerance.
// Returns ErrValidation for malformed inputs, ErrConvergence when the
// iteration budget is exhausted or progress stalls, and ErrOracle for
// position-query failures. The context is checked at the top of every
// iteration so a caller-side timeout aborts between steps.
func (s *Solver) Solve(ctx context.Context, body types.Body, targetLongitude float64, windowStart, windowEnd julian.Day, loc types.Location) (Result, error) {
	profile, ok := s.profiles[body]
	if !ok {
		return Result{}, errors.Wrapf(types.ErrValidation, "no solving profile for body %q", body)
	}
	if targetLongitude < 0 || targetLongitude >= 360 {
		return Result{}, errors.Wrapf(types.ErrValidation, "target longitude %.4f outside [0, 360)", targetLongitude)
	}
	if windowStart >= windowEnd {
		return Result{}, errors.Wrapf(types.ErrValidation, "search window start %.6f not before end %.6f", float64(windowStart), float64(windowEnd))
	}
	if err := validateLocation(loc); err != nil {
		return Result{}, err
	}

	t := windowStart.Add(windowEnd.Sub(windowStart) / 2)
	prevAbsErr := math.NaN()

	for iter := 0; iter < s.opts.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return Result{Moment: t, Iterations: iter}, err
		}

		e, err := s.longitudeError(ctx, body, t, loc, targetLongitude)
		if err != nil {
			return Result{}, err
		}
		absErr := math.Abs(e)

		if absErr < profile.Tolerance {
			return Result{Moment: t, Iterations: iter + 1, Residual: absErr}, nil
		}

		// Stagnation: no measurable progress since the previous step.
		if !math.IsNaN(prevAbsErr) && math.Abs(prevAbsErr-absErr) < s.opts.StagnationFloor {
			return Result{Moment: t, Iterations: iter + 1, Residual: absErr},
				errors.Wrapf(types.ErrConvergence,
					"stalled for %s at jd=%.6f with residual %.6f deg", body, float64(t), absErr)
		}
		prevAbsErr = absErr

		eAhead, err := s.longitudeError(ctx, body, t.Add(s.opts.DerivativeStepDays), loc, targetLongitude)
		if err != nil {
			return Result{}, err
		}
		deriv := (eAhead - e) / s.opts.DerivativeStepDays

		var dt float64
		if math.Abs(deriv) < s.opts.DerivativeFloor {
			// Near a stationary point the Newton step is unusable; take a
			// fixed nudge in the direction that reduces the error for a
			// direct-motion body.
			dt = -math.Copysign(s.opts.NudgeDays, e)
		} else {
			dt = -e / deriv
			if math.Abs(dt) > s.opts.MaxStepDays {
				dt = math.Copysign(s.opts.MaxStepDays, dt)
			}
		}

		t = t.Add(dt)
		if t < windowStart {
			t = windowStart
		}
		if t > windowEnd {
			t = windowEnd
		}
	}

	e, err := s.longitudeError(ctx, body, t, loc, targetLongitude)
	if err != nil {
		return Result{}, err
	}
	return Result{Moment: t, Iterations: s.opts.MaxIterations, Residual: math.Abs(e)},
		errors.Wrapf(types.ErrConvergence,
			"iteration budget exhausted for %s at jd=%.6f with residual %.6f deg", body, float64(t), math.Abs(e))
}

// longitudeError evaluates the signed shortest-path difference between the
// body's longitude at t and the target, in degrees.
func (s *Solver) longitudeError(ctx context.Context, body types.Body, t julian.Day, loc types.Location, target float64) (float64, error) {
	pos, err := s.oracle.Position(ctx, body, t, loc)
	if err != nil {
		if errors.IsOf(err, types.ErrOracle, types.ErrValidation) {
			return 0, err
		}
		return 0, errors.Wrapf(types.ErrOracle, "position query failed: %s", err)
	}
	return angle.SignedSeparation(target, pos.Longitude), nil
}

func validateLocation(loc types.Location) error {
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return errors.Wrapf(types.ErrValidation, "latitude %.4f outside [-90, 90]", loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return errors.Wrapf(types.ErrValidation, "longitude %.4f outside [-180, 180]", loc.Longitude)
	}
	return nil
}
