// Package ephemeris provides celestial position oracles. The Oracle
// interface is the engine's only source of body positions; the built-in
// implementation is a Keplerian mean-element ephemeris good to a fraction
// of a degree, which is sufficient for return solving and chart geometry.
package ephemeris

import (
	"context"

	"cosmossdk.io/errors"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// Oracle supplies a body's ecliptic position at a moment. Implementations
// must be deterministic for a given (body, moment) pair; the location
// affects only topocentric corrections, which the built-in oracle
// approximates as zero.
type Oracle interface {
	Position(ctx context.Context, body types.Body, jd julian.Day, loc types.Location) (types.BodyPosition, error)
}

// speedStep is the half-width in days of the central difference used to
// estimate apparent longitude speed.
const speedStep = 0.02

// KeplerOracle is the built-in geocentric ephemeris. It is stateless and
// safe for concurrent use.
type KeplerOracle struct{}

// NewKeplerOracle creates the built-in ephemeris oracle.
func NewKeplerOracle() *KeplerOracle {
	return &KeplerOracle{}
}

// Position returns the geocentric ecliptic position of a body, with the
// apparent longitude speed estimated by central finite difference.
func (o *KeplerOracle) Position(ctx context.Context, body types.Body, jd julian.Day, _ types.Location) (types.BodyPosition, error) {
	if err := ctx.Err(); err != nil {
		return types.BodyPosition{}, errors.Wrap(types.ErrOracle, err.Error())
	}

	lon, lat, dist, err := eclipticPosition(body, jd)
	if err != nil {
		return types.BodyPosition{}, err
	}

	before, _, _, err := eclipticPosition(body, jd.Add(-speedStep))
	if err != nil {
		return types.BodyPosition{}, err
	}
	after, _, _, err := eclipticPosition(body, jd.Add(speedStep))
	if err != nil {
		return types.BodyPosition{}, err
	}

	return types.BodyPosition{
		Longitude: lon,
		Latitude:  lat,
		Distance:  dist,
		Speed:     longitudeRate(before, after, 2*speedStep),
	}, nil
}

// eclipticPosition dispatches to the per-body model.
func eclipticPosition(body types.Body, jd julian.Day) (lon, lat, dist float64, err error) {
	switch body {
	case types.BodySun:
		lon, lat, dist = sunPosition(jd)
	case types.BodyMoon:
		lon, lat, dist = moonPosition(jd)
	case types.BodyMercury, types.BodyVenus, types.BodyMars,
		types.BodyJupiter, types.BodySaturn, types.BodyUranus, types.BodyNeptune:
		lon, lat, dist = planetPosition(body, jd)
	default:
		return 0, 0, 0, errors.Wrapf(types.ErrValidation, "unknown body %q", body)
	}
	return lon, lat, dist, nil
}
