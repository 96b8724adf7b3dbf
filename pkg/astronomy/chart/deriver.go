package chart

import (
	"context"

	"cosmossdk.io/errors"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/ephemeris"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// Deriver casts the positional geometry of a chart for a resolved moment.
// It is a pure function of its inputs: the same moment, location and body
// set always produce an identical chart.
type Deriver struct {
	oracle ephemeris.Oracle
	system HouseSystem
	defs   []AspectDef
}

// Option configures a Deriver.
type Option func(*Deriver)

// WithHouseSystem overrides the default Placidus house division.
func WithHouseSystem(system HouseSystem) Option {
	return func(d *Deriver) { d.system = system }
}

// WithAspects overrides the default major-aspect orb table.
func WithAspects(defs []AspectDef) Option {
	return func(d *Deriver) { d.defs = defs }
}

// NewDeriver creates a chart deriver backed by a position oracle.
func NewDeriver(oracle ephemeris.Oracle, opts ...Option) *Deriver {
	d := &Deriver{
		oracle: oracle,
		system: SystemPlacidus,
		defs:   MajorAspects,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Derive casts the chart geometry at a moment: body positions, house
// cusps, aspects and angularity. The Body, Target and Validity fields are
// left for the caller to fill. Oracle failures are wrapped with chart
// context while keeping the original error in the chain.
func (d *Deriver) Derive(ctx context.Context, moment julian.Day, loc types.Location, bodies []types.Body) (*types.ReturnChart, error) {
	if len(bodies) == 0 {
		return nil, errors.Wrap(types.ErrValidation, "no bodies to chart")
	}

	lst := julian.LST(moment, loc.Longitude)
	obliquity := julian.MeanObliquity(moment)

	cusps, err := Cusps(d.system, lst, loc.Latitude, obliquity)
	if err != nil {
		return nil, err
	}

	positions := make(map[types.Body]types.BodyPosition, len(bodies))
	for _, body := range bodies {
		pos, err := d.oracle.Position(ctx, body, moment, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "charting %s at jd=%.6f", body, float64(moment))
		}
		positions[body] = pos
	}

	return &types.ReturnChart{
		Moment:    moment,
		Timestamp: moment.ToTime(),
		Location:  loc,
		Positions: positions,
		Houses:    cusps,
		Aspects:   Aspects(positions, d.defs),
		Angular:   Classify(positions, cusps),
	}, nil
}
