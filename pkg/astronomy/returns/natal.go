package returns

import (
	"context"

	"cosmossdk.io/errors"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/ephemeris"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// NatalRecord builds a birth record by querying the oracle once per body
// at the birth moment. Callers with externally sourced natal positions
// construct types.BirthRecord directly instead.
func NatalRecord(ctx context.Context, oracle ephemeris.Oracle, moment julian.Day, loc types.Location, bodies []types.Body) (types.BirthRecord, error) {
	if len(bodies) == 0 {
		return types.BirthRecord{}, errors.Wrap(types.ErrValidation, "no bodies for natal record")
	}

	positions := make(map[types.Body]types.BodyPosition, len(bodies))
	for _, body := range bodies {
		pos, err := oracle.Position(ctx, body, moment, loc)
		if err != nil {
			return types.BirthRecord{}, err
		}
		positions[body] = pos
	}

	return types.BirthRecord{
		Moment:    moment,
		Location:  loc,
		Positions: positions,
	}, nil
}
