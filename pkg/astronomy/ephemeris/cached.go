package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
	"github.com/heliacal/returncast/pkg/cache"
)

// CachedOracle memoizes positions from an inner oracle through a cache
// backend. Keys quantize the Julian Day to ~1 millisecond so that repeat
// queries for the same moment hit regardless of float formatting.
// Cache failures are treated as misses; the inner oracle remains the
// source of truth.
type CachedOracle struct {
	inner Oracle
	store cache.Service
	ttl   time.Duration

	// Hit and Miss are optional observation hooks for metrics.
	Hit  func()
	Miss func()
}

// NewCachedOracle wraps an oracle with a cache backend.
func NewCachedOracle(inner Oracle, store cache.Service, ttl time.Duration) *CachedOracle {
	return &CachedOracle{inner: inner, store: store, ttl: ttl}
}

func (c *CachedOracle) Position(ctx context.Context, body types.Body, jd julian.Day, loc types.Location) (types.BodyPosition, error) {
	key := positionKey(body, jd)

	// Any Get failure, miss or backend trouble, falls through to the
	// inner oracle.
	if raw, err := c.store.Get(ctx, key); err == nil {
		var pos types.BodyPosition
		if err := json.Unmarshal(raw, &pos); err == nil {
			if c.Hit != nil {
				c.Hit()
			}
			return pos, nil
		}
	}

	if c.Miss != nil {
		c.Miss()
	}

	pos, err := c.inner.Position(ctx, body, jd, loc)
	if err != nil {
		return types.BodyPosition{}, err
	}

	if raw, err := json.Marshal(pos); err == nil {
		_ = c.store.Set(ctx, key, raw, c.ttl)
	}

	return pos, nil
}

func positionKey(body types.Body, jd julian.Day) string {
	// ~1 ms quantum: 1e-8 day.
	quantized := math.Round(float64(jd)*1e8) / 1e8
	return fmt.Sprintf("ephem:%s:%.8f", body, quantized)
}
