package ephemeris

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
	"github.com/heliacal/returncast/pkg/cache"
)

var testLoc = types.Location{Latitude: 52.5, Longitude: 13.4}

func TestPositionRanges(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx := context.Background()

	jds := []julian.Day{
		julian.Day(julian.J2000),
		julian.FromTime(time.Date(1987, 6, 19, 18, 0, 0, 0, time.UTC)),
		julian.FromTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	for _, body := range types.DefaultBodies {
		for _, jd := range jds {
			pos, err := oracle.Position(ctx, body, jd, testLoc)
			if err != nil {
				t.Fatalf("Position(%s, %v): %v", body, jd, err)
			}
			if pos.Longitude < 0 || pos.Longitude >= 360 {
				t.Errorf("%s longitude out of range: %v", body, pos.Longitude)
			}
			if math.Abs(pos.Latitude) > 10 {
				t.Errorf("%s ecliptic latitude implausible: %v", body, pos.Latitude)
			}
			if pos.Distance <= 0 {
				t.Errorf("%s distance must be positive: %v", body, pos.Distance)
			}
		}
	}
}

func TestPositionDeterministic(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx := context.Background()
	jd := julian.FromTime(time.Date(2010, 8, 14, 3, 30, 0, 0, time.UTC))

	for _, body := range types.DefaultBodies {
		a, err := oracle.Position(ctx, body, jd, testLoc)
		if err != nil {
			t.Fatalf("first query %s: %v", body, err)
		}
		b, err := oracle.Position(ctx, body, jd, testLoc)
		if err != nil {
			t.Fatalf("second query %s: %v", body, err)
		}
		if a != b {
			t.Errorf("%s not deterministic: %+v vs %+v", body, a, b)
		}
	}
}

func TestSunPosition(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx := context.Background()

	// Known value: geocentric solar longitude at J2000.0 is ~280.4 degrees.
	pos, err := oracle.Position(ctx, types.BodySun, julian.Day(julian.J2000), testLoc)
	if err != nil {
		t.Fatal(err)
	}
	if angle.Separation(pos.Longitude, 280.4) > 0.3 {
		t.Errorf("Sun longitude at J2000 = %.3f, want ~280.4", pos.Longitude)
	}

	// The Sun advances ~0.9856 degrees/day.
	if math.Abs(pos.Speed-0.9856) > 0.04 {
		t.Errorf("Sun speed = %.4f deg/day, want ~0.9856", pos.Speed)
	}
	if math.Abs(pos.Distance-1.0) > 0.02 {
		t.Errorf("Sun distance = %.4f AU, want ~1.0", pos.Distance)
	}
}

func TestMoonMotion(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx := context.Background()
	jd := julian.Day(julian.J2000)

	pos, err := oracle.Position(ctx, types.BodyMoon, jd, testLoc)
	if err != nil {
		t.Fatal(err)
	}

	// Mean lunar motion is ~13.18 deg/day; true rate stays within 11.8-15.4.
	if pos.Speed < 11.0 || pos.Speed > 15.5 {
		t.Errorf("Moon speed = %.3f deg/day, want 11-15.5", pos.Speed)
	}

	// After one sidereal month the Moon returns near the same longitude.
	later, err := oracle.Position(ctx, types.BodyMoon, jd.Add(27.321582), testLoc)
	if err != nil {
		t.Fatal(err)
	}
	if sep := angle.Separation(pos.Longitude, later.Longitude); sep > 8 {
		t.Errorf("Moon after sidereal month off by %.2f degrees", sep)
	}
}

func TestPlanetPeriods(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx := context.Background()
	jd := julian.Day(julian.J2000)

	// Over 30 days outer planets barely move while Mercury sweeps far.
	tests := []struct {
		body    types.Body
		maxMove float64
	}{
		{types.BodyJupiter, 6},
		{types.BodySaturn, 4},
		{types.BodyNeptune, 2},
	}

	for _, tt := range tests {
		a, err := oracle.Position(ctx, tt.body, jd, testLoc)
		if err != nil {
			t.Fatal(err)
		}
		b, err := oracle.Position(ctx, tt.body, jd.Add(30), testLoc)
		if err != nil {
			t.Fatal(err)
		}
		if sep := angle.Separation(a.Longitude, b.Longitude); sep > tt.maxMove {
			t.Errorf("%s moved %.2f degrees in 30 days, expected < %v", tt.body, sep, tt.maxMove)
		}
	}
}

func TestUnknownBody(t *testing.T) {
	oracle := NewKeplerOracle()
	_, err := oracle.Position(context.Background(), types.Body("vulcan"), julian.Day(julian.J2000), testLoc)
	if err == nil {
		t.Fatal("expected error for unknown body")
	}
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	oracle := NewKeplerOracle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := oracle.Position(ctx, types.BodySun, julian.Day(julian.J2000), testLoc)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, types.ErrOracle) {
		t.Errorf("expected ErrOracle, got %v", err)
	}
}

func TestCachedOracle(t *testing.T) {
	inner := NewKeplerOracle()
	store := cache.NewMemory()
	cached := NewCachedOracle(inner, store, time.Minute)

	hits, misses := 0, 0
	cached.Hit = func() { hits++ }
	cached.Miss = func() { misses++ }

	ctx := context.Background()
	jd := julian.Day(julian.J2000)

	first, err := cached.Position(ctx, types.BodyMars, jd, testLoc)
	if err != nil {
		t.Fatal(err)
	}
	if misses != 1 || hits != 0 {
		t.Fatalf("after first query: hits=%d misses=%d", hits, misses)
	}

	second, err := cached.Position(ctx, types.BodyMars, jd, testLoc)
	if err != nil {
		t.Fatal(err)
	}
	if hits != 1 {
		t.Errorf("expected cache hit on repeat query, hits=%d", hits)
	}
	if first != second {
		t.Errorf("cached position differs: %+v vs %+v", first, second)
	}

	// A different moment must miss.
	if _, err := cached.Position(ctx, types.BodyMars, jd.Add(1), testLoc); err != nil {
		t.Fatal(err)
	}
	if misses != 2 {
		t.Errorf("expected miss for new moment, misses=%d", misses)
	}
}
