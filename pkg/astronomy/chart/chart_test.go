package chart

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

func TestEqualHouseSpacing(t *testing.T) {
	hc, err := Cusps(SystemEqual, 123.4, 48.2, 23.44)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		next := hc.Cusps[(i+1)%12]
		if sep := angle.Separation(hc.Cusps[i], next); math.Abs(sep-30) > 1e-9 {
			t.Errorf("cusp %d -> %d spans %.6f degrees, want 30", i+1, i+2, sep)
		}
	}
	if hc.Cusps[0] != hc.Ascendant {
		t.Errorf("cusp 1 = %.4f, Ascendant = %.4f", hc.Cusps[0], hc.Ascendant)
	}
	if hc.LowConfidence {
		t.Error("equal houses never degrade")
	}
}

func TestPlacidusAnglesAtEquator(t *testing.T) {
	// With ARMC = 0 at the equator the MC sits at 0 Aries and the
	// Ascendant 90 degrees later.
	hc, err := Cusps(SystemPlacidus, 0, 0, 23.4393)
	if err != nil {
		t.Fatal(err)
	}
	if angle.Separation(hc.Midheaven, 0) > 1e-6 {
		t.Errorf("MC = %.6f, want 0", hc.Midheaven)
	}
	if angle.Separation(hc.Ascendant, 90) > 1e-6 {
		t.Errorf("Asc = %.6f, want 90", hc.Ascendant)
	}
	if hc.LowConfidence {
		t.Error("equatorial geometry must not be low confidence")
	}
}

func TestPlacidusCuspStructure(t *testing.T) {
	hc, err := Cusps(SystemPlacidus, 217.8, 40.7, 23.4368)
	if err != nil {
		t.Fatal(err)
	}

	// Opposite cusps differ by exactly 180 degrees.
	for i := 0; i < 6; i++ {
		want := angle.Normalize360(hc.Cusps[i] + 180)
		if angle.Separation(hc.Cusps[i+6], want) > 1e-9 {
			t.Errorf("cusp %d = %.6f not opposite cusp %d = %.6f", i+7, hc.Cusps[i+6], i+1, hc.Cusps[i])
		}
	}

	// Cusps advance monotonically around the circle in house order.
	total := 0.0
	for i := 0; i < 12; i++ {
		span := angle.Normalize360(hc.Cusps[(i+1)%12] - hc.Cusps[i])
		if span <= 0 || span >= 180 {
			t.Errorf("house %d spans %.4f degrees", i+1, span)
		}
		total += span
	}
	if math.Abs(total-360) > 1e-6 {
		t.Errorf("house spans sum to %.6f, want 360", total)
	}

	if hc.Cusps[9] != hc.Midheaven || hc.Cusps[0] != hc.Ascendant {
		t.Error("angles must coincide with cusps 10 and 1")
	}
}

func TestPlacidusPolarLowConfidence(t *testing.T) {
	hc, err := Cusps(SystemPlacidus, 100, 78.5, 23.44)
	if err != nil {
		t.Fatal(err)
	}
	if !hc.LowConfidence {
		t.Error("expected LowConfidence above the polar circle")
	}
}

func TestCuspsValidation(t *testing.T) {
	if _, err := Cusps(SystemPlacidus, 0, 95, 23.44); !errors.Is(err, types.ErrValidation) {
		t.Errorf("latitude 95: expected ErrValidation, got %v", err)
	}
	if _, err := Cusps(HouseSystem("koch"), 0, 40, 23.44); !errors.Is(err, types.ErrValidation) {
		t.Errorf("unknown system: expected ErrValidation, got %v", err)
	}
}

func TestHouseOf(t *testing.T) {
	hc, err := Cusps(SystemEqual, 0, 0, 23.44)
	if err != nil {
		t.Fatal(err)
	}
	asc := hc.Ascendant

	tests := []struct {
		lon  float64
		want int
	}{
		{asc, 1},                            // on-cusp belongs to the starting house
		{angle.Normalize360(asc + 15), 1},   // mid-house
		{angle.Normalize360(asc + 30), 2},   // next cusp
		{angle.Normalize360(asc + 359), 12}, // just before wrapping back
		{angle.Normalize360(asc + 185), 7},
	}
	for _, tt := range tests {
		if got := HouseOf(tt.lon, hc); got != tt.want {
			t.Errorf("HouseOf(%.2f) = %d, want %d", tt.lon, got, tt.want)
		}
	}
}

func TestHouseTotality(t *testing.T) {
	// Every longitude lands in exactly one house for a realistic chart.
	hc, err := Cusps(SystemPlacidus, 310.2, 52.5, 23.4368)
	if err != nil {
		t.Fatal(err)
	}
	counts := make(map[int]int)
	for lon := 0.0; lon < 360; lon += 0.5 {
		counts[HouseOf(lon, hc)]++
	}
	for h := 1; h <= 12; h++ {
		if counts[h] == 0 {
			t.Errorf("house %d captured no longitudes", h)
		}
	}
}

func TestAspectsDetection(t *testing.T) {
	positions := map[types.Body]types.BodyPosition{
		types.BodySun:     {Longitude: 10},
		types.BodyMoon:    {Longitude: 130.5}, // trine Sun, orb 0.5
		types.BodyMars:    {Longitude: 101},   // square Sun, orb 1; no aspect to Moon (29.5)
		types.BodySaturn:  {Longitude: 190},   // opposition Sun, orb 0
		types.BodyNeptune: {Longitude: 55},    // no major aspect to Sun (45)
	}

	records := Aspects(positions, MajorAspects)

	find := func(a, b types.Body) *types.AspectRecord {
		for i := range records {
			if records[i].BodyA == a && records[i].BodyB == b {
				return &records[i]
			}
		}
		return nil
	}

	if rec := find(types.BodyMoon, types.BodySun); rec == nil {
		t.Error("missing Moon-Sun trine")
	} else {
		if rec.Aspect != "trine" || math.Abs(rec.Orb-0.5) > 1e-9 {
			t.Errorf("Moon-Sun = %s orb %.4f, want trine orb 0.5", rec.Aspect, rec.Orb)
		}
		if !rec.Exact {
			t.Error("orb 0.5 should be flagged exact")
		}
	}

	if rec := find(types.BodyMars, types.BodySun); rec == nil || rec.Aspect != "square" {
		t.Errorf("Mars-Sun: want square, got %+v", rec)
	}
	if rec := find(types.BodySaturn, types.BodySun); rec == nil || rec.Orb > 1e-9 || !rec.Exact {
		t.Errorf("Saturn-Sun: want exact opposition, got %+v", rec)
	}
	if rec := find(types.BodyNeptune, types.BodySun); rec != nil {
		t.Errorf("Neptune-Sun separation 45 must not match a major aspect, got %+v", rec)
	}
	if rec := find(types.BodyMars, types.BodyMoon); rec != nil {
		t.Errorf("Mars-Moon separation 29.5 must not match, got %+v", rec)
	}
}

func TestAspectsSinglePairSingleRecord(t *testing.T) {
	// Separation 57 sits inside the sextile orb and nothing else.
	positions := map[types.Body]types.BodyPosition{
		types.BodyVenus:   {Longitude: 0},
		types.BodyJupiter: {Longitude: 57},
	}
	records := Aspects(positions, MajorAspects)
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}
	if records[0].Aspect != "sextile" || math.Abs(records[0].Orb-3) > 1e-9 {
		t.Errorf("got %s orb %.2f, want sextile orb 3", records[0].Aspect, records[0].Orb)
	}
}

func TestAspectsMinorTable(t *testing.T) {
	positions := map[types.Body]types.BodyPosition{
		types.BodySun:  {Longitude: 0},
		types.BodyMoon: {Longitude: 150.5},
	}
	if recs := Aspects(positions, MajorAspects); len(recs) != 0 {
		t.Errorf("major-only table must not match 150.5, got %+v", recs)
	}
	recs := Aspects(positions, append(append([]AspectDef{}, MajorAspects...), MinorAspects...))
	if len(recs) != 1 || recs[0].Aspect != "quincunx" {
		t.Errorf("want quincunx with extended table, got %+v", recs)
	}
}

func TestClassify(t *testing.T) {
	hc, err := Cusps(SystemEqual, 0, 0, 23.44)
	if err != nil {
		t.Fatal(err)
	}
	asc := hc.Ascendant

	positions := map[types.Body]types.BodyPosition{
		types.BodySun:   {Longitude: angle.Normalize360(asc + 5)},  // house 1, angular
		types.BodyMoon:  {Longitude: angle.Normalize360(asc + 95)}, // house 4, angular
		types.BodyMars:  {Longitude: angle.Normalize360(asc + 40)}, // house 2, succedent
		types.BodyVenus: {Longitude: angle.Normalize360(asc + 70)}, // house 3, cadent
	}

	ang := Classify(positions, hc)

	if ang.Classes[types.BodySun] != types.ClassAngular || ang.Classes[types.BodyMoon] != types.ClassAngular {
		t.Errorf("expected Sun and Moon angular: %+v", ang.Classes)
	}
	if ang.Classes[types.BodyMars] != types.ClassSuccedent {
		t.Errorf("Mars class = %s, want succedent", ang.Classes[types.BodyMars])
	}
	if ang.Classes[types.BodyVenus] != types.ClassCadent {
		t.Errorf("Venus class = %s, want cadent", ang.Classes[types.BodyVenus])
	}
	if math.Abs(ang.StrengthRatio-0.5) > 1e-9 {
		t.Errorf("strength ratio = %.4f, want 0.5", ang.StrengthRatio)
	}
	if len(ang.AngularBodies)+len(ang.SuccedentBodies)+len(ang.CadentBodies) != len(positions) {
		t.Error("class partitions must cover every body")
	}
}

func TestClusteringScore(t *testing.T) {
	tight := map[types.Body]types.BodyPosition{
		types.BodySun:   {Longitude: 100},
		types.BodyMoon:  {Longitude: 102},
		types.BodyVenus: {Longitude: 98},
	}
	spread := map[types.Body]types.BodyPosition{
		types.BodySun:   {Longitude: 0},
		types.BodyMoon:  {Longitude: 120},
		types.BodyVenus: {Longitude: 240},
	}
	hc, _ := Cusps(SystemEqual, 0, 0, 23.44)

	tightScore := Classify(tight, hc).ClusteringScore
	spreadScore := Classify(spread, hc).ClusteringScore

	if tightScore < 0.99 {
		t.Errorf("tight cluster score = %.4f, want near 1", tightScore)
	}
	if spreadScore > 0.01 {
		t.Errorf("uniform spread score = %.4f, want near 0", spreadScore)
	}
}

// stubOracle serves fixed longitudes and can fail on demand.
type stubOracle struct {
	lons map[types.Body]float64
	fail error
}

func (o *stubOracle) Position(_ context.Context, body types.Body, _ julian.Day, _ types.Location) (types.BodyPosition, error) {
	if o.fail != nil {
		return types.BodyPosition{}, o.fail
	}
	lon, ok := o.lons[body]
	if !ok {
		return types.BodyPosition{}, types.ErrValidation
	}
	return types.BodyPosition{Longitude: lon, Distance: 1, Speed: 1}, nil
}

func TestDerive(t *testing.T) {
	oracle := &stubOracle{lons: map[types.Body]float64{
		types.BodySun:  15,
		types.BodyMoon: 195,
	}}
	d := NewDeriver(oracle)
	loc := types.Location{Latitude: 40.7, Longitude: -74.0}
	moment := julian.Day(julian.J2000)

	c, err := d.Derive(context.Background(), moment, loc, []types.Body{types.BodySun, types.BodyMoon})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Positions) != 2 {
		t.Errorf("positions = %d, want 2", len(c.Positions))
	}
	if c.Houses.System != string(SystemPlacidus) {
		t.Errorf("house system = %q, want placidus", c.Houses.System)
	}
	if len(c.Aspects) != 1 || c.Aspects[0].Aspect != "opposition" {
		t.Errorf("want a single opposition, got %+v", c.Aspects)
	}
	if c.Timestamp != moment.ToTime() {
		t.Error("timestamp must mirror the moment")
	}

	// Deriving again produces identical geometry.
	c2, err := d.Derive(context.Background(), moment, loc, []types.Body{types.BodySun, types.BodyMoon})
	if err != nil {
		t.Fatal(err)
	}
	if c.Houses != c2.Houses || c.Angular.StrengthRatio != c2.Angular.StrengthRatio {
		t.Error("derivation must be deterministic")
	}
}

func TestDeriveOracleFailurePreservesCause(t *testing.T) {
	cause := types.ErrOracle
	oracle := &stubOracle{fail: cause}
	d := NewDeriver(oracle)

	_, err := d.Derive(context.Background(), julian.Day(julian.J2000), types.Location{}, types.DefaultBodies)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, types.ErrOracle) {
		t.Errorf("wrapped error must keep the oracle cause, got %v", err)
	}
}

func TestDeriveNoBodies(t *testing.T) {
	d := NewDeriver(&stubOracle{})
	_, err := d.Derive(context.Background(), julian.Day(julian.J2000), types.Location{}, nil)
	if !errors.Is(err, types.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}
