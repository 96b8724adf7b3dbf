package types

import (
	"time"

	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// Body identifies a celestial body tracked by the engine.
type Body string

const (
	BodySun     Body = "sun"
	BodyMoon    Body = "moon"
	BodyMercury Body = "mercury"
	BodyVenus   Body = "venus"
	BodyMars    Body = "mars"
	BodyJupiter Body = "jupiter"
	BodySaturn  Body = "saturn"
	BodyUranus  Body = "uranus"
	BodyNeptune Body = "neptune"
)

// DefaultBodies is the standard body set used for chart casting.
var DefaultBodies = []Body{
	BodySun, BodyMoon, BodyMercury, BodyVenus, BodyMars,
	BodyJupiter, BodySaturn, BodyUranus, BodyNeptune,
}

// Location is a terrestrial observer location.
type Location struct {
	Latitude  float64 `json:"latitude"`  // degrees, north positive, [-90, 90]
	Longitude float64 `json:"longitude"` // degrees, east positive, [-180, 180]
}

// BodyPosition is a body's ecliptic position at a single moment.
type BodyPosition struct {
	Longitude float64 `json:"longitude"` // ecliptic longitude, degrees [0, 360)
	Latitude  float64 `json:"latitude"`  // ecliptic latitude, degrees
	Distance  float64 `json:"distance"`  // geocentric distance, AU
	Speed     float64 `json:"speed"`     // longitude rate, degrees/day (negative when retrograde)
}

// HouseCusps holds the 12 house boundary longitudes in house order.
// Cusp i and cusp (i+1 mod 12) bound house i+1.
type HouseCusps struct {
	Cusps         [12]float64 `json:"cusps"`          // degrees, wraparound at 360
	Ascendant     float64     `json:"ascendant"`      // cusp 1
	Midheaven     float64     `json:"midheaven"`      // cusp 10
	System        string      `json:"system"`         // "placidus" or "equal"
	LowConfidence bool        `json:"low_confidence"` // set for degenerate polar geometry
}

// AspectRecord is an angular relationship between two bodies. Symmetric in
// (BodyA, BodyB); only the minimal separation (<= 180 degrees) is considered.
type AspectRecord struct {
	BodyA  Body    `json:"body_a"`
	BodyB  Body    `json:"body_b"`
	Aspect string  `json:"aspect"`
	Angle  float64 `json:"angle"` // nominal aspect angle, degrees
	Orb    float64 `json:"orb"`   // residual from exact, degrees
	Exact  bool    `json:"exact"`
}

// HouseClass partitions houses by emphasis.
type HouseClass string

const (
	ClassAngular   HouseClass = "angular"   // houses 1, 4, 7, 10
	ClassSuccedent HouseClass = "succedent" // houses 2, 5, 8, 11
	ClassCadent    HouseClass = "cadent"    // houses 3, 6, 9, 12
)

// Angularity classifies each body's house placement and derives an
// angular-emphasis strength ratio.
type Angularity struct {
	Houses          map[Body]int        `json:"houses"`
	Classes         map[Body]HouseClass `json:"classes"`
	AngularBodies   []Body              `json:"angular_bodies"`
	SuccedentBodies []Body              `json:"succedent_bodies"`
	CadentBodies    []Body              `json:"cadent_bodies"`
	StrengthRatio   float64             `json:"strength_ratio"` // angular count / total bodies
	ClusteringScore float64             `json:"clustering_score"`
}

// ValidityPeriod is the interval for which a return chart is in effect.
type ValidityPeriod struct {
	Start julian.Day `json:"start"`
	End   julian.Day `json:"end"`
}

// ReturnChart is the complete positional chart cast for a resolved return
// moment. Constructed once per solver success and never mutated.
type ReturnChart struct {
	Body      Body                  `json:"body"`       // body the return was solved for
	Moment    julian.Day            `json:"moment"`     // resolved return moment
	Timestamp time.Time             `json:"timestamp"`  // Moment as calendar UTC, for presentation
	Location  Location              `json:"location"`   // casting location
	Target    float64               `json:"target"`     // longitude solved against, degrees
	Positions map[Body]BodyPosition `json:"positions"`
	Houses    HouseCusps            `json:"houses"`
	Aspects   []AspectRecord        `json:"aspects"`
	Angular   Angularity            `json:"angularity"`
	Validity  ValidityPeriod        `json:"validity"`
}

// BirthRecord is the reference record returns are solved against.
type BirthRecord struct {
	Moment    julian.Day            `json:"moment"`
	Location  Location              `json:"location"`
	Positions map[Body]BodyPosition `json:"positions"`
}

// KnownLongitude returns the recorded natal longitude for a body.
func (b BirthRecord) KnownLongitude(body Body) (float64, bool) {
	p, ok := b.Positions[body]
	return p.Longitude, ok
}

// TimingRelation classifies the time separation of two paired returns.
type TimingRelation struct {
	DeltaDays   float64 `json:"delta_days"`
	Band        string  `json:"band"` // simultaneous, close, moderate, distant
	Description string  `json:"description"`
}

// CombinedAnalysis is the derived relation between two return charts
// sharing a birth record. Computed on demand, never persisted.
type CombinedAnalysis struct {
	Harmony       float64        `json:"harmony"` // 0..1
	Conflicts     []string       `json:"conflicts"`
	Opportunities []string       `json:"opportunities"`
	Challenges    []string       `json:"challenges"`
	Timing        TimingRelation `json:"timing"`
}
