package chart

import (
	"sort"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
)

// AspectDef names an aspect angle and its maximum orb in degrees.
type AspectDef struct {
	Name   string  `json:"name" yaml:"name"`
	Angle  float64 `json:"angle" yaml:"angle"`
	MaxOrb float64 `json:"max_orb" yaml:"max_orb"`
}

// MajorAspects is the default orb table for the five Ptolemaic aspects.
var MajorAspects = []AspectDef{
	{Name: "conjunction", Angle: 0, MaxOrb: 8},
	{Name: "sextile", Angle: 60, MaxOrb: 6},
	{Name: "square", Angle: 90, MaxOrb: 8},
	{Name: "trine", Angle: 120, MaxOrb: 8},
	{Name: "opposition", Angle: 180, MaxOrb: 8},
}

// MinorAspects extends the table when a caller opts in.
var MinorAspects = []AspectDef{
	{Name: "semisextile", Angle: 30, MaxOrb: 2},
	{Name: "semisquare", Angle: 45, MaxOrb: 2},
	{Name: "sesquiquadrate", Angle: 135, MaxOrb: 2},
	{Name: "quincunx", Angle: 150, MaxOrb: 3},
}

// exactOrb marks an aspect as exact when the residual is below it.
const exactOrb = 1.0

// Aspects finds every aspect between distinct body pairs. Each pair
// contributes at most one record, the aspect with the smallest orb among
// those within range. Pairs and records are ordered deterministically by
// body name.
func Aspects(positions map[types.Body]types.BodyPosition, defs []AspectDef) []types.AspectRecord {
	bodies := make([]types.Body, 0, len(positions))
	for b := range positions {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

	var records []types.AspectRecord
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			sep := angle.Separation(positions[a].Longitude, positions[b].Longitude)
			if rec, ok := matchAspect(a, b, sep, defs); ok {
				records = append(records, rec)
			}
		}
	}
	return records
}

// matchAspect picks the in-orb aspect closest to the separation.
func matchAspect(a, b types.Body, sep float64, defs []AspectDef) (types.AspectRecord, bool) {
	best := types.AspectRecord{}
	bestOrb := -1.0
	for _, def := range defs {
		orb := sep - def.Angle
		if orb < 0 {
			orb = -orb
		}
		if orb > def.MaxOrb {
			continue
		}
		if bestOrb < 0 || orb < bestOrb {
			bestOrb = orb
			best = types.AspectRecord{
				BodyA:  a,
				BodyB:  b,
				Aspect: def.Name,
				Angle:  def.Angle,
				Orb:    orb,
				Exact:  orb < exactOrb,
			}
		}
	}
	return best, bestOrb >= 0
}
