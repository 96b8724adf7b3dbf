package solver

import (
	"github.com/heliacal/returncast/internal/types"
)

// Profile holds the per-body solving characteristics. Tolerances scale
// with each body's typical angular speed so that the resulting time
// precision is roughly uniform (~10 seconds) across fast and slow movers.
type Profile struct {
	MeanDailyMotion float64 // typical geocentric longitude rate, degrees/day
	Tolerance       float64 // angular convergence tolerance, degrees
	NominalPeriod   float64 // days until the next return of the same longitude
}

// DefaultProfiles is the standard tolerance table. Callers needing a
// different policy inject their own table via NewWithProfiles.
var DefaultProfiles = map[types.Body]Profile{
	types.BodySun:     {MeanDailyMotion: 0.9856, Tolerance: 1.0e-4, NominalPeriod: 365.242190},
	types.BodyMoon:    {MeanDailyMotion: 13.1764, Tolerance: 1.3e-3, NominalPeriod: 27.321582},
	types.BodyMercury: {MeanDailyMotion: 1.2000, Tolerance: 1.2e-4, NominalPeriod: 365.25},
	types.BodyVenus:   {MeanDailyMotion: 1.1500, Tolerance: 1.2e-4, NominalPeriod: 365.25},
	types.BodyMars:    {MeanDailyMotion: 0.5240, Tolerance: 5.0e-5, NominalPeriod: 686.980},
	types.BodyJupiter: {MeanDailyMotion: 0.0831, Tolerance: 1.0e-5, NominalPeriod: 4332.589},
	types.BodySaturn:  {MeanDailyMotion: 0.0335, Tolerance: 5.0e-6, NominalPeriod: 10759.22},
	types.BodyUranus:  {MeanDailyMotion: 0.0117, Tolerance: 2.0e-6, NominalPeriod: 30688.5},
	types.BodyNeptune: {MeanDailyMotion: 0.0060, Tolerance: 1.0e-6, NominalPeriod: 60182.0},
}
