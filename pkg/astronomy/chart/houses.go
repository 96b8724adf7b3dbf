// Package chart derives the positional geometry of a cast chart: house
// cusps from sidereal time, pairwise aspects and angular-emphasis
// classification.
package chart

import (
	"math"

	"cosmossdk.io/errors"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
)

// HouseSystem selects the house division method.
type HouseSystem string

const (
	// SystemPlacidus is the quadrant-based default.
	SystemPlacidus HouseSystem = "placidus"

	// SystemEqual spaces all cusps 30 degrees from the Ascendant. It is
	// an explicit mode, never a silent fallback for degenerate geometry.
	SystemEqual HouseSystem = "equal"
)

// placidusIterations bounds the semi-arc fixed-point iteration. The
// scheme converges in a handful of steps at mid-latitudes.
const placidusIterations = 12

// Cusps computes the 12 house cusps for a local sidereal time (degrees),
// an observer latitude (degrees) and the obliquity of the ecliptic
// (degrees). At latitudes where parts of the ecliptic never cross the
// horizon the Placidus semi-arcs degenerate; the cusps are still produced
// from clamped arcs but the result carries LowConfidence instead of an
// error.
func Cusps(system HouseSystem, lstDeg, latDeg, oblDeg float64) (types.HouseCusps, error) {
	if latDeg < -90 || latDeg > 90 {
		return types.HouseCusps{}, errors.Wrapf(types.ErrValidation, "latitude %.4f outside [-90, 90]", latDeg)
	}

	armc := angle.Normalize360(lstDeg)
	eps := angle.DegToRad(oblDeg)
	phi := angle.DegToRad(latDeg)

	mc := angle.Normalize360(angle.RadToDeg(math.Atan2(
		math.Sin(angle.DegToRad(armc)),
		math.Cos(angle.DegToRad(armc))*math.Cos(eps),
	)))

	asc := ascendant(armc, phi, eps)

	switch system {
	case SystemEqual:
		hc := types.HouseCusps{
			Ascendant: asc,
			Midheaven: mc,
			System:    string(SystemEqual),
		}
		for i := 0; i < 12; i++ {
			hc.Cusps[i] = angle.Normalize360(asc + float64(i)*30)
		}
		return hc, nil

	case SystemPlacidus, "":
		return placidusCusps(armc, phi, eps, asc, mc)

	default:
		return types.HouseCusps{}, errors.Wrapf(types.ErrValidation, "unknown house system %q", system)
	}
}

// ascendant computes the rising ecliptic longitude for an ARMC (degrees),
// latitude and obliquity (radians).
func ascendant(armcDeg, phi, eps float64) float64 {
	armc := angle.DegToRad(armcDeg)
	lon := math.Atan2(
		math.Cos(armc),
		-(math.Sin(armc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps)),
	)
	return angle.Normalize360(angle.RadToDeg(lon))
}

// placidusCusps solves the intermediate cusps by iterating on right
// ascension. For an ecliptic point with right ascension a the declination
// follows tan(d) = tan(eps)*sin(a), and its semi-diurnal arc is
// acos(-tan(phi)*tan(d)). Cusps 11 and 12 trisect the arc from MC to
// Ascendant; cusps 2 and 3 trisect the nocturnal arc from Ascendant to IC.
// The remaining six cusps are the opposites.
func placidusCusps(armcDeg, phi, eps, asc, mc float64) (types.HouseCusps, error) {
	lowConfidence := false

	semiArc := func(raDeg float64) float64 {
		decl := math.Atan(math.Tan(eps) * math.Sin(angle.DegToRad(raDeg)))
		x := -math.Tan(phi) * math.Tan(decl)
		if x > 1 {
			x = 1
			lowConfidence = true
		} else if x < -1 {
			x = -1
			lowConfidence = true
		}
		return angle.RadToDeg(math.Acos(x))
	}

	// Fixed-point iteration ra = armc + offset + fraction*semiArc(ra).
	solve := func(offset, fraction float64) float64 {
		ra := armcDeg + offset
		for i := 0; i < placidusIterations; i++ {
			ra = armcDeg + offset + fraction*semiArc(ra)
		}
		return raToEcliptic(ra, eps)
	}

	c11 := solve(0, 1.0/3.0)
	c12 := solve(0, 2.0/3.0)
	c2 := solve(60, 2.0/3.0)
	c3 := solve(120, 1.0/3.0)

	hc := types.HouseCusps{
		Ascendant:     asc,
		Midheaven:     mc,
		System:        string(SystemPlacidus),
		LowConfidence: lowConfidence,
	}
	hc.Cusps[0] = asc
	hc.Cusps[1] = c2
	hc.Cusps[2] = c3
	hc.Cusps[3] = angle.Normalize360(mc + 180)
	hc.Cusps[4] = angle.Normalize360(c11 + 180)
	hc.Cusps[5] = angle.Normalize360(c12 + 180)
	hc.Cusps[6] = angle.Normalize360(asc + 180)
	hc.Cusps[7] = angle.Normalize360(c2 + 180)
	hc.Cusps[8] = angle.Normalize360(c3 + 180)
	hc.Cusps[9] = mc
	hc.Cusps[10] = c11
	hc.Cusps[11] = c12

	return hc, nil
}

// raToEcliptic converts the right ascension of an ecliptic point back to
// its ecliptic longitude, preserving the quadrant.
func raToEcliptic(raDeg, eps float64) float64 {
	ra := angle.DegToRad(angle.Normalize360(raDeg))
	lon := math.Atan2(math.Sin(ra), math.Cos(ra)*math.Cos(eps))
	return angle.Normalize360(angle.RadToDeg(lon))
}

// HouseOf returns the 1-based house containing an ecliptic longitude.
// A longitude exactly on a cusp belongs to the house beginning there.
func HouseOf(lon float64, hc types.HouseCusps) int {
	for i := 0; i < 12; i++ {
		start := hc.Cusps[i]
		end := hc.Cusps[(i+1)%12]
		if angle.InArc(lon, start, end) {
			return i + 1
		}
	}
	// Unreachable for cusps that partition the circle; degenerate input
	// lands everything in house 1.
	return 1
}
