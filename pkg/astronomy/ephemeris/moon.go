package ephemeris

import (
	"math"

	"github.com/heliacal/returncast/pkg/astronomy/angle"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// kmPerAU converts kilometers to astronomical units.
const kmPerAU = 149597870.7

// moonPosition returns the geocentric ecliptic position of the Moon using
// the low-precision series from the Astronomical Almanac (accuracy ~0.3
// degrees in longitude, adequate for lunar return solving at ~30 seconds
// of time).
func moonPosition(jd julian.Day) (lon, lat, dist float64) {
	T := jd.Centuries()

	sinDeg := func(d float64) float64 {
		return math.Sin(angle.DegToRad(d))
	}

	lon = 218.32 + 481267.881*T +
		6.29*sinDeg(135.0+477198.87*T) -
		1.27*sinDeg(259.3-413335.36*T) +
		0.66*sinDeg(235.7+890534.22*T) +
		0.21*sinDeg(269.9+954397.74*T) -
		0.19*sinDeg(357.5+35999.05*T) -
		0.11*sinDeg(186.5+966404.03*T)
	lon = angle.Normalize360(lon)

	lat = 5.13*sinDeg(93.3+483202.02*T) +
		0.28*sinDeg(228.2+960400.89*T) -
		0.28*sinDeg(318.3+6003.15*T) -
		0.17*sinDeg(217.6-407332.21*T)

	// Horizontal parallax series gives the distance.
	parallax := 0.9508 +
		0.0518*math.Cos(angle.DegToRad(135.0+477198.87*T)) +
		0.0095*math.Cos(angle.DegToRad(259.3-413335.36*T)) +
		0.0078*math.Cos(angle.DegToRad(235.7+890534.22*T)) +
		0.0028*math.Cos(angle.DegToRad(269.9+954397.74*T))
	dist = 6378.14 / math.Sin(angle.DegToRad(parallax)) / kmPerAU

	return lon, lat, dist
}
