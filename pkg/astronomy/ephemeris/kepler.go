package ephemeris

import (
	"math"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

// meanElements holds Keplerian mean orbital elements at J2000.0 with
// per-Julian-century rates (JPL approximate planetary elements, valid
// 1800 AD - 2050 AD).
type meanElements struct {
	a, aDot float64 // semi-major axis, AU
	e, eDot float64 // eccentricity
	i, iDot float64 // inclination, degrees
	l, lDot float64 // mean longitude, degrees
	p, pDot float64 // longitude of perihelion, degrees
	o, oDot float64 // longitude of ascending node, degrees
}

// earthElements is the Earth-Moon barycenter orbit, used both for the
// heliocentric-to-geocentric translation and for the Sun's position.
var earthElements = meanElements{
	a: 1.00000261, aDot: 0.00000562,
	e: 0.01671123, eDot: -0.00004392,
	i: -0.00001531, iDot: -0.01294668,
	l: 100.46457166, lDot: 35999.37244981,
	p: 102.93768193, pDot: 0.32327364,
	o: 0.0, oDot: 0.0,
}

var planetElements = map[types.Body]meanElements{
	types.BodyMercury: {
		a: 0.38709927, aDot: 0.00000037,
		e: 0.20563593, eDot: 0.00001906,
		i: 7.00497902, iDot: -0.00594749,
		l: 252.25032350, lDot: 149472.67411175,
		p: 77.45779628, pDot: 0.16047689,
		o: 48.33076593, oDot: -0.12534081,
	},
	types.BodyVenus: {
		a: 0.72333566, aDot: 0.00000390,
		e: 0.00677672, eDot: -0.00004107,
		i: 3.39467605, iDot: -0.00078890,
		l: 181.97909950, lDot: 58517.81538729,
		p: 131.60246718, pDot: 0.00268329,
		o: 76.67984255, oDot: -0.27769418,
	},
	types.BodyMars: {
		a: 1.52371034, aDot: 0.00001847,
		e: 0.09339410, eDot: 0.00007882,
		i: 1.84969142, iDot: -0.00813131,
		l: -4.55343205, lDot: 19140.30268499,
		p: -23.94362959, pDot: 0.44441088,
		o: 49.55953891, oDot: -0.29257343,
	},
	types.BodyJupiter: {
		a: 5.20288700, aDot: -0.00011607,
		e: 0.04838624, eDot: -0.00013253,
		i: 1.30439695, iDot: -0.00183714,
		l: 34.39644051, lDot: 3034.74612775,
		p: 14.72847983, pDot: 0.21252668,
		o: 100.47390909, oDot: 0.20469106,
	},
	types.BodySaturn: {
		a: 9.53667594, aDot: -0.00125060,
		e: 0.05386179, eDot: -0.00050991,
		i: 2.48599187, iDot: 0.00193609,
		l: 49.95424423, lDot: 1222.49362201,
		p: 92.59887831, pDot: -0.41897216,
		o: 113.66242448, oDot: -0.28867794,
	},
	types.BodyUranus: {
		a: 19.18916464, aDot: -0.00196176,
		e: 0.04725744, eDot: -0.00004397,
		i: 0.77263783, iDot: -0.00242939,
		l: 313.23810451, lDot: 428.48202785,
		p: 170.95427630, pDot: 0.40805281,
		o: 74.01692503, oDot: 0.04240589,
	},
	types.BodyNeptune: {
		a: 30.06992276, aDot: 0.00026291,
		e: 0.00859048, eDot: 0.00005105,
		i: 1.77004347, iDot: 0.00035372,
		l: -55.12002969, lDot: 218.45945325,
		p: 44.96476227, pDot: -0.32241464,
		o: 131.78422574, oDot: -0.00508664,
	},
}

// heliocentric returns the body's heliocentric ecliptic coordinates in AU.
func (el meanElements) heliocentric(jd julian.Day) (x, y, z float64) {
	T := jd.Centuries()

	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	i := angle.DegToRad(el.i + el.iDot*T)
	L := el.l + el.lDot*T
	pBar := el.p + el.pDot*T
	O := angle.DegToRad(el.o + el.oDot*T)

	// Mean anomaly and argument of perihelion from the longitudes
	M := angle.DegToRad(angle.Normalize360(L - pBar))
	w := angle.DegToRad(pBar) - O

	E := solveKepler(M, e)

	// Position in the orbital plane
	xOrb := a * (math.Cos(E) - e)
	yOrb := a * math.Sqrt(1-e*e) * math.Sin(E)

	// Rotation into the ecliptic frame
	cosW := math.Cos(w)
	sinW := math.Sin(w)
	cosO := math.Cos(O)
	sinO := math.Sin(O)
	cosI := math.Cos(i)
	sinI := math.Sin(i)

	x = (cosW*cosO-sinW*sinO*cosI)*xOrb + (-sinW*cosO-cosW*sinO*cosI)*yOrb
	y = (cosW*sinO+sinW*cosO*cosI)*xOrb + (-sinW*sinO+cosW*cosO*cosI)*yOrb
	z = sinW*sinI*xOrb + cosW*sinI*yOrb

	return x, y, z
}

// solveKepler solves Kepler's equation M = E - e*sin(E) for E
func solveKepler(M, e float64) float64 {
	// Newton-Raphson iteration
	E := M
	if e > 0.8 {
		E = math.Pi // Better initial guess for high eccentricity
	}

	tolerance := 1e-10
	maxIterations := 50

	for i := 0; i < maxIterations; i++ {
		f := E - e*math.Sin(E) - M
		fp := 1 - e*math.Cos(E)

		deltaE := f / fp
		E = E - deltaE

		if math.Abs(deltaE) < tolerance {
			break
		}
	}

	return E
}

// planetPosition returns the geocentric ecliptic position of a planet.
func planetPosition(body types.Body, jd julian.Day) (lon, lat, dist float64) {
	px, py, pz := planetElements[body].heliocentric(jd)
	ex, ey, ez := earthElements.heliocentric(jd)

	gx := px - ex
	gy := py - ey
	gz := pz - ez

	return toSpherical(gx, gy, gz)
}

// sunPosition returns the geocentric ecliptic position of the Sun, which
// is the Earth's heliocentric position reflected through the origin.
func sunPosition(jd julian.Day) (lon, lat, dist float64) {
	ex, ey, ez := earthElements.heliocentric(jd)
	return toSpherical(-ex, -ey, -ez)
}

func toSpherical(x, y, z float64) (lon, lat, dist float64) {
	dist = math.Sqrt(x*x + y*y + z*z)
	lon = angle.Normalize360(angle.RadToDeg(math.Atan2(y, x)))
	if dist > 0 {
		lat = angle.RadToDeg(math.Asin(z / dist))
	}
	return lon, lat, dist
}

// longitudeRate converts a longitude pair bracketing a moment into an
// apparent rate in degrees/day, respecting the 0/360 boundary.
func longitudeRate(before, after, dt float64) float64 {
	return angle.SignedSeparation(before, after) / dt
}
