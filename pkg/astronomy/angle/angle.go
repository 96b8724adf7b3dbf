// Package angle provides degree arithmetic on the 0-360 circle.
package angle

import "math"

// Normalize360 normalizes an angle to [0, 360) degrees.
func Normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// SignedSeparation returns the signed shortest-path difference from -> to
// in degrees, in (-180, 180]. Positive means `to` lies ahead of `from`
// in increasing-longitude direction.
func SignedSeparation(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}

// Separation returns the minimal angular separation between two
// longitudes in degrees, always in [0, 180].
func Separation(a, b float64) float64 {
	return math.Abs(SignedSeparation(a, b))
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// InArc reports whether longitude lon lies in the half-open arc
// [start, end) traversed in increasing direction with wraparound.
// When end < start the arc spans the 0/360 boundary; when start == end
// the arc is treated as the full circle.
func InArc(lon, start, end float64) bool {
	lon = Normalize360(lon)
	start = Normalize360(start)
	end = Normalize360(end)

	if start == end {
		return true
	}
	if start < end {
		return lon >= start && lon < end
	}
	return lon >= start || lon < end
}
