// Package julian provides the continuous time base used by the solver and
// chart geometry: Julian Day conversions, sidereal time and the mean
// obliquity of the ecliptic. Calendar representations appear only at the
// boundary; everything downstream works on a float64 day count.
package julian

import (
	"math"
	"time"

	"github.com/heliacal/returncast/pkg/astronomy/angle"
)

// J2000 is the Julian Day of the standard epoch J2000.0 (2000-01-01 12:00 UT).
const J2000 = 2451545.0

// DaysPerCentury is the number of days in a Julian century.
const DaysPerCentury = 36525.0

// Day is an instant in time as a continuous Julian Day count.
type Day float64

// FromTime converts a calendar time to a Julian Day.
func FromTime(t time.Time) Day {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Treat January/February as months 13/14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jd := math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5

	return Day(jd)
}

// ToTime converts a Julian Day back to calendar time in UTC.
func (jd Day) ToTime() time.Time {
	// Offset from the Unix epoch (JD 2440587.5) in seconds.
	secs := (float64(jd) - 2440587.5) * 86400.0
	sec := math.Floor(secs)
	ns := (secs - sec) * 1e9
	return time.Unix(int64(sec), int64(ns)).UTC()
}

// Centuries returns Julian centuries elapsed since J2000.0.
func (jd Day) Centuries() float64 {
	return (float64(jd) - J2000) / DaysPerCentury
}

// Add returns the day shifted by a fractional number of days.
func (jd Day) Add(days float64) Day {
	return jd + Day(days)
}

// Sub returns the difference jd - other in days.
func (jd Day) Sub(other Day) float64 {
	return float64(jd) - float64(other)
}

// GMST calculates Greenwich Mean Sidereal Time in degrees for a Julian Day.
// Uses the IAU 1982 polynomial.
func GMST(jd Day) float64 {
	T := jd.Centuries()

	gmst := 280.46061837 +
		360.98564736629*(float64(jd)-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return angle.Normalize360(gmst)
}

// LST calculates Local Sidereal Time in degrees for a Julian Day and an
// observer longitude (east positive).
func LST(jd Day, lonDeg float64) float64 {
	return angle.Normalize360(GMST(jd) + lonDeg)
}

// MeanObliquity returns the mean obliquity of the ecliptic in degrees
// for a Julian Day (IAU 1980 polynomial).
func MeanObliquity(jd Day) float64 {
	T := jd.Centuries()
	return 23.4392911111 - 0.0130041667*T - 1.6389e-7*T*T + 5.0361e-7*T*T*T
}
