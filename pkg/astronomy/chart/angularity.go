package chart

import (
	"math"
	"sort"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
)

// classOf maps a 1-based house number to its emphasis class.
func classOf(house int) types.HouseClass {
	switch house % 3 {
	case 1:
		return types.ClassAngular
	case 2:
		return types.ClassSuccedent
	default:
		return types.ClassCadent
	}
}

// Classify assigns each body to its house and emphasis class and derives
// the chart's angular-strength ratio and longitude clustering score.
func Classify(positions map[types.Body]types.BodyPosition, hc types.HouseCusps) types.Angularity {
	ang := types.Angularity{
		Houses:  make(map[types.Body]int, len(positions)),
		Classes: make(map[types.Body]types.HouseClass, len(positions)),
	}

	bodies := make([]types.Body, 0, len(positions))
	for b := range positions {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

	lons := make([]float64, 0, len(bodies))
	for _, b := range bodies {
		lon := positions[b].Longitude
		lons = append(lons, lon)

		house := HouseOf(lon, hc)
		class := classOf(house)
		ang.Houses[b] = house
		ang.Classes[b] = class

		switch class {
		case types.ClassAngular:
			ang.AngularBodies = append(ang.AngularBodies, b)
		case types.ClassSuccedent:
			ang.SuccedentBodies = append(ang.SuccedentBodies, b)
		case types.ClassCadent:
			ang.CadentBodies = append(ang.CadentBodies, b)
		}
	}

	if len(bodies) > 0 {
		ang.StrengthRatio = float64(len(ang.AngularBodies)) / float64(len(bodies))
	}
	ang.ClusteringScore = rayleighR(lons)

	return ang
}

// rayleighR is the Rayleigh test statistic for circular clustering of
// longitudes in degrees: 1 for perfectly aligned angles, near 0 for a
// uniform spread.
func rayleighR(lons []float64) float64 {
	if len(lons) == 0 {
		return 0
	}
	var sumSin, sumCos float64
	for _, lon := range lons {
		rad := angle.DegToRad(lon)
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)
	}
	n := float64(len(lons))
	return math.Sqrt(sumSin*sumSin+sumCos*sumCos) / n
}
