package returns

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/angle"
)

const (
	// conflictThreshold is the shared angular-body count at which the two
	// charts over-emphasize the same placements.
	conflictThreshold = 3

	// lowEnergyThreshold marks charts whose combined angular count leaves
	// both periods under-emphasized.
	lowEnergyThreshold = 3
)

// Combine relates two return charts cast from the same birth record:
// harmony of angular emphasis, over-emphasis conflicts, complementary
// opportunities, low-energy challenges and the timing relationship of the
// two resolved moments.
func Combine(a, b *types.ReturnChart) types.CombinedAnalysis {
	analysis := types.CombinedAnalysis{
		Harmony: harmony(a, b),
		Timing:  timing(a, b),
	}

	angularA := bodySet(a.Angular.AngularBodies)
	angularB := bodySet(b.Angular.AngularBodies)

	shared := intersect(angularA, angularB)
	if len(shared) >= conflictThreshold {
		analysis.Conflicts = append(analysis.Conflicts, fmt.Sprintf(
			"over-emphasis: %s angular in both charts, centered near %.0f deg",
			joinBodies(shared), sharedCenter(a, shared)))
	}

	if len(angularA) > 0 && len(angularB) > 0 && len(shared) == 0 {
		analysis.Opportunities = append(analysis.Opportunities, fmt.Sprintf(
			"complementary emphasis: %s angular in the %s return, %s in the %s return",
			joinBodies(keys(angularA)), a.Body, joinBodies(keys(angularB)), b.Body))
	}

	if combined := len(angularA) + len(angularB); combined < lowEnergyThreshold {
		meanStrength := stat.Mean([]float64{a.Angular.StrengthRatio, b.Angular.StrengthRatio}, nil)
		analysis.Challenges = append(analysis.Challenges, fmt.Sprintf(
			"low angular energy: %d bodies angular across both charts (mean strength %.2f)",
			combined, meanStrength))
	}

	return analysis
}

// harmony measures how evenly angular emphasis is distributed between the
// two charts: 1 when the angular counts match, shrinking with imbalance.
func harmony(a, b *types.ReturnChart) float64 {
	total := len(a.Positions)
	if len(b.Positions) > total {
		total = len(b.Positions)
	}
	if total == 0 {
		return 0
	}
	diff := float64(len(a.Angular.AngularBodies) - len(b.Angular.AngularBodies))
	return 1 - math.Abs(diff)/float64(total)
}

// timing classifies the separation of the two resolved moments.
func timing(a, b *types.ReturnChart) types.TimingRelation {
	delta := math.Abs(a.Moment.Sub(b.Moment))

	var band, desc string
	switch {
	case delta < 1:
		band, desc = "simultaneous", "both returns perfect within a day of each other"
	case delta < 7:
		band, desc = "close", "the returns perfect within the same week"
	case delta < 14:
		band, desc = "moderate", "the returns perfect within a fortnight"
	default:
		band, desc = "distant", "the returns perfect weeks apart"
	}

	return types.TimingRelation{DeltaDays: delta, Band: band, Description: desc}
}

// sharedCenter is the circular mean longitude of the shared angular
// bodies, taken from chart a.
func sharedCenter(a *types.ReturnChart, shared []types.Body) float64 {
	rads := make([]float64, 0, len(shared))
	for _, body := range shared {
		rads = append(rads, angle.DegToRad(a.Positions[body].Longitude))
	}
	return angle.Normalize360(angle.RadToDeg(stat.CircularMean(rads, nil)))
}

func bodySet(bodies []types.Body) map[types.Body]struct{} {
	set := make(map[types.Body]struct{}, len(bodies))
	for _, b := range bodies {
		set[b] = struct{}{}
	}
	return set
}

func intersect(a, b map[types.Body]struct{}) []types.Body {
	var out []types.Body
	for body := range a {
		if _, ok := b[body]; ok {
			out = append(out, body)
		}
	}
	sortBodies(out)
	return out
}

func keys(set map[types.Body]struct{}) []types.Body {
	out := make([]types.Body, 0, len(set))
	for body := range set {
		out = append(out, body)
	}
	sortBodies(out)
	return out
}

func sortBodies(bodies []types.Body) {
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })
}

func joinBodies(bodies []types.Body) string {
	names := make([]string, len(bodies))
	for i, b := range bodies {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}
