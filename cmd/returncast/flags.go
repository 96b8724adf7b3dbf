package main

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/internal/types"
)

// returnArgs are the flags shared by the chart-producing subcommands.
type returnArgs struct {
	birth   string
	lat     float64
	lon     float64
	anchor  string
	castLat float64
	castLon float64
	jsonOut bool
}

func addReturnFlags(cmd *cobra.Command, args *returnArgs) {
	cmd.Flags().StringVar(&args.birth, "birth", "", "birth moment, RFC3339 (required)")
	cmd.Flags().Float64Var(&args.lat, "lat", 0, "birth latitude, degrees north")
	cmd.Flags().Float64Var(&args.lon, "lon", 0, "birth longitude, degrees east")
	cmd.Flags().StringVar(&args.anchor, "anchor", "", "anchor date, RFC3339 (default: now)")
	cmd.Flags().Float64Var(&args.castLat, "cast-lat", math.NaN(), "casting latitude (default: birth latitude)")
	cmd.Flags().Float64Var(&args.castLon, "cast-lon", math.NaN(), "casting longitude (default: birth longitude)")
	cmd.Flags().BoolVar(&args.jsonOut, "json", false, "emit the chart as JSON")
	_ = cmd.MarkFlagRequired("birth")
}

func (a *returnArgs) birthTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, a.birth)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --birth: %w", err)
	}
	return t, nil
}

func (a *returnArgs) anchorTime() (time.Time, error) {
	if a.anchor == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, a.anchor)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --anchor: %w", err)
	}
	return t, nil
}

func (a *returnArgs) birthLocation() types.Location {
	return types.Location{Latitude: a.lat, Longitude: a.lon}
}

func (a *returnArgs) castLocation() types.Location {
	loc := a.birthLocation()
	if !math.IsNaN(a.castLat) {
		loc.Latitude = a.castLat
	}
	if !math.IsNaN(a.castLon) {
		loc.Longitude = a.castLon
	}
	return loc
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printChart(c *types.ReturnChart) {
	fmt.Printf("%s return at %s (JD %.6f)\n", c.Body, c.Timestamp.Format(time.RFC3339), float64(c.Moment))
	fmt.Printf("  cast for %.4fN %.4fE\n", c.Location.Latitude, c.Location.Longitude)
	fmt.Printf("  valid until %s\n", c.Validity.End.ToTime().Format("2006-01-02"))
	fmt.Printf("  houses: %s  Asc %.2f  MC %.2f", c.Houses.System, c.Houses.Ascendant, c.Houses.Midheaven)
	if c.Houses.LowConfidence {
		fmt.Print("  (low confidence)")
	}
	fmt.Println()

	bodies := make([]types.Body, 0, len(c.Positions))
	for b := range c.Positions {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

	fmt.Println("  positions:")
	for _, b := range bodies {
		pos := c.Positions[b]
		marker := ""
		if pos.Speed < 0 {
			marker = " R"
		}
		fmt.Printf("    %-8s %8.3f  house %2d%s\n", b, pos.Longitude, c.Angular.Houses[b], marker)
	}

	if len(c.Aspects) > 0 {
		fmt.Println("  aspects:")
		for _, a := range c.Aspects {
			exact := ""
			if a.Exact {
				exact = " (exact)"
			}
			fmt.Printf("    %s %s %s, orb %.2f%s\n", a.BodyA, a.Aspect, a.BodyB, a.Orb, exact)
		}
	}

	fmt.Printf("  angular: %v (strength %.2f)\n", c.Angular.AngularBodies, c.Angular.StrengthRatio)
}

func printAnalysis(a types.CombinedAnalysis) {
	fmt.Printf("combined analysis:\n")
	fmt.Printf("  harmony: %.2f\n", a.Harmony)
	fmt.Printf("  timing: %s (%.1f days apart) %s\n", a.Timing.Band, a.Timing.DeltaDays, a.Timing.Description)
	for _, s := range a.Conflicts {
		fmt.Printf("  conflict: %s\n", s)
	}
	for _, s := range a.Opportunities {
		fmt.Printf("  opportunity: %s\n", s)
	}
	for _, s := range a.Challenges {
		fmt.Printf("  challenge: %s\n", s)
	}
}
