package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

var (
	combinedArgs  returnArgs
	lunarAnchorAt string
)

var combinedCmd = &cobra.Command{
	Use:   "combined",
	Short: "Cast paired solar and lunar returns with combined analysis",
	Long: `Cast the solar and lunar returns nearest their anchors and relate
them: harmony of angular emphasis, over-emphasis conflicts,
complementary opportunities, low-energy challenges and the timing
relationship between the two return moments.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		birth, err := combinedArgs.birthTime()
		if err != nil {
			return err
		}
		solarAnchor, err := combinedArgs.anchorTime()
		if err != nil {
			return err
		}
		lunarAnchor := solarAnchor
		if lunarAnchorAt != "" {
			lunarAnchor, err = time.Parse(time.RFC3339, lunarAnchorAt)
			if err != nil {
				return fmt.Errorf("invalid --lunar-anchor: %w", err)
			}
		}

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		natal, err := p.natalRecord(ctx, birth, combinedArgs.birthLocation())
		if err != nil {
			return err
		}

		sol, lun, analysis, err := p.orch.CombinedReturns(ctx, natal,
			julian.FromTime(solarAnchor), julian.FromTime(lunarAnchor), combinedArgs.castLocation())
		if err != nil {
			return err
		}

		if combinedArgs.jsonOut {
			return printJSON(map[string]interface{}{
				"solar":    sol,
				"lunar":    lun,
				"analysis": analysis,
			})
		}
		printChart(sol)
		fmt.Println()
		printChart(lun)
		fmt.Println()
		printAnalysis(analysis)
		return nil
	},
}

func init() {
	addReturnFlags(combinedCmd, &combinedArgs)
	combinedCmd.Flags().StringVar(&lunarAnchorAt, "lunar-anchor", "", "lunar anchor date, RFC3339 (default: --anchor)")
}
