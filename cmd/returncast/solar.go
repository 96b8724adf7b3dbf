package main

import (
	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/internal/types"
	"github.com/heliacal/returncast/pkg/astronomy/julian"
)

var solarArgs returnArgs

var solarCmd = &cobra.Command{
	Use:   "solar",
	Short: "Cast a solar return chart",
	Long: `Cast the solar return nearest the anchor date: the moment the Sun
returns to its natal ecliptic longitude, with the full chart geometry
derived at the casting location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleReturn(cmd, &solarArgs, types.BodySun)
	},
}

func init() {
	addReturnFlags(solarCmd, &solarArgs)
}

func runSingleReturn(cmd *cobra.Command, args *returnArgs, body types.Body) error {
	ctx := cmd.Context()

	birth, err := args.birthTime()
	if err != nil {
		return err
	}
	anchor, err := args.anchorTime()
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx)
	if err != nil {
		return err
	}
	defer p.Close()

	natal, err := p.natalRecord(ctx, birth, args.birthLocation())
	if err != nil {
		return err
	}

	rc, err := p.orch.GenerateReturn(ctx, body, natal, julian.FromTime(anchor), args.castLocation())
	if err != nil {
		return err
	}

	if args.jsonOut {
		return printJSON(rc)
	}
	printChart(rc)
	return nil
}
