package main

import (
	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/internal/types"
)

var lunarArgs returnArgs

var lunarCmd = &cobra.Command{
	Use:   "lunar",
	Short: "Cast a lunar return chart",
	Long: `Cast the lunar return nearest the anchor date: the moment the Moon
returns to its natal ecliptic longitude, roughly once every 27.3 days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSingleReturn(cmd, &lunarArgs, types.BodyMoon)
	},
}

func init() {
	addReturnFlags(lunarCmd, &lunarArgs)
}
