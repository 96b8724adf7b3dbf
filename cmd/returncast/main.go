package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/pkg/utils"
)

const (
	appName = "returncast"
	version = "v1.0.0"
)

var (
	cfg *utils.Config
	log zerolog.Logger
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Return chart engine for solar and lunar returns",
	Long: `returncast casts solar and lunar return charts: it solves for the
moment a body's ecliptic longitude returns to its natal value, derives
the chart geometry at that moment (Placidus or equal houses, aspects,
angularity) and relates paired returns through a combined analysis.

A built-in Keplerian ephemeris serves positions; results can be cached
in memory or Redis and exposed over HTTP with the serve command.`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = utils.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err = newLogger(cfg.Logging)
		if err != nil {
			return err
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", appName, version)
	},
}

func newLogger(cfg utils.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}

	var logger zerolog.Logger
	if cfg.Format == "json" {
		logger = zerolog.New(os.Stderr)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger(), nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(solarCmd)
	rootCmd.AddCommand(lunarCmd)
	rootCmd.AddCommand(combinedCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
