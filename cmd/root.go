package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vehicle-sim/vehicle-sim/sim"
	"github.com/vehicle-sim/vehicle-sim/sim/systems"
)

var (
	logLevel string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vehicle-sim",
	Short: "Physics-based vehicle failure simulator and training-data generator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// newEngine builds the engine with every built-in system registered.
func newEngine() *sim.Engine {
	e := sim.NewEngine()
	if err := systems.RegisterAll(e); err != nil {
		logrus.Fatalf("Failed to register simulators: %v", err)
	}
	return e
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
}
