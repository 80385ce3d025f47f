package cmd

import (
	"encoding/json"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vehicle-sim/vehicle-sim/sim"
)

var (
	runSystem    string  // Vehicle system to simulate
	runFailure   string  // Failure mode id (empty for normal operation)
	runSeverity  float64 // Failure severity in [0, 1]
	runOnset     float64 // Failure onset time in seconds
	runCondition string  // Operating condition
	runDuration  float64 // Simulated duration in seconds
	runTimeStep  float64 // Time step in seconds
	runAmbient   float64 // Ambient temperature in Celsius
	runNoise     bool    // Add sensor measurement noise
	runNoiseLvl  float64 // Noise level as fraction of sensor magnitude
	runSeed      int64   // Seed for jitter and noise
	runOutput    string  // Output file path (empty writes to stdout)
	runSpecPath  string  // YAML scenario file (takes precedence over run flags)
)

// runCmd simulates a single run and emits the result as JSON
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print the result as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		engine := newEngine()

		cfg, err := buildRunConfig()
		if err != nil {
			logrus.Fatalf("Cannot load scenario: %v", err)
		}

		result, err := engine.Run(runSystem, cfg)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulated %q for %gs (%d points, DTCs: %v)",
			runSystem, cfg.DurationSeconds, len(result.Points), result.DTCs)

		out := os.Stdout
		if runOutput != "" {
			f, err := os.Create(runOutput)
			if err != nil {
				logrus.Fatalf("Cannot create output file: %v", err)
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			logrus.Fatalf("Cannot encode result: %v", err)
		}
	},
}

// buildRunConfig assembles the run config from the flags, or loads the
// scenario file wholesale when --spec is set. The scenario carries no system
// id, so --system stays authoritative either way.
func buildRunConfig() (sim.SimulationConfig, error) {
	if runSpecPath != "" {
		return sim.LoadSimulationConfig(runSpecPath)
	}
	return sim.SimulationConfig{
		DurationSeconds:  runDuration,
		TimeStep:         runTimeStep,
		Condition:        sim.OperatingCondition(runCondition),
		AmbientTempC:     runAmbient,
		AddNoise:         runNoise,
		NoiseLevel:       runNoiseLvl,
		FailureID:        runFailure,
		FailureSeverity:  runSeverity,
		FailureOnsetTime: runOnset,
		Seed:             runSeed,
	}, nil
}

func init() {
	runCmd.Flags().StringVar(&runSystem, "system", "cooling", "Vehicle system to simulate")
	runCmd.Flags().StringVar(&runFailure, "failure", "", "Failure mode id (empty for normal operation)")
	runCmd.Flags().Float64Var(&runSeverity, "severity", 0.5, "Failure severity in [0, 1]")
	runCmd.Flags().Float64Var(&runOnset, "onset", 0, "Failure onset time in seconds")
	runCmd.Flags().StringVar(&runCondition, "condition", string(sim.CondCityDriving), "Operating condition")
	runCmd.Flags().Float64Var(&runDuration, "duration", 300, "Simulated duration in seconds")
	runCmd.Flags().Float64Var(&runTimeStep, "time-step", 1.0, "Time step in seconds")
	runCmd.Flags().Float64Var(&runAmbient, "ambient", 20, "Ambient temperature in Celsius")
	runCmd.Flags().BoolVar(&runNoise, "noise", false, "Add sensor measurement noise")
	runCmd.Flags().Float64Var(&runNoiseLvl, "noise-level", 0.02, "Noise level as fraction of sensor magnitude")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Seed for jitter and noise")
	runCmd.Flags().StringVar(&runOutput, "output", "", "Output file path (default stdout)")
	runCmd.Flags().StringVar(&runSpecPath, "spec", "", "YAML scenario path (overrides run flags)")

	rootCmd.AddCommand(runCmd)
}
