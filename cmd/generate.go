package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vehicle-sim/vehicle-sim/sim/dataset"
	"github.com/vehicle-sim/vehicle-sim/sim/kb"
)

var (
	genSpecPath   string // YAML generator config (takes precedence over generation flags)
	genSystem     string // Generate for one system only (empty for all)
	genOutDir     string // Output directory for dataset files
	genFormat     string // Output format: json or jsonl
	genPerFailure int    // Samples per failure mode
	genNormal     int    // Normal samples per system
	genSeed       int64  // Master seed
	genWorkers    int    // Parallel workers (0 = one per CPU)
	genKBPath     string // Knowledge base YAML (empty uses the built-in catalog)
)

// generateCmd produces labeled training datasets
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate labeled training datasets",
	Run: func(cmd *cobra.Command, args []string) {
		engine := newEngine()

		cfg := dataset.DefaultGeneratorConfig()
		if genSpecPath != "" {
			loaded, err := dataset.LoadGeneratorConfig(genSpecPath)
			if err != nil {
				logrus.Fatalf("Cannot load generator config: %v", err)
			}
			cfg = loaded
		} else {
			cfg.SamplesPerFailure = genPerFailure
			cfg.NormalSamples = genNormal
			cfg.Seed = genSeed
			cfg.Workers = genWorkers
		}

		catalog := kb.Default()
		if genKBPath != "" {
			loaded, err := kb.LoadYAML(genKBPath)
			if err != nil {
				logrus.Fatalf("Cannot load knowledge base: %v", err)
			}
			catalog = loaded
		}

		gen, err := dataset.NewGenerator(engine, catalog, cfg)
		if err != nil {
			logrus.Fatalf("Cannot build generator: %v", err)
		}

		systemIDs := engine.SystemIDs()
		if genSystem != "" {
			systemIDs = []string{genSystem}
		}
		if err := os.MkdirAll(genOutDir, 0o755); err != nil {
			logrus.Fatalf("Cannot create output directory: %v", err)
		}

		start := time.Now()
		total := 0
		for _, systemID := range systemIDs {
			samples, err := gen.GenerateForSystem(systemID)
			if err != nil {
				logrus.Fatalf("Generation failed for %q: %v", systemID, err)
			}
			path := filepath.Join(genOutDir, fmt.Sprintf("%s.%s", systemID, genFormat))
			if err := dataset.SaveDataset(samples, path, genFormat); err != nil {
				logrus.Fatalf("Cannot save dataset for %q: %v", systemID, err)
			}
			logrus.Infof("Wrote %d samples to %s", len(samples), path)
			total += len(samples)
		}
		logrus.Infof("Generated %d samples across %d systems in %s",
			total, len(systemIDs), time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	generateCmd.Flags().StringVar(&genSpecPath, "spec", "", "YAML generator config path (overrides generation flags)")
	generateCmd.Flags().StringVar(&genSystem, "system", "", "Generate for one system only (default all)")
	generateCmd.Flags().StringVar(&genOutDir, "out", ".", "Output directory")
	generateCmd.Flags().StringVar(&genFormat, "format", dataset.FormatJSONL, "Output format (json, jsonl)")
	generateCmd.Flags().IntVar(&genPerFailure, "samples-per-failure", 10, "Samples per failure mode")
	generateCmd.Flags().IntVar(&genNormal, "normal-samples", 20, "Normal samples per system")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 42, "Master seed")
	generateCmd.Flags().IntVar(&genWorkers, "workers", 0, "Parallel workers (0 = one per CPU)")
	generateCmd.Flags().StringVar(&genKBPath, "kb", "", "Knowledge base YAML path (default built-in catalog)")

	rootCmd.AddCommand(generateCmd)
}
