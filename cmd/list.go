package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vehicle-sim/vehicle-sim/sim/kb"
)

// listCmd prints the registered systems and their failure modes
var listCmd = &cobra.Command{
	Use:   "list-systems",
	Short: "List registered systems, sensors and failure modes",
	Run: func(cmd *cobra.Command, args []string) {
		engine := newEngine()
		catalog := kb.Default()

		for _, systemID := range engine.SystemIDs() {
			s, _ := engine.Lookup(systemID)
			schema := s.Schema()
			fmt.Printf("%s (%d sensors)\n", systemID, len(schema.Sensors))
			for _, name := range schema.SensorNames() {
				fmt.Printf("  sensor  %s\n", name)
			}
			for _, mode := range catalog.FailureModesForSystem(systemID) {
				fmt.Printf("  failure %-32s %s\n", mode.ID, mode.Name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
