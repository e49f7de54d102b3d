// Package cmd - validate command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"h2sweep/internal/logging"
)

// validateCmd checks a sweep definition for integrity defects
var validateCmd = &cobra.Command{
	Use:   "validate <definition.hcl>",
	Short: "Validate a sweep definition",
	Long: `Load a sweep definition and run every load-time integrity check:
axis-value uniformity, option-mapping completeness, horizon-chain
ordering, and resolvability of every sector-options code. All defects
are reported together.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	scenarios := def.Scenarios()
	branches := def.Branches()
	logging.Info("sweep definition is valid",
		zap.Int("axes", len(def.Registry.Letters())),
		zap.Int("options", len(def.Options)),
		zap.Int("scenarios", len(scenarios)),
		zap.Int("horizons", len(def.PlanningHorizons)),
		zap.Int("near_opt_branches", len(branches)))

	fmt.Printf("OK: %d scenarios x %d horizons (+%d near-optimal branches per horizon)\n",
		len(scenarios), len(def.PlanningHorizons), len(branches))
	return nil
}
