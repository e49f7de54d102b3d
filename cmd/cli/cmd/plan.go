// Package cmd - plan command
package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"h2sweep/core/plan"
	"h2sweep/core/resources"
	"h2sweep/internal/config"
)

var (
	planFormat    string
	planAvailable string
	planStart     int
)

// planCmd materializes the job graph for a sweep definition
var planCmd = &cobra.Command{
	Use:   "plan <definition.hcl>",
	Short: "Materialize the job dependency graph for a sweep",
	Long: `Build the full scenario x horizon x near-optimal job graph, attach
per-solve scheduling hints, and print the plan manifest for the external
workflow engine.

With --start-horizon, horizons before the given year are assumed solved;
their artifacts must be listed in the --available inventory file or the
plan fails with a missing-predecessor error.

Examples:
  h2sweep plan scenarios.hcl
  h2sweep plan --format json scenarios.hcl
  h2sweep plan --start-horizon 2030 --available done.txt scenarios.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planFormat, "format", "f", "", "output format (yaml, json)")
	planCmd.Flags().StringVarP(&planAvailable, "available", "a", "", "file listing already-materialized artifact IDs, one per line")
	planCmd.Flags().IntVar(&planStart, "start-horizon", 0, "plan only horizons at or after this year")
}

func runPlan(cmd *cobra.Command, args []string) error {
	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	cfg := config.Get()
	builder := &plan.Builder{
		Estimator:       resources.New(calibration(cfg)),
		DefaultSegments: cfg.Sweep.DefaultSegments,
		StartHorizon:    planStart,
	}

	graph, err := builder.Build(def)
	if err != nil {
		return err
	}

	inventory, err := loadInventory(planAvailable)
	if err != nil {
		return err
	}
	if err := graph.Resolve(inventory); err != nil {
		return err
	}

	manifest, err := plan.NewManifest(graph)
	if err != nil {
		return err
	}
	if !cfg.Output.ShowResources {
		for i := range manifest.Jobs {
			manifest.Jobs[i].Resources = nil
		}
	}

	switch outputFormat(planFormat) {
	case "json":
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	default:
		data, err := yaml.Marshal(manifest)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
	return nil
}

func calibration(cfg *config.Config) resources.Calibration {
	return resources.Calibration{
		MemBaseMB:          cfg.Solver.MemBaseMB,
		MemPerClusterMB:    cfg.Solver.MemPerClusterMB,
		MemPerSegmentMB:    cfg.Solver.MemPerSegmentMB,
		RetryMemStep:       cfg.Solver.RetryMemStep,
		RetryAttemptCap:    cfg.Solver.RetryAttemptCap,
		RuntimeBaselineMin: cfg.Solver.RuntimeBaselineMin,
		RuntimeCeilingMin:  cfg.Solver.RuntimeCeilingMin,
	}
}

func loadInventory(path string) (map[string]bool, error) {
	inventory := make(map[string]bool)
	if path == "" {
		return inventory, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			inventory[line] = true
		}
	}
	return inventory, scanner.Err()
}

// outputFormat falls back to the configured default format
func outputFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Get().Output.DefaultFormat
}
