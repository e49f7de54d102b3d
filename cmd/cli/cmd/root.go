// Package cmd provides the CLI commands for h2sweep.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"h2sweep/adapters/sweepdef"
	"h2sweep/core/sweep"
	"h2sweep/internal/config"
	"h2sweep/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "h2sweep",
	Short: "Plan scenario sweeps for a multi-horizon energy-system study",
	Long: `h2sweep materializes the scenario x horizon x near-optimal product
of a sweep definition, resolves per-scenario effective configurations,
and emits the job dependency graph with scheduling hints for the
external workflow engine.

Examples:
  h2sweep validate scenarios.hcl
  h2sweep resolve --base config.yaml --code 730seg-Ca-Ib-Ea scenarios.hcl
  h2sweep plan --format json scenarios.hcl`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.h2sweep.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadDefinition loads a sweep definition and fills unset fields, such
// as the near-optimal senses, from the application config.
func loadDefinition(path string) (*sweep.Definition, error) {
	def, err := sweepdef.NewScanner().Load(path)
	if err != nil {
		return nil, err
	}
	if err := def.ApplyDefaults(config.Get().Sweep.Senses); err != nil {
		return nil, err
	}
	return def, nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("h2sweep version 0.1.0")
	},
}
