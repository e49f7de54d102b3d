// Package cmd - resolve command
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"h2sweep/adapters/baseconfig"
	"h2sweep/core/sweep"
	"h2sweep/internal/config"
	"h2sweep/internal/errors"
)

var (
	resolveBase   string
	resolveCode   string
	resolveAll    bool
	resolveFormat string
)

// resolveCmd prints the effective configuration for scenario codes
var resolveCmd = &cobra.Command{
	Use:   "resolve <definition.hcl>",
	Short: "Resolve the effective configuration for scenario codes",
	Long: `Overlay the options selected by a scenario code onto the base
configuration and print the derived effective configuration. The base
configuration itself is never modified.

With --all, every distinct sector-options code of the definition is
resolved concurrently and the configurations are printed keyed by code.

Examples:
  h2sweep resolve --base config.yaml --code 730seg-Ca-Ib-Ea scenarios.hcl
  h2sweep resolve --base config.yaml --all scenarios.hcl`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveBase, "base", "b", "", "base configuration YAML (required)")
	resolveCmd.Flags().StringVarP(&resolveCode, "code", "c", "", "scenario code to resolve")
	resolveCmd.Flags().BoolVar(&resolveAll, "all", false, "resolve every sector-options code of the definition")
	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "", "output format (yaml, json)")
	_ = resolveCmd.MarkFlagRequired("base")
}

func runResolve(cmd *cobra.Command, args []string) error {
	if resolveAll && resolveCode != "" {
		return errors.New(errors.TypeInput, "--code and --all are mutually exclusive")
	}
	if !resolveAll && resolveCode == "" {
		return errors.New(errors.TypeInput, "either --code or --all is required")
	}

	def, err := loadDefinition(args[0])
	if err != nil {
		return err
	}

	base, err := baseconfig.Load(resolveBase)
	if err != nil {
		return err
	}

	if resolveAll {
		effective, err := sweep.ResolveAll(cmd.Context(), base, def, config.Get().Sweep.Workers)
		if err != nil {
			return err
		}
		doc := make(map[string]interface{}, len(effective))
		for code, cfg := range effective {
			doc[code] = cfg.ToGo()
		}
		return emit(doc)
	}

	effective, err := sweep.Resolve(base, resolveCode, def)
	if err != nil {
		return err
	}

	if outputFormat(resolveFormat) == "json" {
		return emit(effective.ToGo())
	}
	data, err := baseconfig.Encode(effective)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func emit(doc interface{}) error {
	switch outputFormat(resolveFormat) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	default:
		data, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}
}
