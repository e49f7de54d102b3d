package sweepdef

import (
	"testing"

	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

const definitionFixture = `
sweep {
  clusters          = [37, 90]
  ll                = ["v1.5"]
  opts              = [""]
  sector_opts       = ["730seg-Ca-Ib-Ea", "730seg-Cb-Ib-Ea"]
  planning_horizons = [2025, 2030, 2035]
  slack             = [0.05, "0.1"]
  senses            = ["min", "max"]
}

axis "C" {
  description = "carbon capture cost regime"

  value "a" {
    carbon_capture_cost = 1.5
    sequestration_cost  = 30
    seq_2030            = 25
  }

  value "b" {
    carbon_capture_cost = 1.0
    sequestration_cost  = 20
    seq_2030            = 15
  }
}

axis "I" {
  description = "import policy regime"

  value "a" { green_imports_lim = true }
  value "b" { green_imports_lim = false }
}

axis "E" {
  description = "electrolysis cost regime"

  value "a" { electrolysis_cost = 1.5 }
  value "b" { electrolysis_cost = 1.0 }
}

option "carbon_capture_cost" {
  paths = [
    ["sector", "cc_cost_factor"],
    ["costs", "overrides", "SMR CC", "investment"],
    ["costs", "overrides", "DAC", "investment"],
  ]
}

option "sequestration_cost" {
  paths = [["sector", "co2_sequestration", "cost"]]
}

option "seq_2030" {
  paths = [["sector", "co2_sequestration", 2030]]
}

option "green_imports_lim" {
  paths = [["sector", "green_imports_limit"]]
}

option "electrolysis_cost" {
  paths = [["costs", "overrides", "electrolysis"]]
}
`

func TestParseDefinition(t *testing.T) {
	def, err := NewScanner().Parse([]byte(definitionFixture), "scenarios.hcl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := def.Validate(); err != nil {
		t.Fatalf("expected valid definition, got %v", err)
	}

	if len(def.Clusters) != 2 || def.Clusters[0] != 37 || def.Clusters[1] != 90 {
		t.Errorf("clusters not decoded: %v", def.Clusters)
	}
	if len(def.PlanningHorizons) != 3 || def.PlanningHorizons[2] != 2035 {
		t.Errorf("planning horizons not decoded: %v", def.PlanningHorizons)
	}

	if len(def.Slack) != 2 {
		t.Fatalf("expected 2 slack values, got %d", len(def.Slack))
	}
	// Both number and string forms keep their exact fraction text.
	if def.Slack[0].String() != "0.05" || def.Slack[1].String() != "0.1" {
		t.Errorf("slack fractions not exact: %s, %s", def.Slack[0], def.Slack[1])
	}

	if len(def.Registry.Letters()) != 3 {
		t.Errorf("expected 3 axes, got %v", def.Registry.Letters())
	}

	axis, ok := def.Registry.Axis("C")
	if !ok {
		t.Fatal("axis C missing")
	}
	if axis.Description != "carbon capture cost regime" {
		t.Errorf("axis description not decoded: %q", axis.Description)
	}
	if got := axis.Values["a"]["carbon_capture_cost"]; got != 1.5 {
		t.Errorf("expected carbon_capture_cost 1.5, got %v", got)
	}
	if got := axis.Values["b"]["green_imports_lim"]; got != nil {
		t.Errorf("axis C must not define axis I options, got %v", got)
	}

	iAxis, _ := def.Registry.Axis("I")
	if got := iAxis.Values["b"]["green_imports_lim"]; got != false {
		t.Errorf("expected boolean option false, got %v", got)
	}

	paths, ok := def.Options.Paths("carbon_capture_cost")
	if !ok || len(paths) != 3 {
		t.Fatalf("expected 3 paths for carbon_capture_cost, got %d", len(paths))
	}
	want := types.Path{types.Key("costs"), types.Key("overrides"), types.Key("SMR CC"), types.Key("investment")}
	if !paths[1].Equal(want) {
		t.Errorf("expected path %s, got %s", want, paths[1])
	}

	yearPaths, _ := def.Options.Paths("seq_2030")
	if yearPaths[0][2] != types.Index(2030) {
		t.Errorf("expected year index step, got %v", yearPaths[0][2])
	}
}

func TestParseRejectsDefects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unknown sweep attribute",
			src:  `sweep { resolution = [42] }`,
		},
		{
			name: "multi-character axis letter",
			src:  `axis "CC" { value "a" { x = 1 } }`,
		},
		{
			name: "duplicate axis value",
			src: `axis "C" {
  value "a" { x = 1 }
  value "a" { x = 2 }
}`,
		},
		{
			name: "option mapped twice",
			src: `option "x" { paths = [["a"]] }
option "x" { paths = [["b"]] }`,
		},
		{
			name: "option without paths",
			src:  `option "x" { paths = [] }`,
		},
		{
			name: "empty config path",
			src:  `option "x" { paths = [[]] }`,
		},
		{
			name: "non-scalar option value",
			src:  `axis "C" { value "a" { x = [1, 2] } }`,
		},
		{
			name: "malformed document",
			src:  `sweep {`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScanner().Parse([]byte(tt.src), "scenarios.hcl")
			if err == nil {
				t.Fatal("expected parse error, got nil")
			}
			if !errors.IsType(err, errors.TypeParsing) {
				t.Errorf("expected parsing error type, got %v", err)
			}
		})
	}
}

func TestLoadValidatesEagerly(t *testing.T) {
	// A registry option without a config-path mapping must fail at load
	// time, not during overlay.
	src := `
sweep {
  clusters          = [37]
  ll                = ["v1.5"]
  opts              = [""]
  sector_opts       = ["Ca"]
  planning_horizons = [2030]
}

axis "C" {
  value "a" { carbon_capture_cost = 1.5 }
}
`
	def, err := NewScanner().Parse([]byte(src), "scenarios.hcl")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	err = def.Validate()
	if err == nil {
		t.Fatal("expected missing-mapping validation error")
	}
}
