package scenario

import (
	"testing"

	"h2sweep/core/registry"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// studyRegistry mirrors the axis tables of the hydrogen-strategy sweep
func studyRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg := registry.New()
	axes := []registry.Axis{
		{
			Letter: "C",
			Values: map[string]registry.OptionSet{
				"a": {"carbon_capture_cost": 1.5, "sequestration_cost": 30.0, "seq_2030": 25.0},
				"b": {"carbon_capture_cost": 1.0, "sequestration_cost": 20.0, "seq_2030": 15.0},
			},
		},
		{
			Letter: "I",
			Values: map[string]registry.OptionSet{
				"a": {"green_imports_lim": true},
				"b": {"green_imports_lim": false},
			},
		},
		{
			Letter: "E",
			Values: map[string]registry.OptionSet{
				"a": {"electrolysis_cost": 1.5},
				"b": {"electrolysis_cost": 1.0},
			},
		},
		{
			Letter: "T",
			Values: map[string]registry.OptionSet{
				"a": {"land_transport_electric_share": 0.85},
				"b": {"land_transport_electric_share": 0.6},
			},
		},
	}
	for _, axis := range axes {
		if err := reg.Register(axis); err != nil {
			t.Fatalf("register axis %s: %v", axis.Letter, err)
		}
	}
	return reg
}

func optionsOf(resolved []ResolvedOption) map[types.OptionName]interface{} {
	out := make(map[types.OptionName]interface{}, len(resolved))
	for _, r := range resolved {
		out[r.Option] = r.Value
	}
	return out
}

func TestParseResolvesAxisTokens(t *testing.T) {
	reg := studyRegistry(t)

	resolved, err := Parse("Ca-Ib-Ea", reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[types.OptionName]interface{}{
		"carbon_capture_cost": 1.5,
		"sequestration_cost":  30.0,
		"seq_2030":            25.0,
		"green_imports_lim":   false,
		"electrolysis_cost":   1.5,
	}

	got := optionsOf(resolved)
	if len(got) != len(want) {
		t.Fatalf("expected %d options, got %d: %v", len(want), len(got), got)
	}
	for name, value := range want {
		if got[name] != value {
			t.Errorf("option %s: expected %v, got %v", name, value, got[name])
		}
	}
}

func TestParsePreservesTokenOrder(t *testing.T) {
	reg := studyRegistry(t)

	resolved, err := Parse("Ea-Ca", reg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The E token's options come before the C token's: the order is
	// left-to-right in the code, which is the conflict contract.
	if resolved[0].Axis != "E" {
		t.Errorf("expected first resolved axis E, got %s", resolved[0].Axis)
	}
	if resolved[len(resolved)-1].Axis != "C" {
		t.Errorf("expected last resolved axis C, got %s", resolved[len(resolved)-1].Axis)
	}
}

func TestParseModifiersAndErrors(t *testing.T) {
	reg := studyRegistry(t)

	tests := []struct {
		name    string
		code    string
		options int
		errType errors.Type
	}{
		{
			name:    "modifier tokens are inert",
			code:    "730seg-Ca-buildYearAgg",
			options: 3,
		},
		{
			name:    "unregistered letter is a modifier, not an error",
			code:    "Za",
			options: 0,
		},
		{
			name:    "empty code resolves to nothing",
			code:    "",
			options: 0,
		},
		{
			name:    "unknown value for a known axis is fatal",
			code:    "Cz",
			errType: errors.TypeUnknownAxisValue,
		},
		{
			name:    "duplicate axis letter is fatal",
			code:    "Ca-Cb",
			errType: errors.TypeDuplicateAxis,
		},
		{
			name:    "duplicate detected even with same value",
			code:    "Ia-730seg-Ia",
			errType: errors.TypeDuplicateAxis,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := Parse(tt.code, reg)

			if tt.errType != "" {
				if !errors.IsType(err, tt.errType) {
					t.Fatalf("expected %s error, got %v", tt.errType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(resolved) != tt.options {
				t.Errorf("expected %d resolved options, got %d", tt.options, len(resolved))
			}
		})
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	reg := studyRegistry(t)

	tests := []struct {
		code string
		want string
	}{
		{"730seg-Ca-Ib-Ea", "Ca-Ib-Ea"},
		{"Ca-buildYearAgg-Ta", "Ca-Ta"},
		{"Ca-Ib-Ea", "Ca-Ib-Ea"},
	}

	for _, tt := range tests {
		canonical, err := Canonical(tt.code, reg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.code, err)
		}
		if canonical != tt.want {
			t.Errorf("%s: expected canonical %q, got %q", tt.code, tt.want, canonical)
		}

		// Resolution idempotence: the canonical code resolves to the
		// identical option set.
		original, err := Parse(tt.code, reg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.code, err)
		}
		reparsed, err := Parse(canonical, reg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", canonical, err)
		}

		got := optionsOf(reparsed)
		want := optionsOf(original)
		if len(got) != len(want) {
			t.Fatalf("%s: option set changed after canonicalization", tt.code)
		}
		for name, value := range want {
			if got[name] != value {
				t.Errorf("%s: option %s changed: %v -> %v", tt.code, name, value, got[name])
			}
		}
	}
}
