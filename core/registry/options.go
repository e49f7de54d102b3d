package registry

import (
	"sort"

	"go.uber.org/multierr"

	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// OptionsMap maps each option name to the config paths it fans out to.
// One option may target many locations at once, e.g. a CCS cost factor
// applied to every capture-capable technology link.
type OptionsMap map[types.OptionName][]types.Path

// Paths returns the config paths for an option
func (m OptionsMap) Paths(name types.OptionName) ([]types.Path, bool) {
	paths, ok := m[name]
	return paths, ok
}

// ValidateAgainst checks referential completeness: every option name
// referenced by any axis value must have a config-path mapping. A missing
// mapping is a configuration defect, never a silent no-op, and is caught
// here at load time rather than lazily during overlay.
func (m OptionsMap) ValidateAgainst(r *Registry) error {
	var err error
	for _, letter := range r.Letters() {
		axis, _ := r.Axis(letter)
		values := make([]string, 0, len(axis.Values))
		for v := range axis.Values {
			values = append(values, v)
		}
		sort.Strings(values)
		for _, value := range values {
			for _, name := range axis.Values[value].Names() {
				if _, ok := m[name]; !ok {
					err = multierr.Append(err,
						errors.MissingOptionMapping(string(letter), value, string(name)))
				}
			}
		}
	}
	return err
}
