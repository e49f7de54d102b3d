// Package registry holds the static axis and option tables that give
// scenario codes their meaning. Both tables are built once at load time
// and validated eagerly: a typo discovered after hours of solver runtime
// is unacceptable, so every referential-integrity violation is surfaced
// before any scenario is resolved.
package registry

import (
	"sort"

	"go.uber.org/multierr"

	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// OptionSet maps option names to scalar settings (number or boolean)
type OptionSet map[types.OptionName]interface{}

// Names returns the option names in sorted order
func (s OptionSet) Names() []types.OptionName {
	names := make([]types.OptionName, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Axis is one scenario axis: a letter plus the option sets selected by
// each of its values
type Axis struct {
	// Letter is the single-character axis identifier
	Letter types.AxisLetter

	// Description documents what the axis varies
	Description string

	// Values maps axis-value strings to the options they set
	Values map[string]OptionSet
}

// Registry is the immutable axis table
type Registry struct {
	axes map[types.AxisLetter]Axis
}

// New creates an empty registry
func New() *Registry {
	return &Registry{axes: make(map[types.AxisLetter]Axis)}
}

// Register adds an axis. Registering the same letter twice is a
// configuration error.
func (r *Registry) Register(axis Axis) error {
	if _, exists := r.axes[axis.Letter]; exists {
		return errors.Newf(errors.TypeConfig, "axis %q registered twice", axis.Letter)
	}
	r.axes[axis.Letter] = axis
	return nil
}

// Axis returns the axis for a letter
func (r *Registry) Axis(letter types.AxisLetter) (Axis, bool) {
	axis, ok := r.axes[letter]
	return axis, ok
}

// Has reports whether a letter is a registered axis
func (r *Registry) Has(letter types.AxisLetter) bool {
	_, ok := r.axes[letter]
	return ok
}

// Letters returns all registered axis letters in sorted order
func (r *Registry) Letters() []types.AxisLetter {
	letters := make([]types.AxisLetter, 0, len(r.axes))
	for letter := range r.axes {
		letters = append(letters, letter)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })
	return letters
}

// Validate checks that every value of an axis defines the same set of
// option names, so that switching the axis value never leaves an option
// unset. All violations are reported together.
func (r *Registry) Validate() error {
	var err error
	for _, letter := range r.Letters() {
		axis := r.axes[letter]
		if len(axis.Values) == 0 {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"axis %q defines no values", letter))
			continue
		}

		values := make([]string, 0, len(axis.Values))
		for v := range axis.Values {
			values = append(values, v)
		}
		sort.Strings(values)

		reference := axis.Values[values[0]].Names()
		for _, value := range values[1:] {
			if !sameNames(reference, axis.Values[value].Names()) {
				err = multierr.Append(err, errors.Newf(errors.TypeConfig,
					"axis %q: value %q sets a different option set than value %q",
					letter, value, values[0]))
			}
		}
	}
	return err
}

func sameNames(a, b []types.OptionName) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
