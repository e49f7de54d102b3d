// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// AxisLetter identifies one scenario axis (e.g. "C" for the
// carbon-capture cost regime)
type AxisLetter string

// String returns the string representation of the axis letter
func (a AxisLetter) String() string {
	return string(a)
}

// OptionName names a single configuration option set by an axis value
// (e.g. "carbon_capture_cost")
type OptionName string

// String returns the string representation
func (o OptionName) String() string {
	return string(o)
}

// Sense is the objective direction of a near-optimal exploration
type Sense string

const (
	SenseMin Sense = "min"
	SenseMax Sense = "max"
)

// String returns the string representation of the sense
func (s Sense) String() string {
	return string(s)
}

// IsValid checks if the sense is a known direction
func (s Sense) IsValid() bool {
	switch s {
	case SenseMin, SenseMax:
		return true
	default:
		return false
	}
}
