package types

import (
	"fmt"
	"strings"
)

// StepKind indicates the type of a path step
type StepKind int

const (
	StepKey   StepKind = iota // string key into a mapping
	StepIndex                 // integer index into a sequence, or a year key
)

// PathStep is one step of a config path
type PathStep struct {
	// Kind indicates whether this is a key or index step
	Kind StepKind
	// Key is set for key steps
	Key string
	// Index is set for index steps
	Index int
}

// Key creates a mapping-key path step
func Key(k string) PathStep {
	return PathStep{Kind: StepKey, Key: k}
}

// Index creates an index path step. When the step lands on a mapping it
// is treated as a numeric key (planning-horizon years are keyed this way
// in the base configuration).
func Index(i int) PathStep {
	return PathStep{Kind: StepIndex, Index: i}
}

// String returns the step as a path fragment
func (s PathStep) String() string {
	if s.Kind == StepIndex {
		return fmt.Sprintf("[%d]", s.Index)
	}
	return s.Key
}

// Path identifies a location in a nested configuration tree
type Path []PathStep

// String returns a human-readable dotted path, e.g. "sector.co2_network[0]"
func (p Path) String() string {
	var b strings.Builder
	for i, step := range p {
		if step.Kind == StepKey && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(step.String())
	}
	return b.String()
}

// Equal reports whether two paths identify the same config location
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
