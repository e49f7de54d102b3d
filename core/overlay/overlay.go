package overlay

import (
	"strconv"

	"h2sweep/core/registry"
	"h2sweep/core/scenario"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// Set writes val at path in a derived copy of root. The input root is
// never mutated, so one base configuration can serve an entire scenario
// sweep without cross-contamination.
//
// Missing intermediate mapping levels are created. Descending through an
// existing scalar leaf, or indexing a sequence out of range, is fatal:
// it means the options table disagrees with the base configuration's
// shape, a defect to fix rather than paper over.
func Set(root Value, path types.Path, val Value) (Value, error) {
	return set(root, path, path, val)
}

func set(node Value, full, rest types.Path, val Value) (Value, error) {
	if len(rest) == 0 {
		return val.Clone(), nil
	}

	step := rest[0]

	switch node.kind {
	case KindMap, KindNull:
		key := step.Key
		if step.Kind == types.StepIndex {
			// Year-keyed mappings ("2030: 25") address by numeric key.
			key = strconv.Itoa(step.Index)
		}

		out := make(map[string]Value, node.Len()+1)
		for k, e := range node.mapVal {
			out[k] = e
		}

		child, ok := out[key]
		if !ok {
			child = Null()
		}
		written, err := set(child, full, rest[1:], val)
		if err != nil {
			return Null(), err
		}
		out[key] = written
		return Map(out), nil

	case KindList:
		if step.Kind != types.StepIndex {
			return Null(), errors.InvalidConfigPath(full.String(),
				"sequence requires an index step, got key "+strconv.Quote(step.Key))
		}
		if step.Index < 0 || step.Index >= len(node.listVal) {
			return Null(), errors.InvalidConfigPath(full.String(),
				"sequence index "+strconv.Itoa(step.Index)+" out of range")
		}

		out := make([]Value, len(node.listVal))
		copy(out, node.listVal)
		written, err := set(out[step.Index], full, rest[1:], val)
		if err != nil {
			return Null(), err
		}
		out[step.Index] = written
		return List(out...), nil

	default:
		return Null(), errors.InvalidConfigPath(full.String(),
			"cannot descend through scalar at step "+step.String())
	}
}

// Apply overlays an ordered resolved-option sequence onto base, writing
// each option's value at every config path its mapping specifies.
//
// Options are applied strictly in parser output order, so when two
// options target the identical path the later token of the scenario code
// wins. That left-to-right rule is the documented conflict contract; no
// sorting or priority table reorders it. The returned configuration is a
// derived copy; base is left untouched.
func Apply(base Value, resolved []scenario.ResolvedOption, opts registry.OptionsMap) (Value, error) {
	derived := base

	for _, opt := range resolved {
		paths, ok := opts.Paths(opt.Option)
		if !ok {
			// Load-time validation should have caught this; kept as a
			// hard failure so a skipped validation never becomes a
			// silent no-op.
			return Null(), errors.MissingOptionMapping(
				string(opt.Axis), opt.AxisValue, string(opt.Option))
		}

		for _, path := range paths {
			written, err := Set(derived, path, FromGo(opt.Value))
			if err != nil {
				return Null(), err
			}
			derived = written
		}
	}

	return derived, nil
}
