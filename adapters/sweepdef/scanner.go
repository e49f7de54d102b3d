// Package sweepdef parses the sweep definition document: the wildcard
// sequences, the axis registry and the option-to-config-path table.
package sweepdef

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/shopspring/decimal"
	"github.com/zclconf/go-cty/cty"

	"h2sweep/core/registry"
	"h2sweep/core/sweep"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// Scanner parses sweep definition documents
type Scanner struct {
	parser *hclparse.Parser
}

// NewScanner creates a new definition scanner
func NewScanner() *Scanner {
	return &Scanner{parser: hclparse.NewParser()}
}

// Load reads, parses and eagerly validates a sweep definition file
func (s *Scanner) Load(path string) (*sweep.Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "cannot read sweep definition %s", path)
	}

	def, err := s.Parse(src, path)
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// Parse decodes a sweep definition document without validating it
func (s *Scanner) Parse(src []byte, filename string) (*sweep.Definition, error) {
	file, diags := s.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	content, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "sweep"},
			{Type: "axis", LabelNames: []string{"letter"}},
			{Type: "option", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	def := &sweep.Definition{
		Registry: registry.New(),
		Options:  make(registry.OptionsMap),
	}

	for _, block := range content.Blocks {
		var err error
		switch block.Type {
		case "sweep":
			err = s.parseSweep(block, def)
		case "axis":
			err = s.parseAxis(block, def)
		case "option":
			err = s.parseOption(block, def)
		}
		if err != nil {
			return nil, err
		}
	}

	return def, nil
}

func (s *Scanner) parseSweep(block *hcl.Block, def *sweep.Definition) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diagError(block.DefRange.Filename, diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diagError(block.DefRange.Filename, diags)
		}

		var err error
		switch name {
		case "clusters":
			def.Clusters, err = intList(val)
		case "ll":
			def.LL, err = stringList(val)
		case "opts":
			def.Opts, err = stringList(val)
		case "sector_opts":
			def.SectorOpts, err = stringList(val)
		case "planning_horizons":
			def.PlanningHorizons, err = intList(val)
		case "slack":
			def.Slack, err = slackList(val)
		case "senses":
			var senses []string
			if senses, err = stringList(val); err == nil {
				for _, sense := range senses {
					def.Senses = append(def.Senses, types.Sense(sense))
				}
			}
		default:
			err = errors.Newf(errors.TypeParsing, "sweep block has unknown attribute %q", name)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Scanner) parseAxis(block *hcl.Block, def *sweep.Definition) error {
	axis := registry.Axis{
		Letter: types.AxisLetter(block.Labels[0]),
		Values: make(map[string]registry.OptionSet),
	}
	if len(block.Labels[0]) != 1 {
		return errors.Newf(errors.TypeParsing, "axis letter %q must be a single character", block.Labels[0])
	}

	content, diags := block.Body.Content(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "description"}},
		Blocks:     []hcl.BlockHeaderSchema{{Type: "value", LabelNames: []string{"value"}}},
	})
	if diags.HasErrors() {
		return diagError(block.DefRange.Filename, diags)
	}

	if attr, ok := content.Attributes["description"]; ok {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diagError(block.DefRange.Filename, diags)
		}
		if val.Type() != cty.String {
			return errors.Newf(errors.TypeParsing, "axis %q description must be a string", axis.Letter)
		}
		axis.Description = val.AsString()
	}

	for _, valueBlock := range content.Blocks {
		options, err := s.parseValue(valueBlock)
		if err != nil {
			return err
		}
		if _, exists := axis.Values[valueBlock.Labels[0]]; exists {
			return errors.Newf(errors.TypeParsing, "axis %q defines value %q twice",
				axis.Letter, valueBlock.Labels[0])
		}
		axis.Values[valueBlock.Labels[0]] = options
	}

	return def.Registry.Register(axis)
}

func (s *Scanner) parseValue(block *hcl.Block) (registry.OptionSet, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diagError(block.DefRange.Filename, diags)
	}

	options := make(registry.OptionSet, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(block.DefRange.Filename, diags)
		}
		scalar, err := scalarValue(val)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "option %q", name)
		}
		options[types.OptionName(name)] = scalar
	}
	return options, nil
}

func (s *Scanner) parseOption(block *hcl.Block, def *sweep.Definition) error {
	name := types.OptionName(block.Labels[0])
	if _, exists := def.Options[name]; exists {
		return errors.Newf(errors.TypeParsing, "option %q mapped twice", name)
	}

	content, diags := block.Body.Content(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{{Name: "paths", Required: true}},
	})
	if diags.HasErrors() {
		return diagError(block.DefRange.Filename, diags)
	}

	val, diags := content.Attributes["paths"].Expr.Value(nil)
	if diags.HasErrors() {
		return diagError(block.DefRange.Filename, diags)
	}

	paths, err := pathList(val)
	if err != nil {
		return errors.Wrapf(errors.TypeParsing, err, "option %q paths", name)
	}
	if len(paths) == 0 {
		return errors.Newf(errors.TypeParsing, "option %q maps to no config paths", name)
	}

	def.Options[name] = paths
	return nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	return errors.Wrapf(errors.TypeParsing, diags, "invalid sweep definition %s", filename)
}

func scalarValue(val cty.Value) (interface{}, error) {
	switch val.Type() {
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case cty.Bool:
		return val.True(), nil
	case cty.String:
		return val.AsString(), nil
	default:
		return nil, fmt.Errorf("expected a scalar, got %s", val.Type().FriendlyName())
	}
}

func elements(val cty.Value) (cty.ElementIterator, error) {
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("expected a sequence, got %s", val.Type().FriendlyName())
	}
	return val.ElementIterator(), nil
}

func stringList(val cty.Value) ([]string, error) {
	it, err := elements(val)
	if err != nil {
		return nil, err
	}
	var out []string
	for it.Next() {
		_, elem := it.Element()
		if elem.Type() != cty.String {
			return nil, fmt.Errorf("expected a string list, got %s element", elem.Type().FriendlyName())
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}

func intList(val cty.Value) ([]int, error) {
	it, err := elements(val)
	if err != nil {
		return nil, err
	}
	var out []int
	for it.Next() {
		_, elem := it.Element()
		if elem.Type() != cty.Number {
			return nil, fmt.Errorf("expected a number list, got %s element", elem.Type().FriendlyName())
		}
		n, _ := elem.AsBigFloat().Int64()
		out = append(out, int(n))
	}
	return out, nil
}

// slackList accepts numbers or strings; decimal keeps the exact fraction
// text that the near-opt artifact suffix must round-trip.
func slackList(val cty.Value) ([]decimal.Decimal, error) {
	it, err := elements(val)
	if err != nil {
		return nil, err
	}
	var out []decimal.Decimal
	for it.Next() {
		_, elem := it.Element()
		switch elem.Type() {
		case cty.Number:
			f, _ := elem.AsBigFloat().Float64()
			out = append(out, decimal.NewFromFloat(f))
		case cty.String:
			d, err := decimal.NewFromString(elem.AsString())
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		default:
			return nil, fmt.Errorf("expected a fraction, got %s element", elem.Type().FriendlyName())
		}
	}
	return out, nil
}

func pathList(val cty.Value) ([]types.Path, error) {
	it, err := elements(val)
	if err != nil {
		return nil, err
	}
	var out []types.Path
	for it.Next() {
		_, elem := it.Element()
		inner, err := elements(elem)
		if err != nil {
			return nil, err
		}
		var path types.Path
		for inner.Next() {
			_, step := inner.Element()
			switch step.Type() {
			case cty.String:
				path = append(path, types.Key(step.AsString()))
			case cty.Number:
				n, _ := step.AsBigFloat().Int64()
				path = append(path, types.Index(int(n)))
			default:
				return nil, fmt.Errorf("path step must be a key or index, got %s", step.Type().FriendlyName())
			}
		}
		if len(path) == 0 {
			return nil, fmt.Errorf("empty config path")
		}
		out = append(out, path)
	}
	return out, nil
}
