package sweep

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"h2sweep/core/registry"
	"h2sweep/core/scenario"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// Definition is the user-facing sweep document: the literal wildcard
// sequences plus the axis and option tables. It is consumed once per run
// to materialize the full scenario x horizon x branch product.
type Definition struct {
	// Clusters are the spatial resolutions to sweep
	Clusters []int

	// LL are the transmission line-volume codes to sweep
	LL []string

	// Opts are the free-choice option strings to sweep
	Opts []string

	// SectorOpts are the sector-option codes to sweep; each embeds the
	// axis tokens plus modifiers such as the temporal segment count
	SectorOpts []string

	// PlanningHorizons is the ordered myopic horizon chain
	PlanningHorizons []int

	// Slack are the near-optimal cost tolerances to explore
	Slack []decimal.Decimal

	// Senses are the near-optimal objective directions (default min+max)
	Senses []types.Sense

	// Registry is the axis table
	Registry *registry.Registry

	// Options is the option-to-config-path table
	Options registry.OptionsMap
}

// ApplyDefaults fills document fields the user left unset from
// sweep-wide application settings. An explicit list in the document
// always wins over the configured default.
func (d *Definition) ApplyDefaults(senses []string) error {
	if len(d.Senses) != 0 {
		return nil
	}
	for _, s := range senses {
		sense := types.Sense(s)
		if !sense.IsValid() {
			return errors.Newf(errors.TypeConfig, "unknown configured sense %q", s)
		}
		d.Senses = append(d.Senses, sense)
	}
	return nil
}

// Validate performs all load-time integrity checks: axis uniformity,
// option-mapping completeness, a strictly increasing non-empty horizon
// chain, valid senses and slacks, underscore-free wildcard values, and
// resolvable sector-option codes. Everything fatal is caught here,
// before any expensive solve work.
func (d *Definition) Validate() error {
	var err error

	if d.Registry == nil {
		return errors.New(errors.TypeConfig, "sweep definition has no axis registry")
	}

	err = multierr.Append(err, d.Registry.Validate())
	err = multierr.Append(err, d.Options.ValidateAgainst(d.Registry))

	if len(d.PlanningHorizons) == 0 {
		err = multierr.Append(err, errors.New(errors.TypeConfig, "planning horizon chain is empty"))
	}
	for i := 1; i < len(d.PlanningHorizons); i++ {
		if d.PlanningHorizons[i] <= d.PlanningHorizons[i-1] {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"planning horizons must be strictly increasing: %d follows %d",
				d.PlanningHorizons[i], d.PlanningHorizons[i-1]))
		}
	}

	for _, sense := range d.Senses {
		if !sense.IsValid() {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig, "unknown sense %q", sense))
		}
	}
	for _, slack := range d.Slack {
		if slack.Sign() <= 0 {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"slack must be a positive fraction, got %s", slack))
		}
	}

	// Artifact identity strings join their tokens with "_" and are
	// split positionally, so no wildcard value may contain one.
	for _, ll := range d.LL {
		if strings.Contains(ll, "_") {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"ll value %q must not contain an underscore", ll))
		}
	}
	for _, opts := range d.Opts {
		if strings.Contains(opts, "_") {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"opts value %q must not contain an underscore", opts))
		}
	}

	for _, code := range d.SectorOpts {
		if strings.Contains(code, "_") {
			err = multierr.Append(err, errors.Newf(errors.TypeConfig,
				"sector-options code %q must not contain an underscore", code))
			continue
		}
		if _, perr := scenario.Parse(code, d.Registry); perr != nil {
			err = multierr.Append(err, perr)
		}
	}

	return err
}

// Scenarios materializes the Cartesian product of the wildcard axes.
// Scenarios differing in any component are fully independent of one
// another; order follows the definition's literal sequences.
func (d *Definition) Scenarios() []Identity {
	var scenarios []Identity
	for _, clusters := range d.Clusters {
		for _, ll := range d.LL {
			for _, opts := range d.Opts {
				for _, sectorOpts := range d.SectorOpts {
					scenarios = append(scenarios, Identity{
						Clusters:   clusters,
						LL:         ll,
						Opts:       opts,
						SectorOpts: sectorOpts,
					})
				}
			}
		}
	}
	return scenarios
}

// Branches returns the near-optimal (sense, slack) pairs of the sweep
func (d *Definition) Branches() []NearOpt {
	senses := d.Senses
	if len(senses) == 0 {
		senses = []types.Sense{types.SenseMin, types.SenseMax}
	}

	var branches []NearOpt
	for _, slack := range d.Slack {
		for _, sense := range senses {
			branches = append(branches, NearOpt{Sense: sense, Slack: slack})
		}
	}
	return branches
}
