// Package sweep materializes the scenario product of a study definition
// and owns the artifact identity strings that join this layer to the
// external modeling framework and to downstream result aggregation.
package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

// artifactPrefix anchors every artifact identity string. The encoding is
// a join key shared with the external framework and the result notebooks
// and must be preserved exactly.
const artifactPrefix = "elec_s"

// Identity pins one scenario: spatial clusters, the line-volume code,
// the free-choice option string and the sector-options code (which
// embeds the axis tokens).
type Identity struct {
	Clusters   int    `json:"clusters" yaml:"clusters"`
	LL         string `json:"ll" yaml:"ll"`
	Opts       string `json:"opts" yaml:"opts"`
	SectorOpts string `json:"sector_opts" yaml:"sector_opts"`
}

// String returns the wildcard portion of the identity
func (id Identity) String() string {
	return fmt.Sprintf("%d_l%s_%s_%s", id.Clusters, id.LL, id.Opts, id.SectorOpts)
}

// NearOpt tags a near-optimal exploration branch: the objective sense
// and the fractional cost slack relative to the cost optimum.
type NearOpt struct {
	Sense types.Sense     `json:"sense" yaml:"sense"`
	Slack decimal.Decimal `json:"slack" yaml:"slack"`
}

// Suffix encodes the branch as an artifact-name suffix, e.g. "_min0.05".
// The encoding round-trips through ParseNearOptSuffix because downstream
// aggregation keys on the exact string.
func (n NearOpt) Suffix() string {
	return "_" + string(n.Sense) + n.Slack.String()
}

// ParseNearOptSuffix recovers the (sense, slack) pair from a suffix
// produced by Suffix.
func ParseNearOptSuffix(s string) (NearOpt, error) {
	body := strings.TrimPrefix(s, "_")

	var sense types.Sense
	switch {
	case strings.HasPrefix(body, string(types.SenseMin)):
		sense = types.SenseMin
	case strings.HasPrefix(body, string(types.SenseMax)):
		sense = types.SenseMax
	default:
		return NearOpt{}, errors.Newf(errors.TypeParsing, "near-opt suffix %q has no min/max sense", s)
	}

	slack, err := decimal.NewFromString(body[len(sense):])
	if err != nil {
		return NearOpt{}, errors.Wrapf(errors.TypeParsing, err, "near-opt suffix %q has no slack fraction", s)
	}

	return NearOpt{Sense: sense, Slack: slack}, nil
}

// Artifact identifies one network file of the pipeline: a scenario at a
// planning horizon, optionally tagged as a near-optimal branch.
type Artifact struct {
	Identity
	Horizon int      `json:"horizon" yaml:"horizon"`
	NearOpt *NearOpt `json:"near_opt,omitempty" yaml:"near_opt,omitempty"`
}

// ID encodes the artifact identity string, e.g.
// "elec_s_90_lv1.5__730seg-Ca-Ib-Ea_2030_min0.05".
func (a Artifact) ID() string {
	suffix := ""
	if a.NearOpt != nil {
		suffix = a.NearOpt.Suffix()
	}
	return fmt.Sprintf("%s_%s_%d%s", artifactPrefix, a.Identity.String(), a.Horizon, suffix)
}

// ParseArtifactID inverts ID. Token concatenation uses fixed "_"
// separators and Definition.Validate rejects wildcard values containing
// one, so the split is positional.
func ParseArtifactID(id string) (Artifact, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 7 && len(parts) != 8 {
		return Artifact{}, errors.Newf(errors.TypeParsing, "artifact id %q has %d tokens, want 7 or 8", id, len(parts))
	}
	if parts[0]+"_"+parts[1] != artifactPrefix {
		return Artifact{}, errors.Newf(errors.TypeParsing, "artifact id %q lacks the %s prefix", id, artifactPrefix)
	}

	clusters, err := strconv.Atoi(parts[2])
	if err != nil {
		return Artifact{}, errors.Wrapf(errors.TypeParsing, err, "artifact id %q has a non-numeric cluster count", id)
	}

	ll, ok := strings.CutPrefix(parts[3], "l")
	if !ok {
		return Artifact{}, errors.Newf(errors.TypeParsing, "artifact id %q lacks the line-volume marker", id)
	}

	horizon, err := strconv.Atoi(parts[6])
	if err != nil {
		return Artifact{}, errors.Wrapf(errors.TypeParsing, err, "artifact id %q has a non-numeric horizon", id)
	}

	artifact := Artifact{
		Identity: Identity{
			Clusters:   clusters,
			LL:         ll,
			Opts:       parts[4],
			SectorOpts: parts[5],
		},
		Horizon: horizon,
	}

	if len(parts) == 8 {
		nearOpt, err := ParseNearOptSuffix(parts[7])
		if err != nil {
			return Artifact{}, err
		}
		artifact.NearOpt = &nearOpt
	}

	return artifact, nil
}
