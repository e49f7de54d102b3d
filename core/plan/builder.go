package plan

import (
	"go.uber.org/zap"

	"h2sweep/core/resources"
	"h2sweep/core/sweep"
	"h2sweep/internal/errors"
	"h2sweep/internal/logging"
)

// Builder assembles the job graph for a sweep. Horizon chaining is the
// capacity-continuity contract: capacities chosen optimally at horizon
// i-1 enter horizon i as fixed installed base, modeling irreversible
// infrastructure lock-in across the pathway.
type Builder struct {
	// Estimator supplies scheduling hints for solve steps
	Estimator *resources.Estimator

	// DefaultSegments is the temporal segment count assumed when a
	// sector-options code carries no <N>seg token
	DefaultSegments int

	// StartHorizon, when non-zero, restricts the plan to horizons >= it;
	// earlier horizons' solved artifacts become external requirements
	StartHorizon int
}

// Build materializes the full scenario x horizon x branch product of a
// definition into a sealed graph.
func (b *Builder) Build(d *sweep.Definition) (*Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	g := NewGraph()
	scenarios := d.Scenarios()
	branches := d.Branches()

	for _, id := range scenarios {
		if err := b.BuildChain(g, id, d.PlanningHorizons, branches); err != nil {
			return nil, err
		}
	}

	g.Seal()
	logging.Info("plan graph built",
		zap.Int("scenarios", len(scenarios)),
		zap.Int("jobs", g.Len()))
	return g, nil
}

// BuildChain adds the jobs and edges for one scenario's horizon chain.
//
// Horizon index 0 is the base year: its starting point is produced by
// base-year capacity construction only. The brownfield carry-forward
// step could notionally produce the same artifact, so the exclusivity is
// enforced here as a strict priority (base-year construction wins and
// brownfield never runs at index 0) rather than left to chance.
func (b *Builder) BuildChain(g *Graph, id sweep.Identity, horizons []int, branches []sweep.NearOpt) error {
	if len(horizons) == 0 {
		return errors.New(errors.TypeConfig, "horizon chain is empty")
	}

	hints := b.solveHints(id)

	for i, h := range horizons {
		if b.skipped(h) {
			continue
		}

		solved := sweep.Artifact{Identity: id, Horizon: h}
		solveID := jobID(JobSolve, solved)

		// The horizon's starting point: base-year construction at index
		// 0, brownfield carry-forward everywhere else.
		var buildID JobID
		if i == 0 {
			buildID = jobID(JobBaseYear, solved)
			g.AddJob(&Job{ID: buildID, Type: JobBaseYear, Artifact: solved})
		} else {
			buildID = jobID(JobBrownfield, solved)
			g.AddJob(&Job{ID: buildID, Type: JobBrownfield, Artifact: solved})
			b.dependOnSolved(g, buildID, JobSolve, sweep.Artifact{Identity: id, Horizon: horizons[i-1]})
		}

		g.AddJob(&Job{ID: solveID, Type: JobSolve, Artifact: solved, Resources: hints})
		g.AddEdge(solveID, buildID)

		for _, branch := range branches {
			if err := b.buildBranch(g, id, horizons, i, branch, solveID, buildID, hints); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildBranch adds one near-optimal (sense, slack) exploration for one
// horizon. The exploration perturbs the objective subject to total cost
// within slack of the known optimum, so it structurally requires both
// its own brownfield input and the cost-optimal solve of the same
// horizon as the numeric bound.
func (b *Builder) buildBranch(g *Graph, id sweep.Identity, horizons []int, i int, branch sweep.NearOpt, solveID, baseYearID JobID, hints *Hints) error {
	h := horizons[i]
	branchCopy := branch
	tagged := sweep.Artifact{Identity: id, Horizon: h, NearOpt: &branchCopy}

	nearOptID := jobID(JobSolveNearOpt, tagged)
	g.AddJob(&Job{ID: nearOptID, Type: JobSolveNearOpt, Artifact: tagged, Resources: hints})

	if i == 0 {
		// Base-year precedence: the first horizon has no suffixed
		// brownfield step; the branch starts from the shared base-year
		// construction output.
		g.AddEdge(nearOptID, baseYearID)
	} else {
		brownfieldID := jobID(JobBrownfield, tagged)
		g.AddJob(&Job{ID: brownfieldID, Type: JobBrownfield, Artifact: tagged})
		b.dependOnSolved(g, brownfieldID, JobSolveNearOpt,
			sweep.Artifact{Identity: id, Horizon: horizons[i-1], NearOpt: &branchCopy})
		g.AddEdge(nearOptID, brownfieldID)
	}

	// The cost-optimal solve supplies the objective bound.
	g.AddEdge(nearOptID, solveID)
	return nil
}

// dependOnSolved wires a dependency on a solved artifact: an in-graph
// edge when the producing job exists, otherwise an external requirement
// checked against the caller's artifact inventory.
func (b *Builder) dependOnSolved(g *Graph, from JobID, producer JobType, artifact sweep.Artifact) {
	to := jobID(producer, artifact)
	if _, ok := g.Job(to); ok {
		g.AddEdge(from, to)
		return
	}
	g.AddExternal(from, artifact.ID())
}

func (b *Builder) skipped(horizon int) bool {
	return b.StartHorizon != 0 && horizon < b.StartHorizon
}

func (b *Builder) solveHints(id sweep.Identity) *Hints {
	if b.Estimator == nil {
		return nil
	}
	segments := resources.Segments(id.SectorOpts, b.DefaultSegments)
	return &Hints{
		MemoryMB:   b.Estimator.MemoryMB(id.Clusters, segments, 1),
		RuntimeMin: b.Estimator.RuntimeMin(1),
	}
}
