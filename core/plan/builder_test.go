package plan

import (
	"testing"

	"github.com/shopspring/decimal"

	"h2sweep/core/resources"
	"h2sweep/core/sweep"
	"h2sweep/core/types"
	"h2sweep/internal/errors"
)

func testIdentity() sweep.Identity {
	return sweep.Identity{Clusters: 90, LL: "v1.5", Opts: "", SectorOpts: "730seg-Ca-Ib-Ea"}
}

func testBuilder() *Builder {
	return &Builder{
		Estimator: resources.New(resources.Calibration{
			MemBaseMB:          1500,
			MemPerClusterMB:    600,
			MemPerSegmentMB:    30,
			RetryMemStep:       0.5,
			RetryAttemptCap:    3,
			RuntimeBaselineMin: 720,
			RuntimeCeilingMin:  10080,
		}),
		DefaultSegments: 8760,
	}
}

func buildChain(t *testing.T, b *Builder, horizons []int, branches []sweep.NearOpt) *Graph {
	t.Helper()
	g := NewGraph()
	if err := b.BuildChain(g, testIdentity(), horizons, branches); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g.Seal()
	return g
}

func TestHorizonChainDependencies(t *testing.T) {
	g := buildChain(t, testBuilder(), []int{2025, 2030, 2035}, nil)

	// base_year + 2 brownfield + 3 solve
	if g.Len() != 6 {
		t.Fatalf("expected 6 jobs, got %d", g.Len())
	}

	id := testIdentity()
	var interHorizon int
	for _, job := range g.Jobs() {
		if job.Type != JobBrownfield {
			continue
		}
		deps := g.Dependencies(job.ID)
		if len(deps) != 1 {
			t.Fatalf("brownfield %s: expected exactly one dependency, got %d", job.ID, len(deps))
		}

		prev := sweep.Artifact{Identity: id, Horizon: job.Artifact.Horizon - 5}
		want := jobID(JobSolve, prev)
		if deps[0].To != want {
			t.Errorf("brownfield %d: expected dependency on %s, got %s",
				job.Artifact.Horizon, want, deps[0].To)
		}
		interHorizon++
	}

	// Exactly two inter-horizon edges: 2030 needs 2025 solved, 2035
	// needs 2030 solved.
	if interHorizon != 2 {
		t.Errorf("expected 2 inter-horizon edges, got %d", interHorizon)
	}

	// The base year declares zero predecessor dependency.
	baseYear := jobID(JobBaseYear, sweep.Artifact{Identity: id, Horizon: 2025})
	if deps := g.Dependencies(baseYear); len(deps) != 0 {
		t.Errorf("base year: expected no dependencies, got %d", len(deps))
	}
	if ext := g.Externals(baseYear); len(ext) != 0 {
		t.Errorf("base year: expected no external requirements, got %v", ext)
	}
}

func TestBaseYearPrecedenceOverBrownfield(t *testing.T) {
	g := buildChain(t, testBuilder(), []int{2025, 2030}, []sweep.NearOpt{
		{Sense: types.SenseMin, Slack: decimal.RequireFromString("0.05")},
	})

	// Only one producer may win the first horizon's starting point: the
	// base-year construction step. No brownfield job, suffixed or not,
	// may exist for 2025.
	for _, job := range g.Jobs() {
		if job.Type == JobBrownfield && job.Artifact.Horizon == 2025 {
			t.Errorf("brownfield job %s must not run for the first horizon", job.ID)
		}
	}

	id := testIdentity()
	baseYear := jobID(JobBaseYear, sweep.Artifact{Identity: id, Horizon: 2025})
	if _, ok := g.Job(baseYear); !ok {
		t.Error("base-year construction job missing for the first horizon")
	}
}

func TestNearOptBranchDependencies(t *testing.T) {
	slack := decimal.RequireFromString("0.05")
	branch := sweep.NearOpt{Sense: types.SenseMin, Slack: slack}
	g := buildChain(t, testBuilder(), []int{2025, 2030}, []sweep.NearOpt{branch})

	id := testIdentity()
	tagged := sweep.Artifact{Identity: id, Horizon: 2030, NearOpt: &branch}
	nearOptID := jobID(JobSolveNearOpt, tagged)

	deps := g.Dependencies(nearOptID)
	if len(deps) != 2 {
		t.Fatalf("near-opt solve: expected 2 dependencies, got %d", len(deps))
	}

	wantBrownfield := jobID(JobBrownfield, tagged)
	wantSolve := jobID(JobSolve, sweep.Artifact{Identity: id, Horizon: 2030})
	found := map[JobID]bool{}
	for _, d := range deps {
		found[d.To] = true
	}
	if !found[wantBrownfield] {
		t.Errorf("near-opt solve must depend on its sense+slack brownfield %s", wantBrownfield)
	}
	if !found[wantSolve] {
		t.Errorf("near-opt solve must depend on the unsuffixed cost optimum %s", wantSolve)
	}

	// The branch chains myopically within its own sense+slack: the 2030
	// suffixed brownfield consumes the 2025 near-opt solve.
	bfDeps := g.Dependencies(wantBrownfield)
	wantPrev := jobID(JobSolveNearOpt, sweep.Artifact{Identity: id, Horizon: 2025, NearOpt: &branch})
	if len(bfDeps) != 1 || bfDeps[0].To != wantPrev {
		t.Errorf("suffixed brownfield: expected dependency on %s, got %v", wantPrev, bfDeps)
	}

	// First-horizon near-opt starts from the shared base-year output.
	firstNearOpt := jobID(JobSolveNearOpt, sweep.Artifact{Identity: id, Horizon: 2025, NearOpt: &branch})
	firstDeps := g.Dependencies(firstNearOpt)
	if len(firstDeps) != 2 {
		t.Fatalf("first-horizon near-opt: expected 2 dependencies, got %d", len(firstDeps))
	}
}

func TestStartHorizonRequiresPredecessorArtifacts(t *testing.T) {
	b := testBuilder()
	b.StartHorizon = 2030

	g := buildChain(t, b, []int{2025, 2030, 2035}, nil)

	// 2025 jobs are skipped entirely.
	for _, job := range g.Jobs() {
		if job.Artifact.Horizon == 2025 {
			t.Errorf("job %s planned for a skipped horizon", job.ID)
		}
	}

	id := testIdentity()
	brownfield := jobID(JobBrownfield, sweep.Artifact{Identity: id, Horizon: 2030})
	prevID := sweep.Artifact{Identity: id, Horizon: 2025}.ID()

	ext := g.Externals(brownfield)
	if len(ext) != 1 || ext[0] != prevID {
		t.Fatalf("expected external requirement on %s, got %v", prevID, ext)
	}

	// Without the artifact in the inventory the plan must fail, not
	// substitute a default.
	err := g.Resolve(map[string]bool{})
	if !errors.IsType(err, errors.TypeMissingPredecessorArtifact) {
		t.Fatalf("expected MissingPredecessorArtifact, got %v", err)
	}

	if err := g.Resolve(map[string]bool{prevID: true}); err != nil {
		t.Errorf("expected resolution with inventory to succeed, got %v", err)
	}
}

func TestSolveJobsCarryResourceHints(t *testing.T) {
	g := buildChain(t, testBuilder(), []int{2025, 2030}, nil)

	for _, job := range g.Jobs() {
		switch job.Type {
		case JobSolve, JobSolveNearOpt:
			if job.Resources == nil {
				t.Errorf("solve job %s has no resource hints", job.ID)
				continue
			}
			// 1500 + 600*90 + 30*730, first attempt
			if job.Resources.MemoryMB != 77400 {
				t.Errorf("job %s: expected 77400 MB, got %v", job.ID, job.Resources.MemoryMB)
			}
			if job.Resources.RuntimeMin != 720 {
				t.Errorf("job %s: expected 720 min, got %d", job.ID, job.Resources.RuntimeMin)
			}
		default:
			if job.Resources != nil {
				t.Errorf("build job %s should not carry solve hints", job.ID)
			}
		}
	}
}

func TestTopoStagesRespectChainOrder(t *testing.T) {
	g := buildChain(t, testBuilder(), []int{2025, 2030, 2035}, nil)

	stages, err := g.TopoStages()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	position := make(map[JobID]int)
	for i, stage := range stages {
		for _, id := range stage {
			position[id] = i
		}
	}

	for _, job := range g.Jobs() {
		for _, dep := range g.Dependencies(job.ID) {
			if position[dep.To] >= position[job.ID] {
				t.Errorf("job %s scheduled no later than its dependency %s", job.ID, dep.To)
			}
		}
	}

	id := testIdentity()
	baseYear := jobID(JobBaseYear, sweep.Artifact{Identity: id, Horizon: 2025})
	if position[baseYear] != 0 {
		t.Errorf("base-year construction expected in stage 0, got %d", position[baseYear])
	}
}
