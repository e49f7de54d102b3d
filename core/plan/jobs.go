// Package plan wires the myopic multi-horizon job graph for a scenario
// sweep: which build and solve steps exist, which artifacts they
// exchange, and which scheduling hints accompany each solve attempt.
package plan

import (
	"h2sweep/core/sweep"
)

// JobType indicates the pipeline step a job performs
type JobType int

const (
	// JobBaseYear constructs the first horizon's starting point from the
	// baseline network and the existing-capacity census
	JobBaseYear JobType = iota

	// JobBrownfield carries the previous horizon's solved capacities
	// forward as fixed, non-extendable installed base
	JobBrownfield

	// JobSolve is the cost-optimal solve of one horizon
	JobSolve

	// JobSolveNearOpt is a near-optimal exploration solve, bounded by
	// the cost optimum of the same horizon
	JobSolveNearOpt
)

// String returns the job type name
func (t JobType) String() string {
	names := []string{"base_year", "brownfield", "solve", "solve_near_opt"}
	if int(t) < len(names) {
		return names[t]
	}
	return "unknown"
}

// JobID uniquely identifies a job in the graph
type JobID string

// Hints are the advisory scheduling requirements of a solve step for its
// first attempt; the estimator recomputes them per retry.
type Hints struct {
	MemoryMB   float64 `json:"memory_mb" yaml:"memory_mb"`
	RuntimeMin int     `json:"runtime_min" yaml:"runtime_min"`
}

// Job is one node of the plan graph
type Job struct {
	// ID is the unique job identifier
	ID JobID

	// Type is the pipeline step
	Type JobType

	// Artifact is the network artifact this job produces
	Artifact sweep.Artifact

	// Resources carries scheduling hints (solve steps only)
	Resources *Hints
}

// jobID builds the identifier for a step producing an artifact
func jobID(t JobType, a sweep.Artifact) JobID {
	return JobID(t.String() + ":" + a.ID())
}
