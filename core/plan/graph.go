package plan

import (
	"sort"

	"go.uber.org/multierr"

	"h2sweep/internal/errors"
)

// Edge records that From cannot start before To has completed
type Edge struct {
	From JobID
	To   JobID
}

// Graph is the authoritative job dependency graph for one plan. All
// scheduling output derives from it. Once sealed it is immutable.
type Graph struct {
	// nodes indexed by ID
	nodes map[JobID]*Job

	// forward edges (from depends on to)
	edges map[JobID][]Edge

	// reverse edges (to is depended on by from)
	reverseEdges map[JobID][]Edge

	// externals are solved-artifact IDs a job requires that no job in
	// this graph produces; they must exist in the caller's inventory
	externals map[JobID][]string

	// roots have no dependencies inside the graph
	roots []JobID

	sealed bool
}

// NewGraph creates an empty plan graph
func NewGraph() *Graph {
	return &Graph{
		nodes:        make(map[JobID]*Job),
		edges:        make(map[JobID][]Edge),
		reverseEdges: make(map[JobID][]Edge),
		externals:    make(map[JobID][]string),
	}
}

// AddJob adds a node to the graph
func (g *Graph) AddJob(job *Job) {
	if g.sealed {
		panic("plan: cannot modify sealed graph")
	}
	g.nodes[job.ID] = job
}

// AddEdge declares that from depends on to. Both jobs must exist.
func (g *Graph) AddEdge(from, to JobID) {
	if g.sealed {
		panic("plan: cannot modify sealed graph")
	}
	if _, ok := g.nodes[from]; !ok {
		panic("plan: edge from non-existent job: " + string(from))
	}
	if _, ok := g.nodes[to]; !ok {
		panic("plan: edge to non-existent job: " + string(to))
	}

	edge := Edge{From: from, To: to}
	g.edges[from] = append(g.edges[from], edge)
	g.reverseEdges[to] = append(g.reverseEdges[to], edge)
}

// AddExternal declares that a job requires an artifact produced outside
// this graph (e.g. a horizon solved in a previous run)
func (g *Graph) AddExternal(id JobID, artifactID string) {
	if g.sealed {
		panic("plan: cannot modify sealed graph")
	}
	g.externals[id] = append(g.externals[id], artifactID)
}

// Seal freezes the graph and computes its roots
func (g *Graph) Seal() {
	g.roots = g.roots[:0]
	for id := range g.nodes {
		if len(g.edges[id]) == 0 {
			g.roots = append(g.roots, id)
		}
	}
	sort.Slice(g.roots, func(i, j int) bool { return g.roots[i] < g.roots[j] })
	g.sealed = true
}

// IsSealed reports whether the graph is sealed
func (g *Graph) IsSealed() bool {
	return g.sealed
}

// Job returns a node by ID
func (g *Graph) Job(id JobID) (*Job, bool) {
	job, ok := g.nodes[id]
	return job, ok
}

// Len returns the number of jobs
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Jobs returns all jobs in sorted ID order
func (g *Graph) Jobs() []*Job {
	ids := make([]JobID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	jobs := make([]*Job, len(ids))
	for i, id := range ids {
		jobs[i] = g.nodes[id]
	}
	return jobs
}

// Dependencies returns the direct dependencies of a job
func (g *Graph) Dependencies(id JobID) []Edge {
	return g.edges[id]
}

// Dependents returns the jobs that depend on a job
func (g *Graph) Dependents(id JobID) []Edge {
	return g.reverseEdges[id]
}

// Externals returns the outside-artifact requirements of a job
func (g *Graph) Externals(id JobID) []string {
	return g.externals[id]
}

// Roots returns the jobs with no in-graph dependencies
func (g *Graph) Roots() []JobID {
	if !g.sealed {
		panic("plan: roots computed on unsealed graph")
	}
	return g.roots
}

// Resolve verifies that every outside-artifact requirement is satisfied
// by the given inventory of already-materialized artifacts. A missing
// predecessor is a dependency-resolution failure, never silently
// substituted with a default.
func (g *Graph) Resolve(inventory map[string]bool) error {
	var err error
	for _, job := range g.Jobs() {
		for _, artifactID := range g.externals[job.ID] {
			if !inventory[artifactID] {
				err = multierr.Append(err, errors.MissingPredecessorArtifact(artifactID).
					WithContext("job", string(job.ID)))
			}
		}
	}
	return err
}

// TopoStages layers the graph into sequential stages whose members are
// mutually independent and may run concurrently. A cycle is an internal
// defect of the builder, reported as an error.
func (g *Graph) TopoStages() ([][]JobID, error) {
	if !g.sealed {
		panic("plan: topological stages computed on unsealed graph")
	}

	pending := make(map[JobID]int, len(g.nodes))
	for id := range g.nodes {
		pending[id] = len(g.edges[id])
	}

	var stages [][]JobID
	remaining := len(pending)

	for remaining > 0 {
		var stage []JobID
		for id, deps := range pending {
			if deps == 0 {
				stage = append(stage, id)
			}
		}
		if len(stage) == 0 {
			return nil, errors.New(errors.TypeInternal, "plan graph contains a dependency cycle")
		}
		sort.Slice(stage, func(i, j int) bool { return stage[i] < stage[j] })

		for _, id := range stage {
			delete(pending, id)
			for _, edge := range g.reverseEdges[id] {
				if _, ok := pending[edge.From]; ok {
					pending[edge.From]--
				}
			}
		}

		remaining -= len(stage)
		stages = append(stages, stage)
	}

	return stages, nil
}
