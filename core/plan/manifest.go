package plan

import (
	"time"

	"github.com/google/uuid"
)

// JobManifest is the serialized form of one job, keyed by the artifact
// identity strings the external workflow engine joins on.
type JobManifest struct {
	ID        JobID    `json:"id" yaml:"id"`
	Type      string   `json:"type" yaml:"type"`
	Artifact  string   `json:"artifact" yaml:"artifact"`
	DependsOn []JobID  `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Requires  []string `json:"requires,omitempty" yaml:"requires,omitempty"`
	Resources *Hints   `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Manifest is the advisory plan handed to the external workflow engine
type Manifest struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
	Jobs      []JobManifest `json:"jobs" yaml:"jobs"`
	Stages    [][]JobID     `json:"stages" yaml:"stages"`
}

// NewManifest flattens a sealed graph into a manifest. Stage members are
// mutually independent and may be scheduled concurrently.
func NewManifest(g *Graph) (Manifest, error) {
	stages, err := g.TopoStages()
	if err != nil {
		return Manifest{}, err
	}

	jobs := g.Jobs()
	manifest := Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Jobs:      make([]JobManifest, 0, len(jobs)),
		Stages:    stages,
	}

	for _, job := range jobs {
		jm := JobManifest{
			ID:        job.ID,
			Type:      job.Type.String(),
			Artifact:  job.Artifact.ID(),
			Requires:  g.Externals(job.ID),
			Resources: job.Resources,
		}
		for _, edge := range g.Dependencies(job.ID) {
			jm.DependsOn = append(jm.DependsOn, edge.To)
		}
		manifest.Jobs = append(manifest.Jobs, jm)
	}

	return manifest, nil
}
