// Package resources computes the advisory memory and runtime budgets
// handed to the external workflow engine's scheduler for each solve
// attempt. Estimates are pure functions of their inputs; the engine is
// free to enforce or ignore them.
package resources

import (
	"regexp"
	"strconv"
	"strings"
)

// Calibration holds the empirically fitted regression constants for one
// solver/problem-size regime. They are calibration, not contract, and
// live in configuration rather than code.
type Calibration struct {
	// MemBaseMB is the intercept of the memory regression
	MemBaseMB float64

	// MemPerClusterMB is the per-cluster slope
	MemPerClusterMB float64

	// MemPerSegmentMB is the per-temporal-segment slope
	MemPerSegmentMB float64

	// RetryMemStep is the fractional memory headroom added per retry
	RetryMemStep float64

	// RetryAttemptCap is the attempt number beyond which scaling
	// plateaus; past a few failures the true bottleneck is elsewhere
	RetryAttemptCap int

	// RuntimeBaselineMin is the first-attempt runtime budget in minutes
	RuntimeBaselineMin int

	// RuntimeCeilingMin caps the runtime budget regardless of attempts,
	// preventing runaway retry loops from requesting unbounded windows
	RuntimeCeilingMin int
}

// Estimator derives per-attempt scheduling hints
type Estimator struct {
	cal Calibration
}

// New creates an estimator from a calibration
func New(cal Calibration) *Estimator {
	return &Estimator{cal: cal}
}

// MemoryMB estimates the solve memory budget in MB for a given spatial
// cluster count, temporal segment count and retry attempt (starting at
// 1). The linear regression is clamped below at zero before scaling, so
// the result is never negative; scaling grows with the attempt number up
// to the configured cap and plateaus after it.
func (e *Estimator) MemoryMB(clusters, segments, attempt int) float64 {
	base := e.cal.MemBaseMB +
		e.cal.MemPerClusterMB*float64(clusters) +
		e.cal.MemPerSegmentMB*float64(segments)
	if base < 0 {
		base = 0
	}

	return base * e.retryFactor(attempt)
}

func (e *Estimator) retryFactor(attempt int) float64 {
	if attempt < 1 {
		attempt = 1
	}
	capAt := e.cal.RetryAttemptCap
	if capAt < 1 {
		capAt = 1
	}
	if attempt > capAt {
		attempt = capAt
	}
	return 1 + e.cal.RetryMemStep*float64(attempt-1)
}

// RuntimeMin estimates the solve runtime budget in minutes for a retry
// attempt: the configured baseline scaled linearly by the attempt
// number, capped at the absolute wall-clock ceiling.
func (e *Estimator) RuntimeMin(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	runtime := e.cal.RuntimeBaselineMin * attempt
	if e.cal.RuntimeCeilingMin > 0 && runtime > e.cal.RuntimeCeilingMin {
		runtime = e.cal.RuntimeCeilingMin
	}
	return runtime
}

var segPattern = regexp.MustCompile(`^(\d+)seg$`)

// Segments extracts the temporal segment count from a sector-options
// code (a "<N>seg" token), falling back to the supplied default when the
// code carries none.
func Segments(sectorOpts string, fallback int) int {
	for _, token := range strings.Split(sectorOpts, "-") {
		if m := segPattern.FindStringSubmatch(token); m != nil {
			n, err := strconv.Atoi(m[1])
			if err == nil {
				return n
			}
		}
	}
	return fallback
}
