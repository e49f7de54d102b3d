package sweep

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"h2sweep/core/overlay"
	"h2sweep/core/scenario"
	"h2sweep/internal/logging"
)

// ResolveAll derives the effective configuration for every distinct
// sector-option code of the definition. Resolution is a pure function of
// the shared base configuration, so codes are resolved concurrently;
// workers bounds the parallelism.
func ResolveAll(ctx context.Context, base overlay.Value, d *Definition, workers int) (map[string]overlay.Value, error) {
	if workers <= 0 {
		workers = 1
	}

	codes := distinct(d.SectorOpts)
	effective := make(map[string]overlay.Value, len(codes))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, code := range codes {
		code := code
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			cfg, err := Resolve(base, code, d)
			if err != nil {
				return err
			}

			mu.Lock()
			effective[code] = cfg
			mu.Unlock()

			logging.Debug("resolved scenario configuration", zap.String("code", code))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return effective, nil
}

// Resolve derives the effective configuration for one scenario code
func Resolve(base overlay.Value, code string, d *Definition) (overlay.Value, error) {
	resolved, err := scenario.Parse(code, d.Registry)
	if err != nil {
		return overlay.Null(), err
	}
	return overlay.Apply(base, resolved, d.Options)
}

func distinct(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
