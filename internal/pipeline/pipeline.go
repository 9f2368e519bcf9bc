// Package pipeline runs load, normalize and size mapping over one file or a
// batch of files.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/poimap-cli/internal/geodata"
	"github.com/KaramelBytes/poimap-cli/internal/loader"
)

// DefaultWorkers bounds ProcessAll when Options.Workers is unset.
const DefaultWorkers = 4

// Options configures processing.
type Options struct {
	Load      loader.Options
	Normalize geodata.Options
	// Workers caps concurrent files in ProcessAll.
	Workers int
	// SkipInvalid records per-file errors on the result instead of failing
	// the whole batch.
	SkipInvalid bool
}

// DefaultOptions returns loader and normalizer defaults.
func DefaultOptions() Options {
	return Options{Load: loader.DefaultOptions(), Normalize: geodata.DefaultOptions(), Workers: DefaultWorkers}
}

// Result is the outcome for one input file.
type Result struct {
	Path    string
	Dataset *geodata.Dataset
	Sizes   []float64
	Err     error
}

// OK reports whether the file was processed.
func (r Result) OK() bool { return r.Err == nil && r.Dataset != nil }

// Process loads and normalizes a single file.
func Process(ctx context.Context, path string, opt Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := loader.Load(path, opt.Load)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds, err := geodata.Normalize(*raw, opt.Normalize)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", path, err)
	}
	return &Result{Path: path, Dataset: ds, Sizes: geodata.MapSizes(ds.Costs())}, nil
}

// ProcessAll processes paths concurrently. Results keep the order of paths.
// Without SkipInvalid the first error cancels the remaining files and is
// returned; with it every failure is kept on its Result and err is nil.
func ProcessAll(ctx context.Context, paths []string, opt Options) ([]Result, error) {
	workers := opt.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path // per-iteration copies; go directive is below 1.22
		g.Go(func() error {
			res, err := Process(gctx, path, opt)
			if err != nil {
				results[i] = Result{Path: path, Err: err}
				if opt.SkipInvalid {
					return nil
				}
				return err
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Summary counts the outcome of a batch.
type Summary struct {
	Files   int
	OK      int
	Failed  int
	Points  int
	Dropped int
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if !r.OK() {
			s.Failed++
			continue
		}
		s.OK++
		s.Points += r.Dataset.Len()
		s.Dropped += r.Dataset.Stats.DroppedRows
	}
	return s
}
