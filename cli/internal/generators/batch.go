package generators

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/core/identity"
)

// BatchRequest is one configuration of a batch.
type BatchRequest struct {
	Source string // where the configuration came from, for logs and reports
	Raw    *configschema.Raw
}

// BatchResult is the outcome of one request. Exactly one of Result and
// Err is set.
type BatchResult struct {
	Source string
	Result *Result
	Err    error
}

// Batch generates every request independently, at most workers at a time.
// A failing request does not stop the others. Results keep request order.
//
// Parameters:
//   - ctx: Cancellation for the whole batch
//   - reqs: Requests to generate
//   - workers: Parallelism; values below 1 mean GOMAXPROCS
//
// Returns:
//   - []BatchResult: One result per request, in request order
//
// Concurrency:
//   - Each request runs with its own run identity in ctx
func (g *Generator) Batch(ctx context.Context, reqs []BatchRequest, workers int) []BatchResult {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(reqs))
	var eg errgroup.Group
	eg.SetLimit(workers)

	for i, req := range reqs {
		eg.Go(func() error {
			project := ""
			if req.Raw != nil {
				project = req.Raw.ProjectName
			}
			runCtx := identity.WithRun(ctx, identity.NewRun(project, req.Source))

			raw := req.Raw
			if raw == nil {
				raw = &configschema.Raw{}
			}
			res, err := g.GenerateRaw(runCtx, raw)
			results[i] = BatchResult{Source: req.Source, Result: res, Err: err}
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// Failed returns the results that carry an error.
func Failed(results []BatchResult) []BatchResult {
	var out []BatchResult
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
