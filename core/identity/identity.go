// Package identity provides generation-run metadata context management.
//
// Overview:
//   - Responsibility: Store and retrieve the identity of a generation run from context
//   - Key Types: RunInfo describing one run (id, project, configuration source)
//   - Concurrency Model: All functions are safe for concurrent use; RunInfo is immutable after creation
//   - Error Semantics: Functions return boolean to indicate presence of data
//   - Performance Notes: One context value per run
//
// Usage:
//
//	ctx = identity.WithRun(ctx, identity.NewRun("shop-api", "bootforge.yaml"))
//	run, ok := identity.RunFrom(ctx)
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunInfo identifies one generation run.
type RunInfo struct {
	RunID     string    // Unique run identifier
	Project   string    // Project name from the configuration
	Source    string    // Where the configuration came from (file path, "-" for stdin)
	StartedAt time.Time // Run start time
}

type contextKey string

const runKey contextKey = "run"

// NewRun creates a RunInfo with a fresh random id.
func NewRun(project, source string) *RunInfo {
	return &RunInfo{
		RunID:     uuid.NewString(),
		Project:   project,
		Source:    source,
		StartedAt: time.Now(),
	}
}

// WithRun stores run information in the context.
func WithRun(ctx context.Context, r *RunInfo) context.Context {
	return context.WithValue(ctx, runKey, r)
}

// RunFrom retrieves run information from the context.
func RunFrom(ctx context.Context) (*RunInfo, bool) {
	r, ok := ctx.Value(runKey).(*RunInfo)
	return r, ok && r != nil
}

// RunID returns the run id stored in ctx, or "" when absent.
func RunID(ctx context.Context) string {
	if r, ok := RunFrom(ctx); ok {
		return r.RunID
	}
	return ""
}
