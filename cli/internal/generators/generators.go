// Package generators wires one generation run: configuration to capability
// set, identifiers, file plan and rendered files.
//
// Overview:
//   - Responsibility: Orchestrate validate, resolve, derive, plan and render for one or many requests
//   - Key Types: Generator, Result, RenderedFile, Preview, BatchRequest/BatchResult
//   - Concurrency Model: Generator is safe for concurrent use; Batch fans out over a bounded errgroup
//   - Error Semantics: Every failure is a core/errors *E (INVALID_ARGUMENT, FAILED_PRECONDITION, INTERNAL, CANCELED)
//     wrapping the kind-specific error; no partial file set is ever returned
//   - Performance Notes: The catalog is parsed once; results are memoized by configuration fingerprint
//
// Usage:
//
//	gen, err := generators.New(generators.WithLogger(logger))
//	res, err := gen.Generate(ctx, cfg)
//	for _, f := range res.Files {
//	    fmt.Println(f.Path)
//	}
package generators

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mitchellh/hashstructure/v2"

	"go.eggybyte.com/bootforge/cli/internal/capability"
	"go.eggybyte.com/bootforge/cli/internal/configschema"
	"go.eggybyte.com/bootforge/cli/internal/naming"
	"go.eggybyte.com/bootforge/cli/internal/plan"
	"go.eggybyte.com/bootforge/cli/internal/render"
	"go.eggybyte.com/bootforge/cli/internal/template"
	"go.eggybyte.com/bootforge/cli/internal/templates"
	"go.eggybyte.com/bootforge/core/errors"
	"go.eggybyte.com/bootforge/core/log"
	"go.eggybyte.com/bootforge/logx"
	"go.eggybyte.com/bootforge/obsx"
)

// DefaultCacheSize is the number of results kept by default.
const DefaultCacheSize = 64

// Operation names used in errors.
const (
	opValidate = "generators.Validate"
	opPlan     = "generators.Plan"
	opRender   = "generators.Render"
	opGenerate = "generators.Generate"
)

// Metrics receives generation measurements. *obsx.GenerationMetrics
// implements it.
type Metrics interface {
	RunCompleted(result string, d time.Duration)
	FileRendered(slot string)
	CacheLookup(hit bool)
}

type nopMetrics struct{}

func (nopMetrics) RunCompleted(string, time.Duration) {}
func (nopMetrics) FileRendered(string)                {}
func (nopMetrics) CacheLookup(bool)                   {}

// RenderedFile is one generated file. Values are never modified after a run.
type RenderedFile struct {
	Path       string
	Content    string
	Slot       plan.SlotID
	TemplateID string
}

// Preview is everything decided for a configuration before rendering.
type Preview struct {
	Config       *configschema.Configuration
	Capabilities *capability.Set
	Identifiers  *naming.Identifiers
	Plan         *plan.Plan
}

// Result is a complete generated file set. Results may be shared between
// callers through the cache and must be treated as read-only.
type Result struct {
	Preview
	Files []RenderedFile
}

// File returns the rendered file at path.
func (r *Result) File(path string) (RenderedFile, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return RenderedFile{}, false
}

// Slot returns the rendered file that filled slot.
func (r *Result) Slot(slot plan.SlotID) (RenderedFile, bool) {
	for _, f := range r.Files {
		if f.Slot == slot {
			return f, true
		}
	}
	return RenderedFile{}, false
}

// Generator renders project trees from configurations.
//
// Concurrency:
//   - Safe for concurrent use; catalog, layout and renderer are read-only
type Generator struct {
	catalog   template.Catalog
	layout    *plan.Layout
	renderer  *render.Renderer
	logger    log.Logger
	metrics   Metrics
	cacheSize int
	cache     *lru.Cache[uint64, *Result]
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(g *Generator) { g.metrics = m }
}

// WithCatalog replaces the built-in template catalog.
func WithCatalog(c template.Catalog) Option {
	return func(g *Generator) { g.catalog = c }
}

// WithLayout replaces the default slot layout.
func WithLayout(l *plan.Layout) Option {
	return func(g *Generator) { g.layout = l }
}

// WithCacheSize sets the result cache capacity. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(g *Generator) { g.cacheSize = n }
}

// New creates a Generator.
//
// Parameters:
//   - opts: Optional logger, metrics, catalog, layout and cache size
//
// Returns:
//   - *Generator: Ready generator
//   - error: Built-in catalog parse error or cache construction error
func New(opts ...Option) (*Generator, error) {
	g := &Generator{
		layout:    plan.DefaultLayout(),
		logger:    log.Nop(),
		metrics:   nopMetrics{},
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.catalog == nil {
		catalog, err := templates.Default()
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "generators.New", err)
		}
		g.catalog = catalog
	}
	g.renderer = render.New(g.catalog)

	if g.cacheSize > 0 {
		cache, err := lru.New[uint64, *Result](g.cacheSize)
		if err != nil {
			return nil, errors.Wrap(errors.CodeInternal, "generators.New", err)
		}
		g.cache = cache
	}
	return g, nil
}

// Catalog returns the template catalog in use.
func (g *Generator) Catalog() template.Catalog { return g.catalog }

// Preview resolves capabilities, derives identifiers and builds the file
// plan without rendering anything.
//
// Returns:
//   - *Preview: Decisions for cfg
//   - error: FAILED_PRECONDITION wrapping *plan.PlanError
func (g *Generator) Preview(cfg *configschema.Configuration) (*Preview, error) {
	caps := capability.Resolve(cfg)
	ids := naming.Derive(cfg, caps)
	p, err := plan.Build(g.layout, caps, ids)
	if err != nil {
		return nil, errors.Wrap(errors.CodeFailedPrecondition, opPlan, err)
	}
	return &Preview{Config: cfg, Capabilities: caps, Identifiers: ids, Plan: p}, nil
}

// GenerateRaw validates raw and generates the project.
//
// Returns:
//   - *Result: Complete file set
//   - error: INVALID_ARGUMENT wrapping *configschema.ValidationError, or any Generate error
func (g *Generator) GenerateRaw(ctx context.Context, raw *configschema.Raw) (*Result, error) {
	cfg, err := configschema.Validate(raw)
	if err != nil {
		g.metrics.RunCompleted(obsx.ResultInvalidConfig, 0)
		return nil, errors.Wrap(errors.CodeInvalidArgument, opValidate, err)
	}
	return g.Generate(ctx, cfg)
}

// Generate renders every planned file of cfg.
//
// Parameters:
//   - ctx: Cancellation; a run identity in ctx is attached to log lines
//   - cfg: Validated configuration
//
// Returns:
//   - *Result: Complete, ordered file set
//   - error: FAILED_PRECONDITION (plan), INTERNAL (render) or CANCELED
//
// Concurrency:
//   - Safe to call concurrently
//
// Performance:
//   - One capability set, one identifier set and one variable map per run
func (g *Generator) Generate(ctx context.Context, cfg *configschema.Configuration) (*Result, error) {
	start := time.Now()
	logger := logx.FromContext(ctx, g.logger)

	key, cacheable := g.fingerprint(cfg)
	if cacheable {
		if res, ok := g.cache.Get(key); ok {
			g.metrics.CacheLookup(true)
			logger.Debug("generation served from cache", log.Int("files", len(res.Files)))
			g.metrics.RunCompleted(obsx.ResultOK, time.Since(start))
			return res, nil
		}
		g.metrics.CacheLookup(false)
	}

	res, err := g.generate(ctx, logger, cfg)
	if err != nil {
		g.metrics.RunCompleted(resultLabel(err), time.Since(start))
		logger.Error(err, "generation failed")
		return nil, err
	}

	if cacheable {
		g.cache.Add(key, res)
	}
	g.metrics.RunCompleted(obsx.ResultOK, time.Since(start))
	logger.Info("generation complete",
		log.Int("files", len(res.Files)),
		log.Str("capabilities", res.Capabilities.String()),
		log.Dur("elapsed", time.Since(start)))
	return res, nil
}

func (g *Generator) generate(ctx context.Context, logger log.Logger, cfg *configschema.Configuration) (*Result, error) {
	pv, err := g.Preview(cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range pv.Plan.Omitted {
		logger.Debug("slot omitted", log.Str("slot", string(o.Slot)), log.Str("reason", o.Reason))
	}

	scope := render.NewScope(pv.Capabilities, pv.Identifiers.Vars())
	files := make([]RenderedFile, 0, len(pv.Plan.Entries))
	for _, e := range pv.Plan.Entries {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.CodeCanceled, opGenerate, err)
		}
		content, err := g.renderer.Render(e.TemplateID, scope)
		if err != nil {
			return nil, errors.Build(errors.CodeInternal).
				WithOp(opRender).
				WithErr(err).
				WithDetails("slot", string(e.Slot), "path", e.TargetPath).
				Err()
		}
		logger.Debug("rendered file", log.Str("slot", string(e.Slot)), log.Str("path", e.TargetPath))
		files = append(files, RenderedFile{
			Path:       e.TargetPath,
			Content:    content,
			Slot:       e.Slot,
			TemplateID: e.TemplateID,
		})
	}

	for _, f := range files {
		g.metrics.FileRendered(string(f.Slot))
	}
	return &Result{Preview: *pv, Files: files}, nil
}

// FileTrace is the fragment trace of one planned file.
type FileTrace struct {
	Entry plan.Entry
	Trace *render.Trace
}

// Explain renders every planned file with tracing and returns the
// fragment decisions. Rendered text is discarded.
func (g *Generator) Explain(cfg *configschema.Configuration) (*Preview, []FileTrace, error) {
	pv, err := g.Preview(cfg)
	if err != nil {
		return nil, nil, err
	}
	scope := render.NewScope(pv.Capabilities, pv.Identifiers.Vars())
	traces := make([]FileTrace, 0, len(pv.Plan.Entries))
	for _, e := range pv.Plan.Entries {
		_, trace, err := g.renderer.RenderTrace(e.TemplateID, scope)
		if err != nil {
			return nil, nil, errors.Wrap(errors.CodeInternal, opRender, err)
		}
		traces = append(traces, FileTrace{Entry: e, Trace: trace})
	}
	return pv, traces, nil
}

// fingerprint hashes cfg. ok is false when caching is disabled or cfg
// cannot be hashed.
func (g *Generator) fingerprint(cfg *configschema.Configuration) (uint64, bool) {
	if g.cache == nil {
		return 0, false
	}
	key, err := hashstructure.Hash(cfg, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, false
	}
	return key, true
}

func resultLabel(err error) string {
	switch errors.CodeOf(err) {
	case errors.CodeInvalidArgument:
		return obsx.ResultInvalidConfig
	case errors.CodeFailedPrecondition:
		return obsx.ResultPlanFailed
	case errors.CodeCanceled:
		return obsx.ResultCanceled
	default:
		return obsx.ResultRenderFailed
	}
}
