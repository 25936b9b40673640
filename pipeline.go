package jfa

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/jfa/internal/dispatch"
)

// Pipeline owns the field, the dispatch workers and both extraction lists
// of a configuration. A Pipeline runs one tessellation at a time.
type Pipeline struct {
	cfg   Config
	pool  *dispatch.Pool
	prop  Propagator
	field *Field
	faces *AppendList[Face]
	tris  *AppendList[DualTriangle]
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPropagator replaces the default CPU propagator, for instance with a
// GPU implementation.
func WithPropagator(prop Propagator) Option {
	return func(p *Pipeline) { p.prop = prop }
}

// NewPipeline validates cfg and allocates every buffer the runs need.
// Nothing is allocated if cfg is invalid.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:   cfg,
		pool:  dispatch.NewPool(cfg.Workers),
		field: NewField(cfg.Resolution),
		faces: NewAppendList[Face](cfg.faceCapacity()),
		tris:  NewAppendList[DualTriangle](cfg.triangleCapacity()),
	}
	p.prop = CPUPropagator{Dispatcher: p.pool}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Dispatcher exposes the pipeline's worker pool for other data-parallel
// passes over the same field such as [Audit].
func (p *Pipeline) Dispatcher() Dispatcher { return p.pool }

// Close stops the dispatch workers.
func (p *Pipeline) Close() { p.pool.Close() }

// Result holds the outputs of one run. Field, Faces and Triangles alias
// pipeline storage and are only valid until the next Run.
type Result struct {
	Seeds     []Seed
	Field     *Field
	Faces     []Face
	Triangles []DualTriangle
	// Attempted counts include entries dropped to overflow.
	FacesAttempted     int
	TrianglesAttempted int
	Scale              float32
	Elapsed            time.Duration
}

// FaceVertices returns the boundary vertex list, six per face.
func (r *Result) FaceVertices() []ms3.Vec { return FaceVertices(r.Faces, r.Scale) }

// DualVertices returns the dual triangle vertex list, three per triangle.
func (r *Result) DualVertices() []ms3.Vec { return DualVertices(r.Triangles, r.Seeds, r.Scale) }

// Overflowed reports whether either extractor dropped geometry.
func (r *Result) Overflowed() bool {
	return r.FacesAttempted > len(r.Faces) || r.TrianglesAttempted > len(r.Triangles)
}

// Run tessellates seeds: it initializes the field, propagates it and runs
// both extraction passes. len(seeds) must equal the configured seed count
// and every seed must lie inside the grid; both are checked before any
// dispatch.
func (p *Pipeline) Run(seeds []Seed) (*Result, error) {
	if len(seeds) != p.cfg.Seeds {
		return nil, fmt.Errorf("%w: got %d seeds, configured %d", ErrSeedCount, len(seeds), p.cfg.Seeds)
	}
	if err := validateSeeds(seeds, p.cfg.Resolution); err != nil {
		return nil, err
	}
	start := time.Now()
	if err := p.field.Init(p.pool, seeds); err != nil {
		return nil, err
	}
	if err := p.prop.Propagate(p.field, seeds); err != nil {
		return nil, fmt.Errorf("propagating: %w", err)
	}
	ExtractBoundaries(p.pool, p.field, p.faces)
	ExtractDual(p.pool, p.field, p.tris)
	res := &Result{
		Seeds:              seeds,
		Field:              p.field,
		Faces:              p.faces.Items(),
		Triangles:          p.tris.Items(),
		FacesAttempted:     p.faces.Attempted(),
		TrianglesAttempted: p.tris.Attempted(),
		Scale:              p.cfg.scale(),
		Elapsed:            time.Since(start),
	}
	Logger().Info("pipeline run",
		"resolution", p.cfg.Resolution,
		"seeds", len(seeds),
		"rounds", p.cfg.Rounds(),
		"faces", len(res.Faces),
		"triangles", len(res.Triangles),
		"elapsed", res.Elapsed,
	)
	return res, nil
}

// RunRandom generates the configured number of seeds from rng and runs them.
func (p *Pipeline) RunRandom(rng *rand.Rand) (*Result, error) {
	return p.Run(GenerateSeeds(p.cfg.Seeds, p.cfg.Resolution, rng))
}
