package jfa

import (
	"errors"
	"math/rand"
	"testing"
)

func TestPipelineRunErrors(t *testing.T) {
	p, err := NewPipeline(Config{Resolution: 32, Seeds: 4})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	_, err = p.Run(seedsAt(V3i{1, 1, 1}))
	if !errors.Is(err, ErrSeedCount) {
		t.Errorf("got %v. want ErrSeedCount", err)
	}
	seeds := seedsAt(V3i{1, 1, 1}, V3i{2, 2, 2}, V3i{3, 3, 3}, V3i{32, 0, 0})
	_, err = p.Run(seeds)
	if !errors.Is(err, ErrSeedBounds) {
		t.Errorf("got %v. want ErrSeedBounds", err)
	}
}

type countingPropagator struct {
	calls int
	inner Propagator
}

func (c *countingPropagator) Propagate(f *Field, seeds []Seed) error {
	c.calls++
	return c.inner.Propagate(f, seeds)
}

type failingPropagator struct{}

var errTestPropagate = errors.New("propagate failed")

func (failingPropagator) Propagate(*Field, []Seed) error { return errTestPropagate }

func TestPipelineWithPropagator(t *testing.T) {
	prop := &countingPropagator{inner: CPUPropagator{}}
	p, err := NewPipeline(testConfig(8, 3), WithPropagator(prop))
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	res, err := p.RunRandom(rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatal(err)
	}
	if prop.calls != 1 {
		t.Errorf("got %d propagator calls. want 1", prop.calls)
	}
	if len(res.Seeds) != 3 || res.Field.Assigned() != 8*8*8 {
		t.Errorf("got %d seeds, %d assigned voxels", len(res.Seeds), res.Field.Assigned())
	}
	if res.Scale != 1 {
		t.Errorf("got default scale %v. want 1", res.Scale)
	}

	pf, err := NewPipeline(testConfig(8, 3), WithPropagator(failingPropagator{}))
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	if _, err = pf.RunRandom(rand.New(rand.NewSource(5))); !errors.Is(err, errTestPropagate) {
		t.Errorf("got %v. want wrapped propagator error", err)
	}
}

func TestPipelineScale(t *testing.T) {
	cfg := testConfig(8, 2)
	cfg.Scale = 2.5
	res := runTest(t, cfg, seedsAt(V3i{0, 0, 0}, V3i{7, 7, 7}))
	verts := res.FaceVertices()
	if len(verts) != 6*len(res.Faces) || len(verts) == 0 {
		t.Fatalf("got %d vertices for %d faces", len(verts), len(res.Faces))
	}
	q := res.Faces[0].Quad(1)
	for i := range q {
		if verts[i].X != 2.5*q[i].X || verts[i].Y != 2.5*q[i].Y || verts[i].Z != 2.5*q[i].Z {
			t.Fatalf("vertex %d: got %v. want scaled %v", i, verts[i], q[i])
		}
	}
}
