package jfa

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/soypat/glgl/math/ms3"
)

// Propagator converges a Field initialized by [Field.Init] to an
// approximate nearest-seed assignment.
type Propagator interface {
	Propagate(f *Field, seeds []Seed) error
}

var _ Propagator = CPUPropagator{}

// CPUPropagator runs jump flooding rounds on the CPU. Each round is one
// dispatch over all voxels.
type CPUPropagator struct {
	// Dispatcher runs the per-voxel tasks. Nil runs them serially.
	Dispatcher Dispatcher
}

// Propagate runs ceil(log2(R)) rounds with strides R/2, R/4, ... 1.
// R must be a power of two.
func (p CPUPropagator) Propagate(f *Field, seeds []Seed) error {
	R := f.res
	if R&(R-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of two", ErrResolution, R)
	}
	d := dispatcherOrSerial(p.Dispatcher)
	n := rounds(R)
	for k := 0; k < n; k++ {
		step := stepSize(R, k)
		if err := propagateRound(d, f, seeds, step); err != nil {
			return err
		}
		f.Swap()
		Logger().Debug("jfa round", "round", k, "step", step)
	}
	return nil
}

// StepSchedule returns the stride of every round for a grid of side res:
// res/2, res/4, ... 1. It is empty for res < 2.
func StepSchedule(res int) []int {
	steps := make([]int, rounds(res))
	for k := range steps {
		steps[k] = stepSize(res, k)
	}
	return steps
}

var errOwnerRange = errors.New("jfa: voxel owner outside seed slice")

// propagateRound reads f.ReadBuffer and writes every voxel of f.WriteBuffer.
func propagateRound(d Dispatcher, f *Field, seeds []Seed, step int) error {
	R := f.res
	src, dst := f.ReadBuffer(), f.WriteBuffer()
	nseeds := int32(len(seeds))
	var bad atomic.Bool
	d.Range(len(src), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			v := f.Coord(i)
			p := v.ToV3()
			best := src[i]
			bestD := float32(math.Inf(1))
			if best != Unassigned {
				if uint32(best) >= uint32(nseeds) {
					bad.Store(true)
					dst[i] = best
					continue
				}
				bestD = dist2(p, seeds[best])
			}
			for dz := -step; dz <= step; dz += step {
				z := v[2] + dz
				if uint(z) >= uint(R) {
					continue
				}
				for dy := -step; dy <= step; dy += step {
					y := v[1] + dy
					if uint(y) >= uint(R) {
						continue
					}
					for dx := -step; dx <= step; dx += step {
						x := v[0] + dx
						if uint(x) >= uint(R) || (dx == 0 && dy == 0 && dz == 0) {
							continue
						}
						cand := src[x+R*(y+R*z)]
						if cand == Unassigned || cand == best {
							continue
						}
						if uint32(cand) >= uint32(nseeds) {
							bad.Store(true)
							continue
						}
						cd := dist2(p, seeds[cand])
						if cd < bestD || (cd == bestD && cand < best) {
							best, bestD = cand, cd
						}
					}
				}
			}
			dst[i] = best
		}
	})
	if bad.Load() {
		return errOwnerRange
	}
	return nil
}

func dist2(p ms3.Vec, s Seed) float32 {
	dx := p.X - s.Location.X
	dy := p.Y - s.Location.Y
	dz := p.Z - s.Location.Z
	return dx*dx + dy*dy + dz*dz
}
