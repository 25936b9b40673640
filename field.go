package jfa

import (
	"sort"
	"sync/atomic"
)

// Unassigned is the owner of a voxel no seed has reached.
const Unassigned int32 = -1

// Dispatcher runs fn over contiguous chunks of [0,n) and returns once every
// chunk is done. Chunks may run concurrently in any order. A nil Dispatcher
// runs everything on the calling goroutine.
type Dispatcher interface {
	Range(n int, fn func(lo, hi int))
}

type serial struct{}

func (serial) Range(n int, fn func(lo, hi int)) {
	if n > 0 {
		fn(0, n)
	}
}

func dispatcherOrSerial(d Dispatcher) Dispatcher {
	if d == nil {
		return serial{}
	}
	return d
}

// Field is a double buffered R×R×R grid of voxel owners. Exactly one buffer
// is readable at a time; propagation writes the other and then swaps.
// Voxel (x,y,z) is stored at index x + R*(y + R*z).
type Field struct {
	res int
	buf [2][]int32
	cur int
}

// NewField allocates a field of side res with every voxel unassigned.
func NewField(res int) *Field {
	if res <= 0 {
		panic("NewField: non-positive resolution")
	}
	n := cube(res)
	f := &Field{res: res}
	f.buf[0] = make([]int32, n)
	f.buf[1] = make([]int32, n)
	f.Reset(nil)
	return f
}

// Resolution returns the grid side R.
func (f *Field) Resolution() int { return f.res }

// Len returns the number of voxels, R³.
func (f *Field) Len() int { return len(f.buf[0]) }

// Index returns the buffer index of voxel v. v must be inside the grid.
func (f *Field) Index(v V3i) int { return v[0] + f.res*(v[1]+f.res*v[2]) }

// Coord is the inverse of Index.
func (f *Field) Coord(i int) V3i {
	r := f.res
	return V3i{i % r, (i / r) % r, i / (r * r)}
}

// Owner returns the owner of voxel v in the readable buffer, or
// Unassigned if v lies outside the grid.
func (f *Field) Owner(v V3i) int32 {
	if !v.InGrid(f.res) {
		return Unassigned
	}
	return f.buf[f.cur][f.Index(v)]
}

// Owners returns the readable buffer. Callers must not modify it.
func (f *Field) Owners() []int32 { return f.buf[f.cur] }

// ReadBuffer and WriteBuffer return the buffers of the current propagation
// round. Only a Propagator should write to WriteBuffer, and it must call
// Swap once the round's writes are complete.
func (f *Field) ReadBuffer() []int32  { return f.buf[f.cur] }
func (f *Field) WriteBuffer() []int32 { return f.buf[1-f.cur] }

// Swap makes the last written buffer readable.
func (f *Field) Swap() { f.cur = 1 - f.cur }

// Snapshot returns a copy of the readable buffer.
func (f *Field) Snapshot() []int32 {
	return append([]int32(nil), f.buf[f.cur]...)
}

// Assigned counts voxels with an owner.
func (f *Field) Assigned() int {
	n := 0
	for _, o := range f.buf[f.cur] {
		if o != Unassigned {
			n++
		}
	}
	return n
}

// Reset marks every voxel of both buffers unassigned.
func (f *Field) Reset(d Dispatcher) {
	d = dispatcherOrSerial(d)
	a, b := f.buf[0], f.buf[1]
	d.Range(len(a), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			a[i] = Unassigned
			b[i] = Unassigned
		}
	})
	f.cur = 0
}

// Init resets the field and marks each seed's voxel with the seed's index.
// It dispatches one task per seed. When several seeds share a voxel the one
// later in the slice wins, the same result a sequential loop would give;
// earlier seeds at that voxel end up with an empty cell.
func (f *Field) Init(d Dispatcher, seeds []Seed) error {
	if err := validateSeeds(seeds, f.res); err != nil {
		return err
	}
	d = dispatcherOrSerial(d)
	f.Reset(d)
	owners := f.buf[f.cur]
	d.Range(len(seeds), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			slot := &owners[f.Index(seeds[i].Voxel())]
			for {
				old := atomic.LoadInt32(slot)
				if old >= int32(i) || atomic.CompareAndSwapInt32(slot, old, int32(i)) {
					break
				}
			}
		}
	})
	return nil
}

// Adjacency returns the sorted, deduplicated seed pairs whose voxels share
// a face somewhere in the readable buffer. Pairs are ordered lower index first.
func (f *Field) Adjacency() [][2]int32 {
	owners := f.buf[f.cur]
	seen := make(map[[2]int32]struct{})
	r := f.res
	for i, a := range owners {
		if a == Unassigned {
			continue
		}
		v := f.Coord(i)
		for axis := 0; axis < 3; axis++ {
			if v[axis]+1 >= r {
				continue
			}
			var step V3i
			step[axis] = 1
			b := owners[f.Index(v.Add(step))]
			if b == Unassigned || b == a {
				continue
			}
			seen[orderedPair(a, b)] = struct{}{}
		}
	}
	pairs := make([][2]int32, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

func orderedPair(a, b int32) [2]int32 {
	if a > b {
		a, b = b, a
	}
	return [2]int32{a, b}
}
