package jfa

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// AuditReport compares a converged field against exact nearest seeds.
type AuditReport struct {
	Voxels     int
	Unassigned int
	// Mismatched voxels are owned by a seed farther than the nearest seed.
	Mismatched int
	// LocalViolations counts voxels owned by a seed farther than a seed
	// located in the voxel itself or one of its 26 neighbours.
	LocalViolations int
	// Excess distance (owner distance minus exact nearest distance) over
	// mismatched voxels, in voxel units.
	MaxExcess, MeanExcess, StdExcess float64
}

// Accuracy returns the fraction of voxels owned by an exact nearest seed.
func (r AuditReport) Accuracy() float64 {
	if r.Voxels == 0 {
		return 1
	}
	return 1 - float64(r.Mismatched+r.Unassigned)/float64(r.Voxels)
}

// Audit measures the field's readable buffer against a kd-tree of seeds.
func Audit(d Dispatcher, f *Field, seeds []Seed) AuditReport {
	d = dispatcherOrSerial(d)
	owners := f.ReadBuffer()
	report := AuditReport{Voxels: len(owners)}
	if len(seeds) == 0 {
		report.Unassigned = f.Len() - f.Assigned()
		return report
	}
	pts := make(seedPoints, len(seeds))
	seedsAt := make(map[int][]int32)
	for i, s := range seeds {
		pts[i] = seedPoint{
			Vec: r3.Vec{X: float64(s.Location.X), Y: float64(s.Location.Y), Z: float64(s.Location.Z)},
			idx: int32(i),
		}
		vi := f.Index(s.Voxel())
		seedsAt[vi] = append(seedsAt[vi], int32(i))
	}
	tree := kdtree.New(pts, false)
	R := f.res

	var mu sync.Mutex
	var excess []float64
	d.Range(len(owners), func(lo, hi int) {
		var local AuditReport
		var localExcess []float64
		for i := lo; i < hi; i++ {
			owner := owners[i]
			if owner == Unassigned {
				local.Unassigned++
				continue
			}
			v := f.Coord(i)
			p := v.ToV3()
			ownD := float64(dist2(p, seeds[owner]))
			q := seedPoint{Vec: r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}, idx: -1}
			_, nearD := tree.Nearest(q)
			if ownD > nearD {
				local.Mismatched++
				ex := math.Sqrt(ownD) - math.Sqrt(nearD)
				localExcess = append(localExcess, ex)
				local.MaxExcess = math.Max(local.MaxExcess, ex)
			}
			for dz := -1; dz <= 1; dz++ {
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						n := v.Add(V3i{dx, dy, dz})
						if !n.InGrid(R) {
							continue
						}
						for _, s := range seedsAt[f.Index(n)] {
							if float64(dist2(p, seeds[s])) < ownD {
								local.LocalViolations++
							}
						}
					}
				}
			}
		}
		mu.Lock()
		report.Unassigned += local.Unassigned
		report.Mismatched += local.Mismatched
		report.LocalViolations += local.LocalViolations
		report.MaxExcess = math.Max(report.MaxExcess, local.MaxExcess)
		excess = append(excess, localExcess...)
		mu.Unlock()
	})
	if len(excess) > 0 {
		report.MeanExcess, report.StdExcess = stat.MeanStdDev(excess, nil)
	}
	return report
}

type seedPoint struct {
	r3.Vec
	idx int32
}

func (p seedPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(seedPoint)
	switch d {
	case 0:
		return p.X - q.X
	case 1:
		return p.Y - q.Y
	case 2:
		return p.Z - q.Z
	}
	panic("unreachable")
}

func (p seedPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance.
func (p seedPoint) Distance(c kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(p.Vec, c.(seedPoint).Vec))
}

type seedPoints []seedPoint

func (s seedPoints) Index(i int) kdtree.Comparable { return s[i] }
func (s seedPoints) Len() int                      { return len(s) }
func (s seedPoints) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

func (s seedPoints) Pivot(d kdtree.Dim) int {
	p := seedPlane{dim: d, points: s}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

type seedPlane struct {
	dim    kdtree.Dim
	points seedPoints
}

func (p seedPlane) Less(i, j int) bool {
	return p.points[i].Compare(p.points[j], p.dim) < 0
}
func (p seedPlane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p seedPlane) Len() int      { return len(p.points) }
func (p seedPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
