package jfa

import (
	"sort"

	"github.com/soypat/glgl/math/ms3"
)

// DualTriangle is a triangle of the dual graph: three distinct seeds whose
// cells pairwise share at least one voxel face. Seeds are stored in
// ascending order.
type DualTriangle struct {
	Seeds [3]int32
}

// Triangle returns the triangle with vertices at the seed locations,
// multiplied by scale.
func (t DualTriangle) Triangle(seeds []Seed, scale float32) ms3.Triangle {
	var tri ms3.Triangle
	for i, s := range t.Seeds {
		tri[i] = ms3.Scale(scale, seeds[s].Location)
	}
	return tri
}

// DualVertices flattens dual triangles into a vertex list at seed locations.
func DualVertices(tris []DualTriangle, seeds []Seed, scale float32) []ms3.Vec {
	verts := make([]ms3.Vec, 0, 3*len(tris))
	for _, t := range tris {
		tri := t.Triangle(seeds, scale)
		verts = append(verts, tri[:]...)
	}
	return verts
}

// UniqueTriangles returns the distinct triangles of tris in ascending order.
// The extractor emits one triangle per 2×2×2 voxel block so triangles along
// a long triple junction repeat.
func UniqueTriangles(tris []DualTriangle) []DualTriangle {
	out := append([]DualTriangle(nil), tris...)
	sort.Slice(out, func(i, j int) bool { return lessSeeds(out[i].Seeds, out[j].Seeds) })
	n := 0
	for i := range out {
		if i == 0 || out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}

func lessSeeds(a, b [3]int32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// blockCorners are the eight voxels of a 2×2×2 block relative to its
// lowest corner, indexed by bit pattern zyx.
var blockCorners = [8]V3i{
	{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
}

// blockEdges are the twelve face-adjacent corner pairs of a block.
var blockEdges = [12][2]uint8{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // z
}

// ExtractDual scans every 2×2×2 block of the readable buffer whose lowest
// corner is a voxel. Within a block it records which distinct owners touch
// across a voxel face and appends a DualTriangle for every triple of owners
// that touch pairwise. Unassigned voxels are ignored. Triangles beyond the
// list's capacity are dropped.
func ExtractDual(d Dispatcher, f *Field, tris *AppendList[DualTriangle]) {
	d = dispatcherOrSerial(d)
	R := f.res
	owners := f.ReadBuffer()
	tris.Begin()
	d.Range(len(owners), func(lo, hi int) {
		var (
			corner   [8]int32
			distinct [8]int32
			adj      [8][8]bool
		)
		for i := lo; i < hi; i++ {
			v := f.Coord(i)
			if v[0]+1 >= R || v[1]+1 >= R || v[2]+1 >= R {
				continue
			}
			first := owners[i]
			uniform := true
			for c := range blockCorners {
				corner[c] = owners[f.Index(v.Add(blockCorners[c]))]
				uniform = uniform && corner[c] == first
			}
			if uniform {
				continue
			}
			// Collect distinct assigned owners in ascending order.
			nd := 0
			for _, o := range corner {
				if o == Unassigned || containsOwner(distinct[:nd], o) {
					continue
				}
				j := nd
				for j > 0 && distinct[j-1] > o {
					distinct[j] = distinct[j-1]
					j--
				}
				distinct[j] = o
				nd++
			}
			if nd < 3 {
				continue
			}
			adj = [8][8]bool{}
			for _, e := range blockEdges {
				a, b := corner[e[0]], corner[e[1]]
				if a == b || a == Unassigned || b == Unassigned {
					continue
				}
				ia, ib := ownerPos(distinct[:nd], a), ownerPos(distinct[:nd], b)
				adj[ia][ib] = true
				adj[ib][ia] = true
			}
			for a := 0; a < nd; a++ {
				for b := a + 1; b < nd; b++ {
					if !adj[a][b] {
						continue
					}
					for c := b + 1; c < nd; c++ {
						if adj[a][c] && adj[b][c] {
							tris.Append(DualTriangle{Seeds: [3]int32{distinct[a], distinct[b], distinct[c]}})
						}
					}
				}
			}
		}
	})
	tris.Finish()
	logPass("dual pass", tris.Count(), tris.Dropped())
}

func containsOwner(s []int32, o int32) bool {
	return ownerPos(s, o) >= 0
}

func ownerPos(s []int32, o int32) int {
	for i, v := range s {
		if v == o {
			return i
		}
	}
	return -1
}
