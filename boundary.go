package jfa

import "github.com/soypat/glgl/math/ms3"

// Direction is one of the six face neighbours of a voxel.
type Direction uint8

const (
	PosX Direction = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

var directionOffsets = [6]V3i{
	PosX: {1, 0, 0}, NegX: {-1, 0, 0},
	PosY: {0, 1, 0}, NegY: {0, -1, 0},
	PosZ: {0, 0, 1}, NegZ: {0, 0, -1},
}

// Offset returns the unit step towards the neighbour.
func (d Direction) Offset() V3i { return directionOffsets[d] }

// Axis returns 0, 1 or 2 for X, Y or Z.
func (d Direction) Axis() int { return int(d) / 2 }

// Positive reports whether the direction points along +axis.
func (d Direction) Positive() bool { return d%2 == 0 }

// Face is a boundary between voxel and its neighbour in direction Dir,
// emitted because their owners differ. Voxel centers sit on integer grid
// coordinates so the face lies half a voxel from Voxel along Dir.
type Face struct {
	Voxel    [3]uint16
	Dir      Direction
	Owner    int32 // owner of Voxel
	Neighbor int32 // owner of the voxel across the face
}

// VoxelCoord returns the emitting voxel coordinate.
func (fc Face) VoxelCoord() V3i {
	return V3i{int(fc.Voxel[0]), int(fc.Voxel[1]), int(fc.Voxel[2])}
}

// NeighborCoord returns the voxel across the face.
func (fc Face) NeighborCoord() V3i { return fc.VoxelCoord().Add(fc.Dir.Offset()) }

// Center returns the face center in grid coordinates.
func (fc Face) Center() ms3.Vec {
	return ms3.Add(fc.VoxelCoord().ToV3(), ms3.Scale(0.5, fc.Dir.Offset().ToV3()))
}

// Quad returns the two triangles (six vertices) of the unit square face,
// wound counter-clockwise about the outward normal of Voxel's cell and
// multiplied by scale.
func (fc Face) Quad(scale float32) [6]ms3.Vec {
	axis := fc.Dir.Axis()
	var u, w ms3.Vec
	setAxis(&u, (axis+1)%3, 0.5)
	setAxis(&w, (axis+2)%3, 0.5)
	c := fc.Center()
	p0 := ms3.Sub(ms3.Sub(c, u), w)
	p1 := ms3.Sub(ms3.Add(c, u), w)
	p2 := ms3.Add(ms3.Add(c, u), w)
	p3 := ms3.Add(ms3.Sub(c, u), w)
	if !fc.Dir.Positive() {
		p1, p3 = p3, p1
	}
	q := [6]ms3.Vec{p0, p1, p2, p0, p2, p3}
	if scale != 1 {
		for i := range q {
			q[i] = ms3.Scale(scale, q[i])
		}
	}
	return q
}

// Triangles returns Quad as two triangles.
func (fc Face) Triangles(scale float32) [2]ms3.Triangle {
	q := fc.Quad(scale)
	return [2]ms3.Triangle{{q[0], q[1], q[2]}, {q[3], q[4], q[5]}}
}

func setAxis(v *ms3.Vec, axis int, f float32) {
	switch axis {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	default:
		v.Z = f
	}
}

// FaceVertices flattens faces into a vertex list, six vertices per face.
func FaceVertices(faces []Face, scale float32) []ms3.Vec {
	verts := make([]ms3.Vec, 0, 6*len(faces))
	for _, fc := range faces {
		q := fc.Quad(scale)
		verts = append(verts, q[:]...)
	}
	return verts
}

// ExtractBoundaries scans every voxel of the readable buffer and appends a
// Face for each in-grid face neighbour with a different owner. A voxel
// contributes 0 to 6 faces, so each interior boundary is emitted once from
// either side with opposite orientation. Faces beyond the list's capacity
// are dropped.
func ExtractBoundaries(d Dispatcher, f *Field, faces *AppendList[Face]) {
	d = dispatcherOrSerial(d)
	R := f.res
	owners := f.ReadBuffer()
	faces.Begin()
	d.Range(len(owners), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			owner := owners[i]
			v := f.Coord(i)
			for dir := PosX; dir <= NegZ; dir++ {
				n := v.Add(dir.Offset())
				if !n.InGrid(R) {
					continue
				}
				other := owners[f.Index(n)]
				if other == owner {
					continue
				}
				faces.Append(Face{
					Voxel:    [3]uint16{uint16(v[0]), uint16(v[1]), uint16(v[2])},
					Dir:      dir,
					Owner:    owner,
					Neighbor: other,
				})
			}
		}
	})
	faces.Finish()
	logPass("boundary pass", faces.Count(), faces.Dropped())
}

func logPass(msg string, count, dropped int) {
	if dropped > 0 {
		Logger().Warn(msg+" overflowed", "emitted", count, "dropped", dropped)
		return
	}
	Logger().Debug(msg, "emitted", count)
}
