package render

import (
	"io"

	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/jfa"
)

// FaceConfig controls how boundary faces are turned into triangles.
type FaceConfig struct {
	Placement Placement
	// Slab discards faces whose center lies outside it.
	Slab Slab
	// Thickness extrudes each face into a closed slab of the given
	// thickness in grid units. Zero emits the bare two-triangle quad.
	Thickness float32
}

type faceRenderer struct {
	faces []jfa.Face
	res   int
	cfg   FaceConfig
	// unwritten holds triangles of a face that did not fit in the last read.
	unwritten triangleBuffer
}

// NewFaceRenderer returns a Renderer over boundary faces of a field with
// side length res. Each face yields 2 triangles, or 12 when thickened.
func NewFaceRenderer(faces []jfa.Face, res int, cfg FaceConfig) Renderer {
	return &faceRenderer{faces: faces, res: res, cfg: cfg}
}

func (r *faceRenderer) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	if r.unwritten.Len() > 0 {
		n += r.unwritten.Read(dst)
	}
	var tmp [12]ms3.Triangle
	for n < len(dst) && len(r.faces) > 0 {
		fc := r.faces[0]
		r.faces = r.faces[1:]
		if !r.cfg.Slab.Contains(r.res, fc.Center()) {
			continue
		}
		tris := r.faceTriangles(fc, &tmp)
		nc := copy(dst[n:], tris)
		n += nc
		if nc < len(tris) {
			r.unwritten.Write(tris[nc:])
		}
	}
	if len(r.faces) == 0 && r.unwritten.Len() == 0 {
		err = io.EOF
	}
	return n, err
}

func (r *faceRenderer) faceTriangles(fc jfa.Face, tmp *[12]ms3.Triangle) []ms3.Triangle {
	q := fc.Quad(1)
	var tris []ms3.Triangle
	if r.cfg.Thickness > 0 {
		*tmp = Thicken(quadCorners(q), fc.Dir.Offset().ToV3(), r.cfg.Thickness)
		tris = tmp[:12]
	} else {
		tmp[0] = ms3.Triangle{q[0], q[1], q[2]}
		tmp[1] = ms3.Triangle{q[3], q[4], q[5]}
		tris = tmp[:2]
	}
	for i := range tris {
		tris[i] = r.cfg.Placement.ApplyTriangle(tris[i])
	}
	return tris
}

// DualConfig controls how dual triangles are rendered.
type DualConfig struct {
	Placement Placement
	// Slab discards triangles whose centroid lies outside it.
	Slab Slab
	// KeepDegenerate keeps zero-area triangles, which occur when
	// seeds share a location or lie on a line.
	KeepDegenerate bool
}

type dualRenderer struct {
	tris  []jfa.DualTriangle
	seeds []jfa.Seed
	res   int
	cfg   DualConfig
}

// NewDualRenderer returns a Renderer over dual triangles with vertices at the
// seed locations of a field with side length res.
func NewDualRenderer(tris []jfa.DualTriangle, seeds []jfa.Seed, res int, cfg DualConfig) Renderer {
	return &dualRenderer{tris: tris, seeds: seeds, res: res, cfg: cfg}
}

func (r *dualRenderer) ReadTriangles(dst []ms3.Triangle) (n int, err error) {
	for n < len(dst) && len(r.tris) > 0 {
		t := r.tris[0].Triangle(r.seeds, 1)
		r.tris = r.tris[1:]
		if !r.cfg.KeepDegenerate && zeroArea(t) {
			continue
		}
		if !r.cfg.Slab.Contains(r.res, centroid(t)) {
			continue
		}
		dst[n] = r.cfg.Placement.ApplyTriangle(t)
		n++
	}
	if len(r.tris) == 0 {
		err = io.EOF
	}
	return n, err
}

func centroid(t ms3.Triangle) ms3.Vec {
	return ms3.Scale(1.0/3, ms3.Add(ms3.Add(t[0], t[1]), t[2]))
}

func zeroArea(t ms3.Triangle) bool {
	const tol = 1e-6
	return ms3.Norm(t.Normal()) < tol
}
