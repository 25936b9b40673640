package render

import (
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/jfa/internal/d3"
)

// Placement maps grid coordinates into a display frame: the grid cube is
// centered at the origin with unit side, multiplied by Scale and, when
// Animate is set, rotated about +Y by Time radians.
type Placement struct {
	// Resolution is the grid side length. Zero leaves vertices in grid coordinates.
	Resolution int
	// Scale multiplies the normalized position. Zero means 1.
	Scale   float32
	Animate bool
	Time    float32
}

// Apply transforms a grid coordinate v.
func (p Placement) Apply(v ms3.Vec) ms3.Vec {
	if p.Resolution > 0 {
		v = p.Normalize(v)
	}
	if p.Scale != 0 && p.Scale != 1 {
		v = ms3.Scale(p.Scale, v)
	}
	if p.Animate {
		v = d3.RotateY(v, p.Time)
	}
	return v
}

// Normalize maps grid coordinate v into [-0.5,0.5]³. Voxel i spans
// [i-0.5, i+0.5] so the whole grid maps to the unit cube.
func (p Placement) Normalize(v ms3.Vec) ms3.Vec {
	if p.Resolution <= 0 {
		return v
	}
	inv := 1 / float32(p.Resolution)
	return ms3.Sub(ms3.Scale(inv, ms3.Add(v, d3.Elem(0.5))), d3.Elem(0.5))
}

// ApplyTriangle transforms the vertices of t.
func (p Placement) ApplyTriangle(t ms3.Triangle) ms3.Triangle {
	return ms3.Triangle{p.Apply(t[0]), p.Apply(t[1]), p.Apply(t[2])}
}

// Slab keeps geometry whose normalized position along Axis lies in
// [Min, Max]. Positions are in the [-0.5,0.5] frame of [Placement.Normalize].
// The zero Slab keeps everything.
type Slab struct {
	Axis     int
	Min, Max float32
}

// Enabled reports whether s filters anything.
func (s Slab) Enabled() bool { return s.Min != 0 || s.Max != 0 }

// Contains reports whether grid coordinate v of a grid with side res lies within the slab.
func (s Slab) Contains(res int, v ms3.Vec) bool {
	if !s.Enabled() {
		return true
	}
	c := d3.Component(Placement{Resolution: res}.Normalize(v), s.Axis)
	return s.Min <= c && c <= s.Max
}

// FullSlab returns the slab spanning the whole grid along axis.
func FullSlab(axis int) Slab {
	return Slab{Axis: axis, Min: -0.5, Max: 0.5}
}
