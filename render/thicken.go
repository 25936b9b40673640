package render

import "github.com/soypat/glgl/math/ms3"

// Thicken extrudes the planar quad (p0,p1,p2,p3), wound counter-clockwise
// about unit normal n, into a closed slab of the given thickness centered on
// the quad. The 12 triangles face outward.
func Thicken(quad [4]ms3.Vec, n ms3.Vec, thickness float32) [12]ms3.Triangle {
	h := ms3.Scale(thickness/2, n)
	var top, bot [4]ms3.Vec
	for i, p := range quad {
		top[i] = ms3.Add(p, h)
		bot[i] = ms3.Sub(p, h)
	}
	var out [12]ms3.Triangle
	out[0] = ms3.Triangle{top[0], top[1], top[2]}
	out[1] = ms3.Triangle{top[0], top[2], top[3]}
	out[2] = ms3.Triangle{bot[0], bot[2], bot[1]}
	out[3] = ms3.Triangle{bot[0], bot[3], bot[2]}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		out[4+2*i] = ms3.Triangle{bot[i], bot[j], top[j]}
		out[5+2*i] = ms3.Triangle{bot[i], top[j], top[i]}
	}
	return out
}

// quadCorners returns the four corners of a two-triangle quad as produced
// by jfa.Face.Quad.
func quadCorners(q [6]ms3.Vec) [4]ms3.Vec {
	return [4]ms3.Vec{q[0], q[1], q[2], q[5]}
}
