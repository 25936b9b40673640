/*

Integer 3D Vectors

*/

package jfa

import "github.com/soypat/glgl/math/ms3"

// V3i is a 3D integer vector. Voxel coordinates are V3i.
type V3i [3]int

// Add adds two vectors. Return v = a + b.
func (a V3i) Add(b V3i) V3i {
	return V3i{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub subtracts two vectors. Return v = a - b.
func (a V3i) Sub(b V3i) V3i {
	return V3i{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// ToV3 converts V3i (integer) to ms3.Vec (float).
func (a V3i) ToV3() ms3.Vec {
	return ms3.Vec{X: float32(a[0]), Y: float32(a[1]), Z: float32(a[2])}
}

// InGrid reports whether a lies inside a cubic grid of side res.
func (a V3i) InGrid(res int) bool {
	return uint(a[0]) < uint(res) && uint(a[1]) < uint(res) && uint(a[2]) < uint(res)
}

// V3ToI truncates a float vector to its integer voxel coordinate.
func V3ToI(a ms3.Vec) V3i {
	return V3i{int(a.X), int(a.Y), int(a.Z)}
}
