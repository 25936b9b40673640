package d3

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// float32 vector helpers missing from ms3 that the
// grid and export code share.

func Elem(side float32) ms3.Vec {
	return ms3.Vec{X: side, Y: side, Z: side}
}

func EqualWithin(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol &&
		math32.Abs(a.Y-b.Y) <= tol &&
		math32.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b ms3.Vec) ms3.Vec {
	return ms3.Vec{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)}
}

func Max(a ms3.Vec) float32 {
	return math32.Max(a.Z, math32.Max(a.X, a.Y))
}

// Component returns the axis'th component of a (0=X, 1=Y, 2=Z).
func Component(a ms3.Vec, axis int) float32 {
	switch axis {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	}
	panic("bad axis")
}

// RotateY rotates v about the +Y axis by angle radians.
func RotateY(v ms3.Vec, angle float32) ms3.Vec {
	s, c := math32.Sincos(angle)
	return ms3.Vec{
		X: c*v.X + s*v.Z,
		Y: v.Y,
		Z: -s*v.X + c*v.Z,
	}
}
