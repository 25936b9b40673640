package d3

import "github.com/soypat/glgl/math/ms3"

// Box is a 3d bounding box.
type Box struct {
	Min, Max ms3.Vec
}

// Empty returns a box that any Include call will replace.
func Empty() Box {
	const big = 3.4e38
	return Box{Min: Elem(big), Max: Elem(-big)}
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v ms3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() ms3.Vec {
	return ms3.Sub(a.Max, a.Min)
}
