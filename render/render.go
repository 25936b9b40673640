package render

import "github.com/soypat/glgl/math/ms3"

// Renderer streams triangles. ReadTriangles fills t and returns the number
// written. It returns io.EOF once the model is exhausted.
type Renderer interface {
	ReadTriangles(t []ms3.Triangle) (int, error)
}
