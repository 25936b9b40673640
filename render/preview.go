package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/jfa/internal/d3"
)

// View configures a shaded preview render.
type View struct {
	Eye, Center, Up ms3.Vec
	Near, Far       float64
	// Width and Height of the output image in pixels.
	Width, Height int
	// Supersample renders at a multiple of the output size and
	// downsamples for antialiasing.
	Supersample int
	Color       string // object color as hex, e.g. "#468966"
	Background  string
}

// DefaultView looks at the origin from the +X+Y+Z octant.
func DefaultView() View {
	return View{
		Eye:         ms3.Vec{X: 3, Y: 2, Z: 3},
		Up:          ms3.Vec{Y: 1},
		Near:        1,
		Far:         20,
		Width:       640,
		Height:      480,
		Supersample: 2,
		Color:       "#468966",
		Background:  "#FFF8E3",
	}
}

// Preview draws model with a phong shader after fitting it into a bi-unit
// cube centered at the origin.
func Preview(model []ms3.Triangle, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	} else if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("invalid preview size")
	}
	// A model collapsed to a point cannot be fitted to the bi-unit cube.
	bb := d3.Empty()
	for _, t := range model {
		bb = bb.Include(t[0]).Include(t[1]).Include(t[2])
	}
	if d3.Max(bb.Size()) == 0 {
		return nil, errors.New("model has zero extent")
	}
	const fovy = 30 // vertical field of view in degrees
	scale := view.Supersample
	if scale < 1 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(fauxVec(t[0]), fauxVec(t[1]), fauxVec(t[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	var (
		eye    = fauxVec(view.Eye)
		center = fauxVec(view.Center)
		up     = fauxVec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PreviewPNG renders model with [Preview] and saves it as a PNG at path.
func PreviewPNG(path string, model []ms3.Triangle, view View) error {
	img, err := Preview(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxVec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}
