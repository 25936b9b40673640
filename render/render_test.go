package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/fogleman/fauxgl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/jfa"
	"github.com/soypat/jfa/render"
	"gonum.org/v1/plot/cmpimg"
)

func voronoi(t testing.TB, res int, seeds []jfa.Seed) *jfa.Result {
	t.Helper()
	p, err := jfa.NewPipeline(jfa.Config{
		Resolution:       res,
		Seeds:            len(seeds),
		FaceCapacity:     6 * res * res * res,
		TriangleCapacity: 4 * res * res * res,
		Relaxed:          true,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)
	result, err := p.Run(seeds)
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func cornerSeeds(res int) []jfa.Seed {
	m := float32(res - 1)
	return []jfa.Seed{
		{Location: ms3.Vec{}, Color: ms3.Vec{X: 1}},
		{Location: ms3.Vec{X: m}, Color: ms3.Vec{Y: 1}},
		{Location: ms3.Vec{Y: m}, Color: ms3.Vec{Z: 1}},
		{Location: ms3.Vec{Z: m}, Color: ms3.Vec{X: 1, Y: 1}},
	}
}

func TestSTLCreateWriteRead(t *testing.T) {
	const res = 8
	result := voronoi(t, res, cornerSeeds(res))
	cfg := render.FaceConfig{Placement: render.Placement{Resolution: res}}
	path := filepath.Join(t.TempDir(), "faces.stl")
	nt, err := render.CreateSTL(path, render.NewFaceRenderer(result.Faces, res, cfg))
	if err != nil {
		t.Fatal(err)
	}
	if nt != 2*len(result.Faces) {
		t.Fatalf("got %d triangles written. want %d", nt, 2*len(result.Faces))
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, cfg))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	_, err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}

	got, err := render.ReadSTL(bytes.NewReader(bfile))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Fatalf("got %d triangles read. want %d", len(got), len(model))
	}
	for i := range got {
		if got[i] != model[i] {
			t.Fatalf("triangle %d: got %v. want %v", i, got[i], model[i])
		}
	}

	mesh, err := fauxgl.LoadSTL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.Triangles) != len(model) {
		t.Errorf("fauxgl read %d triangles. want %d", len(mesh.Triangles), len(model))
	}
}

func TestReadSTLErrors(t *testing.T) {
	_, err := render.ReadSTL(bytes.NewReader(make([]byte, 10)))
	if err == nil {
		t.Error("expected error for truncated header")
	}
	_, err = render.ReadSTL(bytes.NewReader(make([]byte, 84)))
	if err == nil {
		t.Error("expected error for zero triangle count")
	}
	_, err = render.WriteSTL(io.Discard, nil)
	if err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestFaceRendererThicken(t *testing.T) {
	const res, thick = 8, 0.2
	result := voronoi(t, res, cornerSeeds(res))
	model, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, render.FaceConfig{Thickness: thick}))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != 12*len(result.Faces) {
		t.Fatalf("got %d triangles. want %d", len(model), 12*len(result.Faces))
	}
	for i, fc := range result.Faces {
		center := fc.Center()
		for j, tri := range model[12*i : 12*i+12] {
			c := ms3.Scale(1.0/3, ms3.Add(ms3.Add(tri[0], tri[1]), tri[2]))
			if ms3.Dot(tri.Normal(), ms3.Sub(c, center)) <= 0 {
				t.Fatalf("face %d triangle %d points inward", i, j)
			}
		}
	}
	// Small reads must produce the same stream.
	r := render.NewFaceRenderer(result.Faces, res, render.FaceConfig{Thickness: thick})
	var chunked []ms3.Triangle
	buf := make([]ms3.Triangle, 5)
	for {
		n, err := r.ReadTriangles(buf)
		chunked = append(chunked, buf[:n]...)
		if err == io.EOF {
			break
		} else if err != nil {
			t.Fatal(err)
		}
	}
	if len(chunked) != len(model) {
		t.Fatalf("chunked read got %d triangles. want %d", len(chunked), len(model))
	}
	for i := range chunked {
		if chunked[i] != model[i] {
			t.Fatalf("chunked triangle %d mismatch", i)
		}
	}
}

func TestThickenClosed(t *testing.T) {
	quad := [4]ms3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	tris := render.Thicken(quad, ms3.Vec{Z: 1}, 0.5)
	// A closed outward-facing surface has zero vector area.
	var sum ms3.Vec
	for _, tri := range tris {
		sum = ms3.Add(sum, tri.Normal())
	}
	if ms3.Norm(sum) > 1e-5 {
		t.Errorf("got net vector area %v. want 0", sum)
	}
	top := tris[0].Normal()
	if top.Z <= 0 {
		t.Errorf("top normal %v does not face +Z", top)
	}
}

func TestPlacement(t *testing.T) {
	const res = 8
	p := render.Placement{Resolution: res}
	lo := p.Apply(ms3.Vec{X: -0.5, Y: -0.5, Z: -0.5})
	hi := p.Apply(ms3.Vec{X: res - 0.5, Y: res - 0.5, Z: res - 0.5})
	if lo != (ms3.Vec{X: -0.5, Y: -0.5, Z: -0.5}) || hi != (ms3.Vec{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("got grid corners %v %v. want ±0.5", lo, hi)
	}
	p.Scale = 2
	if got := p.Apply(ms3.Vec{X: res - 0.5}); got.X != 1 {
		t.Errorf("got scaled x %v. want 1", got.X)
	}
	p.Animate = true
	p.Time = math.Pi / 2
	v := ms3.Vec{X: 3, Y: 5, Z: 1}
	got := p.Apply(v)
	want := render.Placement{Resolution: res, Scale: 2}.Apply(v)
	if math32.Abs(got.Y-want.Y) > 1e-6 || math32.Abs(ms3.Norm(got)-ms3.Norm(want)) > 1e-5 {
		t.Errorf("rotation about Y changed Y or length: got %v from %v", got, want)
	}
	if math32.Abs(got.X-want.Z) > 1e-5 || math32.Abs(got.Z+want.X) > 1e-5 {
		t.Errorf("got quarter turn %v. want (%v, %v, %v)", got, want.Z, want.Y, -want.X)
	}
}

func TestSlab(t *testing.T) {
	const res = 8
	result := voronoi(t, res, cornerSeeds(res))
	all, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, render.FaceConfig{}))
	if err != nil {
		t.Fatal(err)
	}
	full, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, render.FaceConfig{Slab: render.FullSlab(0)}))
	if err != nil {
		t.Fatal(err)
	}
	if len(full) != len(all) {
		t.Errorf("full slab kept %d triangles. want %d", len(full), len(all))
	}
	slab := render.Slab{Axis: 0, Min: -0.5, Max: 0}
	half, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, render.FaceConfig{Slab: slab}))
	if err != nil {
		t.Fatal(err)
	}
	if len(half) == 0 || len(half) >= len(all) {
		t.Fatalf("half slab kept %d of %d triangles", len(half), len(all))
	}
	for _, fc := range result.Faces {
		if !slab.Contains(res, fc.Center()) {
			continue
		}
		if c := fc.Center(); (c.X+0.5)/res-0.5 > 0 {
			t.Fatalf("face at %v reported inside slab", c)
		}
	}
}

func TestDualRenderer(t *testing.T) {
	const res = 8
	seeds := cornerSeeds(res)
	result := voronoi(t, res, seeds)
	unique := jfa.UniqueTriangles(result.Triangles)
	model, err := render.RenderAll(render.NewDualRenderer(unique, seeds, res, render.DualConfig{}))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) != len(unique) {
		t.Fatalf("got %d dual triangles. want %d", len(model), len(unique))
	}
	// Coincident seeds yield a zero-area triangle.
	flat := []jfa.Seed{{}, {}, {Location: ms3.Vec{X: 1}}}
	tris := []jfa.DualTriangle{{Seeds: [3]int32{0, 1, 2}}}
	model, _ = render.RenderAll(render.NewDualRenderer(tris, flat, res, render.DualConfig{}))
	if len(model) != 0 {
		t.Errorf("degenerate triangle not discarded")
	}
	model, _ = render.RenderAll(render.NewDualRenderer(tris, flat, res, render.DualConfig{KeepDegenerate: true}))
	if len(model) != 1 {
		t.Errorf("degenerate triangle discarded with KeepDegenerate")
	}
}

func TestSliceImage(t *testing.T) {
	const res = 8
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	seeds := []jfa.Seed{
		{Location: ms3.Vec{X: 0, Y: 4, Z: 4}, Color: ms3.Vec{X: 1}},
		{Location: ms3.Vec{X: 7, Y: 4, Z: 4}, Color: ms3.Vec{Z: 1}},
	}
	result := voronoi(t, res, seeds)
	// Slicing perpendicular to Z puts X along image columns.
	img, err := render.SliceImage(result.Field, seeds, 2, render.SliceLayer(res, 0))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, res, res) {
		t.Fatalf("got bounds %v", img.Bounds())
	}
	for y := 0; y < res; y++ {
		if got := img.RGBAAt(0, y); got != red {
			t.Errorf("pixel (0,%d): got %v. want %v", y, got, red)
		}
		if got := img.RGBAAt(res-1, y); got != blue {
			t.Errorf("pixel (%d,%d): got %v. want %v", res-1, y, got, blue)
		}
	}
	if _, err := render.SliceImage(result.Field, seeds, 3, 0); err == nil {
		t.Error("expected error for bad axis")
	}
	if _, err := render.SliceImage(result.Field, seeds, 0, res); err == nil {
		t.Error("expected error for bad layer")
	}
	if got := render.SliceLayer(res, 0.5); got != res-1 {
		t.Errorf("got top layer %d. want %d", got, res-1)
	}
	if got := render.SliceLayer(res, -0.5); got != 0 {
		t.Errorf("got bottom layer %d. want 0", got)
	}
}

func TestSavePNGCompare(t *testing.T) {
	const res = 16
	dir := t.TempDir()
	seeds := []jfa.Seed{
		{Location: ms3.Vec{X: 2, Y: 3, Z: 8}, Color: ms3.Vec{X: 1, Y: 0.5}},
		{Location: ms3.Vec{X: 12, Y: 9, Z: 8}, Color: ms3.Vec{Y: 0.8, Z: 1}},
		{Location: ms3.Vec{X: 4, Y: 13, Z: 8}, Color: ms3.Vec{X: 0.3, Z: 0.3}},
	}
	result := voronoi(t, res, seeds)
	save := func(name string, layer int) []byte {
		img, err := render.SliceImage(result.Field, seeds, 0, layer)
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, name)
		if err := render.SavePNG(path, img, 4); err != nil {
			t.Fatal(err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		return b
	}
	a := save("a.png", 1)
	b := save("b.png", 1)
	ok, err := cmpimg.EqualApprox("png", a, b, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("same slice rendered twice differs")
	}
	other := save("c.png", 15)
	ok, err = cmpimg.EqualApprox("png", a, other, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("slices through different layers compared equal")
	}
	img, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Dx(); got != 4*res {
		t.Errorf("got upscaled width %d. want %d", got, 4*res)
	}
}

func TestPreviewPNG(t *testing.T) {
	const res = 8
	result := voronoi(t, res, cornerSeeds(res))
	model, err := render.RenderAll(render.NewFaceRenderer(result.Faces, res, render.FaceConfig{
		Placement: render.Placement{Resolution: res},
	}))
	if err != nil {
		t.Fatal(err)
	}
	view := render.DefaultView()
	view.Width, view.Height = 64, 48
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := render.PreviewPNG(path, model, view); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 48 {
		t.Fatalf("got preview size %v", img.Bounds())
	}
	bg := color.RGBA{R: 0xFF, G: 0xF8, B: 0xE3, A: 0xFF} // DefaultView background
	br, bgc, bb, _ := bg.RGBA()
	drawn := 0
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != br || g != bgc || b != bb {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("preview contains only background")
	}
	if err := render.PreviewPNG(path, nil, view); err == nil {
		t.Error("expected error previewing empty model")
	}
}
