package render

import (
	"errors"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/jfa"
)

// SliceLayer returns the grid layer at normalized position pos in [-0.5,0.5]
// along an axis of a grid with side res, clamped to the grid.
func SliceLayer(res int, pos float32) int {
	l := int(math32.Floor((pos + 0.5) * float32(res)))
	if l < 0 {
		return 0
	} else if l >= res {
		return res - 1
	}
	return l
}

// SliceImage draws layer of the field perpendicular to axis as a res×res
// image colored by owner seed color. Pixel columns follow axis (axis+1)%3
// and rows follow (axis+2)%3 with the origin at the bottom left.
// Unassigned voxels are black.
func SliceImage(f *jfa.Field, seeds []jfa.Seed, axis, layer int) (*image.RGBA, error) {
	res := f.Resolution()
	if axis < 0 || axis > 2 {
		return nil, errors.New("slice axis must be 0, 1 or 2")
	} else if layer < 0 || layer >= res {
		return nil, errors.New("slice layer out of grid")
	}
	img := image.NewRGBA(image.Rect(0, 0, res, res))
	u, w := (axis+1)%3, (axis+2)%3
	for j := 0; j < res; j++ {
		for i := 0; i < res; i++ {
			var v jfa.V3i
			v[axis], v[u], v[w] = layer, i, j
			c := color.RGBA{A: 255}
			if o := f.Owner(v); o != jfa.Unassigned && int(o) < len(seeds) {
				c = seedColor(seeds[o])
			}
			img.SetRGBA(i, res-1-j, c)
		}
	}
	return img, nil
}

func seedColor(s jfa.Seed) color.RGBA {
	return color.RGBA{R: unitByte(s.Color.X), G: unitByte(s.Color.Y), B: unitByte(s.Color.Z), A: 255}
}

func unitByte(f float32) uint8 {
	return uint8(math32.Round(255 * math32.Max(0, math32.Min(1, f))))
}

// SavePNG upscales img by an integer factor with nearest neighbour sampling
// so voxel edges stay sharp and writes it to path.
func SavePNG(path string, img image.Image, factor int) error {
	if factor > 1 {
		b := img.Bounds()
		img = resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), img, resize.NearestNeighbor)
	}
	return fauxgl.SavePNG(path, img)
}
