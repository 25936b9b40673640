package jfa

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/soypat/glgl/math/ms3"
)

// Seed is a scattered point owning one Voronoi cell. A seed's identity is
// its index in the seed slice.
type Seed struct {
	// Location in grid coordinates, each component in [0, R).
	Location ms3.Vec
	// Color in [0,1] per channel. Only used for visualization.
	Color ms3.Vec
}

// Voxel returns the voxel the seed initializes, its truncated location.
func (s Seed) Voxel() V3i { return V3ToI(s.Location) }

// GenerateSeeds returns n seeds with integer locations drawn uniformly from
// [0,res) on each axis and colors drawn uniformly from [0,1) per channel.
// Seeds may share a location. A nil rng is replaced by a time seeded source.
func GenerateSeeds(n, res int, rng *rand.Rand) []Seed {
	if n < 0 || res <= 0 {
		panic("GenerateSeeds: negative count or non-positive resolution")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	seeds := make([]Seed, n)
	for i := range seeds {
		seeds[i] = Seed{
			Location: ms3.Vec{
				X: float32(rng.Intn(res)),
				Y: float32(rng.Intn(res)),
				Z: float32(rng.Intn(res)),
			},
			Color: ms3.Vec{X: rng.Float32(), Y: rng.Float32(), Z: rng.Float32()},
		}
	}
	return seeds
}

// validateSeeds checks every seed lies inside [0,res) on each axis.
func validateSeeds(seeds []Seed, res int) error {
	fres := float32(res)
	for i, s := range seeds {
		l := s.Location
		if !(l.X >= 0 && l.Y >= 0 && l.Z >= 0 && l.X < fres && l.Y < fres && l.Z < fres) {
			return fmt.Errorf("%w: seed %d at %v, resolution %d", ErrSeedBounds, i, l, res)
		}
	}
	return nil
}
