package jfa

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	// MinResolution and MaxResolution bound the grid side R.
	MinResolution = 32
	MaxResolution = 128
	// MinSeeds and MaxSeeds bound the seed count N.
	MinSeeds = 4
	MaxSeeds = 10000
	// CapacityPerSeed is the default number of primitives reserved per seed
	// in each extractor's output list.
	CapacityPerSeed = 2048

	relaxedMaxResolution = 1024
)

var (
	ErrResolution = errors.New("jfa: bad grid resolution")
	ErrSeedCount  = errors.New("jfa: bad seed count")
	ErrSeedBounds = errors.New("jfa: seed outside grid")
	ErrCapacity   = errors.New("jfa: bad output capacity")
	ErrScale      = errors.New("jfa: bad scale factor")
)

// Config holds the immutable run parameters of a [Pipeline].
type Config struct {
	// Resolution is the grid side R. Must be a power of two.
	Resolution int
	// Seeds is the seed count N.
	Seeds int
	// Scale multiplies emitted boundary geometry. Zero means 1.
	Scale float32
	// FaceCapacity is the number of boundary faces reserved. Zero selects
	// Seeds*CapacityPerSeed clamped to 6R³, the most faces a field can have.
	FaceCapacity int
	// TriangleCapacity is the number of dual triangles reserved. Zero selects
	// Seeds*CapacityPerSeed clamped to 4R³.
	TriangleCapacity int
	// Workers is the number of dispatch goroutines. Zero means GOMAXPROCS.
	Workers int
	// Relaxed accepts any power of two R in [2,1024] and any N ≥ 1.
	Relaxed bool
}

// DefaultConfig returns a configuration with R=64 and N=256.
func DefaultConfig() Config {
	return Config{Resolution: 64, Seeds: 256, Scale: 1}
}

// Validate checks the configuration preconditions. It must pass before
// any dispatch begins.
func (c Config) Validate() error {
	R := c.Resolution
	minR, maxR, minN, maxN := MinResolution, MaxResolution, MinSeeds, MaxSeeds
	if c.Relaxed {
		minR, maxR, minN, maxN = 2, relaxedMaxResolution, 1, 1<<31-1
	}
	switch {
	case R <= 0 || R&(R-1) != 0:
		return fmt.Errorf("%w: %d is not a power of two", ErrResolution, R)
	case R < minR || R > maxR:
		return fmt.Errorf("%w: %d outside [%d,%d]", ErrResolution, R, minR, maxR)
	case c.Seeds < minN || c.Seeds > maxN:
		return fmt.Errorf("%w: %d outside [%d,%d]", ErrSeedCount, c.Seeds, minN, maxN)
	case c.FaceCapacity < 0 || c.TriangleCapacity < 0:
		return fmt.Errorf("%w: face=%d triangle=%d", ErrCapacity, c.FaceCapacity, c.TriangleCapacity)
	case c.Scale < 0 || c.Scale != c.Scale:
		return fmt.Errorf("%w: %v", ErrScale, c.Scale)
	}
	return nil
}

// Rounds returns the number of propagation rounds, ceil(log2(R)).
func (c Config) Rounds() int { return rounds(c.Resolution) }

// Step returns the stride of round k, R/2^(k+1) but never below 1.
func (c Config) Step(k int) int { return stepSize(c.Resolution, k) }

func (c Config) scale() float32 {
	if c.Scale == 0 {
		return 1
	}
	return c.Scale
}

func (c Config) faceCapacity() int {
	if c.FaceCapacity > 0 {
		return c.FaceCapacity
	}
	return defaultCapacity(c.Seeds, 6*cube(c.Resolution))
}

func (c Config) triangleCapacity() int {
	if c.TriangleCapacity > 0 {
		return c.TriangleCapacity
	}
	return defaultCapacity(c.Seeds, 4*cube(c.Resolution))
}

func defaultCapacity(seeds, ceiling int) int {
	if seeds > ceiling/CapacityPerSeed {
		return ceiling
	}
	return seeds * CapacityPerSeed
}

func cube(r int) int { return r * r * r }

func rounds(res int) int {
	if res <= 1 {
		return 0
	}
	return bits.Len(uint(res - 1))
}

func stepSize(res, k int) int {
	s := res >> (k + 1)
	if s < 1 {
		return 1
	}
	return s
}
