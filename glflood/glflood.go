// Package glflood runs jump flooding rounds as OpenGL compute shaders.
//
// A GL 4.3+ context must be current on the calling thread before
// [Propagator.Propagate] is called. See glgl.InitWithCurrentWindow33.
package glflood

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/gl/all-core/gl"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/jfa"
)

// MaxTextureSide is the largest texture side the propagator uploads. The
// field is stored as an R×R² texture so R may not exceed 128.
const MaxTextureSide = 16384

var _ jfa.Propagator = (*Propagator)(nil)

// Propagator is a [jfa.Propagator] that evaluates each round on the GPU.
// Owners travel as float32 texels, which is exact for any seed count
// below 2²⁴. Compiled programs are cached per grid, seed count and stride.
type Propagator struct {
	progs  map[programKey]glgl.Program
	owners []float32
	seeds  []ms3.Vec
}

type programKey struct {
	res, seeds, step int
}

// NewPropagator returns a GPU propagator with an empty program cache.
func NewPropagator() *Propagator {
	return &Propagator{progs: make(map[programKey]glgl.Program)}
}

// Propagate runs every round of the stride schedule, uploading the readable
// buffer, dispatching one invocation per voxel and reading the result back
// into the writable buffer before swapping.
func (p *Propagator) Propagate(f *jfa.Field, seeds []jfa.Seed) error {
	R := f.Resolution()
	if R&(R-1) != 0 {
		return fmt.Errorf("%w: %d is not a power of two", jfa.ErrResolution, R)
	} else if R*R > MaxTextureSide {
		return fmt.Errorf("%w: %d too large for GPU field texture", jfa.ErrResolution, R)
	} else if len(seeds) == 0 || len(seeds) > MaxTextureSide {
		return fmt.Errorf("%w: %d seeds do not fit in GPU seed texture", jfa.ErrSeedCount, len(seeds))
	}
	if p.progs == nil {
		p.progs = make(map[programKey]glgl.Program)
	}
	p.seeds = p.seeds[:0]
	for _, s := range seeds {
		p.seeds = append(p.seeds, s.Location)
	}
	for k, step := range jfa.StepSchedule(R) {
		if err := p.round(f, step); err != nil {
			return fmt.Errorf("gl round %d: %w", k, err)
		}
		f.Swap()
		jfa.Logger().Debug("gl jfa round", "round", k, "step", step)
	}
	return nil
}

func (p *Propagator) round(f *jfa.Field, step int) error {
	R := f.Resolution()
	prog, err := p.program(programKey{res: R, seeds: len(p.seeds), step: step})
	if err != nil {
		return err
	}
	prog.Bind()
	src := f.ReadBuffer()
	if cap(p.owners) < len(src) {
		p.owners = make([]float32, len(src))
	}
	p.owners = p.owners[:len(src)]
	for i, o := range src {
		p.owners[i] = float32(o)
	}
	inCfg := ownerTexture(R)
	inCfg.Access = glgl.ReadOnly
	inCfg.ImageUnit = 0
	_, err = glgl.NewTextureFromImage(inCfg, p.owners)
	if err != nil {
		return err
	}
	outCfg := ownerTexture(R)
	outCfg.Access = glgl.WriteOnly
	outCfg.ImageUnit = 1
	outTex, err := glgl.NewTextureFromImage(outCfg, p.owners)
	if err != nil {
		return err
	}
	seedCfg := glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          len(p.seeds),
		Height:         1,
		Access:         glgl.ReadOnly,
		Format:         gl.RGB,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.RGBA32F,
		ImageUnit:      2,
	}
	_, err = glgl.NewTextureFromImage(seedCfg, p.seeds)
	if err != nil {
		return err
	}
	err = prog.RunCompute(R, R*R, 1)
	if err != nil {
		return err
	}
	err = glgl.GetImage(p.owners, outTex, outCfg)
	if err != nil {
		return err
	}
	dst := f.WriteBuffer()
	nseeds := int32(len(p.seeds))
	for i, o := range p.owners {
		owner := int32(o)
		if owner < jfa.Unassigned || owner >= nseeds {
			return errors.New("GPU produced owner outside seed range")
		}
		dst[i] = owner
	}
	return nil
}

// ownerTexture lays a field of side R out as R columns by R² rows, so that
// texel (x, y+R*z) holds voxel (x,y,z) in the same order as the field buffer.
func ownerTexture(R int) glgl.TextureImgConfig {
	return glgl.TextureImgConfig{
		Type:           glgl.Texture2D,
		Width:          R,
		Height:         R * R,
		Format:         gl.RED,
		MinFilter:      gl.NEAREST,
		MagFilter:      gl.NEAREST,
		Xtype:          gl.FLOAT,
		InternalFormat: gl.R32F,
	}
}

func (p *Propagator) program(key programKey) (prog glgl.Program, err error) {
	if prog, ok := p.progs[key]; ok {
		return prog, nil
	}
	var source bytes.Buffer
	_, err = WriteProgram(&source, key.res, key.seeds, key.step)
	if err != nil {
		return prog, err
	}
	combinedSource, err := glgl.ParseCombined(&source)
	if err != nil {
		return prog, err
	}
	prog, err = glgl.CompileProgram(combinedSource)
	if err != nil {
		return prog, errors.New(string(combinedSource.Compute) + "\n" + err.Error())
	}
	p.progs[key] = prog
	return prog, nil
}

// WriteProgram writes the combined glgl source of the compute shader that
// runs one round with the given stride over a grid of side res.
func WriteProgram(w io.Writer, res, nseeds, step int) (int, error) {
	if res < 2 || nseeds < 1 || step < 1 {
		return 0, errors.New("invalid jump flood program parameters")
	}
	return fmt.Fprintf(w, programTemplate, res, nseeds, step)
}

const programTemplate = `#shader compute
#version 430

layout(local_size_x = 1, local_size_y = 1, local_size_z = 1) in;
layout(r32f, binding = 0) uniform image2D in_owner;
layout(r32f, binding = 1) uniform image2D out_owner;
layout(rgba32f, binding = 2) uniform image2D in_seeds;

const int R = %d;
const int N = %d;
const int STEP = %d;
const float FAR = 3.4e38;

float dist2(vec3 p, int owner) {
	vec3 d = p - imageLoad(in_seeds, ivec2(owner, 0)).xyz;
	return dot(d, d);
}

void main() {
	ivec2 pix = ivec2(gl_GlobalInvocationID.xy);
	ivec3 v = ivec3(pix.x, pix.y %% R, pix.y / R);
	vec3 p = vec3(v);
	int best = int(imageLoad(in_owner, pix).r);
	float bestD = FAR;
	if (best >= 0 && best < N) {
		bestD = dist2(p, best);
	} else {
		best = -1;
	}
	for (int dz = -1; dz <= 1; dz++) {
	for (int dy = -1; dy <= 1; dy++) {
	for (int dx = -1; dx <= 1; dx++) {
		if (dx == 0 && dy == 0 && dz == 0) {
			continue;
		}
		ivec3 q = v + STEP*ivec3(dx, dy, dz);
		if (any(lessThan(q, ivec3(0))) || any(greaterThanEqual(q, ivec3(R)))) {
			continue;
		}
		int o = int(imageLoad(in_owner, ivec2(q.x, q.y + R*q.z)).r);
		if (o < 0 || o >= N) {
			continue;
		}
		float d = dist2(p, o);
		if (best < 0 || d < bestD || (d == bestD && o < best)) {
			best = o;
			bestD = d;
		}
	}
	}
	}
	imageStore(out_owner, pix, vec4(float(best), 0.0, 0.0, 0.0));
}
`
