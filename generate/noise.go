package generate

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"
	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

// offsetRange bounds the per-octave sampling offsets drawn from the seed.
const offsetRange = 1000

// Terrain is ground below a threshold perturbed by layered 3D noise.
//
// Each octave samples OpenSimplex noise n at an increasing frequency and
// contributes v = (1-|n|)^2 * weight, where weight is the previous octave's
// v scaled by WeightMultiplier and clamped to [0,1]. Ridges of the noise
// therefore reinforce each other. The accumulated noise is combined with a
// linear height bias so the value is negative (solid) below the surface.
type Terrain struct {
	parms   terrain.NoiseParms
	noise   opensimplex.Noise
	offsets []r3.Vec
}

var _ terrain.Source = (*Terrain)(nil)

// NewTerrain validates p and builds a terrain source. Two terrains built
// from the same parameters evaluate identically.
func NewTerrain(p terrain.NoiseParms) (*Terrain, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(p.Seed))
	offsets := make([]r3.Vec, p.Octaves)
	for i := range offsets {
		offsets[i] = r3.Vec{
			X: (rng.Float64()*2 - 1) * offsetRange,
			Y: (rng.Float64()*2 - 1) * offsetRange,
			Z: (rng.Float64()*2 - 1) * offsetRange,
		}
	}
	return &Terrain{
		parms:   p,
		noise:   opensimplex.New(p.Seed),
		offsets: offsets,
	}, nil
}

// Evaluate returns (p.Y + FloorOffset) - NoiseWeight*noise(p).
func (t *Terrain) Evaluate(p r3.Vec) float64 {
	return p.Y + t.parms.FloorOffset - t.parms.NoiseWeight*t.Noise(p)
}

// Noise returns the accumulated layered noise at p. It is non-negative.
func (t *Terrain) Noise(p r3.Vec) float64 {
	var (
		acc       float64
		amplitude = 1.0
		frequency = t.parms.BaseFrequency
		weight    = 1.0
	)
	for _, off := range t.offsets {
		q := r3.Add(r3.Scale(frequency, p), off)
		n := t.noise.Eval3(q.X, q.Y, q.Z)
		v := 1 - math.Abs(n)
		v = v * v * weight
		weight = math.Max(0, math.Min(1, v*t.parms.WeightMultiplier))
		acc += v * amplitude
		amplitude *= t.parms.Persistence
		frequency *= t.parms.Lacunarity
	}
	return acc
}
