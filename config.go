package terrain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoiseParms configures layered-noise terrain generation.
type NoiseParms struct {
	Seed    int64
	Octaves int
	// BaseFrequency is the noise frequency of the first octave.
	BaseFrequency float64
	// Lacunarity multiplies the frequency between octaves.
	Lacunarity float64
	// Persistence multiplies the amplitude between octaves.
	Persistence float64
	// WeightMultiplier scales the weight carried to the next octave.
	WeightMultiplier float64
	// FloorOffset shifts the ground level. The surface of a flat
	// (noise-free) field lies at y = -FloorOffset.
	FloorOffset float64
	// NoiseWeight scales the accumulated noise against the height bias.
	NoiseWeight float64
}

// Validate rejects parameters that cannot produce a field.
func (p NoiseParms) Validate() error {
	switch {
	case p.Octaves < 1:
		return configErr("octaves", "need at least 1, got %d", p.Octaves)
	case !positive(p.BaseFrequency):
		return configErr("base frequency", "must be positive and finite, got %g", p.BaseFrequency)
	case !positive(p.Lacunarity):
		return configErr("lacunarity", "must be positive and finite, got %g", p.Lacunarity)
	case !positive(p.Persistence):
		return configErr("persistence", "must be positive and finite, got %g", p.Persistence)
	case !finite(p.WeightMultiplier):
		return configErr("weight multiplier", "must be finite, got %g", p.WeightMultiplier)
	case !finite(p.FloorOffset):
		return configErr("floor offset", "must be finite, got %g", p.FloorOffset)
	case !finite(p.NoiseWeight):
		return configErr("noise weight", "must be finite, got %g", p.NoiseWeight)
	}
	return nil
}

// Config is the parameter bundle a host application hands to the core.
type Config struct {
	// Size is the world extent of the field on each axis.
	Size r3.Vec
	// Spacing is the world distance between lattice samples.
	Spacing float64
	// IsoLevel is the threshold at which the surface is extracted.
	IsoLevel float64
	Noise    NoiseParms
	// BrushRadius is the world radius of sculpting edits.
	BrushRadius float64
	// BrushStrength scales the change applied by one edit.
	BrushStrength float64
}

// DefaultConfig returns a 16x16x16 field with unit spacing and a 4 octave
// terrain, the same setup as the reference demo.
func DefaultConfig() Config {
	return Config{
		Size:     r3.Vec{X: 16, Y: 16, Z: 16},
		Spacing:  1,
		IsoLevel: 0,
		Noise: NoiseParms{
			Seed:             6,
			Octaves:          4,
			BaseFrequency:    0.08,
			Lacunarity:       2,
			Persistence:      0.5,
			WeightMultiplier: 1.6,
			FloorOffset:      2,
			NoiseWeight:      8,
		},
		BrushRadius:   2.5,
		BrushStrength: 0.5,
	}
}

// Validate checks every parameter and returns the first *ConfigError found.
func (c Config) Validate() error {
	if !positive(c.Spacing) {
		return configErr("spacing", "must be positive and finite, got %g", c.Spacing)
	}
	if !positive(c.Size.X) || !positive(c.Size.Y) || !positive(c.Size.Z) {
		return configErr("size", "must be positive and finite on every axis, got %v", c.Size)
	}
	if !finite(c.IsoLevel) {
		return configErr("iso level", "must be finite, got %g", c.IsoLevel)
	}
	if !(c.BrushRadius >= 0) || !finite(c.BrushRadius) {
		return configErr("brush radius", "must be finite and non-negative, got %g", c.BrushRadius)
	}
	if !(c.BrushStrength >= 0) || !finite(c.BrushStrength) {
		return configErr("brush strength", "must be finite and non-negative, got %g", c.BrushStrength)
	}
	return c.Noise.Validate()
}

// NewField validates c and allocates the field it describes.
func (c Config) NewField() (*Field, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewField(c.Size, c.Spacing)
}

// Brush returns a brush at center using the configured radius and strength.
func (c Config) Brush(center r3.Vec, sign Sign) Brush {
	return Brush{Center: center, Radius: c.BrushRadius, Strength: c.BrushStrength, Sign: sign}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 1) }
