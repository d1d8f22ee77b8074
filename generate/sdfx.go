package generate

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

// SDFX adapts an sdfx solid so its signed distance fills a field. sdfx
// distances are negative inside, matching the field's solid convention.
type SDFX struct {
	s sdf.SDF3
}

var _ terrain.Source = SDFX{}

// FromSDFX wraps s. It panics if s is nil.
func FromSDFX(s sdf.SDF3) SDFX {
	if s == nil {
		panic("nil SDF3 argument")
	}
	return SDFX{s: s}
}

// Evaluate returns the sdfx signed distance at p.
func (a SDFX) Evaluate(p r3.Vec) float64 {
	return a.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

// Bounds returns the bounding box of the wrapped solid.
func (a SDFX) Bounds() r3.Box {
	bb := a.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}
