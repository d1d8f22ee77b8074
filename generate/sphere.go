package generate

import (
	"math"

	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

// Sphere is a solid ball. Its value is the signed distance to the sphere
// surface, negative inside.
type Sphere struct {
	Center r3.Vec
	Radius float64
}

var _ terrain.Source = Sphere{}

// NewSphere returns a sphere source. The radius must be finite and non-negative.
func NewSphere(center r3.Vec, radius float64) (Sphere, error) {
	if !(radius >= 0) || math.IsInf(radius, 1) {
		return Sphere{}, &terrain.ConfigError{Field: "sphere radius", Msg: "must be finite and non-negative"}
	}
	return Sphere{Center: center, Radius: radius}, nil
}

// Evaluate returns |p-Center| - Radius.
func (s Sphere) Evaluate(p r3.Vec) float64 {
	return r3.Norm(r3.Sub(p, s.Center)) - s.Radius
}
