package generate

import (
	"image"
	"math"

	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

// Heightmap is ground whose surface height follows the brightness of an
// image. The image is laid on the XZ plane centered at the origin, one
// pixel per Scale world units. Black maps to height Base and white to
// Base+MaxHeight.
type Heightmap struct {
	img       image.Image
	scale     float64
	base      float64
	maxHeight float64
}

var _ terrain.Source = (*Heightmap)(nil)

// NewHeightmap returns a heightmap source. scale must be positive and
// maxHeight finite.
func NewHeightmap(img image.Image, scale, base, maxHeight float64) (*Heightmap, error) {
	switch {
	case img == nil || img.Bounds().Empty():
		return nil, &terrain.ConfigError{Field: "heightmap image", Msg: "must not be empty"}
	case !(scale > 0) || math.IsInf(scale, 1):
		return nil, &terrain.ConfigError{Field: "heightmap scale", Msg: "must be positive and finite"}
	case math.IsNaN(base) || math.IsInf(base, 0):
		return nil, &terrain.ConfigError{Field: "heightmap base", Msg: "must be finite"}
	case math.IsNaN(maxHeight) || math.IsInf(maxHeight, 0):
		return nil, &terrain.ConfigError{Field: "heightmap max height", Msg: "must be finite"}
	}
	return &Heightmap{img: img, scale: scale, base: base, maxHeight: maxHeight}, nil
}

// Height returns the surface height above world point (x, z). Points
// outside the image use the nearest edge pixel.
func (h *Heightmap) Height(x, z float64) float64 {
	rect := h.img.Bounds()
	cx := float64(rect.Min.X+rect.Max.X-1) / 2
	cy := float64(rect.Min.Y+rect.Max.Y-1) / 2
	px := clampInt(int(math.Round(x/h.scale+cx)), rect.Min.X, rect.Max.X-1)
	py := clampInt(int(math.Round(z/h.scale+cy)), rect.Min.Y, rect.Max.Y-1)
	r, g, b, _ := h.img.At(px, py).RGBA()
	return h.base + h.maxHeight*float64(r+g+b)/(3*math.MaxUint16)
}

// Evaluate returns the vertical distance from p to the surface, negative
// below ground.
func (h *Heightmap) Evaluate(p r3.Vec) float64 {
	return p.Y - h.Height(p.X, p.Z)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
