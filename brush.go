package terrain

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sign selects the direction of a brush edit.
type Sign int

const (
	// Raise adds material by decreasing sample values.
	Raise Sign = -1
	// Lower removes material by increasing sample values.
	Lower Sign = 1
)

func (s Sign) String() string {
	switch s {
	case Raise:
		return "raise"
	case Lower:
		return "lower"
	}
	return "invalid"
}

// Brush is a spherical sculpting edit centered on a world point.
// Inside the sphere each sample changes by -d*Strength*Sign where d is the
// (negative) signed distance from the sample to the sphere surface, so the
// change is largest at the center and falls off linearly to zero at Radius.
type Brush struct {
	Center   r3.Vec
	Radius   float64
	Strength float64
	Sign     Sign
}

// Edit summarizes a brush application.
type Edit struct {
	// Touched is the number of samples whose value changed.
	Touched int
	// Skipped is the number of brush cube offsets outside the field. It
	// saturates at math.MaxInt for very large radii.
	Skipped int
	// Min and Max bound the touched lattice coordinates. They are only
	// meaningful when Touched > 0.
	Min, Max V3i
}

func (b Brush) validate() error {
	switch {
	case b.Sign != Raise && b.Sign != Lower:
		return configErr("brush sign", "must be Raise or Lower, got %d", int(b.Sign))
	case !(b.Radius >= 0) || math.IsInf(b.Radius, 1):
		return configErr("brush radius", "must be finite and non-negative, got %g", b.Radius)
	case !(b.Strength >= 0) || math.IsInf(b.Strength, 1):
		return configErr("brush strength", "must be finite and non-negative, got %g", b.Strength)
	case math.IsNaN(b.Center.X) || math.IsNaN(b.Center.Y) || math.IsNaN(b.Center.Z):
		return configErr("brush center", "must not be NaN")
	}
	return nil
}

// Apply mutates f in place around the brush center. It considers the cube
// of lattice offsets with half-width ceil(Radius/spacing)+2 around the
// lattice point nearest Center. The cube is clipped to the field before any
// sample is visited and the clipped offsets are reported in Edit.Skipped.
// Sample values are never clamped.
//
// The mesh of f is stale after a successful Apply that changed samples.
func (b Brush) Apply(f *Field) (Edit, error) {
	if f == nil {
		panic("nil Field argument")
	}
	var e Edit
	if err := b.validate(); err != nil {
		return e, err
	}
	lo, hi, total, ok := b.window(f.lattice)
	visited := 0
	if ok {
		visited = hi.Sub(lo).AddScalar(1).volume()
	}
	e.Skipped = satInt(total - float64(visited))
	sign := float64(b.Sign)
	f.edit(func(data []float64) bool {
		if !ok {
			return false
		}
		for i := lo[0]; i <= hi[0]; i++ {
			for j := lo[1]; j <= hi[1]; j++ {
				for k := lo[2]; k <= hi[2]; k++ {
					d := r3.Norm(r3.Sub(f.Position(i, j, k), b.Center)) - b.Radius
					if d >= 0 {
						continue
					}
					idx := f.index(i, j, k)
					v := data[idx] - d*b.Strength*sign
					if v == data[idx] {
						continue
					}
					data[idx] = v
					p := V3i{i, j, k}
					if e.Touched == 0 {
						e.Min, e.Max = p, p
					} else {
						e.Min, e.Max = e.Min.Min(p), e.Max.Max(p)
					}
					e.Touched++
				}
			}
		}
		return e.Touched > 0
	})
	Logger().Debug("brush applied", "sign", b.Sign, "center", b.Center, "radius", b.Radius,
		"touched", e.Touched, "skipped", e.Skipped)
	return e, nil
}

// window returns the brush cube clipped to the lattice and the number of
// offsets in the unclipped cube. ok is false when the clipped cube is
// empty. Bounds are computed in float64 so huge radii or centers far
// outside the field cannot overflow int.
func (b Brush) window(l lattice) (lo, hi V3i, total float64, ok bool) {
	w := math.Ceil(b.Radius/l.spacing) + 2
	total = math.Pow(2*w+1, 3)
	d := l.Dims()
	ok = true
	for axis, p := range [3]float64{b.Center.X, b.Center.Y, b.Center.Z} {
		c := math.Round(p/l.spacing) + float64(l.half[axis])
		flo := math.Max(0, c-w)
		fhi := math.Min(float64(d[axis]), c+w)
		if !(flo <= fhi) {
			ok = false
			continue
		}
		lo[axis], hi[axis] = int(flo), int(fhi)
	}
	return lo, hi, total, ok
}

func (a V3i) volume() int { return a[0] * a[1] * a[2] }

// satInt converts a non-negative count to int, saturating at math.MaxInt.
func satInt(f float64) int {
	if f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}
