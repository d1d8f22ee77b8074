package terrain

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxSamples bounds the size of a single field buffer.
const maxSamples = 1 << 28

// Source is a scalar function of world position used to fill a Field.
// Values below the iso level are solid, values above are empty space.
type Source interface {
	Evaluate(p r3.Vec) float64
}

// State is the lifecycle stage of a Field.
type State uint8

const (
	// Uninitialized fields hold zeros and have never been generated.
	Uninitialized State = iota
	// Generated fields were last written by a full Generate pass.
	Generated
	// Edited fields have been mutated since they were generated.
	Edited
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Generated:
		return "generated"
	case Edited:
		return "edited"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// lattice holds the immutable addressing of a field. All index arithmetic
// goes through index so readers and writers agree on the layout.
type lattice struct {
	half    V3i // half-extents in samples
	n       V3i // samples per axis, 2*half+1
	spacing float64
}

func (l lattice) index(i, j, k int) int {
	return (i*l.n[1]+j)*l.n[2] + k
}

func (l lattice) contains(i, j, k int) bool {
	return uint(i) < uint(l.n[0]) && uint(j) < uint(l.n[1]) && uint(k) < uint(l.n[2])
}

// Dims returns the largest valid lattice index on each axis. Valid
// coordinates are 0 <= i <= Dims()[0] and likewise for j and k.
func (l lattice) Dims() V3i { return l.n.SubScalar(1) }

// Half returns the half-extents of the lattice in samples.
func (l lattice) Half() V3i { return l.half }

// Spacing returns the world distance between adjacent samples.
func (l lattice) Spacing() float64 { return l.spacing }

// Len returns the number of samples in the field.
func (l lattice) Len() int { return l.n[0] * l.n[1] * l.n[2] }

// Contains reports whether (i,j,k) is a valid lattice coordinate.
func (l lattice) Contains(i, j, k int) bool { return l.contains(i, j, k) }

// Index returns the position of sample (i,j,k) in the flat buffer.
func (l lattice) Index(i, j, k int) (int, error) {
	if !l.contains(i, j, k) {
		return -1, &IndexError{I: i, J: j, K: k, Dims: l.Dims()}
	}
	return l.index(i, j, k), nil
}

// Position returns the world position of lattice sample (i,j,k).
// The lattice is centered on the world origin.
func (l lattice) Position(i, j, k int) r3.Vec {
	return r3.Scale(l.spacing, V3i{i, j, k}.Sub(l.half).ToV3())
}

// Nearest returns the lattice coordinate closest to world point p.
// The result may lie outside the field.
func (l lattice) Nearest(p r3.Vec) V3i {
	return V3i{
		int(math.Round(p.X/l.spacing)) + l.half[0],
		int(math.Round(p.Y/l.spacing)) + l.half[1],
		int(math.Round(p.Z/l.spacing)) + l.half[2],
	}
}

// Bounds returns the world-space box spanned by the lattice samples.
func (l lattice) Bounds() r3.Box {
	d := l.Dims()
	return r3.Box{Min: l.Position(0, 0, 0), Max: l.Position(d[0], d[1], d[2])}
}

// Field is a dense scalar density field sampled on a regular 3D lattice
// centered at the origin. Samples live in a single contiguous buffer.
//
// A Field is safe for concurrent use. Readers (At, ReadFunc) may run
// concurrently with each other while writers (Set, Generate, Brush.Apply)
// hold exclusive access to the whole field.
type Field struct {
	lattice
	mu    sync.RWMutex
	data  []float64
	state State
	gen   uint64
}

// NewField allocates a field covering a world box of the given size
// centered at the origin. The half-extent on each axis is
// floor(size/(2*spacing)) samples.
func NewField(size r3.Vec, spacing float64) (*Field, error) {
	if !(spacing > 0) || math.IsInf(spacing, 1) {
		return nil, configErr("spacing", "must be positive and finite, got %g", spacing)
	}
	var half V3i
	for axis, s := range [3]float64{size.X, size.Y, size.Z} {
		if !(s > 0) || math.IsInf(s, 1) {
			return nil, configErr("size", "axis %d must be positive and finite, got %g", axis, s)
		}
		h := math.Floor(s / (2 * spacing))
		if h < 1 {
			return nil, configErr("size", "axis %d of %g yields no cells at spacing %g", axis, s, spacing)
		}
		if h > maxSamples {
			return nil, configErr("size", "axis %d of %g too large for spacing %g", axis, s, spacing)
		}
		half[axis] = int(h)
	}
	l := lattice{half: half, n: V3i{2*half[0] + 1, 2*half[1] + 1, 2*half[2] + 1}, spacing: spacing}
	if n := float64(l.n[0]) * float64(l.n[1]) * float64(l.n[2]); n > maxSamples {
		return nil, configErr("size", "%g samples exceeds limit of %d", n, maxSamples)
	}
	return &Field{
		lattice: l,
		data:    make([]float64, l.Len()),
	}, nil
}

// At returns the sample at lattice coordinate (i,j,k).
func (f *Field) At(i, j, k int) (float64, error) {
	idx, err := f.Index(i, j, k)
	if err != nil {
		return 0, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.data[idx], nil
}

// Set writes the sample at lattice coordinate (i,j,k). Out of range
// coordinates leave the field untouched and return an *IndexError.
func (f *Field) Set(i, j, k int, v float64) error {
	idx, err := f.Index(i, j, k)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[idx] = v
	f.touch()
	return nil
}

// State returns the lifecycle stage of the field.
func (f *Field) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Generation returns a counter incremented on every mutation of the field.
// Meshes record the generation they were extracted from.
func (f *Field) Generation() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gen
}

// Generate evaluates src at every lattice sample and replaces the field
// contents. If src yields a NaN the field is left unchanged.
func (f *Field) Generate(src Source) error {
	if src == nil {
		panic("nil Source argument")
	}
	buf := make([]float64, f.Len())
	d := f.Dims()
	for i := 0; i <= d[0]; i++ {
		for j := 0; j <= d[1]; j++ {
			for k := 0; k <= d[2]; k++ {
				v := src.Evaluate(f.Position(i, j, k))
				if math.IsNaN(v) {
					return fmt.Errorf("terrain: source evaluated to NaN at lattice %v", V3i{i, j, k})
				}
				buf[f.index(i, j, k)] = v
			}
		}
	}
	f.mu.Lock()
	f.data = buf
	f.state = Generated
	f.gen++
	f.mu.Unlock()
	Logger().Debug("field generated", "samples", len(buf), "dims", d, "spacing", f.spacing)
	return nil
}

// ReadFunc calls fn with a read-only view of the field. The field is
// read-locked for the duration of fn. fn must not retain the view or
// call methods on f that take the write lock.
func (f *Field) ReadFunc(fn func(s Samples)) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn(Samples{lattice: f.lattice, data: f.data, gen: f.gen})
}

// edit runs fn with exclusive access to the sample buffer. fn reports
// whether it modified any sample.
func (f *Field) edit(fn func(data []float64) bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if fn(f.data) {
		f.touch()
	}
}

// touch must be called with the write lock held.
func (f *Field) touch() {
	f.state = Edited
	f.gen++
}

// Samples is a read-only view of a Field obtained through ReadFunc.
type Samples struct {
	lattice
	data []float64
	gen  uint64
}

// At returns the sample at (i,j,k). It panics with an *IndexError if the
// coordinate is outside the lattice.
func (s Samples) At(i, j, k int) float64 {
	if !s.contains(i, j, k) {
		panic(&IndexError{I: i, J: j, K: k, Dims: s.Dims()})
	}
	return s.data[s.index(i, j, k)]
}

// Generation returns the field generation the view was taken at.
func (s Samples) Generation() uint64 { return s.gen }
