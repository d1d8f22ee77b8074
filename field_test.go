package terrain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

func newField(t *testing.T, size r3.Vec, spacing float64) *terrain.Field {
	t.Helper()
	f, err := terrain.NewField(size, spacing)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

type sourceFunc func(r3.Vec) float64

func (s sourceFunc) Evaluate(p r3.Vec) float64 { return s(p) }

func TestNewField(t *testing.T) {
	for _, test := range []struct {
		size    r3.Vec
		spacing float64
		half    terrain.V3i
		err     bool
	}{
		{size: r3.Vec{X: 16, Y: 16, Z: 16}, spacing: 1, half: terrain.V3i{8, 8, 8}},
		{size: r3.Vec{X: 16, Y: 8, Z: 4}, spacing: 0.5, half: terrain.V3i{16, 8, 4}},
		{size: r3.Vec{X: 5, Y: 5, Z: 5}, spacing: 1, half: terrain.V3i{2, 2, 2}},
		{size: r3.Vec{X: 1, Y: 4, Z: 4}, spacing: 1, err: true},
		{size: r3.Vec{X: 4, Y: 4, Z: 4}, spacing: 0, err: true},
		{size: r3.Vec{X: 4, Y: 4, Z: 4}, spacing: -1, err: true},
		{size: r3.Vec{X: 4, Y: 4, Z: 4}, spacing: math.NaN(), err: true},
		{size: r3.Vec{X: 4, Y: -4, Z: 4}, spacing: 1, err: true},
		{size: r3.Vec{X: 4, Y: math.Inf(1), Z: 4}, spacing: 1, err: true},
		{size: r3.Vec{X: 1e6, Y: 1e6, Z: 1e6}, spacing: 1, err: true},
	} {
		f, err := terrain.NewField(test.size, test.spacing)
		if test.err {
			if !errors.Is(err, terrain.ErrInvalidConfig) {
				t.Errorf("size %v spacing %g: got error %v, want config error", test.size, test.spacing, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("size %v spacing %g: %v", test.size, test.spacing, err)
			continue
		}
		if f.Half() != test.half {
			t.Errorf("size %v spacing %g: got half %v, want %v", test.size, test.spacing, f.Half(), test.half)
		}
		n := test.half.Add(test.half).AddScalar(1)
		if f.Len() != n[0]*n[1]*n[2] {
			t.Errorf("got %d samples, want %d", f.Len(), n[0]*n[1]*n[2])
		}
		if f.State() != terrain.Uninitialized || f.Generation() != 0 {
			t.Errorf("new field state %v generation %d", f.State(), f.Generation())
		}
	}
}

func TestFieldIndex(t *testing.T) {
	f := newField(t, r3.Vec{X: 4, Y: 6, Z: 8}, 1)
	d := f.Dims()
	if d != (terrain.V3i{4, 6, 8}) {
		t.Fatalf("got dims %v", d)
	}
	seen := make([]bool, f.Len())
	for i := 0; i <= d[0]; i++ {
		for j := 0; j <= d[1]; j++ {
			for k := 0; k <= d[2]; k++ {
				idx, err := f.Index(i, j, k)
				if err != nil {
					t.Fatal(err)
				}
				if want := (i*(d[1]+1)+j)*(d[2]+1) + k; idx != want {
					t.Fatalf("Index(%d,%d,%d) = %d, want %d", i, j, k, idx, want)
				}
				if seen[idx] {
					t.Fatalf("index %d visited twice", idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestFieldOutOfRange(t *testing.T) {
	f := newField(t, r3.Vec{X: 4, Y: 4, Z: 4}, 1)
	if err := f.Generate(sourceFunc(func(p r3.Vec) float64 { return p.X + p.Y + p.Z })); err != nil {
		t.Fatal(err)
	}
	gen := f.Generation()
	for _, c := range []terrain.V3i{{-1, 0, 0}, {0, 5, 0}, {0, 0, 5}, {5, 5, 5}, {0, -3, 2}} {
		if _, err := f.At(c[0], c[1], c[2]); !errors.Is(err, terrain.ErrInvalidIndex) {
			t.Errorf("At%v: got error %v, want ErrInvalidIndex", c, err)
		}
		err := f.Set(c[0], c[1], c[2], 100)
		var ierr *terrain.IndexError
		if !errors.As(err, &ierr) {
			t.Fatalf("Set%v: got error %v, want *IndexError", c, err)
		}
		if ierr.I != c[0] || ierr.J != c[1] || ierr.K != c[2] {
			t.Errorf("IndexError holds %d,%d,%d, want %v", ierr.I, ierr.J, ierr.K, c)
		}
	}
	if f.Generation() != gen || f.State() != terrain.Generated {
		t.Error("rejected writes modified the field")
	}
	v, err := f.At(4, 4, 4)
	if err != nil || v != 6 {
		t.Errorf("At(4,4,4) = %g, %v; want 6", v, err)
	}
}

func TestFieldGenerate(t *testing.T) {
	f := newField(t, r3.Vec{X: 4, Y: 4, Z: 4}, 0.5)
	err := f.Generate(sourceFunc(func(p r3.Vec) float64 { return p.Y }))
	if err != nil {
		t.Fatal(err)
	}
	if f.State() != terrain.Generated || f.Generation() != 1 {
		t.Fatalf("got state %v generation %d after generate", f.State(), f.Generation())
	}
	d := f.Dims()
	for j := 0; j <= d[1]; j++ {
		got, _ := f.At(1, j, 2)
		if want := f.Position(1, j, 2).Y; got != want {
			t.Errorf("sample j=%d: got %g, want %g", j, got, want)
		}
	}
	if got := f.Position(0, 0, 0); got != (r3.Vec{X: -2, Y: -2, Z: -2}) {
		t.Errorf("lattice origin at %v", got)
	}
	if got := f.Nearest(r3.Vec{X: 0.2, Y: -0.3, Z: 1.9}); got != (terrain.V3i{4, 3, 8}) {
		t.Errorf("Nearest got %v", got)
	}

	if err := f.Set(0, 0, 0, 3); err != nil {
		t.Fatal(err)
	}
	if f.State() != terrain.Edited || f.Generation() != 2 {
		t.Errorf("got state %v generation %d after set", f.State(), f.Generation())
	}

	// A NaN source must leave the field untouched.
	err = f.Generate(sourceFunc(func(p r3.Vec) float64 {
		if p.X > 1 {
			return math.NaN()
		}
		return 0
	}))
	if err == nil {
		t.Fatal("expected error from NaN source")
	}
	if v, _ := f.At(0, 0, 0); v != 3 || f.Generation() != 2 {
		t.Error("failed generation modified the field")
	}
}

func TestFieldReadFunc(t *testing.T) {
	f := newField(t, r3.Vec{X: 2, Y: 2, Z: 2}, 1)
	if err := f.Set(1, 2, 0, 7); err != nil {
		t.Fatal(err)
	}
	f.ReadFunc(func(s terrain.Samples) {
		if s.At(1, 2, 0) != 7 {
			t.Errorf("got %g, want 7", s.At(1, 2, 0))
		}
		if s.Generation() != f.Generation() {
			t.Error("view generation mismatch")
		}
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, terrain.ErrInvalidIndex) {
				t.Errorf("got panic %v, want *IndexError", r)
			}
		}()
		s.At(3, 0, 0)
	})
}
