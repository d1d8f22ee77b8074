package terrain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

func snapshot(t *testing.T, f *terrain.Field) []float64 {
	t.Helper()
	var out []float64
	f.ReadFunc(func(s terrain.Samples) {
		d := s.Dims()
		for i := 0; i <= d[0]; i++ {
			for j := 0; j <= d[1]; j++ {
				for k := 0; k <= d[2]; k++ {
					out = append(out, s.At(i, j, k))
				}
			}
		}
	})
	return out
}

func TestBrushMonotonic(t *testing.T) {
	center := r3.Vec{X: 0.4, Y: -1.2, Z: 1.1}
	const radius = 3
	for _, sign := range []terrain.Sign{terrain.Raise, terrain.Lower} {
		f := newField(t, r3.Vec{X: 12, Y: 12, Z: 12}, 1)
		err := f.Generate(sourceFunc(func(p r3.Vec) float64 { return p.Y + 0.1*p.X }))
		if err != nil {
			t.Fatal(err)
		}
		before := snapshot(t, f)
		e, err := terrain.Brush{Center: center, Radius: radius, Strength: 0.7, Sign: sign}.Apply(f)
		if err != nil {
			t.Fatal(err)
		}
		if e.Touched == 0 || e.Skipped != 0 {
			t.Fatalf("%v: touched %d skipped %d", sign, e.Touched, e.Skipped)
		}
		after := snapshot(t, f)
		d := f.Dims()
		touched := 0
		for i := 0; i <= d[0]; i++ {
			for j := 0; j <= d[1]; j++ {
				for k := 0; k <= d[2]; k++ {
					idx, _ := f.Index(i, j, k)
					dist := r3.Norm(r3.Sub(f.Position(i, j, k), center))
					delta := after[idx] - before[idx]
					switch {
					case dist >= radius:
						if delta != 0 {
							t.Fatalf("%v: sample %d,%d,%d outside brush changed by %g", sign, i, j, k, delta)
						}
					case sign == terrain.Lower && delta <= 0:
						t.Fatalf("lower decreased sample %d,%d,%d by %g", i, j, k, delta)
					case sign == terrain.Raise && delta >= 0:
						t.Fatalf("raise increased sample %d,%d,%d by %g", i, j, k, delta)
					default:
						touched++
						want := (radius - dist) * 0.7 * float64(sign)
						if math.Abs(delta-want) > 1e-12 {
							t.Fatalf("sample %d,%d,%d changed by %g, want %g", i, j, k, delta, want)
						}
						p := terrain.V3i{i, j, k}
						if p.Min(e.Min) != e.Min || p.Max(e.Max) != e.Max {
							t.Fatalf("touched sample %v outside reported box %v-%v", p, e.Min, e.Max)
						}
					}
				}
			}
		}
		if touched != e.Touched {
			t.Errorf("%v: counted %d touched samples, edit reports %d", sign, touched, e.Touched)
		}
		if f.State() != terrain.Edited {
			t.Errorf("got state %v after edit", f.State())
		}
	}
}

func TestBrushClipsAtBoundary(t *testing.T) {
	f := newField(t, r3.Vec{X: 8, Y: 8, Z: 8}, 1)
	// Brush centered on a corner: most of the cube falls outside.
	e, err := terrain.Brush{Center: r3.Vec{X: 4, Y: 4, Z: 4}, Radius: 2, Strength: 1, Sign: terrain.Lower}.Apply(f)
	if err != nil {
		t.Fatal(err)
	}
	const w = 2 + 2
	if total := (2*w + 1) * (2*w + 1) * (2*w + 1); e.Skipped+(w+1)*(w+1)*(w+1) != total {
		t.Errorf("got %d skipped offsets, want %d", e.Skipped, total-(w+1)*(w+1)*(w+1))
	}
	if e.Touched == 0 {
		t.Fatal("corner edit touched nothing")
	}
	if e.Max != (terrain.V3i{8, 8, 8}) {
		t.Errorf("got max %v, want lattice corner", e.Max)
	}
	v, _ := f.At(8, 8, 8)
	if v != 2 {
		t.Errorf("corner sample %g, want 2", v)
	}

	// Entirely outside the field: every offset skipped and nothing changes.
	gen := f.Generation()
	e, err = terrain.Brush{Center: r3.Vec{X: 100}, Radius: 1, Strength: 1, Sign: terrain.Raise}.Apply(f)
	if err != nil {
		t.Fatal(err)
	}
	if e.Touched != 0 || e.Skipped != 7*7*7 {
		t.Errorf("got touched %d skipped %d", e.Touched, e.Skipped)
	}
	if f.Generation() != gen {
		t.Error("generation bumped by an edit that touched nothing")
	}
}

func TestBrushEnclosesField(t *testing.T) {
	for _, test := range []struct {
		radius  float64
		skipped int
	}{
		{radius: 1e5, skipped: 200005*200005*200005 - 9*9*9},
		{radius: 1e300, skipped: math.MaxInt},
	} {
		f := newField(t, r3.Vec{X: 8, Y: 8, Z: 8}, 1)
		if err := f.Generate(sourceFunc(func(p r3.Vec) float64 { return p.Y })); err != nil {
			t.Fatal(err)
		}
		before := snapshot(t, f)
		gen := f.Generation()
		e, err := terrain.Brush{Center: r3.Vec{X: 0.5}, Radius: test.radius, Strength: 1, Sign: terrain.Lower}.Apply(f)
		if err != nil {
			t.Fatal(err)
		}
		if e.Touched != f.Len() {
			t.Errorf("radius %g: touched %d samples, want all %d", test.radius, e.Touched, f.Len())
		}
		if e.Skipped != test.skipped {
			t.Errorf("radius %g: got %d skipped offsets, want %d", test.radius, e.Skipped, test.skipped)
		}
		if e.Min != (terrain.V3i{}) || e.Max != f.Dims() {
			t.Errorf("radius %g: got touched box %v-%v, want whole lattice", test.radius, e.Min, e.Max)
		}
		after := snapshot(t, f)
		for i := range before {
			if !(after[i] > before[i]) {
				t.Fatalf("radius %g: sample %d went from %g to %g, want increase", test.radius, i, before[i], after[i])
			}
		}
		if f.Generation() != gen+1 {
			t.Errorf("radius %g: generation %d, want %d", test.radius, f.Generation(), gen+1)
		}
	}
}

func TestBrushNoOp(t *testing.T) {
	f := newField(t, r3.Vec{X: 8, Y: 8, Z: 8}, 1)
	if err := f.Generate(sourceFunc(func(p r3.Vec) float64 { return p.Z - 1 })); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, f)
	gen := f.Generation()
	for _, b := range []terrain.Brush{
		{Radius: 0, Strength: 5, Sign: terrain.Raise},
		{Radius: 3, Strength: 0, Sign: terrain.Lower},
	} {
		e, err := b.Apply(f)
		if err != nil {
			t.Fatal(err)
		}
		if e.Touched != 0 {
			t.Errorf("brush %+v touched %d samples", b, e.Touched)
		}
	}
	if f.Generation() != gen {
		t.Errorf("no-op edits bumped generation from %d to %d", gen, f.Generation())
	}
	after := snapshot(t, f)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("sample %d changed from %g to %g", i, before[i], after[i])
		}
	}
}

func TestBrushInvalid(t *testing.T) {
	f := newField(t, r3.Vec{X: 4, Y: 4, Z: 4}, 1)
	for _, b := range []terrain.Brush{
		{Radius: 1, Strength: 1, Sign: 0},
		{Radius: 1, Strength: 1, Sign: 2},
		{Radius: -1, Strength: 1, Sign: terrain.Raise},
		{Radius: math.Inf(1), Strength: 1, Sign: terrain.Raise},
		{Radius: 1, Strength: math.NaN(), Sign: terrain.Lower},
		{Center: r3.Vec{Y: math.NaN()}, Radius: 1, Strength: 1, Sign: terrain.Lower},
	} {
		_, err := b.Apply(f)
		if !errors.Is(err, terrain.ErrInvalidConfig) {
			t.Errorf("brush %+v: got error %v, want config error", b, err)
		}
	}
	if f.Generation() != 0 {
		t.Error("invalid brush modified the field")
	}
}
