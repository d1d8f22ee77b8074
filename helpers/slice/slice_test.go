package slice_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/soypat/terrain"
	"github.com/soypat/terrain/generate"
	"github.com/soypat/terrain/helpers/slice"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/vg"
)

func sphereField(t *testing.T) *terrain.Field {
	t.Helper()
	f, err := terrain.NewField(r3.Vec{X: 12, Y: 8, Z: 10}, 1)
	if err != nil {
		t.Fatal(err)
	}
	s, err := generate.NewSphere(r3.Vec{}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Generate(s); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestNewPlane(t *testing.T) {
	f := sphereField(t)
	d := f.Dims()
	for _, test := range []struct {
		axis       slice.Axis
		cols, rows int
	}{
		{axis: slice.X, cols: d[2] + 1, rows: d[1] + 1},
		{axis: slice.Y, cols: d[0] + 1, rows: d[2] + 1},
		{axis: slice.Z, cols: d[0] + 1, rows: d[1] + 1},
	} {
		pl, err := slice.NewPlane(f, test.axis, 2, 0)
		if err != nil {
			t.Fatal(err)
		}
		c, r := pl.Dims()
		if c != test.cols || r != test.rows {
			t.Errorf("axis %v: got %dx%d plane, want %dx%d", test.axis, c, r, test.cols, test.rows)
		}
		if pl.X(0) >= pl.X(c-1) || pl.Y(0) >= pl.Y(r-1) {
			t.Errorf("axis %v: plane coordinates not increasing", test.axis)
		}
		if pl.Min() >= 0 || pl.Max() <= 0 || pl.Min() != -pl.Max() {
			t.Errorf("axis %v: range [%g,%g] not centered on iso level", test.axis, pl.Min(), pl.Max())
		}
	}
	// Plane z=Half passes through the sphere center.
	pl, err := slice.NewPlane(f, slice.Z, f.Half()[2], 0)
	if err != nil {
		t.Fatal(err)
	}
	h := f.Half()
	want, _ := f.At(h[0], h[1], h[2])
	if got := pl.Z(h[0], h[1]); got != want || got != -3 {
		t.Errorf("center sample %g, want %g", got, want)
	}
	if pl.X(h[0]) != 0 || pl.Y(h[1]) != 0 {
		t.Errorf("center at %g,%g, want origin", pl.X(h[0]), pl.Y(h[1]))
	}
}

func TestNewPlaneInvalid(t *testing.T) {
	f := sphereField(t)
	if _, err := slice.NewPlane(f, slice.Y, f.Dims()[1]+1, 0); !errors.Is(err, terrain.ErrInvalidIndex) {
		t.Errorf("got error %v, want ErrInvalidIndex", err)
	}
	if _, err := slice.NewPlane(f, slice.Axis(3), 0, 0); err == nil {
		t.Error("expected error for invalid axis")
	}
}

func TestWritePNG(t *testing.T) {
	f := sphereField(t)
	p, err := slice.Plot(f, slice.Y, f.Half()[1], 0)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := slice.WritePNG(&b, p, 4*vg.Inch, 3*vg.Inch); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&b)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("empty image %v", img.Bounds())
	}
}
