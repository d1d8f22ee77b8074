package render

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/soypat/terrain"
	"github.com/soypat/terrain/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	f, err := terrain.NewField(r3.Vec{X: 16, Y: 16, Z: 16}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	center := r3.Vec{X: 0.3, Y: 0.2, Z: -0.15}
	err = f.Generate(sourceFunc(func(p r3.Vec) float64 { return r3.Norm(r3.Sub(p, center)) - 6.5 }))
	if err != nil {
		t.Fatal(err)
	}
	input, err := RenderAll(NewFieldRenderer(f, 0))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != sizeOfSTLHeader+stlTriangleSize*len(input) {
		t.Fatalf("got %d bytes of STL for %d triangles", b.Len(), len(input))
	}
	output, err := readBinarySTL(&b)
	if err != nil && !errors.Is(err, errCalculatedNormalMismatch) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect {
			if !d3.EqualWithin(got[i], expect[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got[i], expect[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestSTLDegenerateTriangle(t *testing.T) {
	// Marching cubes emits zero-area triangles when samples sit on the iso level.
	model := []r3.Triangle{
		{{X: 1}, {X: 1}, {Y: 1}},
		{{}, {X: 1}, {Y: 1}},
	}
	var b bytes.Buffer
	if err := WriteSTL(&b, model); err != nil {
		t.Fatal(err)
	}
	raw := b.Bytes()
	var d stlTriangle
	d.get(raw[sizeOfSTLHeader:])
	if d.Normal != [3]float32{} {
		t.Errorf("degenerate triangle normal %v, want zero", d.Normal)
	}
	d.get(raw[sizeOfSTLHeader+stlTriangleSize:])
	if d.Normal != [3]float32{0, 0, 1} {
		t.Errorf("got normal %v, want +z", d.Normal)
	}
	output, err := readBinarySTL(bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	for i := range model {
		if output[i] != model[i] {
			t.Errorf("triangle %d: got %v, want %v", i, output[i], model[i])
		}
	}
}

func TestSTLRejectsNaN(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSTL(&b, []r3.Triangle{{{X: math.NaN()}, {X: 1}, {Y: 1}}}); err != nil {
		t.Fatal(err)
	}
	if _, err := readBinarySTL(&b); err == nil {
		t.Error("expected error reading NaN vertex")
	}
}

func TestSTLReaderShortBuffer(t *testing.T) {
	f, err := terrain.NewField(r3.Vec{X: 4, Y: 4, Z: 4}, 1)
	if err != nil {
		t.Fatal(err)
	}
	r := &stlReader{r: NewFieldRenderer(f, 0)}
	n, err := r.Read(make([]byte, stlTriangleSize-1))
	if err == nil || n != 0 {
		t.Fatalf("got n=%d err=%v, want buffer size error", n, err)
	}
	if !bytes.Contains([]byte(err.Error()), []byte("buffer")) {
		t.Errorf("error %q does not mention the buffer", err)
	}
}
