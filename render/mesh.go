package render

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/soypat/terrain"
	"github.com/soypat/terrain/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is a triangle soup extracted from a field. Triangles carry no
// shared vertex indices.
type Mesh struct {
	Triangles []r3.Triangle
	// Generation is the field generation the mesh was extracted from.
	Generation uint64
	IsoLevel   float64
}

// Len returns the number of triangles in the mesh.
func (m *Mesh) Len() int { return len(m.Triangles) }

// Vertices returns the triangle vertices flattened in triangle order,
// three per triangle.
func (m *Mesh) Vertices() []r3.Vec {
	v := make([]r3.Vec, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		v = append(v, t[0], t[1], t[2])
	}
	return v
}

// Bounds returns the box enclosing every vertex. ok is false for an empty mesh.
func (m *Mesh) Bounds() (b r3.Box, ok bool) {
	if len(m.Triangles) == 0 {
		return b, false
	}
	return r3.Box(d3.Set(m.Vertices()).Bounds()), true
}

// Float32 returns vertex coordinates as x,y,z triples ready for upload to a
// vertex buffer. It fails if a coordinate does not fit a finite float32.
func (m *Mesh) Float32() ([]float32, error) {
	out := make([]float32, 0, 9*len(m.Triangles))
	for it, t := range m.Triangles {
		for _, v := range t {
			x, y, z := float32(v.X), float32(v.Y), float32(v.Z)
			if bad32(x) || bad32(y) || bad32(z) {
				return nil, fmt.Errorf("triangle %d vertex %v not representable as float32", it, v)
			}
			out = append(out, x, y, z)
		}
	}
	return out, nil
}

func bad32(f float32) bool { return math32.IsNaN(f) || math32.IsInf(f, 0) }

// MGL returns the vertices as mathgl vectors in triangle order.
func (m *Mesh) MGL() []mgl32.Vec3 {
	out := make([]mgl32.Vec3, 0, 3*len(m.Triangles))
	for _, t := range m.Triangles {
		for _, v := range t {
			out = append(out, mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)})
		}
	}
	return out
}

// Stale reports whether f has been modified since the mesh was extracted.
func (m *Mesh) Stale(f *terrain.Field) bool {
	return f.Generation() != m.Generation
}

// Outward returns a copy of the triangles with the winding flipped so that
// r3.Triangle.Normal points out of the solid region. Extraction keeps the
// lookup table winding, whose normals point into the solid.
func (m *Mesh) Outward() []r3.Triangle {
	out := make([]r3.Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		out[i] = r3.Triangle{t[0], t[2], t[1]}
	}
	return out
}

// Extract runs marching cubes over every cell of f and returns the
// triangles of the iso surface. Cells are visited in i, j, k order and each
// cell's triangles are emitted in table order, so the output is a pure
// function of the field contents and iso.
func Extract(f *terrain.Field, iso float64) *Mesh {
	if f == nil {
		panic("nil Field argument")
	}
	m := &Mesh{IsoLevel: iso}
	f.ReadFunc(func(s terrain.Samples) {
		m.Generation = s.Generation()
		d := s.Dims()
		m.Triangles = extractSlab(nil, s, iso, 0, d[0])
	})
	terrain.Logger().Debug("mesh extracted", "triangles", len(m.Triangles), "generation", m.Generation, "iso", iso)
	return m
}

// ExtractConcurrent is equivalent to Extract but splits the field into
// slabs along the first axis processed by up to workers goroutines.
// Slab outputs are concatenated in slab order so the result is identical
// to Extract. If workers < 1 the number of CPUs is used.
func ExtractConcurrent(f *terrain.Field, iso float64, workers int) *Mesh {
	if f == nil {
		panic("nil Field argument")
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	m := &Mesh{IsoLevel: iso}
	f.ReadFunc(func(s terrain.Samples) {
		m.Generation = s.Generation()
		cells := s.Dims()[0]
		workers = min(workers, cells)
		if workers <= 1 {
			m.Triangles = extractSlab(nil, s, iso, 0, cells)
			return
		}
		slabs := make([][]r3.Triangle, workers)
		var wg sync.WaitGroup
		for w := range slabs {
			i0, i1 := w*cells/workers, (w+1)*cells/workers
			wg.Add(1)
			go func() {
				defer wg.Done()
				slabs[w] = extractSlab(nil, s, iso, i0, i1)
			}()
		}
		wg.Wait()
		n := 0
		for _, slab := range slabs {
			n += len(slab)
		}
		m.Triangles = make([]r3.Triangle, 0, n)
		for _, slab := range slabs {
			m.Triangles = append(m.Triangles, slab...)
		}
	})
	terrain.Logger().Debug("mesh extracted", "triangles", len(m.Triangles), "generation", m.Generation,
		"iso", iso, "workers", workers)
	return m
}

// extractSlab appends to dst the triangles of cells with anchor i in [i0,i1).
func extractSlab(dst []r3.Triangle, s terrain.Samples, iso float64, i0, i1 int) []r3.Triangle {
	d := s.Dims()
	var buf [marchingCubesMaxTriangles]r3.Triangle
	for i := i0; i < i1; i++ {
		for j := 0; j < d[1]; j++ {
			for k := 0; k < d[2]; k++ {
				n := processCell(buf[:], s, iso, i, j, k)
				dst = append(dst, buf[:n]...)
			}
		}
	}
	return dst
}

// processCell polygonizes the cell anchored at (i,j,k). Positions are only
// computed for cells the surface crosses.
func processCell(dst []r3.Triangle, s terrain.Samples, iso float64, i, j, k int) int {
	var (
		anchor = terrain.V3i{i, j, k}
		corner [8]terrain.V3i
		v      [8]float64
	)
	for c, off := range mcCornerOffsets {
		corner[c] = anchor.Add(off)
		v[c] = s.At(corner[c][0], corner[c][1], corner[c][2])
	}
	if mcEdgeTable[cubeIndex(v, iso)] == 0 {
		return 0
	}
	var p [8]r3.Vec
	for c, q := range corner {
		p[c] = s.Position(q[0], q[1], q[2])
	}
	return mcToTriangles(dst, p, v, iso)
}

// ErrFieldModified is returned by a field renderer when the field was
// mutated after rendering began.
var ErrFieldModified = errors.New("render: field modified during rendering")
