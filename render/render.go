package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams triangles of an isosurface. ReadTriangles writes up to
// len(t) triangles and returns io.EOF once the surface is exhausted.
type Renderer interface {
	ReadTriangles(t []r3.Triangle) (int, error)
}

// Outward wraps r so every streamed triangle has its winding flipped. Marching
// cubes winds triangles with normals pointing into the solid. Outward makes
// them point out of it, as STL readers expect.
func Outward(r Renderer) Renderer { return outward{r} }

type outward struct{ r Renderer }

func (o outward) ReadTriangles(t []r3.Triangle) (int, error) {
	n, err := o.r.ReadTriangles(t)
	for i := range t[:n] {
		t[i][1], t[i][2] = t[i][2], t[i][1]
	}
	return n, err
}
