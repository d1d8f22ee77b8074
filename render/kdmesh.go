package render

import (
	"math"

	"github.com/soypat/terrain/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = kdTriangles{}
	_ kdtree.Bounder   = kdTriangles{}
)

// MeshIndex answers nearest-triangle queries against a mesh. Hosts use it
// to snap a brush center onto the extracted surface.
type MeshIndex struct {
	tree *kdtree.Tree
}

// NewMeshIndex builds a k-d tree over the triangle centroids of m. The
// index does not track later edits of the field.
func NewMeshIndex(m *Mesh) *MeshIndex {
	kd := make(kdTriangles, len(m.Triangles))
	for i := range kd {
		kd[i] = kdTriangle(m.Triangles[i])
	}
	return &MeshIndex{tree: kdtree.New(kd, true)}
}

// Nearest returns the triangle whose centroid is closest to p and the
// distance between them. ok is false if the mesh has no triangles.
func (mi *MeshIndex) Nearest(p r3.Vec) (t r3.Triangle, dist float64, ok bool) {
	if mi.tree.Root == nil {
		return t, 0, false
	}
	got, d2 := mi.tree.Nearest(kdTriangle{p, p, p})
	if got == nil {
		return t, 0, false
	}
	return r3.Triangle(got.(kdTriangle)), math.Sqrt(d2), true
}

type kdTriangles []kdTriangle

type kdTriangle r3.Triangle

func (k kdTriangles) Index(i int) kdtree.Comparable {
	return k[i]
}

// Len returns the length of the list.
func (k kdTriangles) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), triangles: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdTriangles) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

func (k kdTriangles) Bounds() *kdtree.Bounding {
	c := kdCentroid(k[0])
	box := d3.Box{Min: c, Max: c}
	for _, tri := range k[1:] {
		box = box.Include(kdCentroid(tri))
	}
	return &kdtree.Bounding{
		Min: kdTriangle{box.Min, box.Min, box.Min},
		Max: kdTriangle{box.Max, box.Max, box.Max},
	}
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdTriangle), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdTriangle) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdTriangle) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(kdCentroid(a), kdCentroid(b.(kdTriangle))))
}

// c = a.dim - b.dim
func kdComp(a, b kdTriangle, dim int) float64 {
	ac, bc := kdCentroid(a), kdCentroid(b)
	switch dim {
	case 0:
		return ac.X - bc.X
	case 1:
		return ac.Y - bc.Y
	}
	return ac.Z - bc.Z
}

func kdCentroid(a kdTriangle) r3.Vec { return r3.Triangle(a).Centroid() }

type kdPlane struct {
	dim       int
	triangles kdTriangles
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.triangles[i], p.triangles[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}

func (p kdPlane) Len() int { return len(p.triangles) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}
