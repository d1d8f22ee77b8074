// Package preview draws shaded images of extracted terrain meshes with the
// fauxgl software rasterizer. It needs no GPU and is used by the sculpt
// example and tests to check edits visually.
package preview

import (
	"errors"
	"image"
	"image/png"
	"io"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/terrain/internal/d3"
	"github.com/soypat/terrain/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// View positions the camera. The mesh is first fit into a bi-unit cube
// centered at the origin so Eye and LookAt are given in that frame.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// Fovy is the vertical field of view in degrees.
	Fovy float64
	// Color and Background are hex colors such as "#468966".
	Color      string
	Background string
	// Supersample renders at a multiple of the output size and downsamples
	// for antialiasing. Values below 1 are treated as 1.
	Supersample int
}

// DefaultView is an isometric view from above with terrain Y pointing up.
var DefaultView = View{
	Up:          r3.Vec{Y: 1},
	Eye:         r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Near:        1,
	Far:         10,
	Fovy:        30,
	Color:       "#468966",
	Background:  "#FFF8E3",
	Supersample: 2,
}

// ErrEmptyMesh is returned when there is nothing to draw.
var ErrEmptyMesh = errors.New("preview: mesh has no drawable triangles")

// Render draws m as seen from v into a width x height image.
func Render(m *render.Mesh, v View, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("preview: image dimensions must be positive")
	}
	mesh, err := fauxMesh(m)
	if err != nil {
		return nil, err
	}
	scale := max(v.Supersample, 1)
	var (
		eye    = fauxVec(v.Eye)                       // camera position
		center = fauxVec(v.LookAt)                    // view center position
		up     = fauxVec(v.Up)                        // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize() // light direction
	)
	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	mesh.SmoothNormals()
	// create a rendering context
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(v.Background))
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(v.Fovy, aspect, v.Near, v.Far)
	// use builtin phong shader
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(v.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
	return img, nil
}

// WritePNG renders m and encodes the image as PNG to w.
func WritePNG(w io.Writer, m *render.Mesh, v View, width, height int) error {
	img, err := Render(m, v, width, height)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders m to a PNG file at path.
func SavePNG(path string, m *render.Mesh, v View, width, height int) error {
	img, err := Render(m, v, width, height)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// fauxMesh converts the outward-wound triangles of m, dropping the
// zero-area ones marching cubes emits on samples exactly at the iso level.
func fauxMesh(m *render.Mesh) (*fauxgl.Mesh, error) {
	const degenerateTol = 1e-12
	size := r3.Vec{X: 1, Y: 1, Z: 1}
	if b, ok := m.Bounds(); ok {
		size = d3.Box(b).Size()
	}
	tol := degenerateTol * d3.Max(size)
	tris := make([]*fauxgl.Triangle, 0, m.Len())
	for _, t := range m.Outward() {
		if t.IsDegenerate(tol) {
			continue
		}
		tris = append(tris, fauxgl.NewTriangleForPoints(fauxVec(t[0]), fauxVec(t[1]), fauxVec(t[2])))
	}
	if len(tris) == 0 {
		return nil, ErrEmptyMesh
	}
	return fauxgl.NewTriangleMesh(tris), nil
}

func fauxVec(v r3.Vec) fauxgl.Vector { return fauxgl.V(v.X, v.Y, v.Z) }
