// Package slice plots planar cross sections of a density field with
// gonum/plot. A heat map shows the sample values and a contour line marks
// the iso level, which makes the effect of brush edits easy to inspect.
package slice

import (
	"fmt"
	"io"
	"math"

	"github.com/soypat/terrain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Axis is the lattice axis normal to a cross section.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// horizontal and vertical lattice axes of the plane normal to a.
func (a Axis) planeAxes() (h, v int) {
	switch a {
	case X:
		return 2, 1
	case Y:
		return 0, 2
	}
	return 0, 1
}

// Plane is a copy of one lattice plane of a field. It implements
// plotter.GridXYZ with world coordinates on both plot axes.
type Plane struct {
	Axis  Axis
	Index int
	// IsoLevel is centered in the value range reported by Min and Max.
	IsoLevel   float64
	cols, rows int
	z          []float64
	x, y       []float64
	halfRange  float64
}

var _ plotter.GridXYZ = (*Plane)(nil)

// NewPlane copies the lattice plane normal to axis at the given lattice
// index. An index outside the field returns a *terrain.IndexError.
func NewPlane(f *terrain.Field, axis Axis, index int, iso float64) (*Plane, error) {
	if axis < X || axis > Z {
		return nil, fmt.Errorf("invalid slice axis %v", axis)
	}
	var probe terrain.V3i
	probe[axis] = index
	if _, err := f.Index(probe[0], probe[1], probe[2]); err != nil {
		return nil, err
	}
	ha, va := axis.planeAxes()
	d := f.Dims()
	pl := &Plane{
		Axis:     axis,
		Index:    index,
		IsoLevel: iso,
		cols:     d[ha] + 1,
		rows:     d[va] + 1,
	}
	pl.z = make([]float64, pl.cols*pl.rows)
	pl.x = make([]float64, pl.cols)
	pl.y = make([]float64, pl.rows)
	f.ReadFunc(func(s terrain.Samples) {
		var c terrain.V3i
		c[axis] = index
		for r := 0; r < pl.rows; r++ {
			for col := 0; col < pl.cols; col++ {
				c[ha], c[va] = col, r
				v := s.At(c[0], c[1], c[2])
				pl.z[r*pl.cols+col] = v
				if dev := math.Abs(v - iso); dev > pl.halfRange && !math.IsInf(dev, 0) {
					pl.halfRange = dev
				}
			}
		}
	})
	for col := range pl.x {
		pl.x[col] = float64(col-f.Half()[ha]) * f.Spacing()
	}
	for r := range pl.y {
		pl.y[r] = float64(r-f.Half()[va]) * f.Spacing()
	}
	if pl.halfRange == 0 {
		pl.halfRange = 1
	}
	return pl, nil
}

// Dims returns the number of columns and rows of the plane.
func (p *Plane) Dims() (c, r int) { return p.cols, p.rows }

// Z returns the sample at column c and row r.
func (p *Plane) Z(c, r int) float64 { return p.z[r*p.cols+c] }

// X returns the world coordinate of column c.
func (p *Plane) X(c int) float64 { return p.x[c] }

// Y returns the world coordinate of row r.
func (p *Plane) Y(r int) float64 { return p.y[r] }

// Min and Max bound the finite sample values symmetrically about the iso
// level so the palette midpoint marks the surface.
func (p *Plane) Min() float64 { return p.IsoLevel - p.halfRange }
func (p *Plane) Max() float64 { return p.IsoLevel + p.halfRange }

// Plot returns a heat map of the plane with the iso contour drawn on top.
func Plot(f *terrain.Field, axis Axis, index int, iso float64) (*plot.Plot, error) {
	pl, err := NewPlane(f, axis, index, iso)
	if err != nil {
		return nil, err
	}
	ha, va := axis.planeAxes()
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%v = %d (generation %d)", axis, index, f.Generation())
	p.X.Label.Text = Axis(ha).String()
	p.Y.Label.Text = Axis(va).String()
	heat := plotter.NewHeatMap(pl, palette.Heat(64, 1))
	contour := plotter.NewContour(pl, []float64{iso}, nil)
	p.Add(heat, contour)
	return p, nil
}

// WritePNG draws p as a PNG image of the given size to w.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
