package render

import (
	"io"

	"github.com/soypat/terrain"
	"gonum.org/v1/gonum/spatial/r3"
)

// fieldRenderer streams marching cubes triangles of a Field cell by cell.
type fieldRenderer struct {
	f   *terrain.Field
	iso float64
	gen uint64
	// cursor is the linear index of the next cell to process.
	cursor    int
	cells     terrain.V3i
	unwritten triangle3Buffer
}

var _ Renderer = (*fieldRenderer)(nil)

// NewFieldRenderer returns a Renderer that extracts the iso surface of f in
// the same order as Extract without materializing the whole mesh. The
// field generation is captured at construction: once f is mutated every
// subsequent read returns ErrFieldModified.
func NewFieldRenderer(f *terrain.Field, iso float64) Renderer {
	if f == nil {
		panic("nil Field argument")
	}
	return &fieldRenderer{
		f:         f,
		iso:       iso,
		gen:       f.Generation(),
		cells:     f.Dims(),
		unwritten: triangle3Buffer{buf: make([]r3.Triangle, 0, marchingCubesMaxTriangles)},
	}
}

// ReadTriangles writes triangles rendered from the field into the argument buffer.
// returns number of triangles written and an error if present.
func (fr *fieldRenderer) ReadTriangles(dst []r3.Triangle) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	total := fr.cells[0] * fr.cells[1] * fr.cells[2]
	fr.f.ReadFunc(func(s terrain.Samples) {
		if s.Generation() != fr.gen {
			err = ErrFieldModified
			return
		}
		if fr.unwritten.Len() > 0 {
			n += fr.unwritten.Read(dst)
			if n == len(dst) {
				return
			}
		}
		var tmp [marchingCubesMaxTriangles]r3.Triangle
		for fr.cursor < total && n < len(dst) {
			k := fr.cursor % fr.cells[2]
			j := (fr.cursor / fr.cells[2]) % fr.cells[1]
			i := fr.cursor / (fr.cells[2] * fr.cells[1])
			fr.cursor++
			if n+marchingCubesMaxTriangles > len(dst) {
				// Not enough room for a full cell, stash the overflow.
				nt := processCell(tmp[:], s, fr.iso, i, j, k)
				c := copy(dst[n:], tmp[:nt])
				n += c
				fr.unwritten.Write(tmp[c:nt])
				continue
			}
			n += processCell(dst[n:], s, fr.iso, i, j, k)
		}
		if fr.cursor == total && fr.unwritten.Len() == 0 {
			// Done rendering field.
			err = io.EOF
		}
	})
	return n, err
}
