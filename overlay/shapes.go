// seehuhn.de/go/gauge - a gauge rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package overlay

import (
	"image"
	"image/color"
	"math"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/gauge/raster"
	"seehuhn.de/go/gauge/segment"
)

// svgMiterLimit is the SVG default for stroke-miterlimit.
const svgMiterLimit = 4

// Shape is one entry of a display list: a path in layer coordinates which
// is filled and then stroked.
type Shape struct {
	Path        *path.Data
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	Cap         graphics.LineCapStyle
}

// Shapes flattens the layer into a display list, with every group rotated
// as shown at time t. Images are not included.
func (l *Layer) Shapes(t time.Time) []Shape {
	l.mu.Lock()
	defer l.mu.Unlock()

	face, _ := DefaultFace()

	var out []Shape
	for _, g := range l.groups {
		angle := g.rot.at(t, g.Transition)
		var m *matrix.Matrix
		if angle != 0 {
			r := rotateAbout(angle, g.rot.pivot)
			m = &r
		}

		emit := func(p *path.Data, st Style) {
			if p == nil || len(p.Cmds) == 0 {
				return
			}
			stroke := st.Stroke
			if !(st.StrokeWidth > 0) {
				stroke = color.NRGBA{}
			}
			if st.Fill.A == 0 && stroke.A == 0 {
				return
			}
			if m != nil {
				p = transformPath(p, *m)
			}
			capStyle := graphics.LineCapButt
			if st.RoundCap {
				capStyle = graphics.LineCapRound
			}
			out = append(out, Shape{
				Path:        p,
				Fill:        st.Fill,
				Stroke:      stroke,
				StrokeWidth: st.StrokeWidth,
				Cap:         capStyle,
			})
		}

		for _, it := range g.Items {
			switch it := it.(type) {
			case *Path:
				emit(it.Data, it.Style)
			case *Line:
				st := it.Style
				st.Fill = color.NRGBA{}
				emit((&path.Data{}).MoveTo(it.From).LineTo(it.To), st)
			case *Circle:
				emit(circlePath(it.Center, it.Radius), it.Style)
			case *TextPath:
				ref := l.pathLocked(it.Href)
				if face == nil || ref == nil {
					continue
				}
				emit(face.OnPath(it.Text, it.Font.Size, ref.Data), it.Style)
			case *Text:
				if face == nil {
					continue
				}
				emit(face.Line(it.Text, it.Font.Size, it.At), it.Style)
			}
		}
	}
	return out
}

// Draw composites the layer onto dst, which covers the view box at dpr
// device pixels per logical pixel.
func (l *Layer) Draw(dst *image.RGBA, dpr float64, t time.Time) {
	if !(dpr > 0) {
		dpr = 1
	}
	b := dst.Bounds()
	r := raster.NewRasterizer(rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	})
	r.CTM = matrix.Scale(dpr, dpr)
	r.MiterLimit = svgMiterLimit

	for _, s := range l.Shapes(t) {
		if s.Fill.A > 0 {
			r.FillNonZero(s.Path, raster.Solid(dst, raster.FromNRGBA(s.Fill)))
		}
		if s.Stroke.A > 0 {
			r.Width = s.StrokeWidth
			r.Cap = s.Cap
			r.Stroke(s.Path, raster.Solid(dst, raster.FromNRGBA(s.Stroke)))
		}
	}
}

// rotateAbout returns the rotation by angle radians about c. With y
// pointing down, positive angles turn clockwise.
func rotateAbout(angle float64, c vec.Vec2) matrix.Matrix {
	sin, cos := math.Sincos(angle)
	return matrix.Matrix{
		cos, sin,
		-sin, cos,
		c.X - cos*c.X + sin*c.Y,
		c.Y - sin*c.X - cos*c.Y,
	}
}

func transformPath(p *path.Data, m matrix.Matrix) *path.Data {
	out := &path.Data{
		Cmds:   append([]path.Command(nil), p.Cmds...),
		Coords: make([]vec.Vec2, len(p.Coords)),
	}
	for i, v := range p.Coords {
		out.Coords[i] = vec.Vec2{
			X: m[0]*v.X + m[2]*v.Y + m[4],
			Y: m[1]*v.X + m[3]*v.Y + m[5],
		}
	}
	return out
}

func circlePath(c vec.Vec2, r float64) *path.Data {
	if !(r > 0) {
		return nil
	}
	return segment.ArcPath(c, r, 0, 2*math.Pi).Close()
}
