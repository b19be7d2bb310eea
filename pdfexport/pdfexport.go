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

// Package pdfexport writes a gauge overlay as a vector PDF page.
//
// Every shape of the overlay display list becomes a filled and stroked
// PDF path; text is written as glyph outlines. Images are not exported,
// wedges carrying an image appear in their flat colour. Colours are
// written as DeviceRGB, and transparency other than "fully transparent"
// is ignored.
package pdfexport

import (
	"errors"
	imgcolor "image/color"
	"time"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/gauge/overlay"
)

// MiterLimit matches the default stroke-miterlimit of SVG.
const MiterLimit = 4

// ErrEmpty is returned for a layer without a view box.
var ErrEmpty = errors.New("pdfexport: empty view box")

// WriteFile writes the layer, as seen at time t, to a single page PDF
// file. One PDF unit corresponds to one logical pixel.
func WriteFile(fileName string, l *overlay.Layer, t time.Time) error {
	width, height := l.ViewBox()
	if !(width > 0 && height > 0) {
		return ErrEmpty
	}
	paper := &pdf.Rectangle{URx: width, URy: height}

	page, err := document.CreateSinglePage(fileName, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// PDF origin is bottom-left, the overlay uses top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, height})
	page.SetLineJoin(graphics.LineJoinMiter)
	page.SetMiterLimit(MiterLimit)

	for _, s := range l.Shapes(t) {
		if s.Fill.A > 0 {
			page.SetFillColor(rgb(s.Fill))
			drawPath(page, s.Path)
			page.Fill()
		}
		if s.Stroke.A > 0 && s.StrokeWidth > 0 {
			page.SetStrokeColor(rgb(s.Stroke))
			page.SetLineWidth(s.StrokeWidth)
			page.SetLineCap(s.Cap)
			drawPath(page, s.Path)
			page.Stroke()
		}
	}

	return page.Close()
}

func drawPath(page *document.Page, p *path.Data) {
	// PDF has no quadratic segments
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}

func rgb(c imgcolor.NRGBA) color.Color {
	return color.DeviceRGB{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
}
