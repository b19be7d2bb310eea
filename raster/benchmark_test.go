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

package raster

import (
	"fmt"
	"image"
	"math"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// BenchmarkWedge measures filling a dial wedge with this package.
func BenchmarkWedge(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			s := float64(size)
			pts := wedgePolygon(s/2, s, 0.45*s, -math.Pi, 0, 96)
			p := &path.Data{}
			p = p.MoveTo(pts[0])
			for _, q := range pts[1:] {
				p = p.LineTo(q)
			}
			p = p.Close()

			clip := rect.Rect{URx: s, URy: s}
			r := NewRasterizer(clip)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(clip)
				r.FillNonZero(p, func(y, xMin int, cov []float32) {
					row := dst.Pix[y*dst.Stride+xMin:]
					for i, c := range cov {
						row[i] = uint8(c * 255)
					}
				})
			}
		})
	}
}

// BenchmarkVectorWedge measures the same wedge with x/image/vector.
func BenchmarkVectorWedge(b *testing.B) {
	for _, size := range []int{20, 200, 2000} {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			s := float64(size)
			pts := wedgePolygon(s/2, s, 0.45*s, -math.Pi, 0, 96)
			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))

			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				r.MoveTo(float32(pts[0].X), float32(pts[0].Y))
				for _, q := range pts[1:] {
					r.LineTo(float32(q.X), float32(q.Y))
				}
				r.ClosePath()
				r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
			}
		})
	}
}
