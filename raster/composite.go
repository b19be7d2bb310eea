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
	"image"
	"image/color"
)

// Color is a premultiplied RGBA colour with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Transparent is the zero colour.
var Transparent = Color{}

// FromNRGBA converts a non-premultiplied 8-bit colour.
func FromNRGBA(c color.NRGBA) Color {
	a := float32(c.A) / 255
	return Color{
		R: float32(c.R) / 255 * a,
		G: float32(c.G) / 255 * a,
		B: float32(c.B) / 255 * a,
		A: a,
	}
}

// ShadeFunc computes the colour of the device pixel (x, y). Returning false
// discards the pixel.
type ShadeFunc func(x, y int) (Color, bool)

// Solid returns an EmitFunc which composites c over dst, weighted by the
// coverage of each pixel.
func Solid(dst *image.RGBA, c Color) EmitFunc {
	return func(y, xMin int, coverage []float32) {
		if y < dst.Rect.Min.Y || y >= dst.Rect.Max.Y {
			return
		}
		for i, cov := range coverage {
			x := xMin + i
			if x < dst.Rect.Min.X || x >= dst.Rect.Max.X {
				continue
			}
			over(dst.Pix[dst.PixOffset(x, y):], c, cov)
		}
	}
}

// Shaded returns an EmitFunc which asks shade for the colour of every
// covered pixel and composites the result over dst.
func Shaded(dst *image.RGBA, shade ShadeFunc) EmitFunc {
	return func(y, xMin int, coverage []float32) {
		if y < dst.Rect.Min.Y || y >= dst.Rect.Max.Y {
			return
		}
		for i, cov := range coverage {
			x := xMin + i
			if x < dst.Rect.Min.X || x >= dst.Rect.Max.X {
				continue
			}
			c, keep := shade(x, y)
			if !keep {
				continue
			}
			over(dst.Pix[dst.PixOffset(x, y):], c, cov)
		}
	}
}

// over applies the Porter-Duff "source over" operator to one pixel.
func over(pix []uint8, c Color, cov float32) {
	if cov <= 0 || c.A <= 0 {
		return
	}
	sa := c.A * cov
	k := 1 - sa
	pix[0] = to8(c.R*cov + float32(pix[0])/255*k)
	pix[1] = to8(c.G*cov + float32(pix[1])/255*k)
	pix[2] = to8(c.B*cov + float32(pix[2])/255*k)
	pix[3] = to8(sa + float32(pix[3])/255*k)
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
