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

package arc

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"

	"seehuhn.de/go/gauge/raster"
)

// Texture is a bitmap owned by the graphics context of a Canvas.
// Pixels are stored as non-premultiplied RGBA.
type Texture struct {
	img      *image.NRGBA
	canvas   *Canvas
	released bool
}

// emptyTexel is bound when a slice has no texture of its own.
var emptyTexel = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// upload copies img into a new texture. Images larger than the maximum
// texture size are scaled down, keeping their aspect ratio.
func (c *Canvas) upload(img image.Image) *Texture {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if limit := c.maxTextureSize(); w > limit || h > limit {
		scale := float64(limit) / float64(max(w, h))
		w = max(int(math.Round(float64(w)*scale)), 1)
		h = max(int(math.Round(float64(h)*scale)), 1)
	}
	w, h = max(w, 1), max(h, 1)

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	switch {
	case src.Empty():
		dst.SetNRGBA(0, 0, emptyTexel)
	case w == src.Dx() && h == src.Dy():
		draw.Draw(dst, dst.Rect, img, src.Min, draw.Src)
	default:
		draw.CatmullRom.Scale(dst, dst.Rect, img, src, draw.Src, nil)
	}

	c.mu.Lock()
	c.textures++
	c.mu.Unlock()
	return &Texture{img: dst, canvas: c}
}

// newEmptyTexture returns a 1×1 transparent white texture.
func (c *Canvas) newEmptyTexture() *Texture {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, emptyTexel)
	return c.upload(img)
}

// Release frees the texture. Further calls have no effect.
func (t *Texture) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.canvas.mu.Lock()
	t.canvas.textures--
	t.canvas.mu.Unlock()
}

// Size returns the dimensions of the texture in texels.
func (t *Texture) Size() (int, int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// Sample returns the premultiplied colour at texture coordinates (u, v),
// using bilinear filtering with clamp-to-edge wrapping. The coordinates
// (0, 0) and (1, 1) are the outer corners of the first and last texel.
func (t *Texture) Sample(u, v float64) raster.Color {
	w, h := t.Size()
	x := u*float64(w) - 0.5
	y := v*float64(h) - 0.5
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0

	ix, iy := int(x0), int(y0)
	c00 := t.texel(ix, iy)
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)

	var out [4]float64
	for k := range out {
		top := c00[k]*(1-fx) + c10[k]*fx
		bot := c01[k]*(1-fx) + c11[k]*fx
		out[k] = top*(1-fy) + bot*fy
	}
	return premultiply(out)
}

// texel returns the colour at (x, y), clamped to the edge of the texture.
func (t *Texture) texel(x, y int) [4]float64 {
	b := t.img.Rect
	x = min(max(x, 0), b.Dx()-1)
	y = min(max(y, 0), b.Dy()-1)
	i := t.img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := t.img.Pix[i : i+4 : i+4]
	return [4]float64{
		float64(p[0]) / 255,
		float64(p[1]) / 255,
		float64(p[2]) / 255,
		float64(p[3]) / 255,
	}
}
