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
	"math"
	"sync"
)

// DefaultMaxTextureSize is the largest texture edge a Canvas accepts
// without downscaling.
const DefaultMaxTextureSize = 2048

// Canvas is the rasterisation surface of a gauge together with its
// graphics context. The context owns programs and textures; counts of the
// live objects are kept so that leaks are observable.
//
// At most one Renderer is bound to a Canvas at a time.
type Canvas struct {
	// MaxTextureSize limits texture dimensions; larger bitmaps are
	// downscaled on upload. Zero means DefaultMaxTextureSize.
	MaxTextureSize int

	mu       sync.Mutex
	img      *image.RGBA
	owner    *Renderer
	textures int
	programs int
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rectangle{})}
}

// BackingSize returns the size in device pixels of the buffer backing a
// layout of width×height logical pixels. The device pixel ratio is
// applied once; ratios which are not positive count as 1.
func BackingSize(width, height, dpr float64) (int, int) {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	return int(math.Round(width * dpr)), int(math.Round(height * dpr))
}

// Bounds returns the current size of the backing buffer.
func (c *Canvas) Bounds() image.Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.img.Rect
}

// Snapshot returns a copy of the current pixels.
func (c *Canvas) Snapshot() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := image.NewRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// LiveTextures returns the number of textures which have been created on
// this canvas and not yet released.
func (c *Canvas) LiveTextures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.textures
}

// LivePrograms returns the number of compiled, unreleased programs.
func (c *Canvas) LivePrograms() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.programs
}

// Owner returns the renderer currently bound to the canvas, or nil.
func (c *Canvas) Owner() *Renderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owner
}

// bind makes r the owner of the canvas. A previously bound renderer is
// destroyed first, so that its resources are gone before r allocates its
// own.
func (c *Canvas) bind(r *Renderer) {
	c.mu.Lock()
	prev := c.owner
	c.mu.Unlock()
	if prev != nil && prev != r {
		prev.Destroy()
	}

	c.mu.Lock()
	c.owner = r
	c.mu.Unlock()
}

// unbind clears the owner if it is still r.
func (c *Canvas) unbind(r *Renderer) {
	c.mu.Lock()
	if c.owner == r {
		c.owner = nil
	}
	c.mu.Unlock()
}

// resizeLocked sets the backing buffer to w×h pixels and clears it to
// transparent black. The caller must hold c.mu.
func (c *Canvas) resizeLocked(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if c.img.Rect.Dx() != w || c.img.Rect.Dy() != h {
		c.img = image.NewRGBA(image.Rect(0, 0, w, h))
		return
	}
	clear(c.img.Pix)
}

func (c *Canvas) maxTextureSize() int {
	if c.MaxTextureSize > 0 {
		return c.MaxTextureSize
	}
	return DefaultMaxTextureSize
}
