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

package gauge

import (
	"image"
	"image/draw"
	"sync"
	"time"

	"seehuhn.de/go/gauge/arc"
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/overlay"
)

// Offscreen is a Host without a display. The gauge is drawn into memory
// and can be retrieved with Snapshot.
type Offscreen struct {
	canvas *arc.Canvas
	layer  *overlay.Layer

	mu        sync.Mutex
	size      layout.Size
	dpr       float64
	nextID    int
	listeners map[int]func()
}

var _ Host = (*Offscreen)(nil)

// NewOffscreen returns a host with the given container size in logical
// pixels and device pixel ratio.
func NewOffscreen(width, height, dpr float64) *Offscreen {
	return &Offscreen{
		canvas:    arc.NewCanvas(),
		layer:     overlay.NewLayer(),
		size:      layout.Size{Width: width, Height: height},
		dpr:       dpr,
		listeners: make(map[int]func()),
	}
}

// Bounds implements Host.
func (o *Offscreen) Bounds() layout.Size {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.size
}

// DevicePixelRatio implements Host.
func (o *Offscreen) DevicePixelRatio() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dpr
}

// OnResize implements Host.
func (o *Offscreen) OnResize(fn func()) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.listeners, id)
	}
}

// Canvas implements Host.
func (o *Offscreen) Canvas() *arc.Canvas {
	return o.canvas
}

// Overlay implements Host.
func (o *Offscreen) Overlay() *overlay.Layer {
	return o.layer
}

// Listeners returns the number of registered resize callbacks.
func (o *Offscreen) Listeners() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.listeners)
}

// Resize changes the container size and device pixel ratio and notifies
// the registered callbacks.
func (o *Offscreen) Resize(width, height, dpr float64) {
	o.mu.Lock()
	o.size = layout.Size{Width: width, Height: height}
	o.dpr = dpr
	fns := make([]func(), 0, len(o.listeners))
	for _, fn := range o.listeners {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Snapshot returns the wedges with the overlay drawn on top, as seen at
// time t. The image has the size of the canvas backing buffer.
func (o *Offscreen) Snapshot(t time.Time) *image.RGBA {
	img := o.canvas.Snapshot()
	if img.Bounds().Empty() {
		return img
	}

	dpr := o.DevicePixelRatio()
	if !(dpr > 0) {
		dpr = 1
	}
	o.layer.Draw(img, dpr, t)
	return img
}

// Flatten composites img onto an opaque background.
func Flatten(img *image.RGBA, bg image.Image) *image.RGBA {
	res := image.NewRGBA(img.Bounds())
	draw.Draw(res, res.Bounds(), bg, image.Point{}, draw.Src)
	draw.Draw(res, res.Bounds(), img, img.Bounds().Min, draw.Over)
	return res
}
