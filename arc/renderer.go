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
	"context"
	"log/slog"
	"math"
	"sync"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/raster"
	"seehuhn.de/go/gauge/segment"
)

// Renderer draws the wedges of a dial onto a Canvas.
//
// Textures are loaded in the background. Every call to BuildSlices starts
// a new generation; loads which complete for an older generation, or after
// Destroy, are discarded.
type Renderer struct {
	canvas *Canvas
	loader Loader
	log    *slog.Logger
	shader Shader

	mu       sync.Mutex
	alive    bool
	gen      uint64
	cancel   context.CancelFunc
	program  *Program
	empty    *Texture
	textures map[int]*Texture
	slices   []segment.Slice
	raster   *raster.Rasterizer
	pending  sync.WaitGroup
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLoader sets the loader used to resolve slice images. Without a
// loader, all slices are drawn in their flat colour.
func WithLoader(l Loader) Option {
	return func(r *Renderer) {
		r.loader = l
	}
}

// WithLogger sets the logger for compile and load failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// WithShader replaces the default WedgeShader.
func WithShader(s Shader) Option {
	return func(r *Renderer) {
		r.shader = s
	}
}

// New binds a new renderer to c. A renderer previously bound to c is
// destroyed first.
//
// If the shader fails to compile, the error is logged and the renderer
// only clears the canvas when drawing.
func New(c *Canvas, opts ...Option) *Renderer {
	r := &Renderer{
		canvas:   c,
		log:      slog.New(slog.DiscardHandler),
		shader:   WedgeShader{},
		textures: make(map[int]*Texture),
		raster:   raster.NewRasterizer(rect.Rect{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	c.bind(r)
	r.alive = true

	prog, err := c.Compile(r.shader)
	if err != nil {
		r.log.Error("arc: shader program failed", "err", err)
		return r
	}
	r.program = prog
	r.empty = c.newEmptyTexture()
	return r
}

// Canvas returns the canvas the renderer draws onto.
func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// Alive reports whether Destroy has not yet been called.
func (r *Renderer) Alive() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.alive
}

// Generation returns the number of the current slice generation.
func (r *Renderer) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Compiled reports whether the renderer holds a usable program.
func (r *Renderer) Compiled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program != nil
}

// Slices returns the slices of the current generation.
func (r *Renderer) Slices() []segment.Slice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]segment.Slice(nil), r.slices...)
}

// HasTexture reports whether a texture is loaded for slice index.
func (r *Renderer) HasTexture(index int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.textures[index] != nil
}

// BuildSlices divides the angle range [start, end] among segs and starts
// loading the slice images. For every image which loads while the
// generation is current, onReady is called with the slice index.
// onReady runs on a background goroutine without any lock held.
func (r *Renderer) BuildSlices(segs []segment.Segment, d layout.Dimensions, start, end float64, onReady func(index int)) []segment.Slice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		return nil
	}

	r.gen++
	gen := r.gen
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for index, tex := range r.textures {
		tex.Release()
		delete(r.textures, index)
	}

	r.slices = segment.Build(segs, d, start, end)
	if r.loader != nil {
		for i := range r.slices {
			s := &r.slices[i]
			if s.Image == "" {
				continue
			}
			r.pending.Add(1)
			go r.load(ctx, gen, s.Index, s.Image, onReady)
		}
	}
	return append([]segment.Slice(nil), r.slices...)
}

func (r *Renderer) load(ctx context.Context, gen uint64, index int, ref string, onReady func(int)) {
	defer r.pending.Done()

	img, err := r.loader.Load(ctx, ref)
	if err != nil {
		r.log.Debug("arc: texture load failed", "slice", index, "image", ref, "err", err)
		return
	}

	r.mu.Lock()
	if !r.alive || r.gen != gen {
		r.mu.Unlock()
		return
	}
	tex := r.canvas.upload(img)
	r.textures[index].Release()
	r.textures[index] = tex
	r.mu.Unlock()

	if onReady != nil {
		onReady(index)
	}
}

// Wait blocks until all texture loads started so far have completed, or
// until ctx is done.
func (r *Renderer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Draw resizes and clears the canvas, then shades every slice.
// Calling Draw repeatedly with the same arguments gives identical pixels.
func (r *Renderer) Draw(d layout.Dimensions, dpr float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.alive {
		return
	}
	if !(dpr > 0) {
		dpr = 1
	}

	w, h := BackingSize(d.Width, d.Height, dpr)
	c := r.canvas
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resizeLocked(w, h)
	if r.program == nil {
		return
	}

	r.raster.Reset(rect.Rect{URx: float64(w), URy: float64(h)})
	r.raster.CTM = matrix.Scale(dpr, dpr)

	u := Uniforms{
		Resolution:  vec.Vec2{X: float64(w), Y: float64(h)},
		Center:      vec.Vec2{X: d.CenterX * dpr, Y: d.CenterY * dpr},
		OuterRadius: d.OuterRadius * dpr,
		InnerRadius: d.InnerRadius * dpr,
	}
	// All slices are covered in a single pass, so that pixels on the seam
	// between two slices get their full coverage once. The shader inputs
	// are chosen per pixel from the slice containing the pixel's direction.
	perSlice := make([]Uniforms, len(r.slices))
	for i := range r.slices {
		s := &r.slices[i]
		su := u
		su.StartAngle = s.A1
		su.EndAngle = s.A2
		su.BaseColor = [4]float64{
			float64(s.Color.R) / 255,
			float64(s.Color.G) / 255,
			float64(s.Color.B) / 255,
			float64(s.Color.A) / 255,
		}
		su.ImageScale = s.Transform.Scale
		su.ImageRotation = s.Transform.Rotation
		su.ImageOffset = vec.Vec2{X: s.Transform.OffsetX, Y: s.Transform.OffsetY}
		if tex := r.textures[s.Index]; tex != nil {
			su.Texture = tex
			su.HasTexture = 1
		} else {
			su.Texture = r.empty
			su.HasTexture = 0
		}
		perSlice[i] = su
	}

	shade := func(x, y int) (raster.Color, bool) {
		pos := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
		p := pos.Sub(u.Center)
		i := segment.Locate(r.slices, math.Atan2(p.Y, p.X))
		if i < 0 {
			return raster.Transparent, false
		}
		return r.program.shader.Shade(pos, &perSlice[i])
	}
	r.raster.FillNonZero(segment.UnionPath(r.slices), raster.Shaded(c.img, shade))
}

// Destroy releases the textures and the program and unbinds the canvas.
// Pending loads are cancelled and their results discarded. Destroy may be
// called more than once.
func (r *Renderer) Destroy() {
	r.mu.Lock()
	if !r.alive {
		r.mu.Unlock()
		return
	}
	r.alive = false
	r.gen++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	for _, tex := range r.textures {
		tex.Release()
	}
	r.textures = nil
	r.empty.Release()
	r.empty = nil
	r.program.Release()
	r.program = nil
	r.slices = nil
	r.mu.Unlock()

	r.canvas.unbind(r)
}
