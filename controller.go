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
	"context"
	"errors"
	"log/slog"
	"sync"

	"seehuhn.de/go/gauge/arc"
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/overlay"
)

// ErrMounted is returned by Mount if the controller is already mounted.
var ErrMounted = errors.New("gauge: already mounted")

// Controller draws a gauge into a Host and keeps it current.
//
// All methods are safe for concurrent use. Redraws caused by textures
// finishing to load are passed to the scheduler set by WithScheduler.
type Controller struct {
	host     Host
	loader   arc.Loader
	schedule func(func())
	log      *slog.Logger

	mu           sync.Mutex
	cfg          Config
	mounted      bool
	mounts       uint64
	renderer     *arc.Renderer
	dims         layout.Dimensions
	dpr          float64
	cancelResize func()

	labels *overlay.Labels
	needle *overlay.Needle
	value  *overlay.ValueLabel
}

// Option configures a Controller.
type Option func(*Controller)

// WithLoader sets the loader for slice images.
func WithLoader(l arc.Loader) Option {
	return func(c *Controller) {
		c.loader = l
	}
}

// WithScheduler sets the function used to run redraws after a texture
// has loaded. By default the redraw runs on the loading goroutine.
func WithScheduler(schedule func(func())) Option {
	return func(c *Controller) {
		c.schedule = schedule
	}
}

// WithLogger sets the logger of the controller. Without this option the
// package logger is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New returns an unmounted controller for the given host.
// cfg is usually obtained from DefaultConfig or ParseConfig. A zero angle
// range selects the upper half circle, and a zero value range with both
// ends at 0 selects [0, 100], so that a zero Config still draws a dial.
func New(host Host, cfg Config, opts ...Option) *Controller {
	layer := host.Overlay()
	c := &Controller{
		host:   host,
		cfg:    cfg.withDefaults(),
		labels: overlay.NewLabels(layer),
		needle: overlay.NewNeedle(layer),
		value:  overlay.NewValueLabel(layer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) logger() *slog.Logger {
	if c.log != nil {
		return c.log
	}
	return Logger()
}

// Mount draws the gauge and subscribes to resize notifications of the
// host.
func (c *Controller) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return ErrMounted
	}
	c.mountLocked()
	c.mounted = true
	c.cancelResize = c.host.OnResize(c.Resize)
	return nil
}

// mountLocked builds and draws everything from scratch.
func (c *Controller) mountLocked() {
	cfg := &c.cfg
	c.dims = layout.Resolve(c.host.Bounds(), cfg.InnerRatio)
	c.dpr = c.host.DevicePixelRatio()
	c.mounts++

	r := arc.New(c.host.Canvas(),
		arc.WithLoader(c.loader),
		arc.WithLogger(c.logger()))
	c.renderer = r

	slices := r.BuildSlices(cfg.Segments, c.dims, cfg.StartAngle, cfg.EndAngle,
		func(int) { c.textureReady(r) })
	r.Draw(c.dims, c.dpr)

	c.labels.Draw(slices, c.dims, cfg.LabelOffset, c.mounts)
	c.needle.Draw(c.dims)
	if cfg.ShowValue {
		c.value.Draw(c.dims)
	} else {
		c.host.Overlay().Remove(overlay.ValueID)
	}
	c.updateLocked()

	c.logger().Debug("gauge: mounted",
		"width", c.dims.Width, "height", c.dims.Height,
		"dpr", c.dpr, "slices", len(slices))
}

// textureReady redraws the wedges once a texture of r has loaded.
func (c *Controller) textureReady(r *arc.Renderer) {
	redraw := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.mounted || c.renderer != r {
			return
		}
		r.Draw(c.dims, c.dpr)
	}
	if c.schedule != nil {
		c.schedule(redraw)
	} else {
		redraw()
	}
}

// SetValue moves the needle to v. Before Mount only the value is
// recorded.
func (c *Controller) SetValue(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.Value = v
	if !c.mounted {
		return
	}
	c.updateLocked()
}

func (c *Controller) updateLocked() {
	cfg := &c.cfg
	angle := overlay.Angle(cfg.Value, cfg.Min, cfg.Max, cfg.StartAngle, cfg.EndAngle)
	c.needle.Update(c.dims, angle)
	if cfg.ShowValue {
		c.value.Update(cfg.Value, cfg.Min)
	}
}

// Resize rebuilds the gauge for the current size of the host. It is
// registered with the host by Mount.
func (c *Controller) Resize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mountLocked()
}

// Teardown unsubscribes from the host and releases the renderer.
// Textures which finish loading afterwards are discarded.
func (c *Controller) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	if c.cancelResize != nil {
		c.cancelResize()
		c.cancelResize = nil
	}
	c.renderer.Destroy()
	c.renderer = nil

	layer := c.host.Overlay()
	layer.Remove(overlay.LabelsID)
	layer.Remove(overlay.NeedleID)
	layer.Remove(overlay.ValueID)
}

// Mounted reports whether the gauge is currently drawn.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Config returns the current configuration, including the last value
// passed to SetValue.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Dimensions returns the layout of the last mount.
func (c *Controller) Dimensions() layout.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dims
}

// Renderer returns the current wedge renderer, or nil if the controller
// is not mounted.
func (c *Controller) Renderer() *arc.Renderer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderer
}

// Wait blocks until all slice images requested so far have been
// loaded, or until ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	r := c.Renderer()
	if r == nil {
		return nil
	}
	return r.Wait(ctx)
}
