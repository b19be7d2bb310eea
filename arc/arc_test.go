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
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/raster"
	"seehuhn.de/go/gauge/segment"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// gatedLoader serves solid images by reference. References listed in
// gates block until the corresponding channel is closed, regardless of
// the context.
type gatedLoader struct {
	colors map[string]color.NRGBA
	gates  map[string]chan struct{}
}

func (l *gatedLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if gate, ok := l.gates[ref]; ok {
		<-gate
	}
	c, ok := l.colors[ref]
	if !ok {
		return nil, errors.New("not found")
	}
	return solidImage(4, 4, c), nil
}

// pixelAt returns the colour of the canvas pixel containing the dial
// point at radius r and angle a.
func pixelAt(img *image.RGBA, d layout.Dimensions, dpr, r, a float64) color.RGBA {
	p := d.Polar(r, a)
	return img.RGBAAt(int(p.X*dpr), int(p.Y*dpr))
}

func near(a, b uint8) bool {
	return math.Abs(float64(a)-float64(b)) <= 1
}

func TestBackingSize(t *testing.T) {
	cases := []struct {
		w, h, dpr float64
		bw, bh    int
	}{
		{300, 180, 1, 300, 180},
		{300, 180, 2, 600, 360},
		{301.5, 181, 1.5, 452, 272},
		{300, 180, 0, 300, 180},
		{300, 180, math.NaN(), 300, 180},
	}
	for _, tc := range cases {
		bw, bh := BackingSize(tc.w, tc.h, tc.dpr)
		if bw != tc.bw || bh != tc.bh {
			t.Errorf("BackingSize(%g, %g, %g) = %d×%d, want %d×%d",
				tc.w, tc.h, tc.dpr, bw, bh, tc.bw, tc.bh)
		}
	}
}

func TestDrawAppliesRatioOnce(t *testing.T) {
	c := NewCanvas()
	r := New(c)
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	r.BuildSlices(nil, d, -math.Pi, 0, nil)
	r.Draw(d, 2)

	b := c.Bounds()
	if b.Dx() != 600 || b.Dy() != 360 {
		t.Fatalf("backing buffer is %d×%d, want 600×360", b.Dx(), b.Dy())
	}

	// The middle of the first default slice must be shaded at twice the
	// logical coordinates.
	got := pixelAt(c.Snapshot(), d, 2, (d.InnerRadius+d.OuterRadius)/2, -0.85*math.Pi)
	if !near(got.R, 0x22) || !near(got.G, 0xc5) || !near(got.B, 0x5e) || got.A != 255 {
		t.Errorf("slice colour = %v, want #22c55e", got)
	}
}

func TestDrawFlatColors(t *testing.T) {
	c := NewCanvas()
	r := New(c)
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	slices := r.BuildSlices(nil, d, -math.Pi, 0, nil)
	r.Draw(d, 1)
	img := c.Snapshot()

	want := []color.RGBA{
		{0x22, 0xc5, 0x5e, 0xff},
		{0xf5, 0x9e, 0x0b, 0xff},
		{0xef, 0x44, 0x44, 0xff},
	}
	mid := (d.InnerRadius + d.OuterRadius) / 2
	for i, s := range slices {
		got := pixelAt(img, d, 1, mid, s.Mid())
		w := want[i]
		if !near(got.R, w.R) || !near(got.G, w.G) || !near(got.B, w.B) || got.A != w.A {
			t.Errorf("slice %d: got %v, want %v", i, got, w)
		}
	}

	// The hole of the donut and the area outside stay transparent.
	for _, p := range []vec.Vec2{
		{X: d.CenterX, Y: d.CenterY - d.InnerRadius/2},
		{X: 2, Y: 2},
	} {
		if a := img.RGBAAt(int(p.X), int(p.Y)).A; a != 0 {
			t.Errorf("pixel at %v has alpha %d, want 0", p, a)
		}
	}
}

func TestDrawSeamsOpaque(t *testing.T) {
	c := NewCanvas()
	r := New(c)
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 400}, 0.5)
	segs := make([]segment.Segment, 7)
	for i := range segs {
		segs[i].Color = "#0000ff"
	}
	slices := r.BuildSlices(segs, d, -math.Pi, 0, nil)
	r.Draw(d, 1)
	img := c.Snapshot()

	band := d.OuterRadius - d.InnerRadius
	for i := 1; i < len(slices); i++ {
		for _, f := range []float64{0.25, 0.5, 0.75} {
			rad := d.InnerRadius + f*band
			got := pixelAt(img, d, 1, rad, slices[i].A1)
			if got != (color.RGBA{B: 255, A: 255}) {
				t.Errorf("seam %d at radius %g: got %v", i, rad, got)
			}
		}
	}
}

func TestDrawIdempotent(t *testing.T) {
	c := NewCanvas()
	r := New(c)
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 320}, 0.5)
	r.BuildSlices(nil, d, -math.Pi, 0, nil)
	r.Draw(d, 1.5)
	first := c.Snapshot()
	r.Draw(d, 1.5)
	second := c.Snapshot()

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Error("repeated Draw changed the pixels")
	}
}

type brokenShader struct{}

func (brokenShader) Uniforms() []string {
	return []string{UniformCenter, "u_gamma"}
}

func (brokenShader) Shade(vec.Vec2, *Uniforms) (raster.Color, bool) {
	return raster.Color{R: 1, A: 1}, true
}

func TestCompileFailure(t *testing.T) {
	c := NewCanvas()
	_, err := c.Compile(brokenShader{})
	if !errors.Is(err, ErrLink) {
		t.Fatalf("Compile: got %v, want ErrLink", err)
	}

	r := New(c, WithShader(brokenShader{}))
	if r.Compiled() {
		t.Fatal("renderer with broken shader reports a program")
	}
	d := layout.Resolve(layout.Size{Width: 200}, 0.68)
	r.BuildSlices(nil, d, -math.Pi, 0, nil)
	r.Draw(d, 1)

	img := c.Snapshot()
	if img.Rect.Dx() != 200 {
		t.Errorf("canvas width = %d, want 200", img.Rect.Dx())
	}
	for _, v := range img.Pix {
		if v != 0 {
			t.Fatal("degraded renderer drew pixels")
		}
	}

	r.Destroy()
	r.Destroy()
	if n := c.LivePrograms(); n != 0 {
		t.Errorf("%d live programs after Destroy", n)
	}
}

func TestNewReplacesOwner(t *testing.T) {
	c := NewCanvas()
	r1 := New(c)
	r2 := New(c)
	defer r2.Destroy()

	if r1.Alive() {
		t.Error("previous renderer still alive")
	}
	if c.Owner() != r2 {
		t.Error("canvas not bound to the new renderer")
	}
	if n := c.LivePrograms(); n != 1 {
		t.Errorf("%d live programs, want 1", n)
	}
	if n := c.LiveTextures(); n != 1 {
		t.Errorf("%d live textures, want 1", n)
	}
}

func TestTextureLifecycle(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}
	loader := &gatedLoader{colors: map[string]color.NRGBA{"blue": blue}}

	c := NewCanvas()
	r := New(c, WithLoader(loader))

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	segs := []segment.Segment{
		{Label: "a", Color: "#ff0000", Image: "blue"},
		{Label: "b", Color: "#00ff00"},
	}
	var ready atomic.Int32
	slices := r.BuildSlices(segs, d, -math.Pi, 0, func(index int) {
		if index != 0 {
			t.Errorf("onReady(%d), want 0", index)
		}
		ready.Add(1)
	})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if ready.Load() != 1 {
		t.Fatalf("onReady called %d times, want 1", ready.Load())
	}
	if !r.HasTexture(0) || r.HasTexture(1) {
		t.Fatal("texture not stored for slice 0 only")
	}

	r.Draw(d, 1)
	img := c.Snapshot()
	mid := (d.InnerRadius + d.OuterRadius) / 2
	if got := pixelAt(img, d, 1, mid, slices[0].Mid()); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("textured slice: got %v, want blue", got)
	}
	if got := pixelAt(img, d, 1, mid, slices[1].Mid()); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("flat slice: got %v, want green", got)
	}

	// the empty texture and the texture of slice 0
	if n := c.LiveTextures(); n != 2 {
		t.Errorf("%d live textures, want 2", n)
	}

	// Rebuilding drops the textures of the old generation.
	r.BuildSlices(segs[1:], d, -math.Pi, 0, nil)
	if n := c.LiveTextures(); n != 1 {
		t.Errorf("%d live textures after rebuild, want 1", n)
	}

	r.Destroy()
	if n := c.LiveTextures(); n != 0 {
		t.Errorf("%d live textures after Destroy, want 0", n)
	}
	if c.Owner() != nil {
		t.Error("canvas still bound after Destroy")
	}
}

func TestLateLoadAfterDestroy(t *testing.T) {
	gate := make(chan struct{})
	loader := &gatedLoader{
		colors: map[string]color.NRGBA{"slow": {R: 255, A: 255}},
		gates:  map[string]chan struct{}{"slow": gate},
	}
	c := NewCanvas()
	r := New(c, WithLoader(loader))

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	var ready atomic.Int32
	r.BuildSlices([]segment.Segment{{Image: "slow"}}, d, -math.Pi, 0, func(int) {
		ready.Add(1)
	})
	r.Destroy()
	close(gate)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	if ready.Load() != 0 {
		t.Error("onReady called after Destroy")
	}
	if n := c.LiveTextures(); n != 0 {
		t.Errorf("late load left %d live textures", n)
	}
}

func TestOutOfOrderAfterRebuild(t *testing.T) {
	gate := make(chan struct{})
	loader := &gatedLoader{
		colors: map[string]color.NRGBA{
			"old": {R: 255, A: 255},
			"new": {B: 255, A: 255},
		},
		gates: map[string]chan struct{}{"old": gate},
	}
	c := NewCanvas()
	r := New(c, WithLoader(loader))
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	var (
		mu    sync.Mutex
		calls []uint64
	)
	newReady := make(chan struct{})
	r.BuildSlices([]segment.Segment{{Image: "old"}}, d, -math.Pi, 0, func(int) {
		mu.Lock()
		calls = append(calls, 1)
		mu.Unlock()
	})
	r.BuildSlices([]segment.Segment{{Image: "new"}}, d, -math.Pi, 0, func(int) {
		mu.Lock()
		calls = append(calls, 2)
		mu.Unlock()
		close(newReady)
	})

	select {
	case <-newReady:
	case <-time.After(5 * time.Second):
		t.Fatal("new generation never loaded")
	}
	close(gate)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 2 {
		t.Errorf("onReady calls = %v, want [2]", calls)
	}

	r.Draw(d, 1)
	got := pixelAt(c.Snapshot(), d, 1, (d.InnerRadius+d.OuterRadius)/2, -math.Pi/2)
	if got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel = %v, want the texture of the newer generation", got)
	}
	if n := c.LiveTextures(); n != 2 {
		t.Errorf("%d live textures, want 2", n)
	}
}

func TestLoadFailure(t *testing.T) {
	loader := LoaderFunc(func(context.Context, string) (image.Image, error) {
		return nil, errors.New("broken")
	})
	c := NewCanvas()
	r := New(c, WithLoader(loader))
	defer r.Destroy()

	d := layout.Resolve(layout.Size{Width: 300}, 0.68)
	var called atomic.Bool
	r.BuildSlices([]segment.Segment{{Image: "x", Color: "#123456"}}, d, -math.Pi, 0, func(int) {
		called.Store(true)
	})
	if err := r.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if called.Load() || r.HasTexture(0) {
		t.Error("failed load produced a texture")
	}

	r.Draw(d, 1)
	got := pixelAt(c.Snapshot(), d, 1, (d.InnerRadius+d.OuterRadius)/2, -math.Pi/2)
	if got != (color.RGBA{0x12, 0x34, 0x56, 0xff}) {
		t.Errorf("pixel = %v, want flat colour", got)
	}
}

func TestTexCoord(t *testing.T) {
	base := Uniforms{
		StartAngle:  -math.Pi,
		EndAngle:    0,
		InnerRadius: 50,
		OuterRadius: 100,
		ImageScale:  1,
	}
	rotated := base
	rotated.ImageRotation = math.Pi / 2
	wrapped := base
	wrapped.StartAngle = 3 * math.Pi / 4
	wrapped.EndAngle = 5 * math.Pi / 4
	shifted := base
	shifted.ImageOffset = vec.Vec2{X: 0.25, Y: -0.1}

	cases := []struct {
		name   string
		u      *Uniforms
		r, a   float64
		tu, tv float64
	}{
		{"top outer", &base, 100, -math.Pi / 2, 0.5, 0},
		{"top inner", &base, 50, -math.Pi / 2, 0.5, 1},
		{"start", &base, 75, -math.Pi, 0, 0.5},
		{"end", &base, 75, 0, 1, 0.5},
		{"rotated", &rotated, 75, 0, 0.5, 0},
		{"across pi", &wrapped, 75, -3 * math.Pi / 4, 1, 0.5},
		{"offset", &shifted, 75, -math.Pi / 2, 0.75, 0.4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := vec.Vec2{X: tc.r * math.Cos(tc.a), Y: tc.r * math.Sin(tc.a)}
			tu, tv := TexCoord(p, tc.r, tc.u)
			if math.Abs(tu-tc.tu) > 1e-9 || math.Abs(tv-tc.tv) > 1e-9 {
				t.Errorf("got (%g, %g), want (%g, %g)", tu, tv, tc.tu, tc.tv)
			}
		})
	}
}

func TestWedgeShaderDiscard(t *testing.T) {
	u := &Uniforms{
		Center:      vec.Vec2{X: 100, Y: 100},
		StartAngle:  -math.Pi,
		InnerRadius: 50,
		OuterRadius: 80,
		BaseColor:   [4]float64{1, 0, 0, 1},
	}
	var s WedgeShader
	cases := []struct {
		r    float64
		keep bool
	}{
		{10, false},
		{49.4, false},
		{49.6, true},
		{65, true},
		{80.4, true},
		{80.6, false},
	}
	for _, tc := range cases {
		_, keep := s.Shade(vec.Vec2{X: 100, Y: 100 - tc.r}, u)
		if keep != tc.keep {
			t.Errorf("r=%g: keep=%t, want %t", tc.r, keep, tc.keep)
		}
	}
}

func TestSampleBilinear(t *testing.T) {
	c := NewCanvas()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	tex := c.upload(img)
	defer tex.Release()

	cases := []struct {
		u    float64
		want float32
	}{
		{0, 0},
		{0.25, 0},
		{0.5, 0.5},
		{0.75, 1},
		{1, 1},
		{-3, 0},
		{7, 1},
	}
	for _, tc := range cases {
		got := tex.Sample(tc.u, 0.5)
		if math.Abs(float64(got.R-tc.want)) > 1e-6 || got.A != 1 {
			t.Errorf("Sample(%g) = %v, want grey %g", tc.u, got, tc.want)
		}
	}
}

func TestUploadDownscale(t *testing.T) {
	c := &Canvas{MaxTextureSize: 16}
	tex := c.upload(solidImage(64, 32, color.NRGBA{R: 200, A: 255}))
	w, h := tex.Size()
	if w != 16 || h != 8 {
		t.Errorf("texture is %d×%d, want 16×8", w, h)
	}
	if got := tex.Sample(0.5, 0.5); math.Abs(float64(got.R)-200.0/255) > 0.01 {
		t.Errorf("downscaled colour %v", got)
	}
	tex.Release()
	tex.Release()
	if n := c.LiveTextures(); n != 0 {
		t.Errorf("%d live textures, want 0", n)
	}
}
