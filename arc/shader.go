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
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/raster"
)

// Names of the uniforms a Renderer supplies to its program.
const (
	UniformResolution    = "resolution"
	UniformCenter        = "center"
	UniformStartAngle    = "startAngle"
	UniformEndAngle      = "endAngle"
	UniformOuterRadius   = "outerRadius"
	UniformInnerRadius   = "innerRadius"
	UniformHasTexture    = "hasTexture"
	UniformBaseColor     = "baseColor"
	UniformTexture       = "tex"
	UniformImageScale    = "imageScale"
	UniformImageOffset   = "imageOffset"
	UniformImageRotation = "imageRotation"
)

var supplied = []string{
	UniformResolution,
	UniformCenter,
	UniformStartAngle,
	UniformEndAngle,
	UniformOuterRadius,
	UniformInnerRadius,
	UniformHasTexture,
	UniformBaseColor,
	UniformTexture,
	UniformImageScale,
	UniformImageOffset,
	UniformImageRotation,
}

// Uniforms holds the per-slice values visible to a shader.
// All lengths are in device pixels.
type Uniforms struct {
	Resolution  vec.Vec2
	Center      vec.Vec2
	StartAngle  float64
	EndAngle    float64
	OuterRadius float64
	InnerRadius float64

	// HasTexture is 1 when Texture holds a loaded image and 0 otherwise.
	HasTexture float64

	// BaseColor is the flat colour of the slice, not premultiplied.
	BaseColor [4]float64

	Texture       *Texture
	ImageScale    float64
	ImageOffset   vec.Vec2
	ImageRotation float64
}

// A Shader computes the colour of a fragment.
type Shader interface {
	// Uniforms lists the names of the uniforms the shader reads.
	Uniforms() []string

	// Shade returns the premultiplied colour at the device position pos.
	// The second return value is false if the fragment is discarded.
	Shade(pos vec.Vec2, u *Uniforms) (raster.Color, bool)
}

// Program is a shader which has been linked against a canvas.
type Program struct {
	shader   Shader
	canvas   *Canvas
	released bool
}

// ErrLink is returned by Compile when a shader cannot be linked.
var ErrLink = errors.New("arc: link failed")

// Compile links s against the uniforms a Renderer supplies.
// Every uniform the shader reads must be one of these.
func (c *Canvas) Compile(s Shader) (*Program, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: no shader", ErrLink)
	}
	for _, name := range s.Uniforms() {
		if !slices.Contains(supplied, name) {
			return nil, fmt.Errorf("%w: missing uniform %q", ErrLink, name)
		}
	}

	c.mu.Lock()
	c.programs++
	c.mu.Unlock()
	return &Program{shader: s, canvas: c}, nil
}

// Release frees the program. Further calls have no effect.
func (p *Program) Release() {
	if p == nil || p.released {
		return
	}
	p.released = true
	p.canvas.mu.Lock()
	p.canvas.programs--
	p.canvas.mu.Unlock()
}

// WedgeShader shades one slice of the dial. Pixels outside the ring are
// discarded; inside, the slice colour is replaced by the texture, mapped
// so that u runs along the arc and v from the outer to the inner edge.
type WedgeShader struct{}

// Uniforms implements the Shader interface.
func (WedgeShader) Uniforms() []string {
	return supplied
}

// Shade implements the Shader interface.
func (WedgeShader) Shade(pos vec.Vec2, u *Uniforms) (raster.Color, bool) {
	p := pos.Sub(u.Center)
	r := p.Length()
	if r < u.InnerRadius-0.5 || r > u.OuterRadius+0.5 {
		return raster.Transparent, false
	}

	if u.HasTexture < 0.5 || u.Texture == nil {
		return premultiply(u.BaseColor), true
	}

	tu, tv := TexCoord(p, r, u)
	return u.Texture.Sample(tu, tv), true
}

// TexCoord maps the offset p from the centre, at distance r, to texture
// coordinates.
func TexCoord(p vec.Vec2, r float64, u *Uniforms) (float64, float64) {
	mid := (u.StartAngle + u.EndAngle) / 2
	theta := math.Atan2(p.Y, p.X)
	theta = mid + math.Remainder(theta-mid, 2*math.Pi)

	var t float64
	if span := u.EndAngle - u.StartAngle; span != 0 {
		t = clamp01((theta - u.StartAngle) / span)
	}
	band := max(u.OuterRadius-u.InnerRadius, 1)
	v := clamp01(1 - (r-u.InnerRadius)/band)

	x := (t - 0.5) * u.ImageScale
	y := (v - 0.5) * u.ImageScale
	sin, cos := math.Sincos(u.ImageRotation)
	tu := cos*x + sin*y + 0.5 + u.ImageOffset.X
	tv := -sin*x + cos*y + 0.5 + u.ImageOffset.Y
	return tu, tv
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

func premultiply(c [4]float64) raster.Color {
	a := clamp01(c[3])
	return raster.Color{
		R: float32(clamp01(c[0]) * a),
		G: float32(clamp01(c[1]) * a),
		B: float32(clamp01(c[2]) * a),
		A: float32(a),
	}
}
