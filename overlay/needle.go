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

package overlay

import (
	"image/color"
	"math"
	"time"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
)

// NeedleID is the ID of the group holding the needle.
const NeedleID = "needle"

// NeedleTransition is the duration of the needle animation.
const NeedleTransition = 250 * time.Millisecond

const (
	needleOutlineWidth = 6
	needleWidth        = 3
	hubRadius          = 6
	hubStrokeWidth     = 2
)

var black = color.NRGBA{A: 0xff}

// Needle is the pointer of the gauge. Its geometry points along angle 0;
// the value is shown by rotating the whole group.
type Needle struct {
	layer *Layer
}

// NewNeedle returns a needle drawing into layer.
func NewNeedle(layer *Layer) *Needle {
	return &Needle{layer: layer}
}

// Draw sets the view box of the layer to the dial size and replaces the
// needle group. The new needle is not rotated.
func (n *Needle) Draw(d layout.Dimensions) {
	n.layer.SetViewBox(d.Width, d.Height)

	c := d.Center()
	tip := vec.Vec2{X: d.CenterX + d.NeedleLength, Y: d.CenterY}
	g := &Group{
		ID:         NeedleID,
		Transition: NeedleTransition,
		Items: []Item{
			&Line{From: c, To: tip, Style: Style{
				Stroke: white, StrokeWidth: needleOutlineWidth, RoundCap: true,
			}},
			&Line{From: c, To: tip, Style: Style{
				Stroke: black, StrokeWidth: needleWidth, RoundCap: true,
			}},
			&Circle{Center: c, Radius: hubRadius, Style: Style{
				Fill: black, Stroke: white, StrokeWidth: hubStrokeWidth,
			}},
		},
	}
	n.layer.Replace(g)
}

// Update turns the needle to angle (radians) about the dial centre.
// Only the rotation of the group changes.
func (n *Needle) Update(d layout.Dimensions, angle float64) {
	n.layer.Rotate(NeedleID, angle, d.Center())
}

// Angle maps value to the needle angle. The value is clamped to
// [lo, hi]; NaN counts as lo. If lo == hi the needle points at start.
func Angle(value, lo, hi, start, end float64) float64 {
	if math.IsNaN(value) {
		value = lo
	}
	ratio := 0.0
	if hi != lo {
		clamped := max(min(value, max(lo, hi)), min(lo, hi))
		ratio = (clamped - lo) / (hi - lo)
	}
	return start + ratio*(end-start)
}
