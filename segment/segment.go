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

// Package segment turns a weighted list of gauge segments into angular
// slices and the geometry used to draw them.
package segment

import (
	"image/color"
	"math"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
)

// FanSteps is the number of boundary intervals of a slice's triangle fan.
const FanSteps = 96

// Segment describes one wedge of the dial, as supplied by the host.
type Segment struct {
	Label string `json:"label,omitempty"`

	// Weight is the share of the angle range. Values which are not
	// positive select the default weight 1.
	Weight float64 `json:"weight,omitempty"`

	// Color is a hex colour (#rgb, #rrggbb or #rrggbbaa). Empty and
	// malformed values render white.
	Color string `json:"color,omitempty"`

	// Image is an opaque reference to a bitmap which is warped to fill the
	// wedge. Empty means flat colour only.
	Image string `json:"image,omitempty"`

	ImageScale   float64 `json:"imageScale,omitempty"`   // 0 means 1
	ImageOffsetX float64 `json:"imageOffsetX,omitempty"` // logical pixels
	ImageOffsetY float64 `json:"imageOffsetY,omitempty"` // logical pixels
	ImageRotate  float64 `json:"imageRotate,omitempty"`  // degrees
}

// Defaults returns the low/medium/high ramp used when a gauge is
// configured without segments.
func Defaults() []Segment {
	return []Segment{
		{Label: "Low", Weight: 30, Color: "#22c55e"},
		{Label: "Med", Weight: 40, Color: "#f59e0b"},
		{Label: "High", Weight: 30, Color: "#ef4444"},
	}
}

// ImageTransform positions a texture inside a wedge. Offsets are in
// texture space, i.e. fractions of the dial diameter.
type ImageTransform struct {
	Scale    float64
	Rotation float64 // radians
	OffsetX  float64
	OffsetY  float64
}

// Slice is the angular region assigned to one segment.
type Slice struct {
	Index  int
	A1, A2 float64 // start and end angle in radians

	Label string
	Color color.NRGBA
	Image string

	// Fan holds the centre followed by FanSteps+1 points on the outer
	// radius, walking from A1 to A2.
	Fan []vec.Vec2

	Transform ImageTransform
}

// Mid returns the angle halfway through the slice.
func (s *Slice) Mid() float64 {
	return (s.A1 + s.A2) / 2
}

// Weight returns the effective weight of seg.
func Weight(seg Segment) float64 {
	if seg.Weight > 0 && !math.IsInf(seg.Weight, 1) {
		return seg.Weight
	}
	return 1
}

// TotalWeight sums the effective weights of segs. If the sum is not a
// positive finite number, as for an empty list, the result is 1.
func TotalWeight(segs []Segment) float64 {
	total := 0.0
	for _, seg := range segs {
		total += Weight(seg)
	}
	if !(total > 0) || math.IsInf(total, 1) {
		return 1
	}
	return total
}

// shares returns the fraction of the angle range owed to each segment.
// Weights are scaled by the largest one first, so that the sum stays
// finite for huge weights.
func shares(segs []Segment) []float64 {
	res := make([]float64, len(segs))
	largest := 0.0
	for i, seg := range segs {
		res[i] = Weight(seg)
		largest = max(largest, res[i])
	}
	total := 0.0
	for i := range res {
		res[i] /= largest
		total += res[i]
	}
	for i := range res {
		res[i] /= total
	}
	return res
}

// Build divides [start, end] among segs in input order, in proportion to
// their weights. An empty segs selects Defaults. The last slice ends
// exactly at end, absorbing rounding errors.
func Build(segs []Segment, d layout.Dimensions, start, end float64) []Slice {
	if len(segs) == 0 {
		segs = Defaults()
	}
	span := end - start
	share := shares(segs)
	diameter := 2 * d.OuterRadius

	slices := make([]Slice, len(segs))
	current := start
	for i, seg := range segs {
		a1 := current
		a2 := a1 + span*share[i]
		if i == len(segs)-1 {
			a2 = end
		}
		current = a2

		c, ok := ParseHex(seg.Color)
		if !ok {
			c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		}

		scale := seg.ImageScale
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}
		var tr ImageTransform
		tr.Scale = scale
		tr.Rotation = seg.ImageRotate * math.Pi / 180
		if diameter > 0 {
			tr.OffsetX = seg.ImageOffsetX / diameter
			tr.OffsetY = seg.ImageOffsetY / diameter
		}

		slices[i] = Slice{
			Index:     i,
			A1:        a1,
			A2:        a2,
			Label:     seg.Label,
			Color:     c,
			Image:     seg.Image,
			Fan:       Fan(d.Center(), d.OuterRadius, a1, a2, FanSteps),
			Transform: tr,
		}
	}
	return slices
}
