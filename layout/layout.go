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

// Package layout maps the size of a gauge's container to concrete dial
// geometry.
package layout

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// DefaultInnerRatio is the inner radius as a fraction of the outer radius,
// used when no ratio is configured.
const DefaultInnerRatio = 0.68

// MaxInnerRatio bounds the inner ratio so that the wedge band never
// vanishes.
const MaxInnerRatio = 0.95

const (
	minWidth     = 200
	minHeight    = 120
	aspect       = 0.6
	radiusFactor = 0.92
	needleFactor = 0.92
)

// Size is the bounding size of the container, in logical pixels.
type Size struct {
	Width, Height float64
}

// Dimensions is the resolved layout of a dial, in logical pixels.
// The centre sits on the bottom edge, so a half-circle dial spanning
// [-π, 0] reads upright.
type Dimensions struct {
	Width, Height    float64
	CenterX, CenterY float64
	OuterRadius      float64
	InnerRadius      float64
	NeedleLength     float64
}

// Resolve computes the dial layout for a container of the given size.
// The container height is not used; the dial height follows from its
// width. innerRatio is clamped to [0, MaxInnerRatio]; NaN selects
// DefaultInnerRatio.
func Resolve(size Size, innerRatio float64) Dimensions {
	width := size.Width
	if !(width > minWidth) { // also catches NaN
		width = minWidth
	}
	height := max(minHeight, math.Round(width*aspect))

	if math.IsNaN(innerRatio) {
		innerRatio = DefaultInnerRatio
	}
	innerRatio = min(max(innerRatio, 0), MaxInnerRatio)

	outer := math.Floor(min(width/2, height) * radiusFactor)
	return Dimensions{
		Width:        width,
		Height:       height,
		CenterX:      math.Round(width / 2),
		CenterY:      height,
		OuterRadius:  outer,
		InnerRadius:  math.Floor(outer * innerRatio),
		NeedleLength: math.Round(outer * needleFactor),
	}
}

// Center returns the centre of the dial.
func (d Dimensions) Center() vec.Vec2 {
	return vec.Vec2{X: d.CenterX, Y: d.CenterY}
}

// Polar returns the point at distance r from the centre in direction
// angle. Angles are in radians, 0 points right and positive angles turn
// clockwise on screen, since y grows downwards.
func (d Dimensions) Polar(r, angle float64) vec.Vec2 {
	return vec.Vec2{
		X: d.CenterX + r*math.Cos(angle),
		Y: d.CenterY + r*math.Sin(angle),
	}
}
