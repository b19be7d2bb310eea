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
	"strconv"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
)

// ValueID is the ID of the group holding the value readout, and
// ValueTextID that of its text element.
const (
	ValueID     = "value"
	ValueTextID = "center-label"
)

const (
	valueFontSize   = 16
	valueFontWeight = 600
)

var ink = color.NRGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}

// ValueLabel shows the current value as a number inside the dial.
type ValueLabel struct {
	layer *Layer
}

// NewValueLabel returns a value readout drawing into layer.
func NewValueLabel(layer *Layer) *ValueLabel {
	return &ValueLabel{layer: layer}
}

// Draw replaces the value group with an empty readout.
func (v *ValueLabel) Draw(d layout.Dimensions) {
	at := vec.Vec2{
		X: d.CenterX,
		Y: d.CenterY - (d.OuterRadius-d.InnerRadius)*0.35,
	}
	v.layer.Replace(&Group{
		ID: ValueID,
		Items: []Item{&Text{
			ID:    ValueTextID,
			At:    at,
			Font:  Font{Size: valueFontSize, Weight: valueFontWeight},
			Style: Style{Fill: ink},
		}},
	})
}

// Update sets the readout to value rounded to an integer. NaN shows
// fallback instead.
func (v *ValueLabel) Update(value, fallback float64) {
	v.layer.SetText(ValueTextID, FormatValue(value, fallback))
}

// FormatValue returns the text of the value readout.
func FormatValue(value, fallback float64) string {
	if math.IsNaN(value) {
		value = fallback
	}
	r := math.Round(value)
	if r == 0 {
		r = 0
	}
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return ""
	}
	return strconv.FormatFloat(r, 'f', 0, 64)
}
