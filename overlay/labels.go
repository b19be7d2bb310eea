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
	"fmt"
	"image/color"

	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/segment"
)

// LabelsID is the ID of the group holding the segment labels.
const LabelsID = "labels"

const (
	labelFontSize    = 20
	labelFontWeight  = 300
	labelStrokeWidth = 2
	minLabelRadius   = 4
)

var white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Labels sets the segment labels along arcs outside the dial.
type Labels struct {
	layer *Layer
}

// NewLabels returns a label overlay drawing into layer.
func NewLabels(layer *Layer) *Labels {
	return &Labels{layer: layer}
}

// LabelRadius returns the radius of the arcs carrying the labels: offset
// beyond the outer radius, but inside the view box.
func LabelRadius(d layout.Dimensions, offset float64) float64 {
	r := d.OuterRadius + offset
	return max(minLabelRadius, min(r, d.CenterY-2))
}

// LabelPathID returns the ID of the arc carrying the label of slice index
// in the given slice generation.
func LabelPathID(generation uint64, index int) string {
	return fmt.Sprintf("label-path-%d-%d", generation, index)
}

// Draw replaces the labels group with one label per slice.
func (lb *Labels) Draw(slices []segment.Slice, d layout.Dimensions, offset float64, generation uint64) {
	r := LabelRadius(d, offset)
	c := d.Center()

	g := &Group{ID: LabelsID}
	for _, s := range slices {
		id := LabelPathID(generation, s.Index)
		g.Items = append(g.Items,
			&Path{
				ID:   id,
				Data: segment.ArcPath(c, r, s.A1, s.A2),
			},
			&TextPath{
				Href: id,
				Text: s.Label,
				Font: Font{Size: labelFontSize, Weight: labelFontWeight},
				Style: Style{
					Fill:        white,
					Stroke:      white,
					StrokeWidth: labelStrokeWidth,
				},
			},
		)
	}
	lb.layer.Replace(g)
}
