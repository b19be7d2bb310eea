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
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/segment"
)

// WedgesID is the ID of the group holding the vector rendition of the
// dial.
const WedgesID = "wedges"

const (
	wedgeStrokeWidth = 2
	edgeStrokeWidth  = 1.5
)

// Wedges draws the slices as vector donut sectors, for output formats
// without the shaded arc: SVG and PDF. Slice images are placed over
// their sector, clipped to it, in SVG output only.
type Wedges struct {
	layer *Layer
}

// NewWedges returns a vector dial drawing into layer.
func NewWedges(layer *Layer) *Wedges {
	return &Wedges{layer: layer}
}

// Draw replaces the wedges group. The group is drawn below all others.
func (w *Wedges) Draw(slices []segment.Slice, d layout.Dimensions) {
	g := &Group{ID: WedgesID}
	size := 2 * d.OuterRadius
	for _, s := range slices {
		outline := segment.DonutPath(d, s.A1, s.A2)
		g.Items = append(g.Items, &Path{
			Data: outline,
			Style: Style{
				Fill:        s.Color,
				Stroke:      white,
				StrokeWidth: wedgeStrokeWidth,
			},
		})
		if s.Image == "" {
			continue
		}
		g.Items = append(g.Items,
			&Image{
				Href: s.Image,
				X:    d.CenterX - d.OuterRadius,
				Y:    d.CenterY - d.OuterRadius,
				W:    size,
				H:    size,
				Clip: outline,
			},
			&Path{
				Data: outline,
				Style: Style{
					Stroke:      white,
					StrokeWidth: edgeStrokeWidth,
				},
			},
		)
	}

	w.layer.mu.Lock()
	defer w.layer.mu.Unlock()
	w.layer.removeLocked(WedgesID)
	w.layer.groups = append([]*Group{g}, w.layer.groups...)
}
