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
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/overlay"
	"seehuhn.de/go/gauge/segment"
)

// VectorLayer draws the complete gauge, wedges included, into a new
// overlay layer. The result is static: the needle shows cfg.Value without
// animation. Slices with an image are drawn clipped to their wedge in SVG
// output and in their flat colour otherwise.
func VectorLayer(cfg Config, size layout.Size) *overlay.Layer {
	d := layout.Resolve(size, cfg.InnerRatio)
	slices := segment.Build(cfg.Segments, d, cfg.StartAngle, cfg.EndAngle)

	l := overlay.NewLayer()
	overlay.NewWedges(l).Draw(slices, d)
	overlay.NewLabels(l).Draw(slices, d, cfg.LabelOffset, 1)

	n := overlay.NewNeedle(l)
	n.Draw(d)
	n.Update(d, overlay.Angle(cfg.Value, cfg.Min, cfg.Max, cfg.StartAngle, cfg.EndAngle))

	if cfg.ShowValue {
		v := overlay.NewValueLabel(l)
		v.Draw(d)
		v.Update(cfg.Value, cfg.Min)
	}
	return l
}
