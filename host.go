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
	"seehuhn.de/go/gauge/arc"
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/overlay"
)

// Host is the environment a gauge is drawn into.
type Host interface {
	// Bounds returns the size of the container in logical pixels.
	Bounds() layout.Size

	// DevicePixelRatio returns the number of device pixels per logical
	// pixel.
	DevicePixelRatio() float64

	// OnResize registers fn to be called after the container changed
	// size. The returned function removes the registration.
	OnResize(fn func()) (cancel func())

	// Canvas returns the surface for the shaded wedges.
	Canvas() *arc.Canvas

	// Overlay returns the vector layer stacked above the canvas.
	Overlay() *overlay.Layer
}
