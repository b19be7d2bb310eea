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

// Package gauge renders a single-value dial gauge.
//
// A gauge is a semicircular (or otherwise bounded) dial divided into
// weighted, coloured wedges which may carry images, a needle showing the
// current value, and curved labels naming the wedges. A Controller draws
// the gauge onto the canvas and overlay layer provided by a Host and
// keeps it up to date as the value changes and the host is resized.
//
// The drawing pipeline lives in sub-packages: layout computes the dial
// dimensions, segment divides the angle range, arc shades the wedges
// with the raster package, and overlay maintains labels and needle.
// Offscreen is a Host without a display, used by the command line tool
// and in tests.
package gauge
