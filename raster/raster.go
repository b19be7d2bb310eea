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

// Package raster computes anti-aliased coverage for filled vector paths.
//
// Coverage is delivered row by row to a caller-supplied callback, which
// keeps shading separate from scan conversion: the arc renderer shades
// every covered pixel, while overlays composite a flat colour.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Rule selects how winding numbers map to "inside".
type Rule int

const (
	// NonZero treats every point with a non-zero winding number as inside.
	NonZero Rule = iota

	// EvenOdd treats points with an odd winding number as inside.
	EvenOdd
)

// EmitFunc receives the coverage of one scanline. Coverage values lie in
// [0, 1]; coverage[i] belongs to pixel (xMin+i, y). The slice is only valid
// during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0, x1, y1 float64
	dxdy           float64 // (x1-x0)/(y1-y0)
	top, bot       float64 // min(y0, y1), max(y0, y1)
}

// Rasterizer converts paths into per-pixel coverage. Buffers are kept
// between calls, so a single Rasterizer should be reused for many paths.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip limits output to this device-space rectangle. The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the polyline approximating it.
	Flatness float64

	// Width is the stroke width in user space.
	Width float64

	// Cap sets the style for stroke endpoints (butt, round, or square).
	Cap graphics.LineCapStyle

	// Join sets the style for stroke corners (miter, round, or bevel).
	Join graphics.LineJoinStyle

	// MiterLimit caps miter join length. Must be at least 1.0.
	MiterLimit float64

	edges  []edge
	active []int
	cover  []float32
	area   []float32

	devXMin, devXMax float64
	devYMin, devYMax float64

	// stroke buffers
	segs             []strokeSegment
	segsOffsets      []int
	subpathClosed    []bool
	degeneratePoints []vec.Vec2
	stroke           []vec.Vec2
	strokeOffsets    []int
}

// NewRasterizer returns a Rasterizer with an identity CTM and the given
// clip rectangle.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters and sets a new clip rectangle.
// Buffer capacity is retained.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit
	r.edges = r.edges[:0]
	r.active = r.active[:0]
}

// FillNonZero fills p using the non-zero winding rule.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.Fill(p, NonZero, emit)
}

// FillEvenOdd fills p using the even-odd rule.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.Fill(p, EvenOdd, emit)
}

// Fill rasterises p with the given fill rule and reports the coverage of
// every touched scanline, top to bottom. Open subpaths are closed
// implicitly.
func (r *Rasterizer) Fill(p *path.Data, rule Rule, emit EmitFunc) {
	if p == nil {
		return
	}
	r.beginEdges()
	r.collectEdges(p)
	r.sweep(rule, emit)
}

// sweep scans the collected edges top to bottom.
func (r *Rasterizer) sweep(rule Rule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.edgeBounds()
	if !ok {
		return
	}

	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top, b.top)
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		rowTop := float64(y)
		rowBot := float64(y + 1)

		for next < len(r.edges) && r.edges[next].top < rowBot {
			r.active = append(r.active, next)
			next++
		}

		// drop edges which ended above this row
		kept := r.active[:0]
		for _, idx := range r.active {
			if r.edges[idx].bot > rowTop {
				kept = append(kept, idx)
			}
		}
		r.active = kept
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, idx := range r.active {
			r.accumulate(&r.edges[idx], y, xMin, xMax)
		}

		if rule == EvenOdd {
			integrateEvenOdd(r.cover, r.area)
		} else {
			integrateNonZero(r.cover, r.area)
		}

		if row, offset := trimZeros(r.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// beginEdges clears the edge list.
func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.devXMin, r.devYMin = math.Inf(1), math.Inf(1)
	r.devXMax, r.devYMax = math.Inf(-1), math.Inf(-1)
}

// collectEdges flattens p into device-space edges.
func (r *Rasterizer) collectEdges(p *path.Data) {
	var current, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && current != start {
				r.addEdge(current, start)
			}
			current = p.Coords[k]
			start = current
			open = true
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuad(current, p.Coords[k], p.Coords[k+1], r.addEdge)
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCube(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addEdge)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
			open = false
		}
	}
	if open && current != start {
		r.addEdge(current, start)
	}
}

// edgeBounds returns the integer bounding box of the collected edges,
// intersected with the clip rectangle.
func (r *Rasterizer) edgeBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.devXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.devXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.devYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// toDevice applies the CTM to a user-space point.
func (r *Rasterizer) toDevice(p vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// addEdge records the user-space segment a→b.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	a = r.toDevice(a)
	b = r.toDevice(b)

	r.devXMin = min(r.devXMin, a.X, b.X)
	r.devXMax = max(r.devXMax, a.X, b.X)
	r.devYMin = min(r.devYMin, a.Y, b.Y)
	r.devYMax = max(r.devYMax, a.Y, b.Y)

	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
		top:  min(a.Y, b.Y),
		bot:  max(a.Y, b.Y),
	})
}

// deviceLength returns the device-space length of a user-space vector.
func (r *Rasterizer) deviceLength(v vec.Vec2) float64 {
	m := r.CTM
	return math.Hypot(m[0]*v.X+m[2]*v.Y, m[1]*v.X+m[3]*v.Y)
}

// flattenQuad approximates the quadratic Bézier p0, p1, p2 by line
// segments, which are passed to add.
func (r *Rasterizer) flattenQuad(p0, p1, p2 vec.Vec2, add func(a, b vec.Vec2)) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		add(prev, pt)
		prev = pt
	}
}

// flattenCube approximates the cubic Bézier p0, …, p3 by line segments,
// choosing the number of pieces with Wang's formula.
func (r *Rasterizer) flattenCube(p0, p1, p2, p3 vec.Vec2, add func(a, b vec.Vec2)) {
	d1 := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3))
	n := 1
	if m := max(d1, d2); m > 0 {
		n = max(1, int(math.Ceil(math.Sqrt(3*m/(4*r.Flatness)))))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		add(prev, pt)
		prev = pt
	}
}

// accumulate adds the contribution of e within scanline y to the cover and
// area buffers, which are indexed relative to xMin.
//
// Each crossing contributes its signed height to "cover" and the part of
// that height lying to the right of the crossing to "area"; a running sum
// over cover plus the local area gives the signed covered fraction of each
// pixel.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	top := max(float64(y), e.top)
	bot := min(float64(y+1), e.bot)
	if bot <= top {
		return
	}
	dir := float32(1)
	if e.y1 < e.y0 {
		dir = -1
	}

	xTop := e.x0 + e.dxdy*(top-e.y0)
	xBot := e.x0 + e.dxdy*(bot-e.y0)
	left, right := min(xTop, xBot), max(xTop, xBot)
	colLeft := int(math.Floor(left))
	colRight := int(math.Floor(right))

	if colLeft == colRight {
		r.deposit(colLeft, dir*float32(bot-top), (left+right)/2, xMin, xMax)
		return
	}

	dydx := 1 / e.dxdy
	for col := colLeft; col <= colRight; col++ {
		xa := max(left, float64(col))
		xb := min(right, float64(col+1))
		if xb <= xa {
			continue
		}
		dy := math.Abs(dydx * (xb - xa))
		r.deposit(col, dir*float32(dy), (xa+xb)/2, xMin, xMax)
	}
}

// deposit adds a crossing of signed height c at horizontal position xMid
// within pixel column col.
func (r *Rasterizer) deposit(col int, c float32, xMid float64, xMin, xMax int) {
	switch {
	case col >= xMax:
		return
	case col < xMin:
		r.cover[0] += c
		r.area[0] += c
	default:
		i := col - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-(xMid-float64(col)))
	}
}

// integrateNonZero turns accumulated cover/area values into coverage using
// the non-zero rule. The result overwrites cover.
func integrateNonZero(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		cover[i] = min(v, 1)
	}
}

// integrateEvenOdd turns accumulated cover/area values into coverage using
// the even-odd rule. The result overwrites cover.
func integrateEvenOdd(cover, area []float32) {
	var acc float32
	for i := range cover {
		v := acc + area[i]
		acc += cover[i]
		if v < 0 {
			v = -v
		}
		v -= 2 * float32(int(v/2))
		if v > 1 {
			v = 2 - v
		}
		cover[i] = v
	}
}

// trimZeros strips zero coverage from both ends of a row.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the minimal vertical extent for an edge
	// to contribute coverage.
	horizontalEdgeThreshold = 1e-10

	// defaultMiterLimit is the default miter limit, matching PDF/PostScript.
	defaultMiterLimit = 10.0

	// zeroLengthThreshold is the length below which stroke segments are
	// dropped.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the |sin θ| below which two stroke
	// segments count as collinear.
	collinearityThreshold = 1e-6

	// cuspCosineThreshold detects a path doubling back on itself.
	cuspCosineThreshold = -0.9999
)
