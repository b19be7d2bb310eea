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

package raster

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// strokeSegment is a flattened piece of a stroked path, in user space.
type strokeSegment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
	N    vec.Vec2 // unit normal, T turned by +90°
}

// Stroke rasterises the outline of p using Width, Cap, Join and
// MiterLimit. Overlapping parts of the outline are painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	if p == nil || !(r.Width > 0) {
		return
	}
	r.flattenStroke(p)

	r.stroke = r.stroke[:0]
	r.strokeOffsets = r.strokeOffsets[:0]

	// A subpath without extent only shows up with round caps, as a dot.
	if r.Cap == graphics.LineCapRound {
		for _, pt := range r.degeneratePoints {
			start := len(r.stroke)
			r.addArc(pt, r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
			r.strokeOffsets = append(r.strokeOffsets, start)
		}
	}

	for i := range r.segsOffsets {
		start := len(r.stroke)
		r.strokeSubpath(r.subpathSegments(i), r.subpathClosed[i])
		if len(r.stroke)-start >= 3 {
			r.strokeOffsets = append(r.strokeOffsets, start)
		} else {
			r.stroke = r.stroke[:start]
		}
	}

	r.beginEdges()
	for i, start := range r.strokeOffsets {
		end := len(r.stroke)
		if i+1 < len(r.strokeOffsets) {
			end = r.strokeOffsets[i+1]
		}
		poly := r.stroke[start:end]
		for j := 1; j < len(poly); j++ {
			r.addEdge(poly[j-1], poly[j])
		}
		r.addEdge(poly[len(poly)-1], poly[0])
	}
	r.sweep(NonZero, emit)
}

func (r *Rasterizer) subpathSegments(i int) []strokeSegment {
	end := len(r.segs)
	if i+1 < len(r.segsOffsets) {
		end = r.segsOffsets[i+1]
	}
	return r.segs[r.segsOffsets[i]:end]
}

// flattenStroke splits p into subpaths of straight segments.
func (r *Rasterizer) flattenStroke(p *path.Data) {
	r.segs = r.segs[:0]
	r.segsOffsets = r.segsOffsets[:0]
	r.subpathClosed = r.subpathClosed[:0]
	r.degeneratePoints = r.degeneratePoints[:0]

	var current, start vec.Vec2
	first := 0
	open := false
	drawn := false

	finish := func(closed bool) {
		switch {
		case len(r.segs) > first:
			r.segsOffsets = append(r.segsOffsets, first)
			r.subpathClosed = append(r.subpathClosed, closed)
		case drawn || closed:
			r.degeneratePoints = append(r.degeneratePoints, start)
		}
	}

	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				finish(false)
			}
			current = p.Coords[k]
			start = current
			first = len(r.segs)
			open = true
			drawn = false
			k++
		case path.CmdLineTo:
			if open {
				r.addStrokeSegment(current, p.Coords[k])
				current = p.Coords[k]
				drawn = true
			}
			k++
		case path.CmdQuadTo:
			if open {
				r.flattenQuad(current, p.Coords[k], p.Coords[k+1], r.addStrokeSegment)
				current = p.Coords[k+1]
				drawn = true
			}
			k += 2
		case path.CmdCubeTo:
			if open {
				r.flattenCube(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addStrokeSegment)
				current = p.Coords[k+2]
				drawn = true
			}
			k += 3
		case path.CmdClose:
			if open {
				if current != start {
					r.addStrokeSegment(current, start)
				}
				finish(true)
				current = start
				first = len(r.segs)
				open = false
				drawn = false
			}
		}
	}
	if open {
		finish(false)
	}
}

func (r *Rasterizer) addStrokeSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / length)
	r.segs = append(r.segs, strokeSegment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// cross returns the z component of the cross product of two tangents.
func cross(t1, t2 vec.Vec2) float64 {
	return t1.X*t2.Y - t1.Y*t2.X
}

// strokeSubpath appends the outline of one subpath to r.stroke as a single
// polygon: the +N side walking forward, then the -N side walking back.
// Joins are added on the outer side of each corner; on the inner side the
// two offset lines are cut at their intersection.
func (r *Rasterizer) strokeSubpath(segs []strokeSegment, closed bool) {
	if len(segs) == 0 {
		return
	}
	d := r.Width / 2
	first := &segs[0]
	last := &segs[len(segs)-1]

	if closed {
		r.stroke = append(r.stroke, first.A.Add(first.N.Mul(d)))
		for i := range segs {
			seg := &segs[i]
			next := first
			if i < len(segs)-1 {
				next = &segs[i+1]
			}
			r.forwardCorner(seg, next, d)
		}

		r.backwardCorner(last, first, d)
		for i := len(segs) - 1; i > 0; i-- {
			r.backwardCorner(&segs[i-1], &segs[i], d)
		}
		r.stroke = append(r.stroke, first.A.Sub(first.N.Mul(d)))
		return
	}

	r.addCap(first.A, first.T.Mul(-1), d)
	skip := false
	for i := range segs {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.A.Add(seg.N.Mul(d)))
		}
		skip = false
		if i == len(segs)-1 {
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			break
		}
		next := &segs[i+1]
		s := cross(seg.T, next.T)
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
		case s > 0:
			skip = r.addInnerCorner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
		default:
			r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
			r.addJoin(seg.B, seg.T, next.T, d, true)
		}
	}

	r.addCap(last.B, last.T, d)
	skip = false
	for i := len(segs) - 1; i >= 0; i-- {
		seg := &segs[i]
		if !skip {
			r.stroke = append(r.stroke, seg.B.Sub(seg.N.Mul(d)))
		}
		skip = false
		if i == 0 {
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			break
		}
		prev := &segs[i-1]
		s := cross(prev.T, seg.T)
		switch {
		case math.Abs(s) < collinearityThreshold:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
		case s > 0:
			r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
			r.addJoin(seg.A, prev.T, seg.T, d, false)
		default:
			skip = r.addInnerCorner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
		}
	}
}

// forwardCorner emits the +N side of the corner between seg and next of
// a closed subpath.
func (r *Rasterizer) forwardCorner(seg, next *strokeSegment, d float64) {
	s := cross(seg.T, next.T)
	switch {
	case math.Abs(s) < collinearityThreshold:
		r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)), next.A.Add(next.N.Mul(d)))
	case s > 0:
		r.addInnerCorner(seg.B, seg.T, next.T, seg.N, next.N, d, true)
	default:
		r.stroke = append(r.stroke, seg.B.Add(seg.N.Mul(d)))
		r.addJoin(seg.B, seg.T, next.T, d, true)
		r.stroke = append(r.stroke, next.A.Add(next.N.Mul(d)))
	}
}

// backwardCorner emits the -N side of the corner between prev and seg of
// a closed subpath, walking against the path direction.
func (r *Rasterizer) backwardCorner(prev, seg *strokeSegment, d float64) {
	s := cross(prev.T, seg.T)
	switch {
	case math.Abs(s) < collinearityThreshold:
		r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)), prev.B.Sub(prev.N.Mul(d)))
	case s > 0:
		r.stroke = append(r.stroke, seg.A.Sub(seg.N.Mul(d)))
		r.addJoin(seg.A, prev.T, seg.T, d, false)
		r.stroke = append(r.stroke, prev.B.Sub(prev.N.Mul(d)))
	default:
		r.addInnerCorner(seg.A, prev.T, seg.T, prev.N, seg.N, d, false)
	}
}

// addCap adds a line cap at P. T points away from the line and d is half
// the stroke width.
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		r.stroke = append(r.stroke, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(P, d, N, -math.Pi, true)
	}
}

// addInnerCorner cuts the inner side of a corner at the intersection of
// the two offset lines. If no usable intersection exists, both offset
// points are added instead. The result reports whether the intersection
// was used.
func (r *Rasterizer) addInnerCorner(P, T1, T2, N1, N2 vec.Vec2, d float64, positive bool) bool {
	cosTheta := T1.Dot(T2)
	halfAngle := math.Sqrt((1 + cosTheta) / 2)
	if cosTheta <= 1-1e-9 && halfAngle >= 1e-9 {
		dir := N1.Add(N2)
		if !positive {
			dir = dir.Mul(-1)
		}
		if l := dir.Length(); l >= 1e-9 {
			r.stroke = append(r.stroke, P.Add(dir.Mul(d/(l*halfAngle))))
			return true
		}
	}

	if positive {
		r.stroke = append(r.stroke, P.Add(N1.Mul(d)), P.Add(N2.Mul(d)))
	} else {
		r.stroke = append(r.stroke, P.Sub(N1.Mul(d)), P.Sub(N2.Mul(d)))
	}
	return false
}

// addJoin adds the outer join geometry at P, where the tangent turns from
// T1 to T2.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64, positive bool) {
	cosTheta := T1.Dot(T2)
	sinTheta := cross(T1, T2)
	if math.Abs(sinTheta) < collinearityThreshold {
		return
	}
	if cosTheta < cuspCosineThreshold {
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}

	N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
	N2 := vec.Vec2{X: -T2.Y, Y: T2.X}
	switch r.Join {
	case graphics.LineJoinMiter:
		// The miter length relative to the width is 1/cos(θ/2).
		sinHalf := math.Sqrt((1 + cosTheta) / 2)
		if sinHalf > 0 && 1/sinHalf <= r.MiterLimit+1e-10 {
			bisector := N1.Add(N2)
			if !positive {
				bisector = bisector.Mul(-1)
			}
			if l := bisector.Length(); l > zeroLengthThreshold {
				r.stroke = append(r.stroke, P.Add(bisector.Mul(d/(l*sinHalf))))
			}
		}

	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cosTheta)))
		if positive {
			if sinTheta < 0 {
				angle = -angle
			}
			r.addArc(P, d, N1, angle, false)
		} else {
			if sinTheta > 0 {
				angle = -angle
			}
			r.addArc(P, d, N2.Mul(-1), angle, false)
		}
	}
}

// addArc appends points on the circle of the given radius around center,
// starting in direction startDir and turning by sweep radians. The start
// point itself is only added if includeStart is set.
func (r *Rasterizer) addArc(center vec.Vec2, radius float64, startDir vec.Vec2, sweep float64, includeStart bool) {
	devRadius := max(
		r.deviceLength(vec.Vec2{X: radius}),
		r.deviceLength(vec.Vec2{Y: radius}),
	)

	n := 1
	if devRadius >= r.Flatness {
		// a chord spanning angle θ deviates r·(1-cos(θ/2)) from the circle
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step <= 0 || math.IsNaN(step) {
			step = math.Pi / 4
		}
		n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
	}

	i0 := 1
	if includeStart {
		i0 = 0
	}
	dt := sweep / float64(n)
	for i := i0; i <= n; i++ {
		sin, cos := math.Sincos(float64(i) * dt)
		dir := vec.Vec2{
			X: startDir.X*cos - startDir.Y*sin,
			Y: startDir.X*sin + startDir.Y*cos,
		}
		r.stroke = append(r.stroke, center.Add(dir.Mul(radius)))
	}
}
