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

package segment

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/gauge/layout"
)

// Fan returns the vertices of a triangle fan covering the pie slice
// between angles a1 and a2: the centre c followed by steps+1 points on the
// circle of radius r.
func Fan(c vec.Vec2, r, a1, a2 float64, steps int) []vec.Vec2 {
	steps = max(steps, 1)
	verts := make([]vec.Vec2, 0, steps+2)
	verts = append(verts, c)
	delta := (a2 - a1) / float64(steps)
	for i := 0; i <= steps; i++ {
		a := a1 + float64(i)*delta
		if i == steps {
			a = a2 // neighbouring fans share this edge exactly
		}
		verts = append(verts, vec.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)})
	}
	return verts
}

// FanPath returns the outline of a triangle fan as a closed polygon.
// Since all triangles share the first vertex, the union of the fan's
// triangles is exactly this polygon.
func FanPath(fan []vec.Vec2) *path.Data {
	p := &path.Data{}
	if len(fan) < 3 {
		return p
	}
	p = p.MoveTo(fan[0])
	for _, v := range fan[1:] {
		p = p.LineTo(v)
	}
	return p.Close()
}

// UnionPath returns the fans of all slices as one path. Fans of
// neighbouring slices share their radial edge with opposite orientation,
// so under the non-zero rule the edge cancels and the seam is filled
// without a gap.
func UnionPath(slices []Slice) *path.Data {
	p := &path.Data{}
	for i := range slices {
		fan := slices[i].Fan
		if len(fan) < 3 {
			continue
		}
		p = p.MoveTo(fan[0])
		for _, v := range fan[1:] {
			p = p.LineTo(v)
		}
		p = p.Close()
	}
	return p
}

// Locate returns the index into slices of the slice containing the
// direction angle (radians, any branch). Directions outside all slices
// map to the slice with the nearest edge. The result is -1 if slices is
// empty.
func Locate(slices []Slice, angle float64) int {
	best, bestDist := -1, math.Inf(1)
	for i := range slices {
		s := &slices[i]
		mid := s.Mid()
		a := mid + math.Remainder(angle-mid, 2*math.Pi)
		lo, hi := min(s.A1, s.A2), max(s.A1, s.A2)
		if a >= lo && a <= hi {
			return i
		}
		dist := min(math.Abs(math.Remainder(a-s.A1, 2*math.Pi)),
			math.Abs(math.Remainder(a-s.A2, 2*math.Pi)))
		if dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// DonutPath returns the outline of the ring sector between angles a1 and
// a2: the outer arc, a radial line, the inner arc back, and a closing
// radial line. This is the vector-only rendition of a slice.
func DonutPath(d layout.Dimensions, a1, a2 float64) *path.Data {
	c := d.Center()
	p := (&path.Data{}).MoveTo(d.Polar(d.OuterRadius, a1))
	p = AppendArc(p, c, d.OuterRadius, a1, a2)
	if d.InnerRadius > 0 {
		p = p.LineTo(d.Polar(d.InnerRadius, a2))
		p = AppendArc(p, c, d.InnerRadius, a2, a1)
	} else {
		p = p.LineTo(c)
	}
	return p.Close()
}

// ArcPath returns the open circular arc of radius r around c from angle
// a1 to a2.
func ArcPath(c vec.Vec2, r, a1, a2 float64) *path.Data {
	start := vec.Vec2{X: c.X + r*math.Cos(a1), Y: c.Y + r*math.Sin(a1)}
	return AppendArc((&path.Data{}).MoveTo(start), c, r, a1, a2)
}

// AppendArc appends cubic Bézier curves approximating the arc of radius r
// around c from a1 to a2. The current point of p must be the start of the
// arc. Each curve spans at most a quarter turn.
func AppendArc(p *path.Data, c vec.Vec2, r, a1, a2 float64) *path.Data {
	sweep := a2 - a1
	n := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if n == 0 {
		return p
	}
	step := sweep / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * r

	a := a1
	for range n {
		b := a + step
		cosA, sinA := math.Cos(a), math.Sin(a)
		cosB, sinB := math.Cos(b), math.Sin(b)
		p0 := vec.Vec2{X: c.X + r*cosA, Y: c.Y + r*sinA}
		p3 := vec.Vec2{X: c.X + r*cosB, Y: c.Y + r*sinB}
		p1 := vec.Vec2{X: p0.X - k*sinA, Y: p0.Y + k*cosA}
		p2 := vec.Vec2{X: p3.X + k*sinB, Y: p3.Y - k*cosB}
		p = p.CubeTo(p1, p2, p3)
		a = b
	}
	return p
}
