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
	"time"

	"seehuhn.de/go/geom/vec"
)

// EaseOut evaluates the CSS timing function ease-out,
// cubic-bezier(0, 0, 0.58, 1), at progress p ∈ [0, 1].
func EaseOut(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}

	// x(s) is increasing on [0, 1], so bisection finds the curve
	// parameter belonging to p.
	lo, hi := 0.0, 1.0
	for range 40 {
		s := (lo + hi) / 2
		if bezierX(s) < p {
			lo = s
		} else {
			hi = s
		}
	}
	s := (lo + hi) / 2
	return 3*(1-s)*s*s + s*s*s
}

func bezierX(s float64) float64 {
	return 3*(1-s)*s*s*0.58 + s*s*s
}

// rotation is the animated rotation state of a group.
type rotation struct {
	from, to float64
	pivot    vec.Vec2
	start    time.Time
	valid    bool
}

// at returns the angle shown at time t.
func (r *rotation) at(t time.Time, d time.Duration) float64 {
	if d <= 0 || !t.Before(r.start.Add(d)) {
		return r.to
	}
	if t.Before(r.start) {
		return r.from
	}
	p := float64(t.Sub(r.start)) / float64(d)
	return r.from + (r.to-r.from)*EaseOut(p)
}

// set starts a rotation towards angle. The first rotation of a group is
// applied without animation.
func (r *rotation) set(angle float64, pivot vec.Vec2, now time.Time, d time.Duration) {
	r.pivot = pivot
	if !r.valid || d <= 0 {
		r.from, r.to = angle, angle
		r.start = now
		r.valid = true
		return
	}
	if angle == r.to {
		return
	}
	r.from = r.at(now, d)
	r.to = angle
	r.start = now
}
