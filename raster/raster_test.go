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
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// TestTriangleCoverage checks exact coverage for a thin triangle.
// The triangle (0,0)→(10,0)→(10,1) has the diagonal y = x/10, so pixel X
// must have coverage (2X+1)/20.
func TestTriangleCoverage(t *testing.T) {
	tri := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 1}).
		Close()

	r := NewRasterizer(rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1})

	coverage := make([]float32, 10)
	r.FillNonZero(tri, func(y, xMin int, cov []float32) {
		if y == 0 {
			copy(coverage[xMin:], cov)
		}
	})

	for x := range 10 {
		want := float32(2*x+1) / 20
		if math.Abs(float64(coverage[x]-want)) > 1e-6 {
			t.Errorf("pixel %d: got coverage %.4f, want %.4f", x, coverage[x], want)
		}
	}
}

func TestFillRules(t *testing.T) {
	// two nested squares with the same orientation
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).LineTo(vec.Vec2{X: 8, Y: 0}).
		LineTo(vec.Vec2{X: 8, Y: 8}).LineTo(vec.Vec2{X: 0, Y: 8}).Close().
		MoveTo(vec.Vec2{X: 2, Y: 2}).LineTo(vec.Vec2{X: 6, Y: 2}).
		LineTo(vec.Vec2{X: 6, Y: 6}).LineTo(vec.Vec2{X: 2, Y: 6}).Close()

	cases := []struct {
		rule Rule
		want float32
	}{
		{NonZero, 1},
		{EvenOdd, 0},
	}
	for _, tc := range cases {
		r := NewRasterizer(rect.Rect{URx: 8, URy: 8})
		got := float32(-1)
		r.Fill(p, tc.rule, func(y, xMin int, cov []float32) {
			if y == 4 && xMin <= 4 && 4 < xMin+len(cov) {
				got = cov[4-xMin]
			}
		})
		if tc.rule == EvenOdd && got == -1 {
			got = 0 // the hole was trimmed from the row
		}
		if got != tc.want {
			t.Errorf("rule %d: centre coverage %g, want %g", tc.rule, got, tc.want)
		}
	}
}

func TestClipAndCTM(t *testing.T) {
	// a unit square scaled by 4 covers a 4x4 block of pixels
	sq := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).LineTo(vec.Vec2{X: 1, Y: 0}).
		LineTo(vec.Vec2{X: 1, Y: 1}).LineTo(vec.Vec2{X: 0, Y: 1}).Close()

	r := NewRasterizer(rect.Rect{URx: 3, URy: 16})
	r.CTM = matrix.Scale(4, 4)

	var total float64
	rows := 0
	r.FillNonZero(sq, func(y, xMin int, cov []float32) {
		rows++
		if xMin+len(cov) > 3 {
			t.Errorf("row %d exceeds clip: xMin=%d len=%d", y, xMin, len(cov))
		}
		for _, c := range cov {
			total += float64(c)
		}
	})
	if rows != 4 {
		t.Errorf("got %d rows, want 4", rows)
	}
	if math.Abs(total-12) > 1e-4 {
		t.Errorf("total coverage %g, want 12", total)
	}
}

func TestEmptyPath(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	r.FillNonZero(&path.Data{}, func(y, xMin int, cov []float32) {
		t.Errorf("unexpected row %d", y)
	})
	r.FillNonZero(nil, func(y, xMin int, cov []float32) {
		t.Errorf("unexpected row %d", y)
	})
}

// TestAgainstVector compares the coverage of a wedge polygon with the
// rasteriser from golang.org/x/image/vector.
func TestAgainstVector(t *testing.T) {
	const size = 64
	pts := wedgePolygon(32, 60, 50, -math.Pi, -math.Pi/3, 40)

	p := &path.Data{}
	p = p.MoveTo(pts[0])
	for _, q := range pts[1:] {
		p = p.LineTo(q)
	}
	p = p.Close()

	ours := make([]float32, size*size)
	r := NewRasterizer(rect.Rect{URx: size, URy: size})
	r.FillNonZero(p, func(y, xMin int, cov []float32) {
		copy(ours[y*size+xMin:], cov)
	})

	vr := vector.NewRasterizer(size, size)
	vr.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, q := range pts[1:] {
		vr.LineTo(float32(q.X), float32(q.Y))
	}
	vr.ClosePath()
	ref := image.NewAlpha(image.Rect(0, 0, size, size))
	vr.Draw(ref, ref.Bounds(), image.Opaque, image.Point{})

	worst := 0.0
	for i, c := range ours {
		d := math.Abs(float64(c) - float64(ref.Pix[i])/255)
		worst = max(worst, d)
	}
	if worst > 0.02 {
		t.Errorf("coverage differs from x/image/vector by up to %.3f", worst)
	}
}

func TestSolidComposite(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 2, 1))
	red := FromNRGBA(color.NRGBA{R: 255, A: 255})
	emit := Solid(dst, red)
	emit(0, 0, []float32{1, 0.5})

	if got := dst.RGBAAt(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("full coverage: got %v", got)
	}
	if got := dst.RGBAAt(1, 0); got.A != 128 || got.R != 128 {
		t.Errorf("half coverage: got %v", got)
	}

	// out-of-bounds rows are ignored
	emit(5, 0, []float32{1})
}

func TestShadedDiscard(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 1))
	white := FromNRGBA(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	emit := Shaded(dst, func(x, y int) (Color, bool) {
		return white, x%2 == 0
	})
	emit(0, 0, []float32{1, 1, 1, 1})

	for x := range 4 {
		a := dst.RGBAAt(x, 0).A
		if want := uint8(255 * ((x + 1) % 2)); a != want {
			t.Errorf("pixel %d: alpha %d, want %d", x, a, want)
		}
	}
}

// wedgePolygon returns a pie slice approximated by a polygon.
func wedgePolygon(cx, cy, r, a1, a2 float64, steps int) []vec.Vec2 {
	pts := []vec.Vec2{{X: cx, Y: cy}}
	for i := 0; i <= steps; i++ {
		a := a1 + (a2-a1)*float64(i)/float64(steps)
		pts = append(pts, vec.Vec2{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
	}
	return pts
}
