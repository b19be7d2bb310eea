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
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"seehuhn.de/go/gauge/layout"
)

const tol = 1e-6

var dims = layout.Resolve(layout.Size{Width: 400}, layout.DefaultInnerRatio)

func TestBuildSpans(t *testing.T) {
	segs := []Segment{{Weight: 1}, {Weight: 1}, {Weight: 2}}
	got := Build(segs, dims, -math.Pi, 0)

	want := [][2]float64{
		{-math.Pi, -3 * math.Pi / 4},
		{-3 * math.Pi / 4, -math.Pi / 2},
		{-math.Pi / 2, 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d slices, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.Index != i {
			t.Errorf("slice %d has index %d", i, s.Index)
		}
		if math.Abs(s.A1-want[i][0]) > tol || math.Abs(s.A2-want[i][1]) > tol {
			t.Errorf("slice %d: [%g, %g], want [%g, %g]",
				i, s.A1, s.A2, want[i][0], want[i][1])
		}
	}
}

func TestSpansSumToRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := range 200 {
		n := 1 + rng.IntN(12)
		segs := make([]Segment, n)
		for i := range segs {
			segs[i].Weight = 0.01 + rng.Float64()*100
		}
		start := -math.Pi + rng.Float64()
		end := start + 0.1 + rng.Float64()*2*math.Pi

		slices := Build(segs, dims, start, end)
		sum := 0.0
		for i, s := range slices {
			sum += s.A2 - s.A1
			if i > 0 && s.A1 != slices[i-1].A2 {
				t.Fatalf("trial %d: slice %d does not start where %d ends", trial, i, i-1)
			}
		}
		if math.Abs(sum-(end-start)) > tol {
			t.Errorf("trial %d: spans sum to %g, want %g", trial, sum, end-start)
		}
	}
}

func TestSmallWeights(t *testing.T) {
	cases := [][]float64{
		{0.2, 0.2},
		{0.1, 0.1, 0.1},
		{1e-300, 1e-300},
		{1e308, 1e308, 1e308},
	}
	for _, weights := range cases {
		segs := make([]Segment, len(weights))
		for i, w := range weights {
			segs[i].Weight = w
		}
		slices := Build(segs, dims, -math.Pi, 0)
		want := math.Pi / float64(len(weights))
		for i, s := range slices {
			if span := s.A2 - s.A1; math.Abs(span-want) > tol {
				t.Errorf("weights %g: slice %d spans %g, want %g", weights, i, span, want)
			}
		}
	}

	segs := []Segment{{Weight: 0.1}, {Weight: 0.3}}
	slices := Build(segs, dims, -math.Pi, 0)
	if span := slices[0].A2 - slices[0].A1; math.Abs(span-math.Pi/4) > tol {
		t.Errorf("weight 0.1 of 0.4: span %g, want %g", span, math.Pi/4)
	}
}

func TestEmptyUsesDefaults(t *testing.T) {
	slices := Build(nil, dims, -math.Pi, 0)
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}
	labels := []string{"Low", "Med", "High"}
	colors := []color.NRGBA{
		{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
		{R: 0xf5, G: 0x9e, B: 0x0b, A: 0xff},
		{R: 0xef, G: 0x44, B: 0x44, A: 0xff},
	}
	fractions := []float64{0.3, 0.4, 0.3}
	for i, s := range slices {
		if s.Label != labels[i] {
			t.Errorf("slice %d: label %q, want %q", i, s.Label, labels[i])
		}
		if s.Color != colors[i] {
			t.Errorf("slice %d: colour %v, want %v", i, s.Color, colors[i])
		}
		if span := (s.A2 - s.A1) / math.Pi; math.Abs(span-fractions[i]) > tol {
			t.Errorf("slice %d: fraction %g, want %g", i, span, fractions[i])
		}
	}
}

func TestWeightDefaults(t *testing.T) {
	cases := []struct {
		w    float64
		want float64
	}{
		{0, 1},
		{-3, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{2.5, 2.5},
	}
	for _, tc := range cases {
		if got := Weight(Segment{Weight: tc.w}); got != tc.want {
			t.Errorf("Weight(%g) = %g, want %g", tc.w, got, tc.want)
		}
	}
	if got := TotalWeight(nil); got != 1 {
		t.Errorf("TotalWeight(nil) = %g, want 1", got)
	}
	if got := TotalWeight([]Segment{{Weight: 0.25}, {Weight: 0.5}}); got != 0.75 {
		t.Errorf("TotalWeight(0.25, 0.5) = %g, want 0.75", got)
	}
	if got := TotalWeight([]Segment{{Weight: 1e308}, {Weight: 1e308}}); got != 1 {
		t.Errorf("TotalWeight of overflowing weights = %g, want 1", got)
	}
}

func TestImageTransform(t *testing.T) {
	segs := []Segment{
		{Image: "a.png", ImageOffsetX: dims.OuterRadius, ImageOffsetY: -dims.OuterRadius / 2, ImageRotate: 90},
		{ImageScale: 2},
	}
	slices := Build(segs, dims, -math.Pi, 0)

	tr := slices[0].Transform
	if tr.Scale != 1 {
		t.Errorf("default scale %g, want 1", tr.Scale)
	}
	if math.Abs(tr.OffsetX-0.5) > tol || math.Abs(tr.OffsetY+0.25) > tol {
		t.Errorf("offset (%g, %g), want (0.5, -0.25)", tr.OffsetX, tr.OffsetY)
	}
	if math.Abs(tr.Rotation-math.Pi/2) > tol {
		t.Errorf("rotation %g, want π/2", tr.Rotation)
	}
	if slices[0].Image != "a.png" {
		t.Errorf("image %q not carried over", slices[0].Image)
	}
	if slices[1].Transform.Scale != 2 {
		t.Errorf("scale %g, want 2", slices[1].Transform.Scale)
	}
}

func TestFan(t *testing.T) {
	slices := Build([]Segment{{}}, dims, -math.Pi, 0)
	fan := slices[0].Fan
	if len(fan) != FanSteps+2 {
		t.Fatalf("fan has %d vertices, want %d", len(fan), FanSteps+2)
	}
	if fan[0] != dims.Center() {
		t.Errorf("fan starts at %v, want centre", fan[0])
	}
	for i, v := range fan[1:] {
		r := math.Hypot(v.X-dims.CenterX, v.Y-dims.CenterY)
		if math.Abs(r-dims.OuterRadius) > 1e-9 {
			t.Errorf("vertex %d at radius %g", i+1, r)
		}
	}
	first, last := fan[1], fan[len(fan)-1]
	if math.Abs(first.X-(dims.CenterX-dims.OuterRadius)) > 1e-9 {
		t.Errorf("first boundary vertex %v is not at angle -π", first)
	}
	if math.Abs(last.X-(dims.CenterX+dims.OuterRadius)) > 1e-9 {
		t.Errorf("last boundary vertex %v is not at angle 0", last)
	}
}

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, true},
		{"#22c55e", color.NRGBA{0x22, 0xc5, 0x5e, 0xff}, true},
		{"EF4444", color.NRGBA{0xef, 0x44, 0x44, 0xff}, true},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}, true},
		{"", color.NRGBA{}, false},
		{"#12", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseHex(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseHex(%q) = %v, %t; want %v, %t", tc.in, got, ok, tc.want, tc.ok)
		}
	}

	s := Build([]Segment{{Color: "not a colour"}}, dims, 0, 1)
	if s[0].Color != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("malformed colour gives %v, want white", s[0].Color)
	}
}
