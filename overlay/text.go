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
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// outlinePPEM is the size at which glyph outlines are loaded. Outlines
// are stored scaled to a 1 unit em.
const outlinePPEM = 1024

// Face converts text into glyph outlines.
type Face struct {
	mu      sync.Mutex
	font    *sfnt.Font
	buf     sfnt.Buffer
	glyphs  map[rune]*glyph
	xHeight float64 // in em
}

type glyph struct {
	index   sfnt.GlyphIndex
	outline *path.Data // em units, y pointing down, origin on the baseline
	advance float64    // em units
}

// NewFace parses a TrueType or OpenType font.
func NewFace(data []byte) (*Face, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("overlay: parse font: %w", err)
	}
	face := &Face{font: f, glyphs: make(map[rune]*glyph)}

	m, err := f.Metrics(&face.buf, fixed.I(outlinePPEM), xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("overlay: font metrics: %w", err)
	}
	face.xHeight = fromFixed(m.XHeight)
	if face.xHeight <= 0 {
		face.xHeight = 0.5 * fromFixed(m.Ascent)
	}
	return face, nil
}

var defaultFace = sync.OnceValues(func() (*Face, error) {
	return NewFace(goregular.TTF)
})

// DefaultFace returns the face used for all overlay text, Go Regular.
func DefaultFace() (*Face, error) {
	return defaultFace()
}

func fromFixed(x fixed.Int26_6) float64 {
	return float64(x) / 64 / outlinePPEM
}

// placed is a glyph positioned on the baseline, x in em units.
type placed struct {
	g *glyph
	x float64
}

// shape normalises text to NFC and positions its glyphs, applying
// kerning. The result holds the glyphs and the total advance in em units.
func (f *Face) shape(text string) ([]placed, float64) {
	text = norm.NFC.String(text)

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []placed
	x := 0.0
	var prev *glyph
	for _, r := range text {
		g := f.glyphLocked(r)
		if g == nil {
			continue
		}
		if prev != nil {
			k, err := f.font.Kern(&f.buf, prev.index, g.index, fixed.I(outlinePPEM), xfont.HintingNone)
			if err == nil {
				x += float64(k) / 64 / outlinePPEM
			}
		}
		out = append(out, placed{g: g, x: x})
		x += g.advance
		prev = g
	}
	return out, x
}

// glyphLocked returns the outline of r, loading it on first use.
// Runes missing from the font map to the .notdef glyph.
func (f *Face) glyphLocked(r rune) *glyph {
	if g, ok := f.glyphs[r]; ok {
		return g
	}

	idx, err := f.font.GlyphIndex(&f.buf, r)
	if err != nil {
		f.glyphs[r] = nil
		return nil
	}
	ppem := fixed.I(outlinePPEM)
	adv, err := f.font.GlyphAdvance(&f.buf, idx, ppem, xfont.HintingNone)
	if err != nil {
		f.glyphs[r] = nil
		return nil
	}
	segs, err := f.font.LoadGlyph(&f.buf, idx, ppem, nil)
	if err != nil {
		f.glyphs[r] = nil
		return nil
	}

	p := &path.Data{}
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p = p.Close()
			}
			p = p.MoveTo(emPoint(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			p = p.LineTo(emPoint(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			p = p.QuadTo(emPoint(seg.Args[0]), emPoint(seg.Args[1]))
		case sfnt.SegmentOpCubeTo:
			p = p.CubeTo(emPoint(seg.Args[0]), emPoint(seg.Args[1]), emPoint(seg.Args[2]))
		}
	}
	if open {
		p = p.Close()
	}

	g := &glyph{
		index:   idx,
		outline: p,
		advance: float64(adv) / 64 / outlinePPEM,
	}
	f.glyphs[r] = g
	return g
}

func emPoint(p fixed.Point26_6) vec.Vec2 {
	return vec.Vec2{
		X: float64(p.X) / 64 / outlinePPEM,
		Y: float64(p.Y) / 64 / outlinePPEM,
	}
}

// Advance returns the width of text set at the given size.
func (f *Face) Advance(text string, size float64) float64 {
	_, w := f.shape(text)
	return w * size
}

// Line returns the outlines of text centred on at. The vertical centre
// is half the x-height above the baseline.
func (f *Face) Line(text string, size float64, at vec.Vec2) *path.Data {
	glyphs, width := f.shape(text)
	origin := vec.Vec2{
		X: at.X - width*size/2,
		Y: at.Y + f.xHeight*size/2,
	}

	out := &path.Data{}
	for _, pg := range glyphs {
		base := origin.Add(vec.Vec2{X: pg.x * size})
		out = appendGlyph(out, pg.g.outline, func(v vec.Vec2) vec.Vec2 {
			return base.Add(v.Mul(size))
		})
	}
	return out
}

// OnPath returns the outlines of text set along p, centred at half the
// length of p. Glyphs whose centre falls outside the path are dropped.
func (f *Face) OnPath(text string, size float64, p *path.Data) *path.Data {
	out := &path.Data{}
	track := newPolyline(p)
	if track.length == 0 {
		return out
	}

	glyphs, width := f.shape(text)
	start := track.length/2 - width*size/2
	for _, pg := range glyphs {
		half := pg.g.advance * size / 2
		s := start + pg.x*size + half
		if s < 0 || s > track.length {
			continue
		}
		pos, tangent := track.at(s)
		normal := vec.Vec2{X: -tangent.Y, Y: tangent.X}
		out = appendGlyph(out, pg.g.outline, func(v vec.Vec2) vec.Vec2 {
			dx := v.X*size - half
			dy := v.Y * size
			return pos.Add(tangent.Mul(dx)).Add(normal.Mul(dy))
		})
	}
	return out
}

// appendGlyph appends the outline g, mapped through m, to p.
func appendGlyph(p, g *path.Data, m func(vec.Vec2) vec.Vec2) *path.Data {
	k := 0
	for _, cmd := range g.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			p = p.MoveTo(m(g.Coords[k]))
			k++
		case path.CmdLineTo:
			p = p.LineTo(m(g.Coords[k]))
			k++
		case path.CmdQuadTo:
			p = p.QuadTo(m(g.Coords[k]), m(g.Coords[k+1]))
			k += 2
		case path.CmdCubeTo:
			p = p.CubeTo(m(g.Coords[k]), m(g.Coords[k+1]), m(g.Coords[k+2]))
			k += 3
		case path.CmdClose:
			p = p.Close()
		}
	}
	return p
}

// polyline is a flattened path with cumulative arc lengths.
type polyline struct {
	pts    []vec.Vec2
	cum    []float64
	length float64
}

// curveSteps is the number of chords used per curve segment.
const curveSteps = 32

func newPolyline(p *path.Data) *polyline {
	pl := &polyline{}
	if p == nil {
		return pl
	}
	add := func(v vec.Vec2) {
		if n := len(pl.pts); n > 0 {
			pl.length += v.Sub(pl.pts[n-1]).Length()
		}
		pl.pts = append(pl.pts, v)
		pl.cum = append(pl.cum, pl.length)
	}

	var current vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			// only the first subpath carries text
			if len(pl.pts) > 0 {
				return pl
			}
			current = p.Coords[k]
			add(current)
			k++
		case path.CmdLineTo:
			current = p.Coords[k]
			add(current)
			k++
		case path.CmdQuadTo:
			p0, p1, p2 := current, p.Coords[k], p.Coords[k+1]
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				s := 1 - t
				add(p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t)))
			}
			current = p2
			k += 2
		case path.CmdCubeTo:
			p0, p1, p2, p3 := current, p.Coords[k], p.Coords[k+1], p.Coords[k+2]
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				s := 1 - t
				add(p0.Mul(s * s * s).
					Add(p1.Mul(3 * s * s * t)).
					Add(p2.Mul(3 * s * t * t)).
					Add(p3.Mul(t * t * t)))
			}
			current = p3
			k += 3
		case path.CmdClose:
			if len(pl.pts) > 0 {
				add(pl.pts[0])
			}
		}
	}
	return pl
}

// at returns the point at arc length s and the unit tangent there.
func (pl *polyline) at(s float64) (vec.Vec2, vec.Vec2) {
	n := len(pl.pts)
	i := 1
	for i < n-1 && pl.cum[i] < s {
		i++
	}
	a, b := pl.pts[i-1], pl.pts[i]
	seg := pl.cum[i] - pl.cum[i-1]
	d := b.Sub(a)
	if seg == 0 {
		return a, vec.Vec2{X: 1}
	}
	t := min(max((s-pl.cum[i-1])/seg, 0), 1)
	return a.Add(d.Mul(t)), d.Mul(1 / seg)
}
