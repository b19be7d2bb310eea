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
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/path"
)

// WriteSVG writes the layer as a standalone SVG document. Groups carry
// their target rotation; groups with a transition get the matching CSS
// transition so that a browser animates rotation changes.
func (l *Layer) WriteSVG(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := &strings.Builder{}
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(l.width), num(l.height), num(l.width), num(l.height))

	for _, g := range l.groups {
		b.WriteString(`<g id="`)
		xml.EscapeText(b, []byte(g.ID))
		b.WriteString(`"`)
		if angle, pivot := g.Rotation(); g.rot.valid {
			fmt.Fprintf(b, ` transform="rotate(%s %s %s)"`,
				num(angle*180/math.Pi), num(pivot.X), num(pivot.Y))
		}
		if g.Transition > 0 {
			fmt.Fprintf(b, ` style="transition: transform %ss ease-out"`, num(g.Transition.Seconds()))
		}
		b.WriteString(">\n")

		for i, it := range g.Items {
			writeItem(b, g.ID, i, it)
		}
		b.WriteString("</g>\n")
	}
	b.WriteString("</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeItem(b *strings.Builder, groupID string, index int, it Item) {
	switch it := it.(type) {
	case *Path:
		b.WriteString("<path")
		if it.ID != "" {
			attr(b, "id", it.ID)
		}
		attr(b, "d", pathData(it.Data))
		style(b, it.Style, true)
		b.WriteString("/>\n")

	case *Line:
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s"`,
			num(it.From.X), num(it.From.Y), num(it.To.X), num(it.To.Y))
		style(b, it.Style, false)
		b.WriteString("/>\n")

	case *Circle:
		fmt.Fprintf(b, `<circle cx="%s" cy="%s" r="%s"`,
			num(it.Center.X), num(it.Center.Y), num(it.Radius))
		style(b, it.Style, true)
		b.WriteString("/>\n")

	case *TextPath:
		b.WriteString("<text")
		font(b, it.Font)
		style(b, it.Style, true)
		b.WriteString(`><textPath`)
		attr(b, "href", "#"+it.Href)
		b.WriteString(` startOffset="50%" text-anchor="middle">`)
		xml.EscapeText(b, []byte(it.Text))
		b.WriteString("</textPath></text>\n")

	case *Text:
		b.WriteString("<text")
		if it.ID != "" {
			attr(b, "id", it.ID)
		}
		fmt.Fprintf(b, ` x="%s" y="%s" text-anchor="middle" dominant-baseline="middle"`,
			num(it.At.X), num(it.At.Y))
		font(b, it.Font)
		style(b, it.Style, true)
		b.WriteString(">")
		xml.EscapeText(b, []byte(it.Text))
		b.WriteString("</text>\n")

	case *Image:
		clip := ""
		if it.Clip != nil {
			clip = fmt.Sprintf("clip-%s-%d", groupID, index)
			b.WriteString("<clipPath")
			attr(b, "id", clip)
			b.WriteString("><path")
			attr(b, "d", pathData(it.Clip))
			b.WriteString("/></clipPath>\n")
		}
		b.WriteString("<image")
		attr(b, "href", it.Href)
		fmt.Fprintf(b, ` x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid slice"`,
			num(it.X), num(it.Y), num(it.W), num(it.H))
		if clip != "" {
			attr(b, "clip-path", "url(#"+clip+")")
		}
		b.WriteString("/>\n")
	}
}

func attr(b *strings.Builder, name, value string) {
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	xml.EscapeText(b, []byte(value))
	b.WriteString(`"`)
}

func font(b *strings.Builder, f Font) {
	if f.Size > 0 {
		attr(b, "font-size", num(f.Size))
	}
	if f.Weight > 0 {
		attr(b, "font-weight", strconv.Itoa(f.Weight))
	}
}

// style writes the paint attributes. Lines have no fill.
func style(b *strings.Builder, st Style, fill bool) {
	if fill {
		paint(b, "fill", st.Fill)
	}
	paint(b, "stroke", st.Stroke)
	if st.Stroke.A > 0 && st.StrokeWidth > 0 {
		attr(b, "stroke-width", num(st.StrokeWidth))
	}
	if st.RoundCap {
		attr(b, "stroke-linecap", "round")
	}
}

func paint(b *strings.Builder, name string, c color.NRGBA) {
	if c.A == 0 {
		attr(b, name, "none")
		return
	}
	attr(b, name, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	if c.A < 255 {
		attr(b, name+"-opacity", num(float64(c.A)/255))
	}
}

// pathData formats p as the value of an SVG d attribute.
func pathData(p *path.Data) string {
	if p == nil {
		return ""
	}
	var parts []string
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			parts = append(parts, "M", num(p.Coords[k].X), num(p.Coords[k].Y))
			k++
		case path.CmdLineTo:
			parts = append(parts, "L", num(p.Coords[k].X), num(p.Coords[k].Y))
			k++
		case path.CmdQuadTo:
			parts = append(parts, "Q")
			for _, v := range p.Coords[k : k+2] {
				parts = append(parts, num(v.X), num(v.Y))
			}
			k += 2
		case path.CmdCubeTo:
			parts = append(parts, "C")
			for _, v := range p.Coords[k : k+3] {
				parts = append(parts, num(v.X), num(v.Y))
			}
			k += 3
		case path.CmdClose:
			parts = append(parts, "Z")
		}
	}
	return strings.Join(parts, " ")
}

// num formats x with at most three decimals.
func num(x float64) string {
	x = math.Round(x*1000) / 1000
	if x == 0 {
		x = 0 // no "-0"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
