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

// Package overlay maintains the vector layer drawn on top of the dial:
// curved segment labels, the needle and the value readout.
//
// A Layer is a small retained scene graph, modelled on an SVG document.
// It can be serialised as SVG, flattened into a display list of filled
// and stroked paths, or rasterised directly.
package overlay

import (
	"image/color"
	"slices"
	"sync"
	"time"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Style describes how an item is painted. Colours with zero alpha are
// not painted.
type Style struct {
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	RoundCap    bool
}

// Font selects the size (in logical pixels) and weight of text.
type Font struct {
	Size   float64
	Weight int
}

// Item is an element of a Group.
type Item interface {
	isItem()
}

// Path is an arbitrary outline. Paths with an ID can be referenced by
// TextPath items.
type Path struct {
	ID   string
	Data *path.Data
	Style
}

// Line is a straight line segment.
type Line struct {
	From, To vec.Vec2
	Style
}

// Circle is a circle around Center.
type Circle struct {
	Center vec.Vec2
	Radius float64
	Style
}

// TextPath is text set along the Path with ID Href, centred at half the
// path length.
type TextPath struct {
	Href string
	Text string
	Font Font
	Style
}

// Text is a single line of text, centred horizontally and vertically on At.
type Text struct {
	ID   string
	At   vec.Vec2
	Text string
	Font Font
	Style
}

// Image places a bitmap, given by an opaque reference, so that it covers
// the rectangle at (X, Y) of size W×H, clipped to Clip. Images only
// appear in SVG output.
type Image struct {
	Href       string
	X, Y, W, H float64
	Clip       *path.Data
}

func (*Path) isItem()     {}
func (*Line) isItem()     {}
func (*Circle) isItem()   {}
func (*TextPath) isItem() {}
func (*Text) isItem()     {}
func (*Image) isItem()    {}

// Group is a named list of items sharing a rotation.
type Group struct {
	ID    string
	Items []Item

	// Transition is the duration over which rotation changes are
	// animated. Zero means changes apply immediately.
	Transition time.Duration

	rot rotation
}

// Rotation returns the target rotation angle of the group in radians and
// its pivot.
func (g *Group) Rotation() (float64, vec.Vec2) {
	return g.rot.to, g.rot.pivot
}

// Layer is the overlay scene. All methods are safe for concurrent use.
type Layer struct {
	mu     sync.Mutex
	width  float64
	height float64
	groups []*Group
	clock  func() time.Time
}

// NewLayer returns an empty layer.
func NewLayer() *Layer {
	return &Layer{clock: time.Now}
}

// SetClock sets the time source used to start transitions.
func (l *Layer) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clock = now
}

// SetViewBox sets the extent of the layer's coordinate system to
// 0 0 width height.
func (l *Layer) SetViewBox(width, height float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = width, height
}

// ViewBox returns the width and height of the coordinate system.
func (l *Layer) ViewBox() (float64, float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

// Replace removes any group with the ID of g and appends g.
func (l *Layer) Replace(g *Group) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.removeLocked(g.ID)
	l.groups = append(l.groups, g)
}

// Remove deletes the group with the given ID. The result reports whether
// such a group existed.
func (l *Layer) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeLocked(id)
}

func (l *Layer) removeLocked(id string) bool {
	n := len(l.groups)
	l.groups = slices.DeleteFunc(l.groups, func(g *Group) bool {
		return g.ID == id
	})
	return len(l.groups) < n
}

// Clear removes all groups.
func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.groups = nil
}

// Group returns the group with the given ID, or nil.
// The group must not be modified while the layer is in use.
func (l *Layer) Group(id string) *Group {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groupLocked(id)
}

func (l *Layer) groupLocked(id string) *Group {
	for _, g := range l.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// IDs returns the IDs of all groups, in drawing order.
func (l *Layer) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]string, len(l.groups))
	for i, g := range l.groups {
		ids[i] = g.ID
	}
	return ids
}

// Rotate sets the rotation of group id to angle (radians) about pivot.
// If the group has a transition, the rotation animates from the angle
// currently shown. The result reports whether the group exists.
func (l *Layer) Rotate(id string, angle float64, pivot vec.Vec2) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	g := l.groupLocked(id)
	if g == nil {
		return false
	}
	g.rot.set(angle, pivot, l.clock(), g.Transition)
	return true
}

// RotationAt returns the angle group id shows at time t.
func (l *Layer) RotationAt(id string, t time.Time) (float64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	g := l.groupLocked(id)
	if g == nil {
		return 0, false
	}
	return g.rot.at(t, g.Transition), true
}

// SetText replaces the content of the Text item with the given ID.
// The result reports whether the item was found.
func (l *Layer) SetText(id, text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, g := range l.groups {
		for _, it := range g.Items {
			if t, ok := it.(*Text); ok && t.ID == id {
				t.Text = text
				return true
			}
		}
	}
	return false
}

// pathLocked returns the Path item with the given ID.
func (l *Layer) pathLocked(id string) *Path {
	for _, g := range l.groups {
		for _, it := range g.Items {
			if p, ok := it.(*Path); ok && p.ID == id {
				return p
			}
		}
	}
	return nil
}
