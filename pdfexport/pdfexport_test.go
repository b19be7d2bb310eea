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

package pdfexport

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/overlay"
	"seehuhn.de/go/gauge/segment"
)

func TestWriteFile(t *testing.T) {
	d := layout.Resolve(layout.Size{Width: 300}, layout.DefaultInnerRatio)
	slices := segment.Build(nil, d, -math.Pi, 0)

	l := overlay.NewLayer()
	overlay.NewWedges(l).Draw(slices, d)
	overlay.NewLabels(l).Draw(slices, d, 16, 1)
	n := overlay.NewNeedle(l)
	n.Draw(d)
	n.Update(d, -math.Pi/2)

	fname := filepath.Join(t.TempDir(), "gauge.pdf")
	if err := WriteFile(fname, l, time.Now()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("missing PDF header: %q", data[:min(len(data), 8)])
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Error("missing end of file marker")
	}
}

func TestWriteFileEmpty(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "empty.pdf")
	err := WriteFile(fname, overlay.NewLayer(), time.Now())
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("got %v, want ErrEmpty", err)
	}
}
