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

package gauge

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/segment"
)

// Config describes a gauge. The JSON field names match the data
// attributes of the web component the gauge originates from.
type Config struct {
	Value      float64 `json:"value"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	StartAngle float64 `json:"startAngle"` // radians, 0 points right
	EndAngle   float64 `json:"endAngle"`

	// InnerRatio is the inner radius as a fraction of the outer radius.
	InnerRatio float64 `json:"innerRatio"`

	// LabelOffset is the distance of the label arcs beyond the outer
	// radius, in logical pixels.
	LabelOffset float64 `json:"labelOffset"`

	// Segments lists the wedges of the dial. An empty list selects
	// segment.Defaults.
	Segments []segment.Segment `json:"segments,omitempty"`

	// ShowValue enables the numeric readout inside the dial.
	ShowValue bool `json:"showValue,omitempty"`
}

// DefaultConfig returns the configuration of a gauge from 0 to 100 over
// the upper half circle.
func DefaultConfig() Config {
	return Config{
		Min:         0,
		Max:         100,
		StartAngle:  -math.Pi,
		EndAngle:    0,
		InnerRatio:  layout.DefaultInnerRatio,
		LabelOffset: 16,
	}
}

// withDefaults replaces an empty angle range and an unset value range
// by the defaults.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.StartAngle == c.EndAngle {
		c.StartAngle, c.EndAngle = def.StartAngle, def.EndAngle
	}
	if c.Min == 0 && c.Max == 0 {
		c.Max = def.Max
	}
	return c
}

// ParseConfig decodes a JSON configuration. Fields missing from data
// keep their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("gauge: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ReadConfig reads a JSON configuration from r.
func ReadConfig(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("gauge: config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks that the range, the angles and the label offset are
// finite numbers.
func (c *Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"min", c.Min},
		{"max", c.Max},
		{"startAngle", c.StartAngle},
		{"endAngle", c.EndAngle},
		{"labelOffset", c.LabelOffset},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("gauge: config: %s is not a finite number", f.name)
		}
	}
	for i, seg := range c.Segments {
		if math.IsInf(seg.ImageScale, 0) || math.IsInf(seg.ImageOffsetX, 0) ||
			math.IsInf(seg.ImageOffsetY, 0) || math.IsInf(seg.ImageRotate, 0) {
			return fmt.Errorf("gauge: config: segment %d: infinite image transform", i)
		}
	}
	return nil
}
