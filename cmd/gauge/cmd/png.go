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

package cmd

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"seehuhn.de/go/gauge"
	"seehuhn.de/go/gauge/asset"
	"seehuhn.de/go/gauge/segment"
)

var (
	pngOutput  string
	dpr        float64
	assetDir   string
	background string
	timeout    time.Duration
)

var pngCmd = &cobra.Command{
	Use:   "png",
	Short: "Render the gauge to a PNG image",
	Long: `Render the gauge to a PNG image. Segment images are resolved relative
to the asset directory and are warped into their wedges.

Examples:
  gauge png --config gauge.json --assets img/ --dpr 2 -o gauge.png
  gauge png --value 75 --background "#ffffff" -o gauge.png`,
	Args: cobra.NoArgs,
	RunE: runPNG,
}

func init() {
	rootCmd.AddCommand(pngCmd)

	f := pngCmd.Flags()
	f.StringVarP(&pngOutput, "output", "o", "gauge.png", "output file (- for stdout)")
	f.Float64Var(&dpr, "dpr", 1, "device pixels per logical pixel")
	f.StringVar(&assetDir, "assets", ".", "directory for segment images")
	f.StringVar(&background, "background", "", "background colour (default transparent)")
	f.DurationVar(&timeout, "timeout", 10*time.Second, "time limit for loading images")
}

func runPNG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var opts []gauge.Option
	if assetDir != "" {
		src, err := asset.Dir(assetDir, asset.WithLogger(gauge.Logger()))
		if err != nil {
			return err
		}
		defer src.Close()
		opts = append(opts, gauge.WithLoader(src))
	}

	host := gauge.NewOffscreen(width, 0, dpr)
	c := gauge.New(host, cfg, opts...)
	if err := c.Mount(); err != nil {
		return err
	}
	defer c.Teardown()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	if err := c.Wait(ctx); err != nil {
		return fmt.Errorf("loading images: %w", err)
	}

	img := host.Snapshot(time.Now())
	if background != "" {
		col, ok := segment.ParseHex(background)
		if !ok {
			return fmt.Errorf("invalid background colour %q", background)
		}
		img = gauge.Flatten(img, image.NewUniform(col))
	}

	out, err := create(pngOutput)
	if err != nil {
		return err
	}
	err = png.Encode(out, img)
	if out != os.Stdout {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
