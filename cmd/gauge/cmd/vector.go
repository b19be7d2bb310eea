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
	"os"
	"time"

	"github.com/spf13/cobra"

	"seehuhn.de/go/gauge"
	"seehuhn.de/go/gauge/layout"
	"seehuhn.de/go/gauge/pdfexport"
)

var (
	svgOutput string
	pdfOutput string
)

var svgCmd = &cobra.Command{
	Use:   "svg",
	Short: "Write the gauge as an SVG document",
	Long: `Write the gauge as an SVG document. Segment images are referenced,
not embedded, and clipped to their wedges.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		l := gauge.VectorLayer(cfg, layout.Size{Width: width})

		out, err := create(svgOutput)
		if err != nil {
			return err
		}
		err = l.WriteSVG(out)
		if out != os.Stdout {
			if cerr := out.Close(); err == nil {
				err = cerr
			}
		}
		return err
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Write the gauge as a single page PDF file",
	Long: `Write the gauge as a single page PDF file. Labels are converted to
outlines and segment images are replaced by their flat colour.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		l := gauge.VectorLayer(cfg, layout.Size{Width: width})
		return pdfexport.WriteFile(pdfOutput, l, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(svgCmd, pdfCmd)

	svgCmd.Flags().StringVarP(&svgOutput, "output", "o", "-", "output file (- for stdout)")
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "gauge.pdf", "output file")
}
