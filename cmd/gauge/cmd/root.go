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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"seehuhn.de/go/gauge"
)

var (
	// Global flags
	verbose    bool
	configFile string
	value      float64
	width      float64
	showValue  bool
)

var rootCmd = &cobra.Command{
	Use:   "gauge",
	Short: "Render dial gauges",
	Long: `Render a dial gauge with weighted, coloured wedges, curved labels
and a needle showing a value.

The gauge is described by a JSON file with the fields value, min, max,
startAngle, endAngle, innerRatio, labelOffset, showValue and segments.

Examples:
  gauge png --config gauge.json --value 42 -o gauge.png   # Raster image
  gauge svg --width 400 -o gauge.svg                      # Default segments
  gauge pdf --config gauge.json -o gauge.pdf              # Vector PDF`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		gauge.SetLogger(slog.New(h))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&configFile, "config", "c", "", "JSON gauge description")
	pf.Float64Var(&value, "value", 0, "value shown by the needle (overrides the config)")
	pf.Float64VarP(&width, "width", "w", 300, "container width in logical pixels")
	pf.BoolVar(&showValue, "show-value", false, "show the value inside the dial")
}

// loadConfig reads the configuration file, if any, and applies the
// command line overrides.
func loadConfig(cmd *cobra.Command) (gauge.Config, error) {
	cfg := gauge.DefaultConfig()
	if configFile != "" {
		fd, err := os.Open(configFile)
		if err != nil {
			return cfg, err
		}
		cfg, err = gauge.ReadConfig(fd)
		fd.Close()
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", configFile, err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("value") {
		cfg.Value = value
	}
	if flags.Changed("show-value") {
		cfg.ShowValue = showValue
	}
	return cfg, nil
}

// create opens the output file, or returns stdout for "" and "-".
func create(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdout, nil
	}
	return os.Create(name)
}
