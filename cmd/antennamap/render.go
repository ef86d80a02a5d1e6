// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/2dChan/antennamap"
	"github.com/2dChan/antennamap/export"
	"github.com/2dChan/antennamap/internal/logging"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	output        string
	format        string
	groups        []string
	noConnections bool
	title         string
	width         int
	height        int
}

func newRenderCmd(a *app) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <file.yaml>",
		Short: "Render the station map",
		Long: `Render the station map to stdout or a file.

The output format defaults to the extension of --output, or svg. PNG and JPEG
output is rasterized with a headless Chrome.

Examples:
  antennamap render station.yaml > map.svg
  antennamap render station.yaml -o map.png
  antennamap render station.yaml --group S10A --group S10B --no-connections`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "Output file path (default: stdout)")
	fl.StringVar(&f.format, "format", "", "Output format: svg, png, jpg")
	fl.StringSliceVar(&f.groups, "group", nil, "Group to draw, repeatable (default: all groups)")
	fl.BoolVar(&f.noConnections, "no-connections", false, "Do not draw group outlines")
	fl.StringVar(&f.title, "title", "Antenna Positions Grouped by ID", "Map title, empty for none")
	fl.IntVar(&f.width, "width", 1000, "Document width")
	fl.IntVar(&f.height, "height", 600, "Document height")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, path string, f renderFlags) error {
	ctx := cmd.Context()
	format, err := outputFormat(f)
	if err != nil {
		return err
	}

	_, groups, err := a.load(ctx, path)
	if err != nil {
		return err
	}

	sel := antennamap.SelectAll(groups)
	if cmd.Flags().Changed("group") {
		sel = antennamap.NewSelection(f.groups...)
		for _, id := range f.groups {
			if !slices.ContainsFunc(groups, func(g antennamap.Group) bool { return g.ID == id }) {
				a.logger.Warn(ctx, "unknown group", logging.String("group", id))
			}
		}
	}

	doc, err := antennamap.Render(groups, sel,
		antennamap.WithSize(f.width, f.height),
		antennamap.WithTitle(f.title),
		antennamap.WithConnections(!f.noConnections))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.Write(ctx, &buf, doc, format); err != nil {
		return err
	}
	if f.output == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := os.WriteFile(f.output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.logger.Info(ctx, "map written",
		logging.String("file", f.output),
		logging.String("format", string(format)),
		logging.Int("groups", sel.Len()))
	return nil
}

func outputFormat(f renderFlags) (export.Format, error) {
	if f.format != "" {
		return export.ParseFormat(f.format)
	}
	if ext := strings.TrimPrefix(filepath.Ext(f.output), "."); ext != "" {
		if format, err := export.ParseFormat(ext); err == nil {
			return format, nil
		}
		return "", fmt.Errorf("cannot infer format from %q, use --format", f.output)
	}
	return export.FormatSVG, nil
}
