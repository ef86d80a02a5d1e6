// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"context"

	"github.com/2dChan/antennamap"
	"github.com/2dChan/antennamap/ingest"
	"github.com/2dChan/antennamap/internal/logging"
	"github.com/spf13/cobra"
)

type app struct {
	logLevel  string
	logFormat string
	logFile   string

	station string
	prefix  int

	logger logging.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Noop()}

	root := &cobra.Command{
		Use:   "antennamap",
		Short: "Render station antenna layouts as SVG maps",
		Long: `Render the antennas of a station configuration file as an SVG map.

Antennas are grouped by the first characters of their ids. Every group gets
its own colour, an outline connecting its antennas and a legend row.
Masked antennas are drawn as larger pulsing purple markers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = logging.New(logging.FromEnv(logging.Config{
				Level:  a.logLevel,
				Format: a.logFormat,
				File:   a.logFile,
				Writer: cmd.ErrOrStderr(),
			}))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	pf.StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default $LOG_FORMAT or text)")
	pf.StringVar(&a.logFile, "log-file", "", "Write logs to a rotating file instead of stderr")
	pf.StringVar(&a.station, "station", "", "Station to read (default: the only station, or "+ingest.DefaultStation+")")
	pf.IntVar(&a.prefix, "prefix", ingest.DefaultPrefixLen, "Number of id characters forming the group key")

	root.AddCommand(
		newRenderCmd(a),
		newGroupsCmd(a),
		newShowCmd(a),
		newServeCmd(a),
	)
	return root
}

// load reads the station file at path and groups its antennas.
func (a *app) load(ctx context.Context, path string) (*ingest.Station, []antennamap.Group, error) {
	var opts []ingest.Option
	if a.station != "" {
		opts = append(opts, ingest.WithStation(a.station))
	}
	st, err := ingest.Load(path, opts...)
	if err != nil {
		return nil, nil, err
	}
	groups := ingest.GroupByPrefix(st.Antennas, a.prefix)
	a.logger.Info(ctx, "station loaded",
		logging.String("file", path),
		logging.String("station", st.Name),
		logging.Int("antennas", len(st.Antennas)),
		logging.Int("groups", len(groups)))
	return st, groups, nil
}
