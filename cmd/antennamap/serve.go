// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"fmt"
	"net"

	"github.com/2dChan/antennamap/internal/logging"
	"github.com/2dChan/antennamap/internal/metrics"
	"github.com/2dChan/antennamap/viewer"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const clickBuffer = 64

func newServeCmd(a *app) *cobra.Command {
	var (
		addr string
		open bool
	)
	cmd := &cobra.Command{
		Use:   "serve <file.yaml>",
		Short: "Serve the interactive map viewer",
		Long: `Serve a page with the station map, group toggles and antenna details.

Routes:
  /          interactive page
  /map.svg   map document, ?group=ID (repeatable) and ?connections=off
  /export    map download
  /ws        click events
  /metrics   Prometheus metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, groups, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}

			collector, err := metrics.NewCollector(nil)
			if err != nil {
				return err
			}
			srv, err := viewer.New(groups,
				viewer.WithLogger(a.logger),
				viewer.WithMetrics(collector))
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			url := "http://" + ln.Addr().String() + "/"
			fmt.Fprintln(cmd.OutOrStdout(), "serving", url)

			clicks, cancel := srv.Bus().Subscribe(clickBuffer)
			defer cancel()

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				return srv.Serve(ctx, ln)
			})
			eg.Go(func() error {
				for {
					select {
					case ev, ok := <-clicks:
						if !ok {
							return nil
						}
						a.logger.Info(ctx, "antenna clicked",
							logging.String("antenna", ev.Antenna.ID),
							logging.Any("position", ev.Antenna.Position))
					case <-ctx.Done():
						return nil
					}
				}
			})
			if open {
				if err := browser.OpenURL(url); err != nil {
					a.logger.Warn(ctx, "cannot open browser", logging.Err(err))
				}
			}
			return eg.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "Listen address")
	cmd.Flags().BoolVar(&open, "open", false, "Open the viewer in the default browser")
	return cmd
}
