// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/2dChan/antennamap"
	"github.com/spf13/cobra"
)

func newGroupsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "groups <file.yaml>",
		Short: "List antenna groups with node counts and colours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, groups, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GROUP\tNODES\tCOLOR\tHEX")
			for _, g := range groups {
				hex, _ := antennamap.HexOf(g.Color)
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", g.ID, g.Len(), g.Color, hex)
			}
			return tw.Flush()
		},
	}
}
