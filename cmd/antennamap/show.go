// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file.yaml> <antenna-id>",
		Short: "Print the details of one antenna",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, _, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, ant := range st.Antennas {
				if ant.ID != args[1] {
					continue
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Antenna Details: %s\n", ant.ID)
				tw := tabwriter.NewWriter(out, 0, 4, 1, ' ', 0)
				for _, d := range ant.Details() {
					fmt.Fprintf(tw, "%s:\t%s\n", d.Label, d.Value)
				}
				if ant.Masked {
					fmt.Fprintln(tw, "Masked:\tyes")
				}
				return tw.Flush()
			}
			return fmt.Errorf("antenna %q not found in station %q", args[1], st.Name)
		},
	}
}
