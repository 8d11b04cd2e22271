package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPlanCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved element plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			plan := a.registry(cfg, a.execCache(cfg)).FromConfig(cfg)

			out := cmd.OutOrStdout()
			if plan.Legacy() {
				fmt.Fprintln(out, "layout: legacy")
			} else {
				fmt.Fprintln(out, "layout: ordered")
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTOKEN\tPARAM")
			for i, e := range plan.Entries() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i, e.Token(), e.Param())
			}
			return w.Flush()
		},
	}
}
