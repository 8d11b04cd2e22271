package main

import (
	"fmt"

	"codeberg.org/mutker/hudstats/internal/battery"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newBatteryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "battery",
		Short: "Print the battery aggregate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			stats := battery.NewStats(
				battery.NewReader(afero.NewOsFs(), cfg.Battery.Root),
				battery.Options{AllSlots: cfg.Battery.AllSlots},
			)
			agg := stats.Update()

			out := cmd.OutOrStdout()
			if agg.Count == 0 {
				fmt.Fprintln(out, "no batteries found")
				return nil
			}

			state := "discharging"
			switch {
			case agg.Full:
				state = "full"
			case agg.Charging:
				state = "charging"
			}

			fmt.Fprintf(out, "batteries: %d\n", agg.Count)
			fmt.Fprintf(out, "percent:   %.0f%%\n", agg.Percent)
			fmt.Fprintf(out, "power:     %.1f W\n", agg.Watt)
			fmt.Fprintf(out, "state:     %s\n", state)
			return nil
		},
	}
}
