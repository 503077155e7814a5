package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phanxgames/medusa"
)

func newThresholdsCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "thresholds [mode]",
		Short: "Show the threshold constants or the thresholds a mode uses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				rows := [][]string{
					{"none", formatRatio(medusa.ThresholdNone)},
					{"half", formatRatio(medusa.ThresholdHalf)},
					{"full", formatRatio(medusa.ThresholdFull)},
				}
				fmt.Fprintln(out, renderTable([]string{"Name", "Ratio"}, rows, 2))
				return nil
			}

			var mode medusa.Mode
			if err := mode.UnmarshalText([]byte(args[0])); err != nil {
				return err
			}
			values := []float64{medusa.ThresholdFull}
			if mode == medusa.ModeByPixels {
				values = medusa.ThresholdsByPixels()
			}

			if !all && len(values) > 10 {
				fmt.Fprintf(out, "%s: %d thresholds from %s to %s (step %s)\n",
					mode, len(values),
					formatRatio(values[0]), formatRatio(values[len(values)-1]),
					formatRatio(values[1]-values[0]))
				return nil
			}
			for _, v := range values {
				fmt.Fprintln(out, formatRatio(v))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Print every threshold instead of a summary")
	return cmd
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
