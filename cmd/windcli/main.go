package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kjstillabower/wind-dashboard/internal/dataset"
	"github.com/kjstillabower/wind-dashboard/internal/forecast"
	"github.com/kjstillabower/wind-dashboard/internal/view"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "windcli",
		Short:        "Print the wind feasibility charts without starting the dashboard",
		SilenceUsage: true,
	}
	root.AddCommand(locationsCmd())
	root.AddCommand(chartsCmd())
	root.AddCommand(powerCurveCmd())
	return root
}

func locationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List the locations in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, loc := range dataset.Default().Locations() {
				fmt.Fprintln(cmd.OutOrStdout(), loc)
			}
			return nil
		},
	}
}

func chartsCmd() *cobra.Command {
	var (
		seed      uint64
		zeroNoise bool
	)

	cmd := &cobra.Command{
		Use:   "charts [location]",
		Short: "Print the historical and forecast series for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var noise forecast.Source
			switch {
			case zeroNoise:
				noise = forecast.Zero
			case cmd.Flags().Changed("seed"):
				noise = forecast.NewSource(&seed)
			default:
				noise = forecast.NewSource(nil)
			}
			v := view.New(dataset.Default(), noise)
			loc, err := v.ParseLocation(args[0])
			if err != nil {
				return err
			}
			charts, err := v.DeriveCharts(loc)
			if err != nil {
				return err
			}
			return writeCharts(cmd.OutOrStdout(), charts)
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", 0, "seed the forecast noise for reproducible output")
	cmd.Flags().BoolVar(&zeroNoise, "zero-noise", false, "print the forecast without noise")
	return cmd
}

func powerCurveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "power-curve",
		Short: "Print the turbine power curve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "speed (m/s)\tpower (kW)")
			for _, p := range dataset.Default().PowerCurve() {
				fmt.Fprintf(w, "%d\t%.1f\n", p.SpeedMS, p.PowerKW)
			}
			return w.Flush()
		},
	}
}

func writeCharts(out io.Writer, charts view.Charts) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, series := range []view.MonthlySeries{charts.Historical, charts.Forecast} {
		fmt.Fprintln(w, series.Title)
		fmt.Fprintf(w, "%s\t%s\n", series.XLabel, series.YLabel)
		for _, p := range series.Points {
			fmt.Fprintf(w, "%s\t%.2f\n", p.Month.Format("2006-01-02"), p.WindSpeed)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
