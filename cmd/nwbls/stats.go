package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/scigolib/nwb"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file.nwb> <dataset-path>",
	Short: "Print summary statistics for a numeric dataset",
	Long: `Print count, min, max, mean, and standard deviation for a numeric
dataset, e.g.:

  nwbls stats session.nwb /acquisition/test_timeseries/data`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := nwb.Open(args[0])
		if err != nil {
			return err
		}
		defer func() {
			if err := r.Close(); err != nil {
				logger.Warn("close failed", "error", err)
			}
		}()

		data, err := r.DatasetAt(args[1])
		if err != nil {
			return err
		}
		values, err := data.Read()
		if err != nil {
			return fmt.Errorf("read %s: %w", args[1], err)
		}
		if len(values) == 0 {
			return fmt.Errorf("dataset %s is empty", args[1])
		}

		mean, std := stat.MeanStdDev(values, nil)
		fmt.Printf("count:  %d\n", len(values))
		fmt.Printf("min:    %g\n", floats.Min(values))
		fmt.Printf("max:    %g\n", floats.Max(values))
		fmt.Printf("mean:   %g\n", mean)
		fmt.Printf("stddev: %g\n", std)
		return nil
	},
}
