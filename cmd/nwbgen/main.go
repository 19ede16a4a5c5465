// Package main provides nwbgen, a generator for NWB session files: either
// a skeleton file built from a YAML session sheet, or a fully populated
// demonstration session.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	outPath string
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nwbgen",
	Short: "Generate NWB (Neurodata Without Borders) files",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "session.nwb", "output file path")
	rootCmd.AddCommand(sheetCmd, demoCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
