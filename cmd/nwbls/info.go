package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scigolib/nwb"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.nwb>",
	Short: "Print session metadata and container inventory",
	Args:  cobra.ExactArgs(1),
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

		fmt.Printf("NWB version:          %s\n", r.NWBVersion())
		fmt.Printf("Identifier:           %s\n", r.Identifier())
		fmt.Printf("Session description:  %s\n", r.SessionDescription())
		fmt.Printf("Session start time:   %s\n", r.SessionStartTime().Format(time.RFC3339))

		if subject, err := r.Subject(); err == nil {
			fmt.Printf("Subject:              %s (%s, %s)\n",
				subject.SubjectID, subject.Species, subject.Sex)
		} else {
			logger.Debug("no subject", "error", err)
		}

		if names, err := r.AcquisitionNames(); err == nil && len(names) > 0 {
			fmt.Printf("Acquisition series:   %v\n", names)
		}
		if trials, err := r.Trials(); err == nil {
			n, err := trials.NumRows()
			if err != nil {
				return err
			}
			fmt.Printf("Trials:               %d (columns: %v)\n", n, trials.Colnames())
		}
		if electrodes, err := r.Electrodes(); err == nil {
			n, err := electrodes.NumRows()
			if err != nil {
				return err
			}
			fmt.Printf("Electrodes:           %d\n", n)
		}
		if units, err := r.Units(); err == nil {
			n, err := units.NumUnits()
			if err != nil {
				return err
			}
			fmt.Printf("Units:                %d\n", n)
		}
		return nil
	},
}
