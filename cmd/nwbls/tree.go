package main

import (
	"fmt"
	"strings"

	"github.com/scigolib/hdf5"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree <file.nwb>",
	Short: "Print the file's object hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := hdf5.Open(args[0])
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Warn("close failed", "error", err)
			}
		}()

		f.Walk(func(path string, obj hdf5.Object) {
			name := strings.TrimRight(obj.Name(), "\x00 ")
			switch obj.(type) {
			case *hdf5.Group:
				fmt.Printf("%s/\n", strings.TrimSuffix(path, "/"))
			case *hdf5.Dataset:
				fmt.Printf("%s\n", path)
			default:
				logger.Debug("unknown object", "path", path, "name", name)
			}
		})
		return nil
	},
}
