package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meigma/inventory/internal/format"
	"github.com/meigma/inventory/internal/index"
)

func newShowCmd() *cobra.Command {
	var layout string
	cmd := &cobra.Command{
		Use:   "show FILE [DIR]",
		Short: "Print the entries of a catalog snapshot written with --index",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			idx, err := index.Load(data)
			if err != nil {
				return err
			}
			f, err := format.New(layout)
			if err != nil {
				return err
			}

			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}
			w := bufio.NewWriter(cmd.OutOrStdout())
			var buf []byte
			for e := range idx.Subtree(dir) {
				buf = f.Append(buf[:0], &e)
				if _, err := w.Write(buf); err != nil {
					return err
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d entries, hash %s\n", idx.Len(), idx.HashAlgorithm())
			return nil
		},
	}
	cmd.Flags().StringVarP(&layout, "format", "F", format.Default, "line layout")
	return cmd
}
