package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/xraytodo/pkg/pipfile"
)

func newPipsCmd(root *rootOptions) *cobra.Command {
	var list bool

	pipsCmd := &cobra.Command{
		Use:   "pips <pipfile>",
		Short: "Show the tile type and size of a pip list",
		Long: `Load a pip list, check that every tag shares one tile type prefix and
report the prefix and number of unique tags.

Examples:
  xraytodo pips pips_int_l.txt
  xraytodo pips --list pips_int_l.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			out := cmd.OutOrStdout()

			if root.verbose {
				fmt.Fprintf(out, "Loading pip list: %s\n\n", filename)
			}

			cat, err := pipfile.LoadFile(filename)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Tile type: %s\n", cat.Prefix)
			fmt.Fprintf(out, "Entries:   %d\n", cat.Len())

			if list {
				fmt.Fprintln(out)
				for _, t := range cat.Sorted() {
					fmt.Fprintf(out, "  %s\n", t)
				}
			} else if cat.Len() > 0 {
				fmt.Fprintf(out, "Sample:    %s\n", cat.Sample())
			}
			return nil
		},
	}

	pipsCmd.Flags().BoolVarP(&list, "list", "l", false, "list every tag")

	return pipsCmd
}
