package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/xraytodo/pkg/segbits"
	"github.com/OpenTraceLab/xraytodo/pkg/tag"
)

func newDBCmd(root *rootOptions) *cobra.Command {
	var (
		list   bool
		prefix string
	)

	dbCmd := &cobra.Command{
		Use:   "db <dbfile>",
		Short: "Parse and summarize a segbits database",
		Long: `Parse a segbits database and report how many entries are resolved and how
many still carry a mode marker.

Examples:
  xraytodo db segbits_int_l.db
  xraytodo db --list --prefix INT_L segbits_int_l.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			out := cmd.OutOrStdout()

			if root.verbose {
				fmt.Fprintf(out, "Parsing database: %s\n\n", filename)
			}

			parser, err := segbits.NewParser()
			if err != nil {
				return fmt.Errorf("failed to create parser: %w", err)
			}

			entries, err := parser.ParseFile(filename)
			if err != nil {
				return fmt.Errorf("%s: %w", filename, err)
			}

			resolved, bits := 0, 0
			modes := make(map[string]int)
			for _, e := range entries {
				if e.Resolved() {
					resolved++
					bits += len(e.Bits)
				} else {
					modes[e.Mode]++
				}
			}

			fmt.Fprintf(out, "Entries:  %d\n", len(entries))
			fmt.Fprintf(out, "Resolved: %d (%d bits)\n", resolved, bits)
			fmt.Fprintf(out, "Pending:  %d\n", len(entries)-resolved)
			if len(modes) > 0 && (root.verbose || list) {
				names := make([]string, 0, len(modes))
				for m := range modes {
					names = append(names, m)
				}
				sort.Strings(names)
				for _, m := range names {
					fmt.Fprintf(out, "  %-20s %d\n", m, modes[m])
				}
			}

			if !list {
				return nil
			}

			fmt.Fprintln(out)
			for _, e := range entries {
				if prefix != "" {
					if e.Tag, err = tag.Rebase(e.Tag, prefix); err != nil {
						return err
					}
				}
				fmt.Fprintf(out, "  %s\n", e)
			}
			return nil
		},
	}

	dbCmd.Flags().BoolVarP(&list, "list", "l", false, "list every entry")
	dbCmd.Flags().StringVar(&prefix, "prefix", "", "rewrite tags onto this tile type prefix")

	return dbCmd
}
