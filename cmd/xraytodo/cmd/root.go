package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds the global flags
type rootOptions struct {
	verbose bool
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "xraytodo",
		Short: "List known but unsolved PIPs",
		Long: `Compare a tile type's pip list against its segbits database and print
the PIPs whose bits are not known yet.

Examples:
  xraytodo todo --re 'INT_[LR]\..*'                          # Use $XRAY_* paths
  xraytodo todo --pipfile pips_int_l.txt --dbfile segbits_int_l.db --re 'INT_L\..*'
  xraytodo pips pips_int_l.txt                               # Show pip list summary
  xraytodo db segbits_int_l.db                               # Show database summary`,
		Version:       "0.9.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newTodoCmd(opts))
	rootCmd.AddCommand(newPipsCmd(opts))
	rootCmd.AddCommand(newDBCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
