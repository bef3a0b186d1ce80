package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/xraytodo/internal/config"
	"github.com/OpenTraceLab/xraytodo/internal/logging"
	"github.com/OpenTraceLab/xraytodo/pkg/todo"
)

type todoOptions struct {
	root       *rootOptions
	configPath string
	pipFile    string
	dbFile     string
	sides      string
	cfg        config.Config
}

func newTodoCmd(root *rootOptions) *cobra.Command {
	opts := &todoOptions{root: root, cfg: config.Default()}

	todoCmd := &cobra.Command{
		Use:   "todo",
		Short: "Print known but unsolved PIPs",
		Long: `Load each side's pip list, drop the PIPs already resolved in the matching
segbits database and print the rest, filtered by --re, --exclude-re and
--not-endswith.

Paths default to $XRAY_FUZZERS_DIR/piplist/build/<pip-type>/<pip-type>_<side>.txt
and $XRAY_DATABASE_DIR/$XRAY_DATABASE/segbits_<seg-type>_<side>.db.

Examples:
  xraytodo todo --re 'INT_[LR]\..*'
  xraytodo todo --re 'INT_L\..*' --sides l --not-endswith _S0
  xraytodo todo --config todo.toml -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTodo(cmd, opts)
		},
	}

	f := todoCmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "TOML file with default settings")
	f.StringVar(&opts.pipFile, "pipfile", "", "pip list to use instead of the per-side paths")
	f.StringVar(&opts.dbFile, "dbfile", "", "segbits database to use with --pipfile")
	f.StringVar(&opts.cfg.DBDir, "db-dir", "", "segbits database directory")
	f.StringVar(&opts.cfg.PipDir, "pip-dir", "", "pip list directory")
	f.StringVar(&opts.cfg.Re, "re", "", "pattern PIPs must match (anchored at start)")
	f.StringVar(&opts.cfg.ExcludeRe, "exclude-re", "", "drop PIPs matching this pattern")
	f.StringVar(&opts.cfg.NotEndsWith, "not-endswith", "", "drop PIPs ending with this")
	f.StringVar(&opts.cfg.PipType, "pip-type", opts.cfg.PipType, "pip list type")
	f.StringVar(&opts.cfg.SegType, "seg-type", opts.cfg.SegType, "segbits database type")
	f.StringVar(&opts.sides, "sides", strings.Join(opts.cfg.Sides, ","),
		`comma separated tile sides to process ("" for tile types without sides)`)
	f.BoolVar(&opts.cfg.Left, "l", opts.cfg.Left, "process the l side")
	f.BoolVar(&opts.cfg.Right, "r", opts.cfg.Right, "process the r side")
	f.BoolVar(&opts.cfg.Strict, "strict", false, "fail on resolved tags missing from the pip list")

	todoCmd.MarkFlagsRequiredTogether("pipfile", "dbfile")

	return todoCmd
}

// flagFields maps flag names to the config fields they set
func (o *todoOptions) flagFields(cfg *config.Config) map[string]func() {
	return map[string]func(){
		"db-dir":       func() { cfg.DBDir = o.cfg.DBDir },
		"pip-dir":      func() { cfg.PipDir = o.cfg.PipDir },
		"re":           func() { cfg.Re = o.cfg.Re },
		"exclude-re":   func() { cfg.ExcludeRe = o.cfg.ExcludeRe },
		"not-endswith": func() { cfg.NotEndsWith = o.cfg.NotEndsWith },
		"pip-type":     func() { cfg.PipType = o.cfg.PipType },
		"seg-type":     func() { cfg.SegType = o.cfg.SegType },
		"sides":        func() { cfg.Sides = strings.Split(o.sides, ",") },
		"l":            func() { cfg.Left = o.cfg.Left },
		"r":            func() { cfg.Right = o.cfg.Right },
		"strict":       func() { cfg.Strict = o.cfg.Strict },
	}
}

// settings merges the config file with the flags set on the command line
func (o *todoOptions) settings(cmd *cobra.Command) (*config.Config, error) {
	if o.configPath == "" {
		cfg := o.cfg
		// An empty value is one empty side, not no sides
		cfg.Sides = strings.Split(o.sides, ",")
		return &cfg, nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	for name, apply := range o.flagFields(cfg) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	return cfg, nil
}

func (o *todoOptions) jobs(cfg *config.Config) ([]config.Job, error) {
	if o.pipFile != "" {
		return []config.Job{{PipFile: o.pipFile, DBFile: o.dbFile}}, nil
	}

	if err := cfg.ResolvePaths(os.Getenv); err != nil {
		return nil, err
	}
	jobs := cfg.Jobs()
	if len(jobs) == 0 {
		return nil, errors.New("no sides selected")
	}
	return jobs, nil
}

func runTodo(cmd *cobra.Command, opts *todoOptions) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	filter, err := todo.NewFilter(cfg.Re, cfg.ExcludeRe, cfg.NotEndsWith)
	if err != nil {
		return err
	}

	jobs, err := opts.jobs(cfg)
	if err != nil {
		return err
	}

	log := logging.New(cmd.ErrOrStderr(), opts.root.verbose)

	// Every job must succeed before anything is printed
	results := make([]*todo.Result, 0, len(jobs))
	for _, job := range jobs {
		result, err := todo.Maketodo(todo.Options{
			PipFile: job.PipFile,
			DBFile:  job.DBFile,
			Filter:  filter,
			Strict:  cfg.Strict,
			Log:     log.With().Str("side", job.Side).Logger(),
		})
		if err != nil {
			return err
		}

		results = append(results, result)
	}

	for _, result := range results {
		if err := todo.Write(cmd.OutOrStdout(), result.Todo); err != nil {
			return err
		}
	}

	return nil
}
