// Package todo computes the PIPs of a tile type that are known but not yet
// solved: tags from a pip list minus those already resolved in a segbits
// database, narrowed by a Filter.
package todo

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/xraytodo/pkg/pipfile"
)

// Options configures a single Maketodo run
type Options struct {
	PipFile string
	DBFile  string
	Filter  *Filter

	// Parse decodes database lines; segbits.ParseLine if nil
	Parse  LineParser
	Strict bool

	Log zerolog.Logger
}

// Result is the outcome of a Maketodo run
type Result struct {
	Prefix string
	Loaded int // unique tags in the pip list
	Resolution
	Remaining int      // tags left after removing resolved entries
	Todo      []string // tags surviving the filter, sorted
	Dropped   int      // tags removed by the filter
}

// Maketodo loads the pip list, removes what the database already resolves
// and filters the rest. Nothing is returned on error, so callers never print
// a partial list.
func Maketodo(opts Options) (*Result, error) {
	if opts.Filter == nil {
		return nil, ErrNoInclude
	}
	log := opts.Log

	cat, err := pipfile.LoadFile(opts.PipFile)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("pipfile", opts.PipFile).Int("entries", cat.Len()).Msg("Loaded pip list")
	log.Debug().Str("sample", cat.Sample()).Msg("pipfile todo sample")

	result := &Result{Prefix: cat.Prefix, Loaded: cat.Len()}

	log.Debug().Str("dbfile", opts.DBFile).Int("entries", cat.Len()).Msg("Pre db")
	resolver := &Resolver{Parse: opts.Parse, Strict: opts.Strict, Log: log}
	result.Resolution, err = resolver.Resolve(cat, opts.DBFile)
	if err != nil {
		return nil, err
	}
	result.Remaining = cat.Len()
	log.Debug().Str("dbfile", opts.DBFile).Int("entries", cat.Len()).Msg("Post db")

	result.Todo, result.Dropped = opts.Filter.Apply(cat.Sorted())
	log.Debug().Int("entries", result.Remaining).Int("drops", result.Dropped).Msg("Filtered")

	return result, nil
}

// Write prints one tag per line
func Write(w io.Writer, todo []string) error {
	bw := bufio.NewWriter(w)
	for _, t := range todo {
		if _, err := fmt.Fprintln(bw, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}
