package todo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/OpenTraceLab/xraytodo/pkg/pipfile"
	"github.com/OpenTraceLab/xraytodo/pkg/segbits"
	"github.com/OpenTraceLab/xraytodo/pkg/tag"
)

// LineParser decodes one database line into tag, bits and mode
type LineParser func(line string) (segbits.Entry, error)

// UnmatchedTagError is returned in strict mode when a resolved database
// tag has no counterpart in the pip list
type UnmatchedTagError struct {
	Line int
	Tag  string
}

func (e *UnmatchedTagError) Error() string {
	return fmt.Sprintf("line %d: resolved tag %s is not in the pip list", e.Line, e.Tag)
}

// Resolution counts what a database pass did to a catalog
type Resolution struct {
	Exists    bool // database file was found
	Removed   int  // resolved entries that removed a tag
	Unmatched int  // resolved entries with no tag to remove
	Skipped   int  // entries carrying a mode
}

// Resolver removes already solved tags from a catalog
type Resolver struct {
	// Parse decodes database lines; segbits.ParseLine if nil
	Parse LineParser

	// Strict turns unmatched resolved tags into errors
	Strict bool

	Log zerolog.Logger
}

// NewResolver creates a resolver with the default line parser
func NewResolver(log zerolog.Logger) *Resolver {
	return &Resolver{Parse: segbits.ParseLine, Log: log}
}

// Resolve removes every tag resolved in the database at dbPath from cat.
// A missing database is not an error: nothing has been solved yet.
func (r *Resolver) Resolve(cat *pipfile.Catalog, dbPath string) (Resolution, error) {
	file, err := os.Open(dbPath)
	if errors.Is(err, fs.ErrNotExist) {
		r.Log.Warn().Str("dbfile", dbPath).Msg("dbfile doesn't exist")
		return Resolution{}, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to open database: %w", err)
	}
	defer file.Close()

	r.Log.Debug().Str("dbfile", dbPath).Msg("Loading database")
	res, err := r.ResolveReader(cat, file)
	if err != nil {
		return res, fmt.Errorf("%s: %w", dbPath, err)
	}
	return res, nil
}

// ResolveReader removes every tag resolved in the database read from rd
func (r *Resolver) ResolveReader(cat *pipfile.Catalog, rd io.Reader) (Resolution, error) {
	parse := r.Parse
	if parse == nil {
		parse = segbits.ParseLine
	}

	res := Resolution{Exists: true}

	scanner := bufio.NewScanner(rd)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := parse(line)
		if err != nil {
			var mle *segbits.MalformedLineError
			if errors.As(err, &mle) {
				mle.Line = lineNum
				return res, err
			}
			return res, &segbits.MalformedLineError{Line: lineNum, Text: line, Err: err}
		}

		// Only count resolved entries
		if entry.Mode != "" {
			res.Skipped++
			continue
		}

		// INT.BLAH => INT_L.BLAH
		t, err := tag.Rebase(entry.Tag, cat.Prefix)
		if err != nil {
			return res, &tag.MalformedTagError{Tag: entry.Tag, Line: lineNum}
		}

		if cat.Remove(t) {
			res.Removed++
			continue
		}

		// Databases may cover tags outside this pip list
		res.Unmatched++
		if r.Strict {
			return res, &UnmatchedTagError{Line: lineNum, Tag: t}
		}
		r.Log.Warn().Int("line", lineNum).Str("tag", t).Msg("couldn't remove tag")
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("read error: %w", err)
	}

	return res, nil
}
