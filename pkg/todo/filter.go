package todo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Reason tells why Filter.Keep accepted or dropped a tag
type Reason int

const (
	Kept Reason = iota
	NoMatch
	SuffixExcluded
	PatternExcluded
)

func (r Reason) String() string {
	switch r {
	case Kept:
		return "kept"
	case NoMatch:
		return "no match"
	case SuffixExcluded:
		return "suffix excluded"
	case PatternExcluded:
		return "pattern excluded"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// ErrNoInclude is returned when no inclusion pattern is given
var ErrNoInclude = errors.New("inclusion pattern is required")

// Filter selects which unsolved tags are printed.
// A tag is kept if it matches Include, does not end with NotEndsWith and
// does not match Exclude. Patterns are anchored at the start of the tag.
type Filter struct {
	Include     *regexp.Regexp
	Exclude     *regexp.Regexp // nil: no exclusion
	NotEndsWith string         // "": no suffix exclusion
}

// NewFilter compiles the inclusion and optional exclusion patterns.
// Empty exclude and notEndsWith disable those tests.
func NewFilter(include, exclude, notEndsWith string) (*Filter, error) {
	if include == "" {
		return nil, ErrNoInclude
	}

	inc, err := compileAnchored(include)
	if err != nil {
		return nil, fmt.Errorf("invalid inclusion pattern: %w", err)
	}

	f := &Filter{Include: inc, NotEndsWith: notEndsWith}
	if exclude != "" {
		f.Exclude, err = compileAnchored(exclude)
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern: %w", err)
		}
	}
	return f, nil
}

// compileAnchored compiles pattern so it only matches at the start of input
func compileAnchored(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)`)
}

// Keep decides whether t survives the filter
func (f *Filter) Keep(t string) Reason {
	if !f.Include.MatchString(t) {
		return NoMatch
	}
	if f.NotEndsWith != "" && strings.HasSuffix(t, f.NotEndsWith) {
		return SuffixExcluded
	}
	if f.Exclude != nil && f.Exclude.MatchString(t) {
		return PatternExcluded
	}
	return Kept
}

// Apply returns the tags that survive the filter, in input order,
// and the number dropped
func (f *Filter) Apply(tags []string) (kept []string, dropped int) {
	for _, t := range tags {
		if f.Keep(t) == Kept {
			kept = append(kept, t)
		} else {
			dropped++
		}
	}
	return kept, dropped
}
