// Package pipfile loads pip lists: one tag per line, all sharing a single
// tile type prefix (e.g. INT_L).
package pipfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/OpenTraceLab/xraytodo/pkg/tag"
)

// ErrEmpty is returned when a pip list has no entries to detect a prefix from
var ErrEmpty = errors.New("pip list is empty")

// PrefixMismatchError reports a tag whose prefix differs from the first line's
type PrefixMismatchError struct {
	Line int
	Tag  string
	Want string
	Got  string
}

func (e *PrefixMismatchError) Error() string {
	return fmt.Sprintf("line %d: tag %q has prefix %q, expected %q (one tile type per pip list)",
		e.Line, e.Tag, e.Got, e.Want)
}

// Catalog is the set of known tags for one tile type and side
type Catalog struct {
	Prefix string
	Tags   map[string]struct{}
}

// Len returns the number of tags
func (c *Catalog) Len() int {
	return len(c.Tags)
}

// Has reports whether t is in the catalog
func (c *Catalog) Has(t string) bool {
	_, ok := c.Tags[t]
	return ok
}

// Remove deletes t and reports whether it was present
func (c *Catalog) Remove(t string) bool {
	if _, ok := c.Tags[t]; !ok {
		return false
	}
	delete(c.Tags, t)
	return true
}

// Sorted returns the tags in lexical order
func (c *Catalog) Sorted() []string {
	tags := make([]string, 0, len(c.Tags))
	for t := range c.Tags {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Sample returns the lexically smallest tag, or "" for an empty catalog
func (c *Catalog) Sample() string {
	sample := ""
	for t := range c.Tags {
		if sample == "" || t < sample {
			sample = t
		}
	}
	return sample
}

// Load reads a pip list from r.
// Each line is trimmed; the first line's prefix fixes the catalog prefix
// and every other line must carry the same one. Duplicates collapse.
func Load(r io.Reader) (*Catalog, error) {
	cat := &Catalog{Tags: make(map[string]struct{})}

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		t := strings.TrimSpace(scanner.Text())

		prefix, err := tag.Prefix(t)
		if err != nil {
			return nil, &tag.MalformedTagError{Tag: t, Line: lineNum}
		}

		if lineNum == 1 {
			cat.Prefix = prefix
		} else if prefix != cat.Prefix {
			return nil, &PrefixMismatchError{
				Line: lineNum,
				Tag:  t,
				Want: cat.Prefix,
				Got:  prefix,
			}
		}

		cat.Tags[t] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	if lineNum == 0 {
		return nil, ErrEmpty
	}

	return cat, nil
}

// LoadFile reads a pip list from a file path
func LoadFile(filename string) (*Catalog, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open pip list: %w", err)
	}
	defer file.Close()

	cat, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cat, nil
}
