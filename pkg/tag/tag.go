// Package tag handles the dotted feature tags shared by pip lists and
// segment-bits databases, e.g. INT_L.WW2BEG0.SR1BEG_S0.
//
// The text before the first dot is the prefix (tile type, optionally with a
// side such as _L or _R). Everything after it is the suffix, which is what
// identifies the same PIP across prefix conventions.
package tag

import (
	"fmt"
	"strings"
)

// Separator splits a tag's prefix from its suffix
const Separator = "."

// MalformedTagError reports a tag with no usable prefix separator
type MalformedTagError struct {
	Tag  string
	Line int // 1-based source line, 0 if unknown
}

func (e *MalformedTagError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed tag %q: expected <prefix>%s<name>", e.Line, e.Tag, Separator)
	}
	return fmt.Sprintf("malformed tag %q: expected <prefix>%s<name>", e.Tag, Separator)
}

// Split returns the prefix and suffix of a tag.
// The prefix must be non-empty.
func Split(t string) (prefix, suffix string, err error) {
	n := strings.Index(t, Separator)
	if n <= 0 {
		return "", "", &MalformedTagError{Tag: t}
	}
	return t[:n], t[n+len(Separator):], nil
}

// Prefix returns the text before the first separator
func Prefix(t string) (string, error) {
	p, _, err := Split(t)
	return p, err
}

// Suffix returns the text after the first separator, further dots included
func Suffix(t string) (string, error) {
	_, s, err := Split(t)
	return s, err
}

// Rebase replaces the prefix of t with prefix.
// Database tags use the generic tile type (INT.X) while pip lists use the
// sided one (INT_L.X); rebasing makes the two comparable.
func Rebase(t, prefix string) (string, error) {
	s, err := Suffix(t)
	if err != nil {
		return "", err
	}
	return prefix + Separator + s, nil
}
