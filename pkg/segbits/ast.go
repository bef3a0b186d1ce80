package segbits

import (
	"fmt"
	"strconv"
	"strings"
)

// Line is the raw grammar of one database line
type Line struct {
	Tag    string   `parser:"@Ident"`
	Origin string   `parser:"@Origin?"`
	Bits   []string `parser:"@Bit*"`
}

// Bit is one bit reference: frame word and bit offset, optionally inverted
type Bit struct {
	Word     int
	Bit      int
	Inverted bool
}

// String formats the bit the way the database writes it (e.g. !23_07)
func (b Bit) String() string {
	s := fmt.Sprintf("%02d_%02d", b.Word, b.Bit)
	if b.Inverted {
		return "!" + s
	}
	return s
}

// ParseBit parses a bit reference such as 21_07 or !22_07
func ParseBit(s string) (Bit, error) {
	var b Bit
	raw := s
	if strings.HasPrefix(s, "!") {
		b.Inverted = true
		s = s[1:]
	}

	word, bit, ok := strings.Cut(s, "_")
	if !ok {
		return Bit{}, fmt.Errorf("invalid bit %q", raw)
	}

	var err error
	if b.Word, err = strconv.Atoi(word); err != nil {
		return Bit{}, fmt.Errorf("invalid bit %q: %w", raw, err)
	}
	if b.Bit, err = strconv.Atoi(bit); err != nil {
		return Bit{}, fmt.Errorf("invalid bit %q: %w", raw, err)
	}
	return b, nil
}

// Entry is a decoded database line.
// Mode is empty for fully resolved entries.
type Entry struct {
	Tag    string
	Origin string
	Bits   []Bit
	Mode   string
}

// Resolved reports whether the entry has a concrete bit encoding
func (e Entry) Resolved() bool {
	return e.Mode == ""
}

// String formats the entry as a database line
func (e Entry) String() string {
	parts := []string{e.Tag}
	if e.Origin != "" {
		parts = append(parts, "origin:"+e.Origin)
	}
	for _, b := range e.Bits {
		parts = append(parts, b.String())
	}
	if e.Mode != "" {
		parts = append(parts, e.Mode)
	}
	return strings.Join(parts, " ")
}

// toEntry converts the raw grammar into an Entry
func (l *Line) toEntry() (Entry, error) {
	if l.Tag == "bit" {
		return Entry{}, fmt.Errorf("wanted bits db but got mask db")
	}

	e := Entry{
		Tag:    l.Tag,
		Origin: strings.TrimPrefix(l.Origin, "origin:"),
	}
	for _, raw := range l.Bits {
		b, err := ParseBit(raw)
		if err != nil {
			return Entry{}, err
		}
		e.Bits = append(e.Bits, b)
	}
	return e, nil
}
