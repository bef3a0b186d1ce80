// Package segbits parses segment-bits database lines:
//
//	<tag> [origin:<fuzzer>] [!]<word>_<bit>...
//	<tag> <mode>
package segbits

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
)

// MalformedLineError reports a database line that does not follow the grammar
type MalformedLineError struct {
	Line int // 1-based, 0 if unknown
	Text string
	Err  error
}

func (e *MalformedLineError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed database line %q: %v", e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("malformed database line %q: %v", e.Text, e.Err)
}

func (e *MalformedLineError) Unwrap() error {
	return e.Err
}

// Parser represents a segbits line parser
type Parser struct {
	parser *participle.Parser[Line]
}

// NewParser creates a new segbits parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Line](
		participle.Lexer(SegbitsLexer),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

var defaultParser = func() *Parser {
	p, err := NewParser()
	if err != nil {
		panic(err)
	}
	return p
}()

// ParseLine parses a single line with the package default parser
func ParseLine(line string) (Entry, error) {
	return defaultParser.ParseLine(line)
}

// ParseLine parses a single database line.
// Anything after the tag containing '<' is a mode marker and is kept
// verbatim, e.g. <0 candidates> or <m1> 01_02.
func (p *Parser) ParseLine(line string) (Entry, error) {
	head, mode := splitMode(line)

	raw, err := p.parser.ParseString("", head)
	if err != nil {
		return Entry{}, &MalformedLineError{Text: line, Err: err}
	}

	entry, err := raw.toEntry()
	if err != nil {
		return Entry{}, &MalformedLineError{Text: line, Err: err}
	}
	if mode != "" {
		entry.Mode = mode
	}
	return entry, nil
}

// splitMode separates the tag from a mode-bearing remainder.
// Lines without a mode are returned whole.
func splitMode(line string) (head, mode string) {
	line = strings.TrimSpace(line)
	n := strings.IndexFunc(line, unicode.IsSpace)
	if n < 0 {
		return line, ""
	}
	rest := strings.TrimSpace(line[n:])
	if !strings.Contains(rest, "<") {
		return line, ""
	}
	return line[:n], rest
}

// Parse parses every non-blank line from a reader
func (p *Parser) Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := p.ParseLine(line)
		if err != nil {
			var mle *MalformedLineError
			if errors.As(err, &mle) {
				mle.Line = lineNum
			}
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	return entries, nil
}

// ParseFile parses a database from a file path
func (p *Parser) ParseFile(filename string) ([]Entry, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
