package shellconf

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrSyntax is returned when a file contains constructs that cannot be
// represented without evaluating shell code.
var ErrSyntax = errors.New("unsupported shell syntax")

type entryKind uint8

const (
	entryIndent entryKind = iota
	entryComment
	entrySeparator
	entryAssignment
)

// entry is one lexical chunk of a file. text is the exact source; for
// assignments name and value hold the variable and its unquoted value.
type entry struct {
	kind  entryKind
	text  string
	name  string
	value string
}

var (
	indentPattern     = regexp.MustCompile(`^[ \t]+`)
	commentPattern    = regexp.MustCompile(`^#[^\n]*(?:\n|$)`)
	separatorPattern  = regexp.MustCompile(`^[ \t;\n\r]*[;\n][ \t;\n\r]*`)
	assignPattern     = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_]*)(?:\\\n)*=(?:\\\n)*`)
	singleQuotedValue = regexp.MustCompile(`^'[^']*'`)
	// $(...) and backticks are rejected; ${...} is kept literally.
	doubleQuotedValue = regexp.MustCompile("^\"(?:[^\"`$\\\\]|\\\\[\"`$\\\\\\n]|\\$\\{)*\"")
	unquotedValue     = regexp.MustCompile("^(?:[^\\s\"'`$|&<>;\\\\]|\\\\[\\s\"'`$|&<>;\\\\]|\\$\\{)+")
)

// Document is a parsed shell-style key/value file. Untouched entries are
// written back byte for byte.
type Document struct {
	entries []entry
}

// Parse splits data into entries. It fails on anything that is not a
// comment, whitespace, separator, or NAME=value assignment.
func Parse(data []byte) (*Document, error) {
	s := string(data)
	d := &Document{}
	offset := 0
	wantSeparator := false

	for offset < len(s) {
		rest := s[offset:]

		if m := commentPattern.FindString(rest); m != "" {
			d.entries = append(d.entries, entry{kind: entryComment, text: m})
			offset += len(m)
			wantSeparator = false
			continue
		}
		if m := separatorPattern.FindString(rest); m != "" {
			d.entries = append(d.entries, entry{kind: entrySeparator, text: m})
			offset += len(m)
			wantSeparator = false
			continue
		}
		if m := indentPattern.FindString(rest); m != "" {
			d.entries = append(d.entries, entry{kind: entryIndent, text: m})
			offset += len(m)
			continue
		}
		if m := assignPattern.FindStringSubmatch(rest); m != nil && !wantSeparator {
			e, n, err := parseAssignment(rest, m[0], m[1])
			if err != nil {
				return nil, fmt.Errorf("offset %d: %w", offset, err)
			}
			d.entries = append(d.entries, e)
			offset += n
			wantSeparator = true
			continue
		}
		return nil, fmt.Errorf("offset %d: %w", offset, ErrSyntax)
	}
	return d, nil
}

// ParseLines parses data one line at a time, keeping every line that
// parses on its own. The returned error joins the failures of skipped
// lines; the document is never nil. Assignments spanning lines are lost
// when they fall back here, so only readers use it.
func ParseLines(data []byte) (*Document, error) {
	d := &Document{}
	var errs []error
	for i, line := range strings.SplitAfter(string(data), "\n") {
		if line == "" {
			continue
		}
		ld, err := Parse([]byte(line))
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		d.entries = append(d.entries, ld.entries...)
	}
	return d, errors.Join(errs...)
}

func parseAssignment(rest, head, name string) (entry, int, error) {
	n := len(head)
	var raw strings.Builder
	for n < len(rest) {
		tail := rest[n:]
		m := singleQuotedValue.FindString(tail)
		if m == "" {
			m = doubleQuotedValue.FindString(tail)
		}
		if m == "" {
			m = unquotedValue.FindString(tail)
		}
		if m == "" {
			break
		}
		raw.WriteString(m)
		n += len(m)
	}

	value, err := unquote(raw.String())
	if err != nil {
		return entry{}, 0, fmt.Errorf("unquote %s: %w", name, err)
	}
	return entry{
		kind:  entryAssignment,
		text:  head + raw.String(),
		name:  name,
		value: value,
	}, n, nil
}

func unquote(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false
	words, err := p.Parse(raw)
	if err != nil {
		return "", err
	}
	switch len(words) {
	case 0:
		return "", nil
	case 1:
		return words[0], nil
	default:
		return "", fmt.Errorf("value %q splits into %d words: %w", raw, len(words), ErrSyntax)
	}
}

// Quote renders value as a single-quoted shell word.
func Quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// Get returns the value of the last assignment to name.
func (d *Document) Get(name string) (string, bool) {
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := d.entries[i]
		if e.kind == entryAssignment && e.name == name {
			return e.value, true
		}
	}
	return "", false
}

// Set rewrites the last assignment to name. When name is not assigned
// anywhere it is appended on its own line if add is true. Set reports
// whether the document now assigns value to name.
func (d *Document) Set(name, value string, add bool) bool {
	text := name + "=" + Quote(value)
	for i := len(d.entries) - 1; i >= 0; i-- {
		e := &d.entries[i]
		if e.kind == entryAssignment && e.name == name {
			e.text = text
			e.value = value
			return true
		}
	}
	if !add {
		return false
	}
	if n := len(d.entries); n > 0 && !strings.HasSuffix(d.entries[n-1].text, "\n") {
		d.entries = append(d.entries, entry{kind: entrySeparator, text: "\n"})
	}
	d.entries = append(d.entries,
		entry{kind: entryAssignment, text: text, name: name, value: value},
		entry{kind: entrySeparator, text: "\n"},
	)
	return true
}

// Bytes renders the document.
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, e := range d.entries {
		b.WriteString(e.text)
	}
	return []byte(b.String())
}
