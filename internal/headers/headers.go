package headers

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNoColon      = errors.New("no colon")
	ErrNameSpace    = errors.New("whitespace in name")
	ErrEmptyName    = errors.New("empty name")
	ErrInvalidName  = errors.New("invalid character in name")
	ErrObsoleteFold = errors.New("obsolete line folding")
	ErrUnterminated = errors.New("no empty line after fields")
	crlf            = []byte("\r\n")
)

// Headers holds request header fields keyed by lower-cased name.
type Headers struct {
	fields  map[string][]string
	skipped []error
}

func NewHeaders() *Headers {
	return &Headers{
		fields: make(map[string][]string),
	}
}

// Get returns the first value for a field
func (h *Headers) Get(name string) (string, bool) {
	values := h.fields[strings.ToLower(name)]
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// GetAll returns every value recorded for a field, in arrival order
func (h *Headers) GetAll(name string) []string {
	return h.fields[strings.ToLower(name)]
}

// Len returns the number of distinct field names
func (h *Headers) Len() int {
	return len(h.fields)
}

// Names returns the lower-cased field names in sorted order
func (h *Headers) Names() []string {
	names := make([]string, 0, len(h.fields))
	for name := range h.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Skipped returns one error per malformed line that Parse passed over
func (h *Headers) Skipped() []error {
	return h.skipped
}

// Add appends a value to a field
func (h *Headers) Add(name, value string) {
	name = strings.ToLower(name)
	h.fields[name] = append(h.fields[name], value)
}

// Parse consumes header lines from data until the empty line that ends the
// block. It returns the bytes consumed and whether the empty line was seen.
// Malformed lines are consumed and recorded in Skipped; they never fail the
// block.
func (h *Headers) Parse(data []byte) (int, bool) {
	read := 0

	for {
		idx := bytes.Index(data[read:], crlf)
		if idx == -1 {
			return read, false
		}

		if idx == 0 {
			return read + len(crlf), true
		}

		line := data[read : read+idx]
		read += idx + len(crlf)

		if line[0] == ' ' || line[0] == '\t' {
			h.skipped = append(h.skipped, fmt.Errorf("%w: %q", ErrObsoleteFold, line))
			continue
		}

		name, value, err := parseField(line)
		if err != nil {
			h.skipped = append(h.skipped, err)
			continue
		}
		h.Add(name, value)
	}
}

// ParseBlock parses a complete header block and fails only if the
// terminating empty line is missing.
func ParseBlock(data []byte) (*Headers, error) {
	h := NewHeaders()
	if _, done := h.Parse(data); !done {
		return nil, ErrUnterminated
	}
	return h, nil
}

func parseField(line []byte) (string, string, error) {
	colon := bytes.IndexByte(line, ':')
	if colon == -1 {
		return "", "", fmt.Errorf("%w: %q", ErrNoColon, line)
	}

	name := line[:colon]
	if len(name) == 0 {
		return "", "", fmt.Errorf("%w: %q", ErrEmptyName, line)
	}
	if bytes.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("%w: %q", ErrNameSpace, name)
	}
	for _, b := range name {
		if !isTokenChar(b) {
			return "", "", fmt.Errorf("%w: %q in %q", ErrInvalidName, b, name)
		}
	}

	value := bytes.TrimSpace(line[colon+1:])
	return string(name), string(value), nil
}

func isTokenChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') ||
		(b >= 'a' && b <= 'z') ||
		(b >= '0' && b <= '9') ||
		b == '!' || b == '#' || b == '$' || b == '%' || b == '&' ||
		b == '\'' || b == '*' || b == '+' || b == '-' || b == '.' ||
		b == '^' || b == '_' || b == '`' || b == '|' || b == '~'
}
