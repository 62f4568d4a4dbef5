package token

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"docforge/internal/services"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Bindings maps token names to scalar values. Values may be strings or
// numbers; Value renders them for substitution.
type Bindings map[string]any

// Resolve returns the bound value for a token name. Unbound names resolve to
// an empty string unless strict mode is active, in which case the lookup fails
// with services.ErrMissingBinding.
func Resolve(name string, bindings Bindings, strict bool) (string, error) {
	if v, ok := bindings[name]; ok {
		return Value(v), nil
	}
	if strict {
		return "", fmt.Errorf("%w: token %q has no bound value", services.ErrMissingBinding, name)
	}
	return "", nil
}

// Value renders a binding value as the text substituted into the document.
func Value(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprint(value)
	}
}

// Scanner walks text and yields placeholder token names one at a time. It is
// lazy and restartable: construct a new Scanner to rescan the same input.
//
// Usage follows bufio.Scanner:
//
//	s := token.NewScanner(text)
//	for s.Scan() {
//	    name := s.Name()
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	input string
	pos   int
	name  string
	start int
	end   int
	err   error
}

// NewScanner returns a scanner positioned at the start of input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Scan advances to the next token. It returns false when the input is
// exhausted or a malformed token is encountered; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	rel := strings.Index(s.input[s.pos:], openDelim)
	if rel < 0 {
		return false
	}
	start := s.pos + rel

	rest := s.input[start+len(openDelim):]
	end := strings.Index(rest, closeDelim)
	if end < 0 {
		s.err = fmt.Errorf("%w: unterminated token at offset %d", services.ErrMalformedToken, start)
		return false
	}
	if nested := strings.Index(rest[:end], openDelim); nested >= 0 {
		s.err = fmt.Errorf("%w: nested delimiter at offset %d", services.ErrMalformedToken, start+len(openDelim)+nested)
		return false
	}

	name := strings.TrimSpace(rest[:end])
	if !validName(name) {
		s.err = fmt.Errorf("%w: invalid token name %q at offset %d", services.ErrMalformedToken, name, start)
		return false
	}

	s.name = name
	s.start = start
	s.end = start + len(openDelim) + end + len(closeDelim)
	s.pos = s.end
	return true
}

// Bounds returns the byte offsets of the last scanned token, including its
// delimiters.
func (s *Scanner) Bounds() (start, end int) {
	return s.start, s.end
}

// Name returns the token name produced by the last successful Scan.
func (s *Scanner) Name() string {
	return s.name
}

// Err returns the first malformed-token error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Names collects the distinct token names in text, sorted. This is the token
// discovery operation used to derive a template's variable slots.
func Names(text string) ([]string, error) {
	seen := map[string]struct{}{}
	s := NewScanner(text)
	for s.Scan() {
		seen[s.Name()] = struct{}{}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Replace substitutes every token in text using the resolve callback. Text
// outside tokens is preserved byte for byte. Scanning errors and resolver
// errors abort the replacement.
func Replace(text string, resolve func(name string) (string, error)) (string, error) {
	var out strings.Builder
	out.Grow(len(text))

	last := 0
	s := NewScanner(text)
	for s.Scan() {
		start, end := s.Bounds()

		value, err := resolve(s.Name())
		if err != nil {
			return "", err
		}

		out.WriteString(text[last:start])
		out.WriteString(value)
		last = end
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	out.WriteString(text[last:])
	return out.String(), nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}
