// Package pattern matches model identifiers against glob or regex patterns
// supplied on the command line.
package pattern

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Type selects the pattern syntax.
type Type int

const (
	// Glob uses shell-style patterns (*, ?, []). A * does not cross a "/".
	Glob Type = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern contains regex-only syntax.
	Auto
)

// String returns the name of the pattern type.
func (t Type) String() string {
	switch t {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher reports whether inputs match one compiled pattern.
type Matcher interface {
	// Match checks if the input matches the pattern
	Match(input string) bool
	// MatchAny checks whether any of the inputs matches
	MatchAny(inputs ...string) bool
	// Pattern returns the original pattern string
	Pattern() string
	// Type returns the resolved pattern type
	Type() Type
}

type matcher struct {
	pattern  string
	typ      Type
	glob     string
	compiled *regexp.Regexp
}

// New compiles a case-insensitive pattern.
func New(typ Type, pattern string) (Matcher, error) {
	m := &matcher{pattern: pattern, typ: typ}
	if typ == Auto {
		m.typ = detect(pattern)
	}

	switch m.typ {
	case Glob:
		m.glob = strings.ToLower(pattern)
		if _, err := path.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", typ)
	}
	return m, nil
}

func (m *matcher) Match(input string) bool {
	if m.typ == Regex {
		return m.compiled.MatchString(input)
	}
	ok, _ := path.Match(m.glob, strings.ToLower(input))
	return ok
}

func (m *matcher) MatchAny(inputs ...string) bool {
	for _, in := range inputs {
		if m.Match(in) {
			return true
		}
	}
	return false
}

func (m *matcher) Pattern() string {
	return m.pattern
}

func (m *matcher) Type() Type {
	return m.typ
}

// detect treats a pattern as a regex when it uses syntax globs never need.
func detect(pattern string) Type {
	for _, indicator := range []string{"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")", ".*"} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}
