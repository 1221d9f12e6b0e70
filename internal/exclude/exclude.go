// Package exclude implements the path exclusion predicate: a list of
// regular expressions matched against full paths.
package exclude

import (
	"fmt"
	"regexp"
)

// Patterns is a compiled list of exclusion expressions. The zero value and a
// nil *Patterns match nothing.
type Patterns struct {
	res []*regexp.Regexp
}

// Compile parses every expression. Empty strings are ignored.
func Compile(exprs []string) (*Patterns, error) {
	p := &Patterns{res: make([]*regexp.Regexp, 0, len(exprs))}
	for _, expr := range exprs {
		if expr == "" {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compile exclude pattern %q: %w", expr, err)
		}
		p.res = append(p.res, re)
	}
	return p, nil
}

// Match reports whether any pattern matches path.
func (p *Patterns) Match(path string) bool {
	if p == nil {
		return false
	}
	for _, re := range p.res {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled patterns.
func (p *Patterns) Len() int {
	if p == nil {
		return 0
	}
	return len(p.res)
}
