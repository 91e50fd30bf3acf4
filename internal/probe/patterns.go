package probe

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// DefaultPatternSources detect Adobe Experience Manager asset and client
// library references in a response body.
func DefaultPatternSources() map[string]string {
	return map[string]string{
		"dam":        `href="/content/dam.*`,
		"clientlibs": `href="/etc.clientlibs.*`,
	}
}

// Pattern pairs a stable name with a compiled expression.
type Pattern struct {
	Name   string
	Source string
	re     *regexp.Regexp
}

// Match reports whether the pattern matches the body.
func (p Pattern) Match(body []byte) bool {
	return p.re.Match(body)
}

// PatternSet is an immutable, compiled collection of named patterns. It is
// built once at startup and shared read-only by the dispatcher and every
// worker, so no locking is needed.
type PatternSet struct {
	patterns []Pattern
}

// CompilePatterns validates and compiles the named sources. A malformed
// expression is a configuration error that must abort startup; deferring
// it to first use inside a worker would surface as a confusing mid-run
// failure instead.
func CompilePatterns(sources map[string]string) (*PatternSet, error) {
	if len(sources) == 0 {
		return nil, errors.New("pattern set is empty")
	}

	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)

	ps := &PatternSet{patterns: make([]Pattern, 0, len(names))}
	for _, name := range names {
		re, err := regexp.Compile(sources[name])
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", name, err)
		}
		ps.patterns = append(ps.patterns, Pattern{Name: name, Source: sources[name], re: re})
	}
	return ps, nil
}

// Patterns returns the compiled patterns in stable name order. Callers
// must not mutate the returned slice.
func (ps *PatternSet) Patterns() []Pattern {
	return ps.patterns
}

// Len reports the number of patterns in the set.
func (ps *PatternSet) Len() int {
	return len(ps.patterns)
}
