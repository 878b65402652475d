package fixture

import (
	"fmt"
	"path/filepath"
)

// Discoverer enumerates fixtures. No ordering guarantee is made; callers
// impose their own. Implementations re-walk their source on every call, the
// filesystem stays the single source of truth.
type Discoverer interface {
	Discover() ([]Fixture, error)
}

// Dir discovers fixtures on disk by matching <Root>/<category>/<name><Ext>,
// exactly one level of category nesting. A missing root or an empty corpus
// yields no fixtures and no error.
type Dir struct {
	Root string
	Ext  string
}

// Discover globs the corpus root and materializes one Fixture per match.
func (d Dir) Discover() ([]Fixture, error) {
	pattern := filepath.Join(d.Root, "*", "*"+d.Ext)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad fixture pattern %q: %w", pattern, err)
	}
	fixtures := make([]Fixture, 0, len(matches))
	for _, m := range matches {
		fixtures = append(fixtures, FromPath(m))
	}
	return fixtures, nil
}

// List is an in-memory Discoverer for tests and callers that already hold
// the fixture set.
type List []Fixture

// Discover returns a copy of the list.
func (l List) Discover() ([]Fixture, error) {
	return append([]Fixture(nil), l...), nil
}
