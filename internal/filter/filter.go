// Package filter implements the exclusion patterns applied to both trees
// during a sync pass. Patterns are shell-style globs matched against entry
// base names; a directory that matches excludes its whole subtree.
package filter

// Set holds an ordered list of compiled exclusion patterns.
type Set struct {
	patterns []*pattern
}

// Compile builds a Set from raw glob patterns. A malformed pattern is a
// startup error; no pass runs with a partially compiled set.
func Compile(globs []string) (*Set, error) {
	s := &Set{}
	for _, g := range globs {
		p, err := compile(g)
		if err != nil {
			return nil, err
		}
		s.patterns = append(s.patterns, p)
	}
	return s, nil
}

// Add compiles one more pattern into the set.
func (s *Set) Add(glob string) error {
	p, err := compile(glob)
	if err != nil {
		return err
	}
	s.patterns = append(s.patterns, p)
	return nil
}

// Match reports whether the base name matches any exclusion pattern.
func (s *Set) Match(name string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.patterns {
		if p.match(name) {
			return true
		}
	}
	return false
}

// Empty reports whether the set has no patterns.
func (s *Set) Empty() bool {
	return s == nil || len(s.patterns) == 0
}

// Patterns returns the original pattern strings, in order.
func (s *Set) Patterns() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.String()
	}
	return out
}
