package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// pattern is a shell-style glob compiled to a regular expression.
// Patterns match base names only, so there is no path separator handling.
type pattern struct {
	re       *regexp.Regexp
	original string
}

// compile converts a glob pattern into a matcher. Supported syntax:
// * (any run of characters), ? (any single character), and [...] character
// classes with ! negation.
func compile(glob string) (*pattern, error) {
	if glob == "" {
		return nil, fmt.Errorf("empty pattern")
	}

	reStr, err := globToRegex(glob)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", glob, err)
	}

	re, err := regexp.Compile("^" + reStr + "$")
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", glob, err)
	}
	return &pattern{re: re, original: glob}, nil
}

// match tests a base name against the pattern.
func (p *pattern) match(name string) bool {
	return p.re.MatchString(name)
}

func (p *pattern) String() string {
	return p.original
}

// globToRegex converts a glob pattern to a regex string.
func globToRegex(glob string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(glob) {
		c := glob[i]
		switch c {
		case '*':
			b.WriteString(".*")
			i++
		case '?':
			b.WriteString(".")
			i++
		case '[':
			// Character class — pass through to regex, ! becomes ^.
			j := i + 1
			if j < len(glob) && glob[j] == '!' {
				j++
			}
			if j < len(glob) && glob[j] == ']' {
				j++ // literal ] as first class member
			}
			for j < len(glob) && glob[j] != ']' {
				j++
			}
			if j >= len(glob) {
				return "", fmt.Errorf("unterminated character class")
			}
			cls := glob[i+1 : j]
			if strings.HasPrefix(cls, "!") {
				cls = "^" + cls[1:]
			}
			b.WriteString("[" + cls + "]")
			i = j + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
			i++
		}
	}
	return b.String(), nil
}
