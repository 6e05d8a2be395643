package migrate

import (
	"fmt"

	"github.com/dlclark/regexp2"
	"github.com/osvaldoandrade/graphql-migrate/internal/domain"
)

// Matcher selects migration files by name. A name matches when the pattern
// matches a prefix of it; the rest of the name is ignored. Character classes
// such as \w and \d are Unicode-aware.
type Matcher struct {
	pattern string
	re      *regexp2.Regexp
}

func NewMatcher(pattern string) (Matcher, error) {
	re, err := regexp2.Compile(`\A(?:`+pattern+`)`, regexp2.None)
	if err != nil {
		return Matcher{}, fmt.Errorf("%w %q: %v", domain.ErrInvalidPattern, pattern, err)
	}
	return Matcher{pattern: pattern, re: re}, nil
}

// Match reports whether name starts with a match of the pattern. A match
// that fails to complete counts as no match.
func (m Matcher) Match(name string) bool {
	if m.re == nil {
		return false
	}
	ok, err := m.re.MatchString(name)
	return err == nil && ok
}

func (m Matcher) String() string {
	return m.pattern
}
