// Package allowlist decides which directory entries are exempt from scanning.
package allowlist

import (
	"github.com/dlclark/regexp2"

	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

// Rule is a compiled allowlist: a set of exact names plus regular expressions.
// A Rule is read-only after Compile and safe to share.
type Rule struct {
	names    map[string]struct{}
	patterns []*regexp2.Regexp
}

// Compile builds a Rule. Names match exactly and case-sensitively. Patterns
// use backtracking syntax, so lookaround and backreferences work. Patterns
// that fail to compile are dropped and the rest are kept.
func Compile(names, patterns []string) Rule {
	logger := logging.Get("allowlist")

	rule := Rule{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		rule.names[name] = struct{}{}
	}
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			logger.Debug("dropping invalid allowlist pattern", "pattern", p, "err", err)
			continue
		}
		rule.patterns = append(rule.patterns, re)
	}
	return rule
}

// Allows reports whether name is exempt: it is one of the exact names, or a
// pattern matches somewhere inside it. Patterns are not anchored.
func (r Rule) Allows(name string) bool {
	if _, ok := r.names[name]; ok {
		return true
	}
	for _, re := range r.patterns {
		if ok, err := re.MatchString(name); err == nil && ok {
			return true
		}
	}
	return false
}

// Len returns the number of exact names and compiled patterns.
func (r Rule) Len() (names, patterns int) {
	return len(r.names), len(r.patterns)
}
