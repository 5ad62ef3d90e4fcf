// Package paths expands configured path strings into concrete paths.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

// globMeta are the characters that turn a configured path into a pattern.
const globMeta = "*?["

// HasMeta reports whether raw contains a glob metacharacter.
func HasMeta(raw string) bool {
	return strings.ContainsAny(raw, globMeta)
}

// ExpandHome replaces a leading "~" with the current user's home directory.
// Other paths are returned unchanged. If the home directory cannot be
// determined the path is returned as is.
func ExpandHome(raw string) string {
	if raw != "~" && !strings.HasPrefix(raw, "~/") {
		return raw
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return raw
	}
	if raw == "~" {
		return home
	}
	return filepath.Join(home, raw[2:])
}

// Absolute expands "~" and makes raw absolute against the working directory.
// An empty string stays empty.
func Absolute(raw string) string {
	if raw == "" {
		return raw
	}
	expanded := ExpandHome(raw)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return filepath.Clean(expanded)
	}
	return abs
}

// Expand resolves a configured path into absolute paths. A literal path comes
// back as a single element whether or not it exists. A path containing
// glob metacharacters is split into a fixed parent directory and a final
// segment pattern; the parent's direct children that match the pattern are
// returned in directory enumeration order. Only the final segment is matched.
func Expand(raw string) []string {
	expanded := Absolute(raw)
	if !HasMeta(raw) {
		return []string{expanded}
	}

	logger := logging.Get("paths")
	parent, pattern := filepath.Dir(expanded), filepath.Base(expanded)

	matcher, err := glob.Compile(escapeBraces(pattern))
	if err != nil {
		logger.Debug("invalid path pattern", "pattern", raw, "err", err)
		return nil
	}

	dir, err := os.Open(parent)
	if err != nil {
		logger.Debug("cannot open pattern parent", "parent", parent, "err", err)
		return nil
	}
	defer dir.Close()

	// ReadDir on the handle keeps the order the filesystem returns entries in.
	entries, err := dir.ReadDir(-1)
	if err != nil {
		logger.Debug("cannot list pattern parent", "parent", parent, "err", err)
	}

	var matches []string
	for _, entry := range entries {
		if matcher.Match(entry.Name()) {
			matches = append(matches, filepath.Join(parent, entry.Name()))
		}
	}
	return matches
}

// ExpandAll expands every raw path and concatenates the results in order.
func ExpandAll(raws []string) []string {
	var out []string
	for _, raw := range raws {
		out = append(out, Expand(raw)...)
	}
	return out
}

// escapeBraces keeps "{" and "}" literal; only *, ? and [...] are wildcards.
func escapeBraces(pattern string) string {
	r := strings.NewReplacer(`{`, `\{`, `}`, `\}`)
	return r.Replace(pattern)
}
