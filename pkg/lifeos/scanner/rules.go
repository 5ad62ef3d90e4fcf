package scanner

import (
	"strings"

	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// DesktopRule configures the desktop scan.
type DesktopRule struct {
	// Path is the desktop directory.
	Path string

	// Allowlist exempts entries by name.
	Allowlist allowlist.Rule

	// TrashExtensions lists extensions (with leading dot, any case) whose files
	// are classified Trash.
	TrashExtensions []string
}

// DownloadsRule configures the downloads scan.
type DownloadsRule struct {
	// Path is the downloads directory.
	Path string

	// Allowlist exempts entries by name.
	Allowlist allowlist.Rule

	// TrashExtensions lists extensions (with leading dot, any case) whose files
	// are classified Trash.
	TrashExtensions []string

	// MaxAgeDays includes entries whose modification time is at least this old.
	MaxAgeDays int

	// LargeMinSizeMB includes entries at least this big regardless of age.
	// Zero disables the size trigger.
	LargeMinSizeMB int
}

// CachesRule configures the caches scan.
type CachesRule struct {
	// Paths are literal paths or final-segment globs. Every existing match is Trash.
	Paths []string
}

// LargeFilesRule configures the large-files scan.
type LargeFilesRule struct {
	// MinSizeMB is the threshold for both directories and files.
	MinSizeMB int

	// Roots are literal paths or final-segment globs to walk.
	Roots []string

	// Exclude holds doublestar patterns. A candidate whose path relative to its
	// root, or whose base name, matches any pattern is not emitted. Excluded
	// entries still count toward their ancestors' sizes.
	Exclude []string
}

// Threshold returns MinSizeMB in bytes.
func (r LargeFilesRule) Threshold() int64 {
	return int64(r.MinSizeMB) * types.MiB
}

// extensionSet lowercases extensions into a lookup set.
type extensionSet map[string]struct{}

func newExtensionSet(exts []string) extensionSet {
	set := make(extensionSet, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func (s extensionSet) has(ext string) bool {
	_, ok := s[strings.ToLower(ext)]
	return ok
}
