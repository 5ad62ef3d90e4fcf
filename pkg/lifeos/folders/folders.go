// Package folders checks that configured directories exist with their
// required children, and computes the fix that would create what is missing.
//
// Check never touches the filesystem beyond reading it. The returned Fix is a
// plain value; nothing is created until the caller passes it to Apply.
package folders

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

// Subfolder lists the folders required inside Parent.
type Subfolder struct {
	Parent string
	Names  []string
}

// Spec describes one directory to check.
type Spec struct {
	Label           string
	Path            string
	RequiredFolders []string
	Subfolders      []Subfolder
}

// FixKind tags the action a Fix performs.
type FixKind int

const (
	// FixNone means no automatic fix exists.
	FixNone FixKind = iota
	// FixCreateDirs creates every directory in Fix.Dirs.
	FixCreateDirs
)

// String names the fix kind.
func (k FixKind) String() string {
	switch k {
	case FixCreateDirs:
		return "create-dirs"
	default:
		return "none"
	}
}

// Fix is a pending repair computed by Check.
type Fix struct {
	Kind FixKind
	// Dirs lists directories to create, parents before children.
	Dirs []string
}

// Available reports whether the fix can be applied.
func (f Fix) Available() bool {
	return f.Kind != FixNone
}

// Result is the outcome of checking one Spec.
type Result struct {
	OK     bool
	Issues []string
	Fix    Fix
}

// Check inspects spec.Path. Issues are reported in stages: a missing root
// reports only that; otherwise missing required folders are reported, and
// only when none are missing are subfolders inspected. The Fix always covers
// everything missing, not just the reported stage.
func Check(spec Spec) Result {
	info, err := os.Stat(spec.Path)
	switch {
	case err == nil && !info.IsDir():
		return Result{Issues: []string{fmt.Sprintf("%s path is not a directory: %s", spec.Label, spec.Path)}}
	case err != nil:
		return Result{
			Issues: []string{fmt.Sprintf("%s directory missing: %s", spec.Label, spec.Path)},
			Fix:    planFix(spec),
		}
	}

	if missing := missingChildren(spec.Path, spec.RequiredFolders); len(missing) > 0 {
		return Result{Issues: missing, Fix: planFix(spec)}
	}

	var issues []string
	for _, sub := range spec.Subfolders {
		parent := filepath.Join(spec.Path, sub.Parent)
		if _, err := os.Stat(parent); err != nil {
			issues = append(issues, fmt.Sprintf("%s (parent folder missing)", sub.Parent))
			continue
		}
		for _, name := range missingChildren(parent, sub.Names) {
			issues = append(issues, sub.Parent+"/"+name)
		}
	}
	if len(issues) > 0 {
		return Result{Issues: issues, Fix: planFix(spec)}
	}

	return Result{OK: true}
}

// missingChildren returns the sorted, de-duplicated names in want that are
// not existing subdirectories of dir.
func missingChildren(dir string, want []string) []string {
	existing := make(map[string]bool)
	if entries, err := os.ReadDir(dir); err == nil {
		for _, e := range entries {
			if isDir(filepath.Join(dir, e.Name())) {
				existing[e.Name()] = true
			}
		}
	}

	var missing []string
	for _, name := range want {
		if !existing[name] {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return slices.Compact(missing)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// planFix lists every directory that does not exist yet: the root, required
// folders, subfolder parents and subfolders, in that order.
func planFix(spec Spec) Fix {
	var dirs []string
	seen := make(map[string]bool)
	add := func(p string) {
		if seen[p] || isDir(p) {
			return
		}
		seen[p] = true
		dirs = append(dirs, p)
	}

	add(spec.Path)
	for _, name := range sortedUnique(spec.RequiredFolders) {
		add(filepath.Join(spec.Path, name))
	}
	for _, sub := range spec.Subfolders {
		parent := filepath.Join(spec.Path, sub.Parent)
		add(parent)
		for _, name := range sortedUnique(sub.Names) {
			add(filepath.Join(parent, name))
		}
	}

	return Fix{Kind: FixCreateDirs, Dirs: dirs}
}

func sortedUnique(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}

// Apply performs fix and returns the directories it actually created.
// Directories that appeared since the check are not reported. Creation stops
// at the first failure, returning what was created so far.
func Apply(fix Fix) ([]string, error) {
	if fix.Kind != FixCreateDirs {
		return nil, nil
	}

	logger := logging.Get("folders")
	var created []string
	for _, dir := range fix.Dirs {
		if isDir(dir) {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return created, fmt.Errorf("creating %s: %w", dir, err)
		}
		logger.Info("created directory", "path", dir)
		created = append(created, dir)
	}
	return created, nil
}
