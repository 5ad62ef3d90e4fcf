// Package sizer computes byte sizes of files and directory trees.
//
// All functions are best effort: entries that cannot be read contribute zero
// and are logged at debug level. Nothing here returns an error for a single
// bad entry.
package sizer

import (
	"cmp"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

// StatStatus tags the outcome of a filesystem metadata read.
type StatStatus int

const (
	// StatOK means Info is populated.
	StatOK StatStatus = iota
	// StatNotFound means the path does not exist.
	StatNotFound
	// StatError means the read failed for another reason (permissions, I/O).
	StatError
)

// String returns a short name for the status.
func (s StatStatus) String() string {
	switch s {
	case StatOK:
		return "ok"
	case StatNotFound:
		return "not-found"
	default:
		return "error"
	}
}

// Stat is the tagged result of reading a path's metadata.
type Stat struct {
	Status StatStatus
	Info   fs.FileInfo
	Err    error
}

// OK reports whether the metadata read succeeded.
func (s Stat) OK() bool { return s.Status == StatOK }

// Lookup reads metadata for path, following symlinks.
func Lookup(path string) Stat {
	return classify(os.Stat(path))
}

// LookupNoFollow reads metadata for path without following a final symlink.
func LookupNoFollow(path string) Stat {
	return classify(os.Lstat(path))
}

func classify(info fs.FileInfo, err error) Stat {
	switch {
	case err == nil:
		return Stat{Status: StatOK, Info: info}
	case errors.Is(err, fs.ErrNotExist):
		return Stat{Status: StatNotFound, Err: err}
	default:
		return Stat{Status: StatError, Err: err}
	}
}

// walkConfig keeps traversal on a single worker and never follows symlinks.
func walkConfig() *fastwalk.Config {
	return &fastwalk.Config{Follow: false, NumWorkers: 1}
}

// FileFunc receives every regular file found by WalkFiles.
type FileFunc func(path string, info fs.FileInfo)

// WalkFiles calls fn for every regular file beneath root, in walk order.
// Unreadable directories and entries are skipped.
func WalkFiles(root string, fn FileFunc) {
	logger := logging.Get("sizer")

	var mu sync.Mutex
	err := fastwalk.Walk(walkConfig(), root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable entry", "path", path, "err", err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logger.Debug("skipping entry", "path", path, "err", err)
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		fn(path, info)
		return nil
	})
	if err != nil {
		logger.Debug("walk ended early", "root", root, "err", err)
	}
}

// SizeOf returns the size of path in bytes. A regular file reports its own
// length, a directory the sum of every regular file beneath it, and a missing
// or unreadable path zero.
func SizeOf(path string) int64 {
	st := Lookup(path)
	if !st.OK() {
		if st.Status == StatError {
			logging.Get("sizer").Debug("cannot stat path", "path", path, "err", st.Err)
		}
		return 0
	}

	switch {
	case st.Info.Mode().IsRegular():
		return st.Info.Size()
	case st.Info.IsDir():
		var total int64
		WalkFiles(path, func(_ string, info fs.FileInfo) {
			total += info.Size()
		})
		return total
	default:
		return 0
	}
}

// SubtreeSizes returns, for every directory in the tree rooted at root, the
// total size of all regular files beneath it. Totals are folded bottom-up so
// that each directory adds its immediate children's totals to the sizes of
// its own files. Keys are absolute, cleaned paths. A missing or
// non-directory root yields an empty map.
func SubtreeSizes(root string) map[string]int64 {
	sizes := make(map[string]int64)

	st := Lookup(root)
	if !st.OK() || !st.Info.IsDir() {
		return sizes
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return sizes
	}

	logger := logging.Get("sizer")
	direct := map[string]int64{root: 0}

	var mu sync.Mutex
	err = fastwalk.Walk(walkConfig(), root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable entry", "path", path, "err", err)
			return nil
		}
		path = filepath.Clean(path)

		mu.Lock()
		defer mu.Unlock()

		switch {
		case d.IsDir():
			if _, seen := direct[path]; !seen {
				direct[path] = 0
			}
		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				logger.Debug("skipping entry", "path", path, "err", err)
				return nil
			}
			direct[filepath.Dir(path)] += info.Size()
		}
		return nil
	})
	if err != nil {
		logger.Debug("walk ended early", "root", root, "err", err)
	}

	dirs := make([]string, 0, len(direct))
	for dir := range direct {
		dirs = append(dirs, dir)
	}
	// Deepest first, so every child is final before its parent reads it.
	slices.SortFunc(dirs, func(a, b string) int {
		return cmp.Compare(depth(b), depth(a))
	})

	children := make(map[string]int64, len(dirs))
	for _, dir := range dirs {
		total := direct[dir] + children[dir]
		sizes[dir] = total
		if dir != root {
			children[filepath.Dir(dir)] += total
		}
	}

	return sizes
}

// depth counts path elements below the volume root, so "/" is 0 and "/a" is 1.
func depth(path string) int {
	rest := strings.Trim(path[len(filepath.VolumeName(path)):], string(filepath.Separator))
	if rest == "" {
		return 0
	}
	return strings.Count(rest, string(filepath.Separator)) + 1
}
