// Package scanner selects and classifies cleanup candidates on each
// configured surface: desktop, downloads, caches and large-files roots.
//
// Scans are synchronous and best effort. A missing surface yields no
// candidates, and an entry whose metadata cannot be read is skipped.
package scanner

import (
	"cmp"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/paths"
	"github.com/jamesainslie/lifeos/pkg/lifeos/sizer"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// Options configures a Scanner.
type Options struct {
	// Now returns the reference time for age checks. Nil uses time.Now.
	Now func() time.Time
}

// Scanner runs surface scans. The zero value is not usable; call New.
type Scanner struct {
	now    func() time.Time
	logger *logging.Logger
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Scanner{now: now, logger: logging.Get("scanner")}
}

// entry is a direct child of a surface directory with its metadata.
type entry struct {
	path string
	info fs.FileInfo
}

// listSurface returns the direct children of dir that the allowlist does not
// exempt, sorted by name. A dangling symlink is listed with its own link
// metadata; other children whose metadata cannot be read are skipped.
func (s *Scanner) listSurface(dir string, allow allowlist.Rule) []entry {
	st := sizer.Lookup(dir)
	if !st.OK() || !st.Info.IsDir() {
		s.logger.Debug("surface not present", "path", dir, "status", st.Status)
		return nil
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		s.logger.Debug("cannot list surface", "path", dir, "err", err)
		return nil
	}

	out := make([]entry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if allow.Allows(name) {
			continue
		}
		p := filepath.Join(dir, name)
		cst := sizer.Lookup(p)
		if cst.Status == sizer.StatNotFound {
			cst = sizer.LookupNoFollow(p)
		}
		if !cst.OK() {
			s.logger.Debug("skipping entry", "path", p, "status", cst.Status, "err", cst.Err)
			continue
		}
		out = append(out, entry{path: p, info: cst.Info})
	}
	return out
}

func classify(e entry, trashExts extensionSet) types.Classification {
	if e.info.Mode().IsRegular() && trashExts.has(Suffix(e.path)) {
		return types.Trash
	}
	return types.MightNeed
}

func kindOf(info fs.FileInfo) types.Kind {
	if info.IsDir() {
		return types.KindDir
	}
	return types.KindFile
}

func (s *Scanner) candidate(e entry, class types.Classification) types.Candidate {
	return types.Candidate{
		Path:           e.path,
		Size:           sizer.SizeOf(e.path),
		Classification: class,
		Kind:           kindOf(e.info),
		ModTime:        e.info.ModTime(),
	}
}

// Desktop returns every non-allowlisted direct child of the desktop. Files
// with a trash extension are Trash; everything else is MightNeed.
func (s *Scanner) Desktop(rule DesktopRule) []types.Candidate {
	exts := newExtensionSet(rule.TrashExtensions)

	var out []types.Candidate
	for _, e := range s.listSurface(rule.Path, rule.Allowlist) {
		out = append(out, s.candidate(e, classify(e, exts)))
	}

	s.logger.Debug("scanned desktop", "path", rule.Path, "candidates", len(out))
	return out
}

// Downloads returns non-allowlisted direct children of the downloads
// directory that are at least MaxAgeDays old, or at least LargeMinSizeMB big
// when that trigger is enabled. Classification follows Desktop.
func (s *Scanner) Downloads(rule DownloadsRule) []types.Candidate {
	exts := newExtensionSet(rule.TrashExtensions)
	cutoff := time.Duration(rule.MaxAgeDays) * types.Day
	sizeThreshold := int64(rule.LargeMinSizeMB) * types.MiB
	now := s.now()

	var out []types.Candidate
	for _, e := range s.listSurface(rule.Path, rule.Allowlist) {
		c := s.candidate(e, classify(e, exts))

		old := now.Sub(e.info.ModTime()) >= cutoff
		large := sizeThreshold > 0 && c.Size >= sizeThreshold
		if !old && !large {
			continue
		}
		out = append(out, c)
	}

	s.logger.Debug("scanned downloads", "path", rule.Path, "candidates", len(out))
	return out
}

// Caches returns every existing path matched by the configured cache paths,
// classified Trash.
func (s *Scanner) Caches(rule CachesRule) []types.Candidate {
	var out []types.Candidate
	for _, p := range paths.ExpandAll(rule.Paths) {
		st := sizer.Lookup(p)
		if !st.OK() {
			continue
		}
		out = append(out, types.Candidate{
			Path:           p,
			Size:           sizer.SizeOf(p),
			Classification: types.Trash,
			Kind:           kindOf(st.Info),
			ModTime:        st.Info.ModTime(),
		})
	}

	s.logger.Debug("scanned caches", "patterns", len(rule.Paths), "candidates", len(out))
	return out
}

// LargeFiles walks every existing root and returns, as MightNeed, each
// directory whose subtree total reaches the threshold and, independently,
// each file that reaches it. A big file inside a big directory therefore
// yields two candidates. Within a root, directories come first, then files,
// each sorted by path.
func (s *Scanner) LargeFiles(rule LargeFilesRule) []types.Candidate {
	threshold := rule.Threshold()

	var out []types.Candidate
	for _, root := range paths.ExpandAll(rule.Roots) {
		st := sizer.Lookup(root)
		if !st.OK() || !st.Info.IsDir() {
			continue
		}
		root = filepath.Clean(root)

		var dirs []types.Candidate
		for dir, size := range sizer.SubtreeSizes(root) {
			if size < threshold || s.excluded(rule.Exclude, root, dir) {
				continue
			}
			dirs = append(dirs, types.Candidate{
				Path:           dir,
				Size:           size,
				Classification: types.MightNeed,
				Kind:           types.KindDir,
			})
		}
		slices.SortFunc(dirs, byPath)

		var files []types.Candidate
		sizer.WalkFiles(root, func(p string, info fs.FileInfo) {
			if info.Size() < threshold || s.excluded(rule.Exclude, root, p) {
				return
			}
			files = append(files, types.Candidate{
				Path:           p,
				Size:           info.Size(),
				Classification: types.MightNeed,
				Kind:           types.KindFile,
				ModTime:        info.ModTime(),
			})
		})
		slices.SortFunc(files, byPath)

		out = append(out, dirs...)
		out = append(out, files...)
	}

	s.logger.Debug("scanned large files", "roots", len(rule.Roots), "threshold", threshold, "candidates", len(out))
	return out
}

func byPath(a, b types.Candidate) int {
	return cmp.Compare(a.Path, b.Path)
}

func (s *Scanner) excluded(patterns []string, root, p string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(p)

	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}

// Suffix returns the final extension of the base name of p, including the
// dot. A leading dot alone does not start an extension, so ".bashrc" has none,
// and a trailing dot yields none.
func Suffix(p string) string {
	name := filepath.Base(p)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	if strings.Trim(name[:i], ".") == "" {
		return ""
	}
	return name[i:]
}
