package scanner_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/scanner"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newScanner() *scanner.Scanner {
	return scanner.New(scanner.Options{Now: func() time.Time { return fixedNow }})
}

// writeAged creates a file of the given size whose mtime is age before fixedNow.
func writeAged(t *testing.T, path string, size int, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	mtime := fixedNow.Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func byPath(cands []types.Candidate) map[string]types.Candidate {
	out := make(map[string]types.Candidate, len(cands))
	for _, c := range cands {
		out[c.Path] = c
	}
	return out
}

func TestDownloadsEndToEnd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "old.dmg"), 1024, 10*types.Day)
	writeAged(t, filepath.Join(dir, "old.iso"), 1024, 10*types.Day)
	writeAged(t, filepath.Join(dir, "new.iso"), 2*1024*1024, 0)
	writeAged(t, filepath.Join(dir, "fresh.txt"), 10, time.Hour)

	got := newScanner().Downloads(scanner.DownloadsRule{
		Path:            dir,
		TrashExtensions: []string{".dmg"},
		MaxAgeDays:      7,
		LargeMinSizeMB:  1,
	})

	require.Len(t, got, 3)
	m := byPath(got)

	assert.Equal(t, types.Trash, m[filepath.Join(dir, "old.dmg")].Classification)
	assert.Equal(t, types.MightNeed, m[filepath.Join(dir, "old.iso")].Classification)

	newISO := m[filepath.Join(dir, "new.iso")]
	assert.Equal(t, types.MightNeed, newISO.Classification)
	assert.Equal(t, int64(2*1024*1024), newISO.Size)

	assert.NotContains(t, m, filepath.Join(dir, "fresh.txt"))
}

func TestDownloadsAgeBoundaryIsInclusive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "exact.zip"), 1, 7*types.Day)
	writeAged(t, filepath.Join(dir, "almost.zip"), 1, 7*types.Day-time.Minute)

	got := newScanner().Downloads(scanner.DownloadsRule{Path: dir, MaxAgeDays: 7})

	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(dir, "exact.zip"), got[0].Path)
}

func TestDownloadsSizeTriggerDisabledAtZero(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "huge.bin"), 3*1024*1024, 0)

	got := newScanner().Downloads(scanner.DownloadsRule{Path: dir, MaxAgeDays: 7, LargeMinSizeMB: 0})
	assert.Empty(t, got)
}

func TestDownloadsExtensionIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "Installer.DMG"), 1, 30*types.Day)

	got := newScanner().Downloads(scanner.DownloadsRule{
		Path:            dir,
		TrashExtensions: []string{".dmg"},
		MaxAgeDays:      7,
	})

	require.Len(t, got, 1)
	assert.Equal(t, types.Trash, got[0].Classification)
}

func TestDownloadsDirectoryIsNeverTrash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bundle := filepath.Join(dir, "App.dmg")
	writeAged(t, filepath.Join(bundle, "inner"), 4096, 30*types.Day)
	old := fixedNow.Add(-30 * types.Day)
	require.NoError(t, os.Chtimes(bundle, old, old))

	got := newScanner().Downloads(scanner.DownloadsRule{
		Path:            dir,
		TrashExtensions: []string{".dmg"},
		MaxAgeDays:      7,
	})

	require.Len(t, got, 1)
	assert.Equal(t, types.MightNeed, got[0].Classification)
	assert.Equal(t, types.KindDir, got[0].Kind)
	assert.Equal(t, int64(4096), got[0].Size)
}

func TestDownloadsMissingPath(t *testing.T) {
	t.Parallel()

	got := newScanner().Downloads(scanner.DownloadsRule{Path: filepath.Join(t.TempDir(), "nope"), MaxAgeDays: 7})
	assert.Empty(t, got)
}

func TestDesktop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "notes.txt"), 5, 0)
	writeAged(t, filepath.Join(dir, "setup.pkg"), 7, 0)
	writeAged(t, filepath.Join(dir, ".DS_Store"), 1, 0)
	writeAged(t, filepath.Join(dir, "Screenshot 1.png"), 1, 0)
	writeAged(t, filepath.Join(dir, "Project", "a.go"), 100, 0)

	got := newScanner().Desktop(scanner.DesktopRule{
		Path:            dir,
		Allowlist:       allowlist.Compile([]string{".DS_Store"}, []string{"^Screenshot"}),
		TrashExtensions: []string{".pkg"},
	})

	m := byPath(got)
	require.Len(t, m, 3)
	assert.Equal(t, types.MightNeed, m[filepath.Join(dir, "notes.txt")].Classification)
	assert.Equal(t, types.Trash, m[filepath.Join(dir, "setup.pkg")].Classification)

	project := m[filepath.Join(dir, "Project")]
	assert.Equal(t, types.KindDir, project.Kind)
	assert.Equal(t, int64(100), project.Size)
}

func TestDesktopListsDanglingSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	link := filepath.Join(dir, "old.pkg")
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), link))

	got := newScanner().Desktop(scanner.DesktopRule{Path: dir, TrashExtensions: []string{".pkg"}})
	require.Len(t, got, 1)
	assert.Equal(t, link, got[0].Path)
	assert.Equal(t, int64(0), got[0].Size)
	assert.Equal(t, types.MightNeed, got[0].Classification, "only regular files are trash")
	assert.Equal(t, types.KindFile, got[0].Kind)
}

func TestDesktopMissingPath(t *testing.T) {
	t.Parallel()

	assert.Empty(t, newScanner().Desktop(scanner.DesktopRule{Path: filepath.Join(t.TempDir(), "Desktop")}))
}

func TestCaches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeAged(t, filepath.Join(dir, "com.app.one", "blob"), 300, 0)
	writeAged(t, filepath.Join(dir, "com.app.two", "blob"), 200, 0)
	writeAged(t, filepath.Join(dir, "other", "blob"), 100, 0)
	writeAged(t, filepath.Join(dir, "single.cache"), 50, 0)

	got := newScanner().Caches(scanner.CachesRule{Paths: []string{
		filepath.Join(dir, "com.app.*"),
		filepath.Join(dir, "single.cache"),
		filepath.Join(dir, "missing"),
	}})

	m := byPath(got)
	require.Len(t, m, 3)
	for _, c := range got {
		assert.Equal(t, types.Trash, c.Classification, c.Path)
	}
	assert.Equal(t, int64(300), m[filepath.Join(dir, "com.app.one")].Size)
	assert.Equal(t, int64(200), m[filepath.Join(dir, "com.app.two")].Size)
	assert.Equal(t, int64(50), m[filepath.Join(dir, "single.cache")].Size)
}

func TestLargeFilesDoubleCount(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	big := filepath.Join(root, "media", "movie.mkv")
	writeAged(t, big, 2*1024*1024, 0)
	writeAged(t, filepath.Join(root, "small.txt"), 10, 0)

	got := newScanner().LargeFiles(scanner.LargeFilesRule{MinSizeMB: 1, Roots: []string{root}})
	m := byPath(got)

	file, ok := m[big]
	require.True(t, ok, "file candidate missing")
	assert.Equal(t, types.KindFile, file.Kind)
	assert.Equal(t, types.MightNeed, file.Classification)

	parent, ok := m[filepath.Join(root, "media")]
	require.True(t, ok, "parent directory candidate missing")
	assert.Equal(t, types.KindDir, parent.Kind)
	assert.Equal(t, int64(2*1024*1024), parent.Size)

	rootCand, ok := m[root]
	require.True(t, ok, "root directory candidate missing")
	assert.Equal(t, int64(2*1024*1024+10), rootCand.Size)

	assert.Len(t, got, 3)
	for _, c := range got {
		assert.Equal(t, types.MightNeed, c.Classification)
	}
	assert.Equal(t, types.KindDir, got[0].Kind, "directories come before files")
}

func TestLargeFilesRelativeRoot(t *testing.T) {
	root := t.TempDir()
	writeAged(t, filepath.Join(root, "a", "b", "f.bin"), 2*1024*1024, 0)
	writeAged(t, filepath.Join(root, "a", "g.bin"), 10, 0)
	t.Chdir(root)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	got := newScanner().LargeFiles(scanner.LargeFilesRule{MinSizeMB: 1, Roots: []string{"."}})
	m := byPath(got)

	require.Len(t, got, 4)
	assert.Equal(t, int64(2*1024*1024+10), m[cwd].Size)
	assert.Equal(t, int64(2*1024*1024+10), m[filepath.Join(cwd, "a")].Size)
	assert.Equal(t, int64(2*1024*1024), m[filepath.Join(cwd, "a", "b")].Size)
	assert.Contains(t, m, filepath.Join(cwd, "a", "b", "f.bin"))
	for _, c := range got {
		assert.True(t, filepath.IsAbs(c.Path), c.Path)
	}
}

func TestLargeFilesExclude(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAged(t, filepath.Join(root, "node_modules", "pkg", "bundle.js"), 2*1024*1024, 0)
	writeAged(t, filepath.Join(root, "keep", "video.mov"), 2*1024*1024, 0)

	got := newScanner().LargeFiles(scanner.LargeFilesRule{
		MinSizeMB: 1,
		Roots:     []string{root},
		Exclude:   []string{"node_modules/**", "node_modules"},
	})
	m := byPath(got)

	assert.NotContains(t, m, filepath.Join(root, "node_modules"))
	assert.NotContains(t, m, filepath.Join(root, "node_modules", "pkg"))
	assert.NotContains(t, m, filepath.Join(root, "node_modules", "pkg", "bundle.js"))
	assert.Contains(t, m, filepath.Join(root, "keep", "video.mov"))
	assert.Equal(t, int64(4*1024*1024), m[root].Size, "excluded entries still count toward ancestors")
}

func TestLargeFilesSkipsMissingAndFileRoots(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "lonely.bin")
	writeAged(t, file, 2*1024*1024, 0)

	got := newScanner().LargeFiles(scanner.LargeFilesRule{
		MinSizeMB: 1,
		Roots:     []string{filepath.Join(dir, "missing"), file},
	})
	assert.Empty(t, got)
}

func TestSuffix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/a/b/file.dmg":    ".dmg",
		"archive.tar.gz":   ".gz",
		".bashrc":          "",
		"noext":            "",
		"trailing.":        "",
		"..hidden.zip":     ".zip",
		"/dir.d/file":      "",
		"UPPER.PKG":        ".PKG",
	}
	for in, want := range tests {
		assert.Equal(t, want, scanner.Suffix(in), in)
	}
}
