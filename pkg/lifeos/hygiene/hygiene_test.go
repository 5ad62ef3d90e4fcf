package hygiene_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
	"github.com/jamesainslie/lifeos/pkg/lifeos/hygiene"
	"github.com/jamesainslie/lifeos/pkg/lifeos/scanner"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func write(t *testing.T, path string, size int, age time.Duration) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
	mt := now.Add(-age)
	require.NoError(t, os.Chtimes(path, mt, mt))
}

func TestDesktop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, filepath.Join(dir, "b.txt"), 1, 0)
	write(t, filepath.Join(dir, "a.txt"), 1, 0)
	write(t, filepath.Join(dir, ".localized"), 1, 0)

	opts := hygiene.DesktopOptions{Path: dir, Allowlist: allowlist.Compile([]string{".localized"}, nil)}

	res := hygiene.NewChecker(clock, false).Desktop(opts)
	assert.False(t, res.OK)
	assert.Equal(t, []string{"Desktop has 2 non-ignored item(s)."}, res.Issues)
	assert.Equal(t, []string{checks.ReportOnlyNote}, res.Notes)

	verbose := hygiene.NewChecker(clock, true).Desktop(opts)
	assert.Equal(t, []string{"Desktop has 2 non-ignored item(s).", "a.txt", "b.txt"}, verbose.Issues)
}

func TestDesktopClean(t *testing.T) {
	t.Parallel()

	res := hygiene.NewChecker(clock, false).Desktop(hygiene.DesktopOptions{Path: t.TempDir()})
	assert.True(t, res.OK)
	assert.Empty(t, res.Issues)
}

func TestDesktopMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "Desktop")
	res := hygiene.NewChecker(clock, false).Desktop(hygiene.DesktopOptions{Path: missing})
	assert.False(t, res.OK)
	assert.Equal(t, []string{"Desktop path missing: " + missing}, res.Issues)
}

func TestDownloadsAging(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, filepath.Join(dir, "big.dmg"), 2048, 30*types.Day)
	write(t, filepath.Join(dir, "small.dmg"), 1024, 10*types.Day)
	write(t, filepath.Join(dir, "notes.txt"), 100, 8*types.Day)
	write(t, filepath.Join(dir, "fresh.zip"), 5000, time.Hour)

	opts := hygiene.DownloadsOptions{
		Path:    dir,
		AgeDays: 7,
		TopN:    2,
		Groups:  map[string][]string{"dmg": {".dmg"}, "zip": {".zip"}},
	}

	res := hygiene.NewChecker(clock, false).Downloads(opts)
	assert.False(t, res.OK)
	assert.Equal(t, []string{
		"Items older than 7 days: 3 item(s), 3.1 KB total.",
		"dmg: 2 item(s), 3.0 KB.",
		"other: 1 item(s), 100 B.",
		"Top offenders: big.dmg (2.0 KB), small.dmg (1.0 KB).",
	}, res.Issues)

	verbose := hygiene.NewChecker(clock, true).Downloads(opts)
	assert.Equal(t, []string{
		"big.dmg: 2.0 KB, 30d old.",
		"small.dmg: 1.0 KB, 10d old.",
	}, verbose.Issues[3:])
}

func TestDownloadsNothingOld(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, filepath.Join(dir, "new.pkg"), 1, time.Minute)

	res := hygiene.NewChecker(clock, false).Downloads(hygiene.DownloadsOptions{Path: dir, AgeDays: 7, TopN: 5})
	assert.True(t, res.OK)
}

func TestCaches(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, filepath.Join(dir, "small", "f"), 10, 0)
	write(t, filepath.Join(dir, "large", "f"), 2*1024*1024, 0)

	checker := hygiene.NewChecker(clock, false)
	paths := []string{filepath.Join(dir, "small"), filepath.Join(dir, "large"), filepath.Join(dir, "absent")}

	res := checker.Caches(hygiene.CachesOptions{Paths: paths, WarnOverMB: 1})
	assert.False(t, res.OK)
	assert.Equal(t, []string{
		filepath.Join(dir, "large") + ": 2.0 MB",
		filepath.Join(dir, "small") + ": 10 B",
	}, res.Issues)

	under := checker.Caches(hygiene.CachesOptions{Paths: paths, WarnOverMB: 5})
	assert.True(t, under.OK, "below threshold passes but still lists sizes")
	assert.Len(t, under.Issues, 2)

	empty := checker.Caches(hygiene.CachesOptions{Paths: []string{filepath.Join(dir, "absent")}})
	assert.True(t, empty.OK)
	assert.Empty(t, empty.Issues)
}

func TestLargeFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, filepath.Join(root, "vm", "disk.img"), 3*1024*1024, 0)

	res := hygiene.NewChecker(clock, false).LargeFiles(hygiene.LargeFilesOptions{
		Rule: scanner.LargeFilesRule{MinSizeMB: 1, Roots: []string{root}},
		TopN: 2,
	})

	assert.False(t, res.OK)
	require.Len(t, res.Issues, 3)
	assert.Equal(t, "Top 2 item(s) over 1.0 MB:", res.Issues[0])
	// root, vm and disk.img all weigh 3 MB; the stable sort keeps scan order.
	assert.Equal(t, "folder: "+root+" (3.0 MB)", res.Issues[1])
	assert.Equal(t, "folder: "+filepath.Join(root, "vm")+" (3.0 MB)", res.Issues[2])
}

func TestChecksOrder(t *testing.T) {
	t.Parallel()

	list := hygiene.NewChecker(clock, false).Checks(hygiene.Options{})
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		hygiene.DesktopCheckName,
		hygiene.DownloadsCheckName,
		hygiene.CachesCheckName,
		hygiene.LargeFilesCheckName,
	}, names)
}
