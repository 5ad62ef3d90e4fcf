package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolate points HOME and XDG_CONFIG_HOME at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	return home
}

func writeSpec(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, filepath.Join(home, "Desktop"), cfg.Paths.Desktop)
	assert.Equal(t, filepath.Join(home, "Downloads"), cfg.Paths.Downloads)
	assert.Equal(t, filepath.Join(home, ".Trash"), cfg.Cleanup.Actions.TrashDir)
	assert.Equal(t, DefaultMaxAgeDays, cfg.Cleanup.Downloads.Rules.MaxAgeDays)
	assert.Equal(t, 0, cfg.Cleanup.Downloads.Rules.LargeMinSizeMB)
	assert.Equal(t, DefaultMinSizeMB, cfg.Cleanup.LargeFiles.MinSizeMB)
	assert.Equal(t, DefaultCleanupTopN, cfg.Cleanup.TopN)
	assert.Equal(t, DefaultDownloadsTopN, cfg.Hygiene.Downloads.TopN)
	assert.Equal(t, DefaultLargeFilesTopN, cfg.Hygiene.LargeFiles.TopN)
	assert.Equal(t, DefaultDownloadGroups(), cfg.Hygiene.Downloads.Groups)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Filesystem)
}

func TestLoadFromXDG(t *testing.T) {
	isolate(t)
	xdgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdgHome)

	spec := filepath.Join(xdgHome, AppName, SpecFileName)
	writeSpec(t, spec, `
cleanup:
  downloads:
    rules:
      trash_extensions: [.dmg]
      max_age_days: 14
      large_min_size_mb: 1
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, spec, cfg.File)
	assert.Equal(t, 14, cfg.Cleanup.Downloads.Rules.MaxAgeDays)
	assert.Equal(t, 1, cfg.Cleanup.Downloads.Rules.LargeMinSizeMB)
	assert.Equal(t, []string{".dmg"}, cfg.Cleanup.Desktop.TrashExtensions, "desktop falls back to the downloads list")
}

func TestLoadExplicitFile(t *testing.T) {
	home := isolate(t)
	spec := filepath.Join(t.TempDir(), "custom.yaml")
	writeSpec(t, spec, `
paths:
  desktop: ~/Stuff
cleanup:
  actions:
    trash_dir: /tmp/lifeos-trash
  desktop:
    trash_extensions: [.tmp]
  downloads:
    rules:
      trash_extensions: [.dmg]
filesystem:
  workspace:
    path: ~/Workspace
    required_folders: [projects]
  personal_docs:
    path: ~/Documents
    subfolders:
      Finance: [Taxes, Receipts]
      Health: []
`)

	cfg, err := Load(spec)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "Stuff"), cfg.Paths.Desktop)
	assert.Equal(t, "/tmp/lifeos-trash", cfg.Cleanup.Actions.TrashDir)
	assert.Equal(t, []string{".tmp"}, cfg.Cleanup.Desktop.TrashExtensions)

	require.Len(t, cfg.Filesystem, 2)
	assert.Equal(t, "workspace", cfg.Filesystem[0].Key)
	assert.Equal(t, "Workspace", cfg.Filesystem[0].Label())
	assert.Equal(t, filepath.Join(home, "Workspace"), cfg.Filesystem[0].Path)
	assert.Equal(t, []string{"projects"}, cfg.Filesystem[0].RequiredFolders)

	docs := cfg.Filesystem[1]
	assert.Equal(t, "Personal Docs", docs.Label())
	require.Len(t, docs.Subfolders, 2)
	assert.Equal(t, Subfolder{Parent: "Finance", Names: []string{"Taxes", "Receipts"}}, docs.Subfolders[0],
		"folder names keep their case and order")
	assert.Equal(t, "Health", docs.Subfolders[1].Parent)
	assert.Empty(t, docs.Subfolders[1].Names)

	specs := cfg.FolderSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, "Personal Docs", specs[1].Label)
	assert.Equal(t, "Finance", specs[1].Subfolders[0].Parent)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LIFEOS_CLEANUP_DOWNLOADS_RULES_MAX_AGE_DAYS", "30")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Cleanup.Downloads.Rules.MaxAgeDays)
}

func TestLoadRejectsNegativeThresholds(t *testing.T) {
	isolate(t)
	spec := filepath.Join(t.TempDir(), "bad.yaml")
	writeSpec(t, spec, `
cleanup:
  large_files:
    min_size_mb: -5
`)

	_, err := Load(spec)
	require.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), "cleanup.large_files.min_size_mb")
}

func TestLoadRejectsBadFilesystemSection(t *testing.T) {
	isolate(t)
	spec := filepath.Join(t.TempDir(), "bad.yaml")
	writeSpec(t, spec, "filesystem: [one, two]\n")

	_, err := Load(spec)
	require.ErrorIs(t, err, ErrInvalidSpec)
}

func TestLoadRejectsBadLogSize(t *testing.T) {
	isolate(t)
	spec := filepath.Join(t.TempDir(), "bad.yaml")
	writeSpec(t, spec, "logging:\n  rotation:\n    max_size: lots\n")

	_, err := Load(spec)
	require.ErrorIs(t, err, ErrInvalidSpec)
}

func TestRulesFromConfig(t *testing.T) {
	isolate(t)
	spec := filepath.Join(t.TempDir(), "spec.yaml")
	writeSpec(t, spec, `
cleanup:
  downloads:
    allowlist:
      names: [keep.me]
      patterns: ["^important", "(broken"]
    rules:
      trash_extensions: [.dmg]
      max_age_days: 3
      large_min_size_mb: 2
  caches:
    paths: ["~/Library/Caches/*"]
  large_files:
    min_size_mb: 100
    roots: [~/Movies]
    exclude: ["**/.git"]
hygiene:
  large_files:
    min_size_mb: 500
    top_n: 4
    roots: [~/Movies]
`)

	cfg, err := Load(spec)
	require.NoError(t, err)

	dl := cfg.DownloadsRule()
	assert.Equal(t, 3, dl.MaxAgeDays)
	assert.Equal(t, 2, dl.LargeMinSizeMB)
	assert.True(t, dl.Allowlist.Allows("keep.me"))
	assert.True(t, dl.Allowlist.Allows("important-file"))
	assert.False(t, dl.Allowlist.Allows("other"))

	assert.Equal(t, []string{"~/Library/Caches/*"}, cfg.CachesRule().Paths, "globs are expanded at scan time")

	lf := cfg.LargeFilesRule()
	assert.Equal(t, 100, lf.MinSizeMB)
	assert.Equal(t, []string{"**/.git"}, lf.Exclude)

	h := cfg.HygieneOptions()
	assert.Equal(t, 500, h.LargeFiles.Rule.MinSizeMB)
	assert.Equal(t, 4, h.LargeFiles.TopN)
	assert.Equal(t, cfg.Paths.Downloads, h.Downloads.Path)
}

func TestLogConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	lc, err := cfg.LogConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(5_000_000), lc.Rotation.MaxSize)
	assert.Equal(t, DefaultLogMaxBackups, lc.Rotation.MaxBackups)
	assert.Equal(t, "info", lc.Level)
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(t.TempDir(), "lifeos", SpecFileName)

	require.NoError(t, WriteDefault(path, false))
	require.ErrorIs(t, WriteDefault(path, false), ErrSpecExists)
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{".dmg", ".pkg", ".zip"}, cfg.Cleanup.Downloads.Rules.TrashExtensions)
	assert.Equal(t, cfg.Cleanup.Downloads.Rules.TrashExtensions, cfg.Cleanup.Desktop.TrashExtensions)
	require.Len(t, cfg.Filesystem, 2)
	assert.Equal(t, filepath.Join(home, "Documents"), cfg.Filesystem[1].Path)
}

func TestMarshalKeepsFilesystemOrder(t *testing.T) {
	isolate(t)
	spec := filepath.Join(t.TempDir(), "spec.yaml")
	writeSpec(t, spec, `
filesystem:
  zeta:
    path: /z
  alpha:
    path: /a
    subfolders:
      Inbox: [Later]
`)

	cfg, err := Load(spec)
	require.NoError(t, err)

	out, err := cfg.Marshal()
	require.NoError(t, err)

	var doc struct {
		Filesystem yaml.Node `yaml:"filesystem"`
		Cleanup    struct {
			Actions struct {
				TrashDir string `yaml:"trash_dir"`
			} `yaml:"actions"`
		} `yaml:"cleanup"`
	}
	require.NoError(t, yaml.Unmarshal(out, &doc))

	require.Len(t, doc.Filesystem.Content, 4)
	assert.Equal(t, "zeta", doc.Filesystem.Content[0].Value)
	assert.Equal(t, "alpha", doc.Filesystem.Content[2].Value)
	assert.Equal(t, cfg.Cleanup.Actions.TrashDir, doc.Cleanup.Actions.TrashDir)
	assert.Contains(t, string(out), "Inbox")
}

func TestConfigDir(t *testing.T) {
	home := isolate(t)

	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", AppName), dir)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err = ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName), dir)

	path, err := DefaultSpecPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", AppName, SpecFileName), path)
}

func TestTitleCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Personal Docs", titleCase("personal docs"))
	assert.Equal(t, "System", titleCase("SYSTEM"))
	assert.Equal(t, "Home2Work", titleCase("home2work"))
}
