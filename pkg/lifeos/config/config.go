package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jamesainslie/lifeos/pkg/lifeos/paths"
)

// ErrInvalidSpec is returned when the spec file parses but holds unusable values.
var ErrInvalidSpec = errors.New("invalid spec")

// Allowlist is the raw allowlist section of a surface.
type Allowlist struct {
	Names    []string `mapstructure:"names" yaml:"names,omitempty"`
	Patterns []string `mapstructure:"patterns" yaml:"patterns,omitempty"`
}

// PathsConfig locates the desktop and downloads surfaces.
type PathsConfig struct {
	Desktop   string `mapstructure:"desktop" yaml:"desktop"`
	Downloads string `mapstructure:"downloads" yaml:"downloads"`
}

// ActionsConfig configures what cleanup does with accepted items.
type ActionsConfig struct {
	TrashDir string `mapstructure:"trash_dir" yaml:"trash_dir"`
}

// CleanupDesktop configures the desktop cleanup step.
type CleanupDesktop struct {
	Allowlist Allowlist `mapstructure:"allowlist" yaml:"allowlist"`
	// TrashExtensions defaults to the downloads list when unset.
	TrashExtensions []string `mapstructure:"trash_extensions" yaml:"trash_extensions"`
}

// DownloadRules are the inclusion and classification rules for downloads.
type DownloadRules struct {
	TrashExtensions []string `mapstructure:"trash_extensions" yaml:"trash_extensions"`
	MaxAgeDays      int      `mapstructure:"max_age_days" yaml:"max_age_days"`
	LargeMinSizeMB  int      `mapstructure:"large_min_size_mb" yaml:"large_min_size_mb"`
}

// CleanupDownloads configures the downloads cleanup step.
type CleanupDownloads struct {
	Allowlist Allowlist     `mapstructure:"allowlist" yaml:"allowlist"`
	Rules     DownloadRules `mapstructure:"rules" yaml:"rules"`
}

// CachesConfig lists cache locations; entries may end in a glob segment.
type CachesConfig struct {
	Paths []string `mapstructure:"paths" yaml:"paths"`
	// WarnOverMB is only read by the hygiene report.
	WarnOverMB int `mapstructure:"warn_over_mb" yaml:"warn_over_mb,omitempty"`
}

// LargeFilesConfig configures large file detection.
type LargeFilesConfig struct {
	MinSizeMB int      `mapstructure:"min_size_mb" yaml:"min_size_mb"`
	Roots     []string `mapstructure:"roots" yaml:"roots"`
	Exclude   []string `mapstructure:"exclude" yaml:"exclude,omitempty"`
	// TopN is only read by the hygiene report.
	TopN int `mapstructure:"top_n" yaml:"top_n,omitempty"`
}

// CleanupConfig is the cleanup section.
type CleanupConfig struct {
	Actions    ActionsConfig    `mapstructure:"actions" yaml:"actions"`
	Desktop    CleanupDesktop   `mapstructure:"desktop" yaml:"desktop"`
	Downloads  CleanupDownloads `mapstructure:"downloads" yaml:"downloads"`
	Caches     CachesConfig     `mapstructure:"caches" yaml:"caches"`
	LargeFiles LargeFilesConfig `mapstructure:"large_files" yaml:"large_files"`
	TopN       int              `mapstructure:"top_n" yaml:"top_n"`
}

// HygieneDesktop configures the desktop cleanliness report.
type HygieneDesktop struct {
	Allowlist Allowlist `mapstructure:"allowlist" yaml:"allowlist"`
}

// HygieneDownloads configures the downloads aging report.
type HygieneDownloads struct {
	AgeDays   int                 `mapstructure:"age_days" yaml:"age_days"`
	TopN      int                 `mapstructure:"top_n" yaml:"top_n"`
	Allowlist Allowlist           `mapstructure:"allowlist" yaml:"allowlist"`
	Groups    map[string][]string `mapstructure:"groups" yaml:"groups"`
}

// HygieneConfig is the report-only hygiene section.
type HygieneConfig struct {
	Desktop    HygieneDesktop   `mapstructure:"desktop" yaml:"desktop"`
	Downloads  HygieneDownloads `mapstructure:"downloads" yaml:"downloads"`
	Caches     CachesConfig     `mapstructure:"caches" yaml:"caches"`
	LargeFiles LargeFilesConfig `mapstructure:"large_files" yaml:"large_files"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSize    string `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
}

// MaxSizeBytes parses MaxSize ("5MB", "512KiB").
func (r RotationConfig) MaxSizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(r.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: logging.rotation.max_size %q: %w", ErrInvalidSpec, r.MaxSize, err)
	}
	return int64(n), nil
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level" yaml:"level"`
	Path       string            `mapstructure:"path" yaml:"path"`
	Console    string            `mapstructure:"console" yaml:"console"`
	Rotation   RotationConfig    `mapstructure:"rotation" yaml:"rotation"`
	Components map[string]string `mapstructure:"components" yaml:"components,omitempty"`
}

// Config is the resolved spec. Every path field has "~" expanded.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
	Cleanup CleanupConfig `mapstructure:"cleanup" yaml:"cleanup"`
	Hygiene HygieneConfig `mapstructure:"hygiene" yaml:"hygiene"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Filesystem is decoded separately to keep folder names and order intact.
	Filesystem []Folder `mapstructure:"-" yaml:"-"`

	// File is the spec file that was read, empty when only defaults apply.
	File string `mapstructure:"-" yaml:"-"`
}

// Load reads the spec file and environment into a Config.
//
// When file is empty the spec is looked up in order:
//   - $XDG_CONFIG_HOME/lifeos/spec.yaml
//   - $HOME/.config/lifeos/spec.yaml
//
// A missing spec file is not an error; defaults apply. Environment variables
// prefixed with LIFEOS_ override keys (LIFEOS_CLEANUP_ACTIONS_TRASH_DIR).
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(strings.TrimSuffix(SpecFileName, filepath.Ext(SpecFileName)))
		for _, dir := range searchDirs() {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("LIFEOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading spec file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding spec: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if !v.IsSet("cleanup.desktop.trash_extensions") {
		cfg.Cleanup.Desktop.TrashExtensions = cfg.Cleanup.Downloads.Rules.TrashExtensions
	}
	if len(cfg.Hygiene.Downloads.Groups) == 0 {
		cfg.Hygiene.Downloads.Groups = DefaultDownloadGroups()
	}

	if cfg.File != "" {
		folders, err := readFolders(cfg.File)
		if err != nil {
			return nil, err
		}
		cfg.Filesystem = folders
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.desktop", DefaultDesktopPath)
	v.SetDefault("paths.downloads", DefaultDownloadsPath)

	v.SetDefault("cleanup.actions.trash_dir", DefaultTrashDir)
	v.SetDefault("cleanup.downloads.rules.trash_extensions", []string{})
	v.SetDefault("cleanup.downloads.rules.max_age_days", DefaultMaxAgeDays)
	v.SetDefault("cleanup.downloads.rules.large_min_size_mb", DefaultLargeMinSizeMB)
	v.SetDefault("cleanup.caches.paths", []string{})
	v.SetDefault("cleanup.large_files.min_size_mb", DefaultMinSizeMB)
	v.SetDefault("cleanup.large_files.roots", []string{})
	v.SetDefault("cleanup.top_n", DefaultCleanupTopN)

	v.SetDefault("hygiene.downloads.age_days", DefaultMaxAgeDays)
	v.SetDefault("hygiene.downloads.top_n", DefaultDownloadsTopN)
	v.SetDefault("hygiene.caches.warn_over_mb", DefaultWarnOverMB)
	v.SetDefault("hygiene.caches.paths", []string{})
	v.SetDefault("hygiene.large_files.min_size_mb", DefaultMinSizeMB)
	v.SetDefault("hygiene.large_files.top_n", DefaultLargeFilesTopN)
	v.SetDefault("hygiene.large_files.roots", []string{})

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.console", "")
	v.SetDefault("logging.rotation.max_size", DefaultLogMaxSize)
	v.SetDefault("logging.rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("logging.rotation.max_age", DefaultLogMaxAgeDays)
}

func (c *Config) expandPaths() {
	c.Paths.Desktop = paths.Absolute(c.Paths.Desktop)
	c.Paths.Downloads = paths.Absolute(c.Paths.Downloads)
	c.Cleanup.Actions.TrashDir = paths.Absolute(c.Cleanup.Actions.TrashDir)
	c.Logging.Path = paths.Absolute(c.Logging.Path)
	for i := range c.Filesystem {
		c.Filesystem[i].Path = paths.Absolute(c.Filesystem[i].Path)
	}
	// Cache paths and large-file roots stay raw: paths.Expand handles "~"
	// together with the glob segment.
}

// Validate rejects values no scan can run with.
func (c *Config) Validate() error {
	var problems []string

	checkNonNegative := func(key string, n int) {
		if n < 0 {
			problems = append(problems, fmt.Sprintf("%s must be >= 0, got %d", key, n))
		}
	}
	checkNonNegative("cleanup.downloads.rules.max_age_days", c.Cleanup.Downloads.Rules.MaxAgeDays)
	checkNonNegative("cleanup.downloads.rules.large_min_size_mb", c.Cleanup.Downloads.Rules.LargeMinSizeMB)
	checkNonNegative("cleanup.large_files.min_size_mb", c.Cleanup.LargeFiles.MinSizeMB)
	checkNonNegative("hygiene.downloads.age_days", c.Hygiene.Downloads.AgeDays)
	checkNonNegative("hygiene.large_files.min_size_mb", c.Hygiene.LargeFiles.MinSizeMB)
	checkNonNegative("hygiene.caches.warn_over_mb", c.Hygiene.Caches.WarnOverMB)

	if c.Cleanup.Actions.TrashDir == "" {
		problems = append(problems, "cleanup.actions.trash_dir must not be empty")
	}
	for _, f := range c.Filesystem {
		if f.Path == "" {
			problems = append(problems, fmt.Sprintf("filesystem.%s.path must not be empty", f.Key))
		}
	}
	if _, err := c.Logging.Rotation.MaxSizeBytes(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSpec, strings.Join(problems, "; "))
	}
	return nil
}

func searchDirs() []string {
	var dirs []string
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		dirs = append(dirs, filepath.Join(xdgConfigHome, AppName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", AppName))
	}
	return dirs
}

// ConfigDir returns the directory the default spec file lives in.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, AppName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultSpecPath returns ConfigDir()/spec.yaml.
func DefaultSpecPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SpecFileName), nil
}

// StateDir returns $XDG_STATE_HOME/lifeos, where logs are written.
func StateDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}
