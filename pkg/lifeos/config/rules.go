package config

import (
	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/folders"
	"github.com/jamesainslie/lifeos/pkg/lifeos/hygiene"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/scanner"
)

// Compile builds the matcher for this allowlist.
func (a Allowlist) Compile() allowlist.Rule {
	return allowlist.Compile(a.Names, a.Patterns)
}

// DesktopRule returns the cleanup scan rule for the desktop.
func (c *Config) DesktopRule() scanner.DesktopRule {
	return scanner.DesktopRule{
		Path:            c.Paths.Desktop,
		Allowlist:       c.Cleanup.Desktop.Allowlist.Compile(),
		TrashExtensions: c.Cleanup.Desktop.TrashExtensions,
	}
}

// DownloadsRule returns the cleanup scan rule for downloads.
func (c *Config) DownloadsRule() scanner.DownloadsRule {
	r := c.Cleanup.Downloads.Rules
	return scanner.DownloadsRule{
		Path:            c.Paths.Downloads,
		Allowlist:       c.Cleanup.Downloads.Allowlist.Compile(),
		TrashExtensions: r.TrashExtensions,
		MaxAgeDays:      r.MaxAgeDays,
		LargeMinSizeMB:  r.LargeMinSizeMB,
	}
}

// CachesRule returns the cleanup scan rule for caches.
func (c *Config) CachesRule() scanner.CachesRule {
	return scanner.CachesRule{Paths: c.Cleanup.Caches.Paths}
}

// LargeFilesRule returns the cleanup scan rule for large files.
func (c *Config) LargeFilesRule() scanner.LargeFilesRule {
	return largeFilesRule(c.Cleanup.LargeFiles)
}

func largeFilesRule(lf LargeFilesConfig) scanner.LargeFilesRule {
	return scanner.LargeFilesRule{
		MinSizeMB: lf.MinSizeMB,
		Roots:     lf.Roots,
		Exclude:   lf.Exclude,
	}
}

// HygieneOptions returns the settings for doctor's report-only checks.
func (c *Config) HygieneOptions() hygiene.Options {
	h := c.Hygiene
	return hygiene.Options{
		Desktop: hygiene.DesktopOptions{
			Path:      c.Paths.Desktop,
			Allowlist: h.Desktop.Allowlist.Compile(),
		},
		Downloads: hygiene.DownloadsOptions{
			Path:      c.Paths.Downloads,
			Allowlist: h.Downloads.Allowlist.Compile(),
			AgeDays:   h.Downloads.AgeDays,
			TopN:      h.Downloads.TopN,
			Groups:    h.Downloads.Groups,
		},
		Caches: hygiene.CachesOptions{
			Paths:      h.Caches.Paths,
			WarnOverMB: h.Caches.WarnOverMB,
		},
		LargeFiles: hygiene.LargeFilesOptions{
			Rule: largeFilesRule(h.LargeFiles),
			TopN: h.LargeFiles.TopN,
		},
	}
}

// FolderSpecs returns the folder checks in spec file order.
func (c *Config) FolderSpecs() []folders.Spec {
	specs := make([]folders.Spec, 0, len(c.Filesystem))
	for _, f := range c.Filesystem {
		spec := folders.Spec{
			Label:           f.Label(),
			Path:            f.Path,
			RequiredFolders: f.RequiredFolders,
		}
		for _, s := range f.Subfolders {
			spec.Subfolders = append(spec.Subfolders, folders.Subfolder{Parent: s.Parent, Names: s.Names})
		}
		specs = append(specs, spec)
	}
	return specs
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() (logging.Config, error) {
	maxSize, err := c.Logging.Rotation.MaxSizeBytes()
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{
		Level: c.Logging.Level,
		Path:  c.Logging.Path,
		Rotation: logging.RotationConfig{
			MaxSize:    maxSize,
			MaxBackups: c.Logging.Rotation.MaxBackups,
			MaxAge:     c.Logging.Rotation.MaxAge,
		},
		Components:   c.Logging.Components,
		ConsoleLevel: c.Logging.Console,
	}, nil
}
