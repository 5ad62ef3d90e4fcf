// Package config loads the lifeos spec file into typed configuration.
package config

// Default values applied when the spec file leaves a key out.
const (
	// AppName names the config, state and log directories.
	AppName = "lifeos"

	// SpecFileName is the spec file looked up in the config directory.
	SpecFileName = "spec.yaml"

	DefaultDesktopPath   = "~/Desktop"
	DefaultDownloadsPath = "~/Downloads"
	DefaultTrashDir      = "~/.Trash"

	DefaultMaxAgeDays     = 7
	DefaultLargeMinSizeMB = 0
	DefaultMinSizeMB      = 250

	DefaultDownloadsTopN  = 5
	DefaultLargeFilesTopN = 10
	DefaultCleanupTopN    = 3

	DefaultWarnOverMB = 0

	DefaultLogLevel      = "info"
	DefaultLogMaxSize    = "5MB"
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 14
)

// DefaultDownloadGroups buckets aging downloads by extension.
func DefaultDownloadGroups() map[string][]string {
	return map[string][]string{
		"dmg": {".dmg"},
		"pkg": {".pkg"},
		"zip": {".zip"},
	}
}
