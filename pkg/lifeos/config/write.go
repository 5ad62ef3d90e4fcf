package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrSpecExists is returned by WriteDefault when the target already exists.
var ErrSpecExists = errors.New("spec file already exists")

const defaultSpec = `# lifeos spec
#
# Paths may start with "~". Cache paths and large-file roots may end in a
# glob segment (only the last segment is matched).

paths:
  desktop: ~/Desktop
  downloads: ~/Downloads

# Directories that must exist, checked by "doctor" and created by "init".
filesystem:
  workspace:
    path: ~/Workspace
    required_folders: [projects, scratch, archive]
  documents:
    path: ~/Documents
    required_folders: [Finance, Health, Home]
    subfolders:
      Finance: [Taxes, Receipts]

# Step-by-step cleanup. Items are moved to trash_dir, never deleted.
cleanup:
  top_n: 3
  actions:
    trash_dir: ~/.Trash
  desktop:
    allowlist:
      names: [.DS_Store, .localized]
      patterns: []
    # Defaults to cleanup.downloads.rules.trash_extensions when left out.
    # trash_extensions: [.dmg, .pkg]
  downloads:
    allowlist:
      names: []
      patterns: []
    rules:
      trash_extensions: [.dmg, .pkg, .zip]
      max_age_days: 7
      large_min_size_mb: 0
  caches:
    paths: []
  large_files:
    min_size_mb: 250
    roots: []
    exclude: []

# Report-only checks run by "doctor".
hygiene:
  desktop:
    allowlist:
      names: [.DS_Store, .localized]
  downloads:
    age_days: 7
    top_n: 5
    groups:
      dmg: [.dmg]
      pkg: [.pkg]
      zip: [.zip]
  caches:
    warn_over_mb: 1024
    paths: []
  large_files:
    min_size_mb: 250
    top_n: 10
    roots: []

logging:
  # debug, info, warn, error
  level: info
  # empty means $XDG_STATE_HOME/lifeos/lifeos.log
  path: ""
  # console level; empty disables console logging
  console: ""
  rotation:
    max_size: 5MB
    max_backups: 3
    max_age: 14
`

// DefaultSpec returns the commented spec written by WriteDefault.
func DefaultSpec() string {
	return defaultSpec
}

// WriteDefault writes the default spec to path, creating parent directories.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrSpecExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking spec file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultSpec), 0o644); err != nil {
		return fmt.Errorf("writing spec file: %w", err)
	}
	return nil
}

type folderView struct {
	Path            string              `yaml:"path"`
	RequiredFolders []string            `yaml:"required_folders,omitempty"`
	Subfolders      map[string][]string `yaml:"subfolders,omitempty"`
}

// Marshal renders the resolved configuration as YAML, filesystem entries
// included in their original order.
func (c *Config) Marshal() ([]byte, error) {
	fsNode := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range c.Filesystem {
		view := folderView{Path: f.Path, RequiredFolders: f.RequiredFolders}
		if len(f.Subfolders) > 0 {
			view.Subfolders = make(map[string][]string, len(f.Subfolders))
			for _, s := range f.Subfolders {
				view.Subfolders[s.Parent] = s.Names
			}
		}

		var value yaml.Node
		if err := value.Encode(view); err != nil {
			return nil, fmt.Errorf("encoding filesystem.%s: %w", f.Key, err)
		}
		fsNode.Content = append(fsNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, &value)
	}

	doc := struct {
		Filesystem *yaml.Node `yaml:"filesystem,omitempty"`
		Config     `yaml:",inline"`
	}{Config: *c}
	if len(fsNode.Content) > 0 {
		doc.Filesystem = fsNode
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}
