package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Folder is one entry of the filesystem section: a directory that must exist
// with a set of required children.
type Folder struct {
	// Key is the entry name in the spec ("workspace", "personal_docs").
	Key string `yaml:"-"`

	Path            string      `yaml:"path"`
	RequiredFolders []string    `yaml:"required_folders,omitempty"`
	Subfolders      []Subfolder `yaml:"-"`
}

// Subfolder lists the folders required inside one required parent.
type Subfolder struct {
	Parent string
	Names  []string
}

// Label is the display name derived from Key: "personal_docs" becomes
// "Personal Docs".
func (f Folder) Label() string {
	return titleCase(strings.ReplaceAll(f.Key, "_", " "))
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}

// readFolders decodes the filesystem section straight from YAML. The generic
// config decoder folds map keys to lower case and loses their order; folder
// names and check order both matter here.
func readFolders(file string) ([]Folder, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	var doc struct {
		Filesystem yaml.Node `yaml:"filesystem"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding filesystem section: %w", err)
	}
	return decodeFolders(&doc.Filesystem)
}

func decodeFolders(node *yaml.Node) ([]Folder, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: filesystem must be a mapping (line %d)", ErrInvalidSpec, node.Line)
	}

	folders := make([]Folder, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]

		var raw struct {
			Path            string    `yaml:"path"`
			RequiredFolders []string  `yaml:"required_folders"`
			Subfolders      yaml.Node `yaml:"subfolders"`
		}
		if err := value.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: filesystem.%s: %w", ErrInvalidSpec, key.Value, err)
		}

		subs, err := decodeSubfolders(key.Value, &raw.Subfolders)
		if err != nil {
			return nil, err
		}

		folders = append(folders, Folder{
			Key:             key.Value,
			Path:            raw.Path,
			RequiredFolders: raw.RequiredFolders,
			Subfolders:      subs,
		})
	}
	return folders, nil
}

func decodeSubfolders(owner string, node *yaml.Node) ([]Subfolder, error) {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: filesystem.%s.subfolders must be a mapping (line %d)", ErrInvalidSpec, owner, node.Line)
	}

	subs := make([]Subfolder, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var names []string
		if err := node.Content[i+1].Decode(&names); err != nil {
			return nil, fmt.Errorf("%w: filesystem.%s.subfolders.%s: %w", ErrInvalidSpec, owner, node.Content[i].Value, err)
		}
		subs = append(subs, Subfolder{Parent: node.Content[i].Value, Names: names})
	}
	return subs, nil
}
