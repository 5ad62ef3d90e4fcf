// Package types provides the core data types shared by the lifeos scanners,
// reporters and the trash relocator.
package types

import (
	"fmt"
	"path/filepath"
	"time"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// Day is the length of a day used for age thresholds.
const Day = 24 * time.Hour

// Classification is the disposition label assigned to a candidate.
type Classification string

const (
	// Trash marks a candidate that is safe to discard.
	Trash Classification = "trash"
	// MightNeed marks a candidate that is flagged but not presumed disposable.
	MightNeed Classification = "might-need"
)

// String returns the label used in reports.
func (c Classification) String() string {
	return string(c)
}

// Kind tells whether a candidate is a file or a directory.
type Kind int

const (
	// KindFile is a regular file (or anything that is not a directory).
	KindFile Kind = iota
	// KindDir is a directory.
	KindDir
)

// String returns "file" or "folder".
func (k Kind) String() string {
	if k == KindDir {
		return "folder"
	}
	return "file"
}

// Candidate is a filesystem entry selected by a scan as eligible for cleanup
// or reporting. Size is captured once at scan time and never re-read.
type Candidate struct {
	// Path is the absolute path of the entry. It identifies the candidate within a scan.
	Path string `json:"path" yaml:"path"`

	// Size is the byte size of the entry; for directories the recursive total.
	Size int64 `json:"size" yaml:"size"`

	// Classification is the disposition label.
	Classification Classification `json:"classification" yaml:"classification"`

	// Kind tells whether the entry was a file or a directory when scanned.
	Kind Kind `json:"-" yaml:"-"`

	// ModTime is the modification time observed at scan time (zero if unknown).
	ModTime time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
}

// Name returns the base name of the candidate path.
func (c Candidate) Name() string {
	return filepath.Base(c.Path)
}

// IsTrash reports whether the candidate is classified as Trash.
func (c Candidate) IsTrash() bool {
	return c.Classification == Trash
}

// String implements fmt.Stringer for debugging.
func (c Candidate) String() string {
	return fmt.Sprintf("%s %s (%d bytes) [%s]", c.Kind, c.Path, c.Size, c.Classification)
}
