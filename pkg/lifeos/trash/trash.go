// Package trash relocates cleanup candidates into a trash directory.
// Nothing in this package deletes files: every item is renamed into the
// trash directory or left where it is.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"

	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
	"github.com/jamesainslie/lifeos/pkg/lifeos/sizer"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// Errors used to classify skipped items in the log.
var (
	ErrSourceMissing = errors.New("source no longer exists")
	ErrCrossDevice   = errors.New("source and trash are on different devices")
)

// Options controls a relocation batch.
type Options struct {
	// DryRun reports what would happen without touching the filesystem.
	DryRun bool

	// TrashOnly leaves candidates that are not classified Trash in place.
	TrashOnly bool
}

// Relocator moves candidates into a single trash directory.
type Relocator struct {
	dir    string
	now    func() time.Time
	rename func(oldpath, newpath string) error
	logger *logging.Logger
}

// New returns a Relocator targeting dir.
func New(dir string) *Relocator {
	return &Relocator{
		dir:    dir,
		now:    time.Now,
		rename: os.Rename,
		logger: logging.Get("trash"),
	}
}

// Dir returns the trash directory.
func (r *Relocator) Dir() string { return r.dir }

// Relocate moves candidates into the trash directory in input order and
// returns the ones actually moved. A dry run returns nothing and changes
// nothing. Sources that have disappeared, and moves that fail, are skipped
// without stopping the batch. On a name clash the item is stored as
// "name.<unix-seconds>.<n>" with the first free n starting at 1.
//
// The only error returned is failure to create the trash directory.
func (r *Relocator) Relocate(candidates []types.Candidate, opts Options) ([]types.Candidate, error) {
	if opts.DryRun {
		r.logger.Debug("dry run, nothing relocated", "candidates", len(candidates))
		return nil, nil
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating trash directory %s: %w", r.dir, err)
	}

	stamp := r.now().Unix()
	var moved []types.Candidate
	for _, c := range candidates {
		if opts.TrashOnly && !c.IsTrash() {
			continue
		}

		target, err := r.move(c.Path, stamp)
		if err != nil {
			r.logger.Warn("skipping item", "path", c.Path, "err", err)
			continue
		}

		r.logger.Info("moved to trash", "path", c.Path, "target", target, "size", c.Size)
		moved = append(moved, c)
	}
	return moved, nil
}

func (r *Relocator) move(src string, stamp int64) (string, error) {
	if st := sizer.Lookup(src); st.Status == sizer.StatNotFound {
		return "", ErrSourceMissing
	}

	target := r.freeName(filepath.Base(src), stamp)
	if err := r.rename(src, target); err != nil {
		return "", classifyMoveError(err)
	}
	return target, nil
}

// freeName returns trashDir/name, or the first trashDir/name.stamp.N that
// nothing occupies. Dangling symlinks count as occupied.
func (r *Relocator) freeName(name string, stamp int64) string {
	target := filepath.Join(r.dir, name)
	for n := 1; taken(target); n++ {
		target = filepath.Join(r.dir, fmt.Sprintf("%s.%d.%d", name, stamp, n))
	}
	return target
}

func taken(path string) bool {
	return sizer.LookupNoFollow(path).Status != sizer.StatNotFound
}

func classifyMoveError(err error) error {
	switch {
	case errors.Is(err, unix.EXDEV):
		return fmt.Errorf("%w: %w", ErrCrossDevice, err)
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrSourceMissing, err)
	default:
		return err
	}
}

// Relocate is shorthand for New(dir).Relocate(candidates, opts).
func Relocate(candidates []types.Candidate, dir string, opts Options) ([]types.Candidate, error) {
	return New(dir).Relocate(candidates, opts)
}
