package logging

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSize is the size in bytes that triggers a rotation. Zero uses 5MB.
	MaxSize int64

	// MaxBackups is how many rotated files to keep. Zero keeps all of them.
	MaxBackups int

	// MaxAge is how many days a rotated file is kept. Zero disables age cleanup.
	MaxAge int
}

// DefaultRotationConfig returns the rotation settings used by the CLI.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    5 * 1024 * 1024,
		MaxBackups: 3,
		MaxAge:     14,
	}
}

const rotatedStampLayout = "20060102T150405"

// RotatingWriter is an io.WriteCloser that appends to a log file and rolls it
// over once it grows past MaxSize. Writes hold an advisory flock so concurrent
// lifeos invocations do not interleave partial lines.
type RotatingWriter struct {
	mu   sync.Mutex
	path string
	cfg  RotationConfig
	file *os.File
	size int64
	now  func() time.Time
}

// NewRotatingWriter opens (or creates) the log file at path, creating parent
// directories as needed, and prunes stale rotated files.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg, now: time.Now}
	if err := w.open(); err != nil {
		return nil, err
	}
	w.prune()

	return w, nil
}

// Write appends p to the log file, rotating first if p would overflow it.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	if w.size > 0 && w.size+int64(len(p)) > w.cfg.MaxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	fd := int(w.file.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return 0, fmt.Errorf("locking log file: %w", err)
	}
	defer func() { _ = unix.Flock(fd, unix.LOCK_UN) }()

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing log file: %w", err)
	}
	return n, nil
}

// Close syncs and closes the log file. Closing twice is a no-op.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil

	if syncErr != nil {
		return fmt.Errorf("syncing log file: %w", syncErr)
	}
	return closeErr
}

func (w *RotatingWriter) open() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	return nil
}

// rotatedName returns lifeos.20260102T150405.log for lifeos.log.
func (w *RotatingWriter) rotatedName() string {
	ext := filepath.Ext(w.path)
	return fmt.Sprintf("%s.%s%s", strings.TrimSuffix(w.path, ext), w.now().Format(rotatedStampLayout), ext)
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	target := w.rotatedName()
	if _, err := os.Stat(target); err == nil {
		target = fmt.Sprintf("%s.%d", target, w.now().UnixNano())
	}
	if err := os.Rename(w.path, target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("renaming log file: %w", err)
	}

	if err := w.open(); err != nil {
		return err
	}
	w.prune()
	return nil
}

// prune removes rotated files beyond MaxBackups or older than MaxAge.
// Failures are ignored; pruning is best effort.
func (w *RotatingWriter) prune() {
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	var backups []backup
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == base || !strings.HasPrefix(name, prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	slices.SortFunc(backups, func(a, b backup) int {
		return cmp.Compare(b.modTime.UnixNano(), a.modTime.UnixNano())
	})

	cutoff := w.now().Add(-time.Duration(w.cfg.MaxAge) * 24 * time.Hour)
	for i, b := range backups {
		tooMany := w.cfg.MaxBackups > 0 && i >= w.cfg.MaxBackups
		tooOld := w.cfg.MaxAge > 0 && b.modTime.Before(cutoff)
		if tooMany || tooOld {
			_ = os.Remove(b.path)
		}
	}
}
