// Package logging hands out per-component loggers that write to a rotating
// file under the lifeos state directory, and optionally to the console.
//
//	if err := logging.Init(cfg); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logging.Get("scanner").Debug("skipping entry", "path", path)
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned for a level name lifeos does not know.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Config is the logging section of the lifeos config after conversion.
type Config struct {
	Level      string
	Path       string // empty means DefaultLogPath
	Rotation   RotationConfig
	Components map[string]string // per-component level overrides

	// ConsoleLevel mirrors entries at or above it to Console. Empty keeps
	// the console quiet.
	ConsoleLevel string
	Console      io.Writer
}

// Logger writes one component's entries to the log file and, when enabled,
// to the console.
type Logger struct {
	sinks []*log.Logger
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.emit(log.DebugLevel, msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.emit(log.InfoLevel, msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.emit(log.WarnLevel, msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.emit(log.ErrorLevel, msg, args) }

func (l *Logger) emit(level log.Level, msg string, args []interface{}) {
	for _, sink := range l.sinks {
		sink.Log(level, msg, args...)
	}
}

// With returns a logger that attaches the key/value pairs to every entry.
func (l *Logger) With(args ...interface{}) *Logger {
	scoped := &Logger{sinks: make([]*log.Logger, len(l.sinks))}
	for i, sink := range l.sinks {
		scoped.sinks[i] = sink.With(args...)
	}
	return scoped
}

var (
	mu         sync.Mutex
	file       *RotatingWriter
	level      = log.InfoLevel
	components = map[string]log.Level{}
	console    io.Writer
	consoleLvl log.Level
	loggers    = map[string]*Logger{}
)

// Init opens the log file and rebuilds every logger handed out so far.
// Until Init succeeds, loggers discard everything.
func Init(cfg Config) error {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	overrides := make(map[string]log.Level, len(cfg.Components))
	for comp, name := range cfg.Components {
		if overrides[comp], err = ParseLevel(name); err != nil {
			return fmt.Errorf("parsing level for component %s: %w", comp, err)
		}
	}
	var out io.Writer
	var outLvl log.Level
	if cfg.ConsoleLevel != "" {
		if outLvl, err = ParseLevel(cfg.ConsoleLevel); err != nil {
			return fmt.Errorf("parsing console level: %w", err)
		}
		out = cfg.Console
		if out == nil {
			out = os.Stderr
		}
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}

	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("closing existing writer: %w", err)
		}
		file = nil
	}
	w, err := NewRotatingWriter(path, cfg.Rotation)
	if err != nil {
		return fmt.Errorf("creating log writer: %w", err)
	}

	file, level, components = w, lvl, overrides
	console, consoleLvl = out, outLvl
	rebuild()
	return nil
}

// Get returns the logger for component, creating it on first use.
func Get(component string) *Logger {
	mu.Lock()
	defer mu.Unlock()

	if logger, ok := loggers[component]; ok {
		return logger
	}
	logger := &Logger{}
	logger.sinks = sinksFor(component)
	loggers[component] = logger
	return logger
}

// Close flushes and closes the log file. Loggers go back to discarding.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	var err error
	if file != nil {
		if cerr := file.Close(); cerr != nil {
			err = fmt.Errorf("closing log writer: %w", cerr)
		}
		file = nil
	}
	level, components, console = log.InfoLevel, map[string]log.Level{}, nil
	rebuild()
	return err
}

// DefaultLogPath returns $XDG_STATE_HOME/lifeos/lifeos.log.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "lifeos", "lifeos.log")
}

// rebuild swaps fresh sinks into existing loggers so callers that cached a
// *Logger before Init or Close follow the change. Caller holds mu.
func rebuild() {
	for component, logger := range loggers {
		logger.sinks = sinksFor(component)
	}
}

// sinksFor must be called with mu held.
func sinksFor(component string) []*log.Logger {
	if file == nil {
		return nil
	}

	lvl := level
	if override, ok := components[component]; ok {
		lvl = override
	}
	sinks := []*log.Logger{log.NewWithOptions(file, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          component,
	})}
	if console != nil {
		sinks = append(sinks, log.NewWithOptions(console, log.Options{
			Level:           consoleLvl,
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          component,
		}))
	}
	return sinks
}
