// Package output renders lifeos command results for the terminal or for
// other programs.
//
// Line-oriented commands (init, cleanup) write through a Reporter. Doctor
// builds a complete Report and hands it to a Formatter chosen by name:
//
//	formatter, err := output.Get("json")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, rep); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
	"github.com/jamesainslie/lifeos/pkg/lifeos/logging"
)

var logger = logging.Get("output")

// Report is the result of a doctor run.
type Report struct {
	// Command is the command name shown in the banner.
	Command string `json:"command" yaml:"command"`

	// Notices are printed under the banner by the text formatters.
	Notices []string `json:"notices,omitempty" yaml:"notices,omitempty"`

	// Checks holds every check that ran, in order.
	Checks []checks.Outcome `json:"checks" yaml:"checks"`

	// OK is true when every check passed.
	OK bool `json:"ok" yaml:"ok"`
}

// Failed counts the checks that did not pass.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

// Formatter renders a Report.
type Formatter interface {
	Format(w *bytes.Buffer, r *Report) error
}

// FormatterFactory creates a Formatter.
type FormatterFactory func() Formatter

// Registry maps formatter names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a factory, replacing any previous one with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	logger.Debug("formatter selected", "name", name)
	return factory(), nil
}

// Available returns the registered names, sorted.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the built-in formatters.
var DefaultRegistry = NewRegistry()

// Register adds a factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available lists the default registry's formatters.
func Available() []string {
	return DefaultRegistry.Available()
}
