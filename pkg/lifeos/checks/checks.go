// Package checks defines the named checks run by doctor and init.
package checks

import (
	"strings"

	"github.com/jamesainslie/lifeos/pkg/lifeos/folders"
)

// ReportOnlyNote is attached to every report-only check that finds something.
const ReportOnlyNote = "Report-only: no files are deleted."

// Result is the outcome of one check.
type Result struct {
	OK     bool        `json:"ok" yaml:"ok"`
	Issues []string    `json:"issues,omitempty" yaml:"issues,omitempty"`
	Notes  []string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Fix    folders.Fix `json:"-" yaml:"-"`
}

// Fixable reports whether the result carries a fix.
func (r Result) Fixable() bool {
	return r.Fix.Available()
}

// Pass returns a passing result.
func Pass() Result {
	return Result{OK: true}
}

// Check is a named, runnable check.
type Check struct {
	Name string
	Run  func() Result
}

// Outcome pairs a check name with its result.
type Outcome struct {
	Name   string `json:"name" yaml:"name"`
	Result `yaml:",inline"`
}

// Filter keeps checks whose name equals target, ignoring case. An empty
// target keeps everything.
func Filter(list []Check, target string) []Check {
	if target == "" {
		return list
	}
	var out []Check
	for _, c := range list {
		if strings.EqualFold(c.Name, target) {
			out = append(out, c)
		}
	}
	return out
}

// RunAll runs checks in order and reports whether every one passed.
func RunAll(list []Check) ([]Outcome, bool) {
	outcomes := make([]Outcome, 0, len(list))
	allOK := true
	for _, c := range list {
		res := c.Run()
		if !res.OK {
			allOK = false
		}
		outcomes = append(outcomes, Outcome{Name: c.Name, Result: res})
	}
	return outcomes, allOK
}

// FolderChecks builds one check per folder spec, named by its label.
func FolderChecks(specs []folders.Spec) []Check {
	list := make([]Check, 0, len(specs))
	for _, spec := range specs {
		list = append(list, Check{
			Name: spec.Label,
			Run: func() Result {
				res := folders.Check(spec)
				return Result{OK: res.OK, Issues: res.Issues, Fix: res.Fix}
			},
		})
	}
	return list
}
