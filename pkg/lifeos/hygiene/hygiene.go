// Package hygiene implements the report-only checks run by doctor. Each check
// reuses the cleanup scanner so doctor and cleanup agree on what they see.
package hygiene

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jamesainslie/lifeos/pkg/lifeos/allowlist"
	"github.com/jamesainslie/lifeos/pkg/lifeos/checks"
	"github.com/jamesainslie/lifeos/pkg/lifeos/report"
	"github.com/jamesainslie/lifeos/pkg/lifeos/scanner"
	"github.com/jamesainslie/lifeos/pkg/lifeos/sizer"
	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// Check names as shown by doctor and accepted as a doctor target.
const (
	DesktopCheckName    = "Desktop Cleanliness"
	DownloadsCheckName  = "Downloads Aging"
	CachesCheckName     = "Caches Reporting"
	LargeFilesCheckName = "Large Files"
)

// DesktopOptions configures the desktop cleanliness check.
type DesktopOptions struct {
	Path      string
	Allowlist allowlist.Rule
}

// DownloadsOptions configures the downloads aging check.
type DownloadsOptions struct {
	Path      string
	Allowlist allowlist.Rule
	AgeDays   int
	TopN      int
	// Groups maps a group name to its extensions.
	Groups map[string][]string
}

// CachesOptions configures the caches report.
type CachesOptions struct {
	Paths      []string
	WarnOverMB int
}

// LargeFilesOptions configures the large files report.
type LargeFilesOptions struct {
	Rule scanner.LargeFilesRule
	TopN int
}

// Options bundles the four checks' settings.
type Options struct {
	Desktop    DesktopOptions
	Downloads  DownloadsOptions
	Caches     CachesOptions
	LargeFiles LargeFilesOptions
}

// Checker runs hygiene checks.
type Checker struct {
	scanner *scanner.Scanner
	now     func() time.Time
	verbose bool
}

// NewChecker returns a Checker. now is the reference time for ages and must
// be the same clock the scanner uses; nil means time.Now. verbose adds
// per-item detail to issues.
func NewChecker(now func() time.Time, verbose bool) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{
		scanner: scanner.New(scanner.Options{Now: now}),
		now:     now,
		verbose: verbose,
	}
}

func missingSurface(label, path string) checks.Result {
	return checks.Result{
		Issues: []string{fmt.Sprintf("%s path missing: %s", label, path)},
		Notes:  []string{checks.ReportOnlyNote},
	}
}

func surfaceExists(path string) bool {
	st := sizer.Lookup(path)
	return st.OK() && st.Info.IsDir()
}

// Desktop reports non-allowlisted items on the desktop.
func (c *Checker) Desktop(opts DesktopOptions) checks.Result {
	if !surfaceExists(opts.Path) {
		return missingSurface("Desktop", opts.Path)
	}

	items := c.scanner.Desktop(scanner.DesktopRule{Path: opts.Path, Allowlist: opts.Allowlist})
	if len(items) == 0 {
		return checks.Pass()
	}

	issues := []string{fmt.Sprintf("Desktop has %d non-ignored item(s).", len(items))}
	if c.verbose {
		names := make([]string, 0, len(items))
		for _, it := range items {
			names = append(names, it.Name())
		}
		slices.Sort(names)
		issues = append(issues, names...)
	}

	return checks.Result{Issues: issues, Notes: []string{checks.ReportOnlyNote}}
}

// Downloads reports items older than AgeDays, totalled per extension group,
// followed by the largest offenders.
func (c *Checker) Downloads(opts DownloadsOptions) checks.Result {
	if !surfaceExists(opts.Path) {
		return missingSurface("Downloads", opts.Path)
	}

	old := c.scanner.Downloads(scanner.DownloadsRule{
		Path:       opts.Path,
		Allowlist:  opts.Allowlist,
		MaxAgeDays: opts.AgeDays,
	})
	if len(old) == 0 {
		return checks.Pass()
	}

	summary := report.Summarize(old, opts.TopN)
	issues := []string{fmt.Sprintf("Items older than %d days: %d item(s), %s total.",
		opts.AgeDays, summary.Count, report.Humanize(summary.TotalSize))}

	groups := report.GroupByExtension(old, report.NewGrouper(opts.Groups), scanner.Suffix)
	for _, g := range groups {
		issues = append(issues, fmt.Sprintf("%s: %d item(s), %s.", g.Name, g.Count, report.Humanize(g.Size)))
	}

	now := c.now()
	if c.verbose {
		for _, it := range summary.Top {
			issues = append(issues, fmt.Sprintf("%s: %s, %dd old.", it.Name(), report.Humanize(it.Size), ageDays(now, it)))
		}
	} else {
		issues = append(issues, fmt.Sprintf("Top offenders: %s.", strings.Join(report.TopLabels(summary.Top), ", ")))
	}

	return checks.Result{Issues: issues, Notes: []string{checks.ReportOnlyNote}}
}

func ageDays(now time.Time, c types.Candidate) int {
	return int(now.Sub(c.ModTime) / types.Day)
}

// Caches lists every existing cache location with its size, largest first.
// The check fails when any location reaches WarnOverMB.
func (c *Checker) Caches(opts CachesOptions) checks.Result {
	entries := c.scanner.Caches(scanner.CachesRule{Paths: opts.Paths})
	if len(entries) == 0 {
		return checks.Pass()
	}
	entries = report.Top(entries, len(entries))

	threshold := int64(opts.WarnOverMB) * types.MiB
	over := false
	issues := make([]string, 0, len(entries))
	for _, e := range entries {
		issues = append(issues, fmt.Sprintf("%s: %s", e.Path, report.Humanize(e.Size)))
		if e.Size >= threshold {
			over = true
		}
	}

	return checks.Result{OK: !over, Issues: issues, Notes: []string{checks.ReportOnlyNote}}
}

// LargeFiles lists the TopN largest directories and files over the threshold.
func (c *Checker) LargeFiles(opts LargeFilesOptions) checks.Result {
	found := c.scanner.LargeFiles(opts.Rule)
	if len(found) == 0 {
		return checks.Pass()
	}

	top := report.Top(found, opts.TopN)
	issues := []string{fmt.Sprintf("Top %d item(s) over %s:", len(top), report.Humanize(opts.Rule.Threshold()))}
	for _, it := range top {
		issues = append(issues, fmt.Sprintf("%s: %s (%s)", it.Kind, it.Path, report.Humanize(it.Size)))
	}

	return checks.Result{Issues: issues, Notes: []string{checks.ReportOnlyNote}}
}

// Checks returns the four hygiene checks bound to opts, in doctor order.
func (c *Checker) Checks(opts Options) []checks.Check {
	return []checks.Check{
		{Name: DesktopCheckName, Run: func() checks.Result { return c.Desktop(opts.Desktop) }},
		{Name: DownloadsCheckName, Run: func() checks.Result { return c.Downloads(opts.Downloads) }},
		{Name: CachesCheckName, Run: func() checks.Result { return c.Caches(opts.Caches) }},
		{Name: LargeFilesCheckName, Run: func() checks.Result { return c.LargeFiles(opts.LargeFiles) }},
	}
}
