// Package report reduces classified candidates into summaries for display
// and gating.
package report

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// DefaultTopN is the number of top items Summarize keeps when asked for fewer than one.
const DefaultTopN = 3

// Summary is derived from a candidate list and never stored.
type Summary struct {
	Count          int               `json:"count" yaml:"count"`
	TotalSize      int64             `json:"total_size" yaml:"total_size"`
	TrashCount     int               `json:"trash_count" yaml:"trash_count"`
	MightNeedCount int               `json:"might_need_count" yaml:"might_need_count"`
	Top            []types.Candidate `json:"top" yaml:"top"`
}

// Empty reports whether the summary covers no candidates.
func (s Summary) Empty() bool { return s.Count == 0 }

// Summarize totals candidates and keeps the topN largest. topN is clamped to
// at least 1. Ties in size keep their input order.
func Summarize(candidates []types.Candidate, topN int) Summary {
	s := Summary{Count: len(candidates)}
	for _, c := range candidates {
		s.TotalSize += c.Size
		switch c.Classification {
		case types.Trash:
			s.TrashCount++
		case types.MightNeed:
			s.MightNeedCount++
		}
	}
	s.Top = Top(candidates, topN)
	return s
}

// Top returns up to n candidates sorted by size descending, stable on ties.
// n is clamped to at least 1. The input slice is not modified.
func Top(candidates []types.Candidate, n int) []types.Candidate {
	n = max(n, 1)
	sorted := slices.Clone(candidates)
	slices.SortStableFunc(sorted, func(a, b types.Candidate) int {
		return cmp.Compare(b.Size, a.Size)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

var units = []string{"KB", "MB", "GB", "TB", "PB"}

// Humanize formats a byte count in base-1024 units. Values under 1024 print
// as a bare integer with unit B ("1023 B"); larger values carry one decimal
// in the first unit that brings them under 1024 ("1.5 KB"), falling back to
// EB past petabytes.
func Humanize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	size := float64(n)
	for _, unit := range units {
		size /= 1024
		if size < 1024 {
			return fmt.Sprintf("%.1f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.1f EB", size)
}

// TopLabels renders candidates as "name (size)".
func TopLabels(candidates []types.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, fmt.Sprintf("%s (%s)", c.Name(), Humanize(c.Size)))
	}
	return out
}
