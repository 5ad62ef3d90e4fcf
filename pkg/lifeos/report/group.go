package report

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jamesainslie/lifeos/pkg/lifeos/types"
)

// OtherGroup collects candidates whose extension is not mapped to a group.
const OtherGroup = "other"

// Group is a per-category total.
type Group struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Size  int64  `json:"size" yaml:"size"`
}

// Grouper maps file extensions to group names.
type Grouper struct {
	byExt map[string]string
}

// NewGrouper builds a Grouper from group name to extension list. Extensions
// carry their leading dot and are matched case-insensitively. When an
// extension is listed under several groups the group sorting last wins.
func NewGrouper(groups map[string][]string) Grouper {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	slices.Sort(names)

	g := Grouper{byExt: make(map[string]string)}
	for _, name := range names {
		for _, ext := range groups[name] {
			g.byExt[strings.ToLower(ext)] = name
		}
	}
	return g
}

// GroupOf returns the group for a candidate. Directories and unmapped
// extensions fall into OtherGroup.
func (g Grouper) GroupOf(c types.Candidate, ext string) string {
	if c.Kind == types.KindDir {
		return OtherGroup
	}
	if name, ok := g.byExt[strings.ToLower(ext)]; ok {
		return name
	}
	return OtherGroup
}

// GroupByExtension totals candidates per group, sorted by group name. ext
// extracts the extension of a candidate path.
func GroupByExtension(candidates []types.Candidate, g Grouper, ext func(string) string) []Group {
	totals := make(map[string]*Group)
	for _, c := range candidates {
		name := g.GroupOf(c, ext(c.Path))
		grp, ok := totals[name]
		if !ok {
			grp = &Group{Name: name}
			totals[name] = grp
		}
		grp.Count++
		grp.Size += c.Size
	}

	out := make([]Group, 0, len(totals))
	for _, grp := range totals {
		out = append(out, *grp)
	}
	slices.SortFunc(out, func(a, b Group) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
