// Package tags propagates suite tags down to tests and answers queries
// over an extracted structure.
package tags

import (
	"slices"

	"github.com/agentic-research/testnames/api"
	"github.com/samber/lo"
)

// SetEffectiveTags sets EffectiveTags on every node of s to the sorted,
// deduplicated union of its own tags and those of all enclosing suites.
// It mutates s in place and returns it. Running it again gives the same
// result.
func SetEffectiveTags(s api.Structure) api.Structure {
	for _, n := range s {
		propagate(n, nil)
	}
	return s
}

func propagate(n *api.Node, inherited []string) {
	n.EffectiveTags = union(n.Tags, inherited)
	for _, child := range n.Children {
		propagate(child, n.EffectiveTags)
	}
}

func union(own, inherited []string) []string {
	merged := make([]string, 0, len(own)+len(inherited))
	merged = append(merged, own...)
	merged = append(merged, inherited...)
	merged = lo.Uniq(merged)
	slices.Sort(merged)
	return merged
}

// Propagated reports whether every node of s has effective tags.
func Propagated(s api.Structure) bool {
	for _, n := range s {
		if n.EffectiveTags == nil || !Propagated(n.Children) {
			return false
		}
	}
	return true
}

// ensure propagates tags unless that already happened.
func ensure(s api.Structure) {
	if !Propagated(s) {
		SetEffectiveTags(s)
	}
}
