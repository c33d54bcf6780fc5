package tags

import (
	"strings"

	"github.com/agentic-research/testnames/api"
)

// VisitEachTest calls fn for every test in s, in source order, with the
// nearest enclosing suite (nil at the top level). Suites are not passed to fn.
func VisitEachTest(s api.Structure, fn func(test, suite *api.Node)) {
	walkTests(s, nil, func(test *api.Node, suites []*api.Node) {
		var parent *api.Node
		if len(suites) > 0 {
			parent = suites[len(suites)-1]
		}
		fn(test, parent)
	})
}

// walkTests visits tests depth first, passing the chain of enclosing
// suites, outermost first. The chain is reused between calls.
func walkTests(nodes []*api.Node, suites []*api.Node, fn func(test *api.Node, suites []*api.Node)) {
	for _, n := range nodes {
		if n.IsTest() {
			fn(n, suites)
			continue
		}
		walkTests(n.Children, append(suites, n), fn)
	}
}

// CountTags returns, per tag, the number of tests whose effective tags
// contain it. Effective tags are computed first if s lacks them, which
// mutates s.
func CountTags(s api.Structure) map[string]int {
	ensure(s)
	counts := make(map[string]int)
	VisitEachTest(s, func(test, _ *api.Node) {
		for _, tag := range test.EffectiveTags {
			counts[tag]++
		}
	})
	return counts
}

// FilterByEffectiveTags returns the tests, in source order, whose
// effective tags include at least one of the given tags. Effective tags
// are computed first if s lacks them, which mutates s.
func FilterByEffectiveTags(s api.Structure, tags []string) []*api.Node {
	ensure(s)
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}

	var matched []*api.Node
	VisitEachTest(s, func(test, _ *api.Node) {
		for _, tag := range test.EffectiveTags {
			if want[tag] {
				matched = append(matched, test)
				return
			}
		}
	})
	return matched
}

// QualifiedName joins the resolved names of the suites and the test with
// spaces. Unresolved and empty names are left out.
func QualifiedName(suites []*api.Node, test *api.Node) string {
	parts := make([]string, 0, len(suites)+1)
	for _, n := range append(suites[:len(suites):len(suites)], test) {
		if name, ok := n.Title(); ok && name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, " ")
}

// VisitQualified calls fn for every test in source order with its
// qualified name.
func VisitQualified(s api.Structure, fn func(test *api.Node, qualified string)) {
	walkTests(s, nil, func(test *api.Node, suites []*api.Node) {
		fn(test, QualifiedName(suites, test))
	})
}

// QualifiedNames maps each test's qualified name to its effective tags.
// Tests sharing a qualified name keep the tags of the last one.
func QualifiedNames(s api.Structure) map[string][]string {
	ensure(s)
	names := make(map[string][]string)
	VisitQualified(s, func(test *api.Node, qualified string) {
		names[qualified] = test.EffectiveTags
	})
	return names
}
