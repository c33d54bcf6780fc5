// Package linter reports spec-file constructs that static extraction
// cannot see through, plus focused tests left behind by .only.
package linter

import (
	"context"
	"fmt"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/extract"
	"github.com/agentic-research/testnames/internal/ingest"
	"github.com/agentic-research/testnames/internal/tags"
	sitter "github.com/smacker/go-tree-sitter"
)

// Rule names.
const (
	RuleFocused     = "focused"
	RuleUnnamed     = "unnamed"
	RuleDynamicName = "dynamic-name"
	RuleDynamicTag  = "dynamic-tag"
	RuleDuplicate   = "duplicate-name"
)

type Diagnostic struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Line    uint32 `json:"line"`   // 0-indexed
	Column  uint32 `json:"column"` // 0-indexed
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s [%s]", d.Line+1, d.Message, d.Rule)
}

const callQuery = `(call_expression) @call`

// Linter checks the suite and test calls of a dialect.
type Linter struct {
	rec *extract.Recognizer
}

func New(d api.Dialect) *Linter {
	return &Linter{rec: extract.NewRecognizer(d)}
}

// Lint parses source and returns its diagnostics in source order. Calls
// inside test bodies are not checked, the same way extraction skips them.
func (l *Linter) Lint(ctx context.Context, source []byte, lang ingest.Language) ([]Diagnostic, error) {
	tree, err := ingest.Parse(ctx, source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return l.LintTree(tree)
}

// LintTree is Lint for an already parsed source. The caller keeps
// ownership of tree.
func (l *Linter) LintTree(tree *ingest.Tree) ([]Diagnostic, error) {
	q, err := sitter.NewQuery([]byte(callQuery), tree.Lang.Grammar())
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}
	defer q.Close()
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.Root)

	var diags []Diagnostic
	// firstSeen maps a qualified test name to the line it was first defined on.
	firstSeen := make(map[string]uint32)
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		for _, c := range m.Captures {
			call := l.rec.Recognize(c.Node, tree.Source)
			if call.Kind == extract.NotRecognized {
				continue
			}
			suites, ok := l.enclosingSuites(c.Node, tree.Source)
			if !ok {
				continue
			}
			diags = append(diags, l.check(c.Node, call, suites, tree.Source, firstSeen)...)
		}
	}
	return diags, nil
}

func (l *Linter) check(n *sitter.Node, call extract.Call, suites []*api.Node, source []byte, firstSeen map[string]uint32) []Diagnostic {
	var diags []Diagnostic
	at := func(node *sitter.Node, rule, format string, args ...any) {
		diags = append(diags, Diagnostic{
			Rule:    rule,
			Message: fmt.Sprintf(format, args...),
			Line:    node.StartPoint().Row,
			Column:  node.StartPoint().Column,
		})
	}

	kind := call.Kind.String()
	res := extract.Resolve(call.Args, source)

	if call.Focused {
		at(n, RuleFocused, "%s is focused with .only", kind)
	}

	switch res.Shape {
	case extract.Unrecognized, extract.TagsOnly:
		at(n, RuleUnnamed, "%s has no name", kind)
	case extract.NameOnly, extract.TagsThenName:
		if res.Name == nil {
			arg := call.Args[0]
			if res.Shape == extract.TagsThenName {
				arg = call.Args[1]
			}
			at(arg, RuleDynamicName, "%s name %s is not a static string", kind, arg.Content(source))
		}
	}

	if res.Shape == extract.TagsOnly || res.Shape == extract.TagsThenName {
		array := call.Args[0]
		for i := 0; i < int(array.NamedChildCount()); i++ {
			entry := array.NamedChild(i)
			if entry == nil || entry.Type() == "comment" {
				continue
			}
			if _, ok := extract.StaticString(entry, source); !ok {
				at(entry, RuleDynamicTag, "tag %s is not a static string", entry.Content(source))
			}
		}
	}

	if call.Kind == extract.TestCall && res.Name != nil {
		qualified := tags.QualifiedName(suites, api.NewTest(res.Name, nil, false))
		if line, seen := firstSeen[qualified]; seen {
			at(n, RuleDuplicate, "test %q is already defined on line %d", qualified, line+1)
		} else {
			firstSeen[qualified] = n.StartPoint().Row
		}
	}
	return diags
}

// enclosingSuites returns the suites around n, outermost first. It reports
// false when n sits inside a test body.
func (l *Linter) enclosingSuites(n *sitter.Node, source []byte) ([]*api.Node, bool) {
	var suites []*api.Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		call := l.rec.Recognize(p, source)
		switch call.Kind {
		case extract.TestCall:
			return nil, false
		case extract.SuiteCall:
			res := extract.Resolve(call.Args, source)
			suites = append([]*api.Node{api.NewSuite(res.Name, nil, false)}, suites...)
		}
	}
	return suites, true
}
