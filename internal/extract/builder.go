package extract

import (
	"context"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/ingest"
	sitter "github.com/smacker/go-tree-sitter"
)

// Builder turns a parsed spec file into an extraction result.
type Builder struct {
	rec *Recognizer
}

func NewBuilder(d api.Dialect) *Builder {
	return &Builder{rec: NewRecognizer(d)}
}

// Extract parses source and builds its extraction result. Parse failures
// are returned unchanged.
func Extract(ctx context.Context, source []byte, lang ingest.Language, d api.Dialect, withStructure bool) (*api.ExtractionResult, error) {
	tree, err := ingest.Parse(ctx, source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return FromTree(tree, d, withStructure), nil
}

// FromTree builds the extraction result of an already parsed source. The
// caller keeps ownership of tree.
func FromTree(tree *ingest.Tree, d api.Dialect, withStructure bool) *api.ExtractionResult {
	return NewBuilder(d).Build(tree.Root, tree.Source, withStructure)
}

// Build walks the tree once, depth first. The nested structure, and with it
// TestCount, is only built when withStructure is true; otherwise suites in
// the flat list carry no children.
func (b *Builder) Build(root *sitter.Node, source []byte, withStructure bool) *api.ExtractionResult {
	w := &walker{
		rec:       b.rec,
		source:    source,
		structure: withStructure,
		result: &api.ExtractionResult{
			SuiteNames: []string{},
			TestNames:  []string{},
			Tests:      []*api.Node{},
		},
	}
	w.visit(root)

	if withStructure {
		count := w.testCount
		w.result.TestCount = &count
		w.result.Structure = w.roots
		if w.result.Structure == nil {
			w.result.Structure = api.Structure{}
		}
	}
	return w.result
}

type walker struct {
	rec       *Recognizer
	source    []byte
	structure bool

	// stack holds the suites enclosing the current position, innermost last.
	stack     []*api.Node
	roots     api.Structure
	testCount int
	result    *api.ExtractionResult
}

func (w *walker) visit(n *sitter.Node) {
	if n == nil {
		return
	}

	if n.Type() == nodeCall {
		call := w.rec.Recognize(n, w.source)
		switch call.Kind {
		case SuiteCall:
			res := Resolve(call.Args, w.source)
			suite := api.NewSuite(res.Name, res.Tags, call.Pending)
			w.attach(suite)

			w.stack = append(w.stack, suite)
			w.visitChildren(n)
			w.stack = w.stack[:len(w.stack)-1]

			w.record(suite)
			return
		case TestCall:
			// Test bodies are not searched for more structure.
			res := Resolve(call.Args, w.source)
			test := api.NewTest(res.Name, res.Tags, call.Pending)
			w.attach(test)
			w.testCount++
			w.record(test)
			return
		}
	}

	w.visitChildren(n)
}

func (w *walker) visitChildren(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.visit(n.NamedChild(i))
	}
}

func (w *walker) attach(n *api.Node) {
	if !w.structure {
		return
	}
	if len(w.stack) == 0 {
		w.roots = append(w.roots, n)
		return
	}
	w.stack[len(w.stack)-1].AddChild(n)
}

// record appends n to the post-order list once n and its subtree are done.
func (w *walker) record(n *api.Node) {
	w.result.Tests = append(w.result.Tests, n)
	name, ok := n.Title()
	if !ok {
		return
	}
	if n.IsSuite() {
		w.result.SuiteNames = append(w.result.SuiteNames, name)
	} else {
		w.result.TestNames = append(w.result.TestNames, name)
	}
}
