// Package extract recognizes describe/it calls in a parsed spec file and
// builds the suite/test structure they define.
package extract

import (
	"github.com/agentic-research/testnames/api"
	sitter "github.com/smacker/go-tree-sitter"
)

// Tree-sitter node types shared by the JavaScript and TypeScript grammars.
const (
	nodeCall           = "call_expression"
	nodeMember         = "member_expression"
	nodeIdentifier     = "identifier"
	nodeArguments      = "arguments"
	nodeComment        = "comment"
	nodeArray          = "array"
	nodeString         = "string"
	nodeTemplateString = "template_string"
	nodeSubstitution   = "template_substitution"
	nodeBinary         = "binary_expression"
	nodeParenthesized  = "parenthesized_expression"
)

// CallKind is the classification of a call expression.
type CallKind int

const (
	NotRecognized CallKind = iota
	SuiteCall
	TestCall
)

func (k CallKind) String() string {
	switch k {
	case SuiteCall:
		return "suite"
	case TestCall:
		return "test"
	default:
		return "not-recognized"
	}
}

// Call is a recognized suite or test call.
type Call struct {
	Kind    CallKind
	Pending bool
	// Focused is set for the only modifier. Extraction ignores it.
	Focused bool
	// Args are the unevaluated argument nodes in source order, comments excluded.
	Args []*sitter.Node
}

// Recognizer classifies call expressions according to a dialect.
type Recognizer struct {
	suites map[string]bool
	tests  map[string]bool
	skip   string
	only   string
}

func NewRecognizer(d api.Dialect) *Recognizer {
	r := &Recognizer{
		suites: make(map[string]bool, len(d.Suites)),
		tests:  make(map[string]bool, len(d.Tests)),
		skip:   d.Skip,
		only:   d.Only,
	}
	for _, name := range d.Suites {
		r.suites[name] = true
	}
	for _, name := range d.Tests {
		r.tests[name] = true
	}
	return r
}

// Recognize classifies n. Anything but `name(...)`, `name.skip(...)` or
// `name.only(...)` with a dialect name is NotRecognized.
func (r *Recognizer) Recognize(n *sitter.Node, source []byte) Call {
	if n == nil || n.Type() != nodeCall {
		return Call{}
	}
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if callee == nil || args == nil || args.Type() != nodeArguments {
		return Call{}
	}

	var (
		name    string
		pending bool
		focused bool
	)
	switch callee.Type() {
	case nodeIdentifier:
		name = callee.Content(source)
	case nodeMember:
		object := callee.ChildByFieldName("object")
		property := callee.ChildByFieldName("property")
		if object == nil || property == nil || object.Type() != nodeIdentifier {
			return Call{}
		}
		switch modifier := property.Content(source); {
		case modifier != "" && modifier == r.skip:
			pending = true
		case modifier != "" && modifier == r.only:
			focused = true
		default:
			return Call{}
		}
		name = object.Content(source)
	default:
		return Call{}
	}

	var kind CallKind
	switch {
	case r.suites[name]:
		kind = SuiteCall
	case r.tests[name]:
		kind = TestCall
	default:
		return Call{}
	}

	return Call{Kind: kind, Pending: pending, Focused: focused, Args: argumentNodes(args)}
}

func argumentNodes(args *sitter.Node) []*sitter.Node {
	count := int(args.NamedChildCount())
	nodes := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := args.NamedChild(i)
		if child == nil || child.Type() == nodeComment {
			continue
		}
		nodes = append(nodes, child)
	}
	return nodes
}
