package api

// NodeType distinguishes suites from tests.
type NodeType string

const (
	SuiteNode NodeType = "suite"
	TestNode  NodeType = "test"
)

// Node is a suite or a test extracted from a describe/it style spec file.
// Optional fields are nil when the value could not be resolved statically.
type Node struct {
	Type NodeType `json:"type"`
	// Name is nil when the call's name argument is not a static string.
	Name    *string `json:"name,omitempty"`
	Pending bool    `json:"pending"`
	// Tags holds the call's own tags. Nil when the call had no tag array.
	Tags []string `json:"tags,omitempty"`
	// EffectiveTags is nil until tags are propagated from enclosing suites.
	EffectiveTags []string `json:"effectiveTags,omitempty"`
	// Children of a suite, in source order. Always empty for tests.
	Children []*Node `json:"children,omitempty"`

	// parent is a non-owning back reference. It is assigned by AddChild
	// and never serialized.
	parent *Node
}

// NewSuite creates a suite node.
func NewSuite(name *string, tags []string, pending bool) *Node {
	return &Node{Type: SuiteNode, Name: name, Tags: tags, Pending: pending}
}

// NewTest creates a test node.
func NewTest(name *string, tags []string, pending bool) *Node {
	return &Node{Type: TestNode, Name: name, Tags: tags, Pending: pending}
}

func (n *Node) IsSuite() bool { return n.Type == SuiteNode }
func (n *Node) IsTest() bool  { return n.Type == TestNode }

// Title returns the resolved name and whether there was one.
func (n *Node) Title() (string, bool) {
	if n.Name == nil {
		return "", false
	}
	return *n.Name, true
}

// Parent returns the enclosing suite, or nil for root-level nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// AddChild appends c to a suite's children and points c back at n.
func (n *Node) AddChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

// Structure is the ordered list of root-level nodes of one source file.
type Structure []*Node

// ExtractionResult is what a single pass over a spec source produces.
type ExtractionResult struct {
	// SuiteNames and TestNames hold the statically known names in post-order.
	SuiteNames []string `json:"suiteNames"`
	TestNames  []string `json:"testNames"`
	// Tests holds every suite and test in post-order: children before their suite.
	Tests []*Node `json:"tests"`
	// TestCount and Structure are only set when the caller asks for the
	// structure. Both are then encoded even when the source has no tests.
	TestCount *int      `json:"testCount,omitempty"`
	Structure Structure `json:"structure,omitzero"`
}

// Ptr returns a pointer to s. Handy for building expected nodes.
func Ptr(s string) *string {
	return &s
}
