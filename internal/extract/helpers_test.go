package extract

import (
	"context"
	"testing"

	"github.com/agentic-research/testnames/api"
	"github.com/agentic-research/testnames/internal/ingest"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"
)

// parse is a test helper that parses JavaScript and closes the tree on cleanup.
func parse(t *testing.T, code string) *ingest.Tree {
	t.Helper()
	tree, err := ingest.Parse(context.Background(), []byte(code), ingest.JavaScript)
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

// firstCall returns the first call_expression in document order.
func firstCall(t *testing.T, tree *ingest.Tree) *sitter.Node {
	t.Helper()
	var found *sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.Type() == nodeCall {
			found = n
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.Root)
	require.NotNil(t, found, "no call expression in source")
	return found
}

func extractJS(t *testing.T, code string, withStructure bool) *api.ExtractionResult {
	t.Helper()
	result, err := Extract(context.Background(), []byte(code), ingest.JavaScript, api.DefaultDialect(), withStructure)
	require.NoError(t, err)
	return result
}
