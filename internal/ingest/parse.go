package ingest

import (
	"context"
	"errors"
	"fmt"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	sitter "github.com/smacker/go-tree-sitter"
)

// SyntaxError reports the first ERROR or MISSING node of a parsed source.
type SyntaxError struct {
	File   string
	Line   uint32 // 0-indexed
	Column uint32 // 0-indexed
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<source>"
	}
	return fmt.Sprintf("%s:%d:%d: syntax error", file, e.Line+1, e.Column+1)
}

// Tree is a parsed source together with the bytes its nodes point into.
type Tree struct {
	Root   *sitter.Node
	Source []byte
	Lang   Language

	tree *sitter.Tree
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
	}
}

// Parse parses source as lang. A source that does not parse cleanly
// yields a *SyntaxError.
func Parse(ctx context.Context, source []byte, lang Language) (*Tree, error) {
	grammar := lang.Grammar()
	if grammar == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, lang)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("tree-sitter returned nil root")
	}
	if root.HasError() {
		tree.Close()
		serr := &SyntaxError{}
		if n := firstError(root); n != nil {
			serr.Line = n.StartPoint().Row
			serr.Column = n.StartPoint().Column
		}
		return nil, serr
	}

	return &Tree{Root: root, Source: source, Lang: lang, tree: tree}, nil
}

// readSource reads a spec file through fs. Errors from the filesystem
// are returned as they are so callers can test them with errors.Is.
func readSource(fs billy.Filesystem, path string) ([]byte, Language, error) {
	lang, err := DetectLanguage(path)
	if err != nil {
		return nil, "", err
	}
	content, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, "", err
	}
	return content, lang, nil
}

// ParseFile reads and parses a spec file through fs, choosing the grammar
// by extension.
func ParseFile(ctx context.Context, fs billy.Filesystem, path string) (*Tree, error) {
	content, lang, err := readSource(fs, path)
	if err != nil {
		return nil, err
	}
	return ParseAs(ctx, path, content, lang)
}

// ParseAs is Parse for source read from file. A *SyntaxError names file.
func ParseAs(ctx context.Context, file string, source []byte, lang Language) (*Tree, error) {
	tree, err := Parse(ctx, source, lang)
	var serr *SyntaxError
	if errors.As(err, &serr) {
		serr.File = file
	}
	return tree, err
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if child.HasError() || child.IsError() || child.IsMissing() {
			if found := firstError(child); found != nil {
				return found
			}
		}
	}
	return nil
}
