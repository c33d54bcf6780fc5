package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language is a source dialect understood by the parser.
type Language string

const (
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// DetectLanguage maps a spec file path to its language by extension.
func DetectLanguage(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return JavaScript, nil
	case ".ts", ".mts", ".cts":
		return TypeScript, nil
	case ".tsx":
		return TSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, path)
	}
}

// ParseLanguage validates a language name given on the command line.
func ParseLanguage(name string) (Language, error) {
	switch l := Language(strings.ToLower(name)); l {
	case JavaScript, TypeScript, TSX:
		return l, nil
	case "js":
		return JavaScript, nil
	case "ts":
		return TypeScript, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, name)
	}
}

// Grammar returns the tree-sitter grammar for l, or nil if l is unknown.
func (l Language) Grammar() *sitter.Language {
	switch l {
	case JavaScript:
		return javascript.GetLanguage()
	case TypeScript:
		return typescript.GetLanguage()
	case TSX:
		return tsx.GetLanguage()
	default:
		return nil
	}
}
