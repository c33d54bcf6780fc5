package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// Shape is the argument layout of a recognized call.
type Shape int

const (
	// Unrecognized: no arguments at all.
	Unrecognized Shape = iota
	// NameOnly: (name, body...)
	NameOnly
	// TagsOnly: ([tags]) with nothing after the array.
	TagsOnly
	// TagsThenName: ([tags], name, body...)
	TagsThenName
)

func (s Shape) String() string {
	switch s {
	case NameOnly:
		return "name-only"
	case TagsOnly:
		return "tags-only"
	case TagsThenName:
		return "tags-then-name"
	default:
		return "unrecognized"
	}
}

// ShapeOf decides the argument layout from the node types alone.
func ShapeOf(args []*sitter.Node) Shape {
	switch {
	case len(args) == 0:
		return Unrecognized
	case args[0].Type() != nodeArray:
		return NameOnly
	case len(args) == 1:
		return TagsOnly
	default:
		return TagsThenName
	}
}

// Resolution is what could be known statically about a call's arguments.
type Resolution struct {
	Shape Shape
	// Name is nil unless the name argument is a static string.
	Name *string
	// Tags is nil unless the call had a tag array with at least one static
	// string entry.
	Tags []string
}

// Resolve reads the tag array and the name from a call's arguments.
// Tags and name are resolved independently of each other.
func Resolve(args []*sitter.Node, source []byte) Resolution {
	res := Resolution{Shape: ShapeOf(args)}

	var nameArg *sitter.Node
	switch res.Shape {
	case NameOnly:
		nameArg = args[0]
	case TagsOnly:
		res.Tags = literalTags(args[0], source)
	case TagsThenName:
		res.Tags = literalTags(args[0], source)
		nameArg = args[1]
	}

	if nameArg != nil {
		if name, ok := StaticString(nameArg, source); ok {
			res.Name = &name
		}
	}
	return res
}

// literalTags collects the static string entries of an array literal.
// Entries that are not static strings are skipped. An array with no static
// entries yields nil.
func literalTags(array *sitter.Node, source []byte) []string {
	count := int(array.NamedChildCount())
	var tags []string
	for i := 0; i < count; i++ {
		entry := array.NamedChild(i)
		if entry == nil || entry.Type() == nodeComment {
			continue
		}
		if tag, ok := StaticString(entry, source); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// StaticString evaluates n if it is a string literal, a template literal
// without substitutions, a parenthesized static string or a `+` chain of
// those. It never looks up identifiers.
func StaticString(n *sitter.Node, source []byte) (string, bool) {
	switch n.Type() {
	case nodeString:
		return unquote(n.Content(source))
	case nodeTemplateString:
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if n.NamedChild(i).Type() == nodeSubstitution {
				return "", false
			}
		}
		return unquote(n.Content(source))
	case nodeParenthesized:
		if n.NamedChildCount() != 1 {
			return "", false
		}
		return StaticString(n.NamedChild(0), source)
	case nodeBinary:
		op := n.ChildByFieldName("operator")
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if op == nil || left == nil || right == nil || op.Type() != "+" {
			return "", false
		}
		l, ok := StaticString(left, source)
		if !ok {
			return "", false
		}
		r, ok := StaticString(right, source)
		if !ok {
			return "", false
		}
		return l + r, true
	default:
		return "", false
	}
}

// unquote strips the delimiters of a JavaScript string or template
// literal and decodes its escape sequences.
func unquote(text string) (string, bool) {
	if len(text) < 2 {
		return "", false
	}
	quote := text[0]
	if (quote != '\'' && quote != '"' && quote != '`') || text[len(text)-1] != quote {
		return "", false
	}
	body := text[1 : len(text)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}

	var sb strings.Builder
	sb.Grow(len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch e := body[i]; e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, ok := hexRune(body, i+1, 2); ok {
				sb.WriteRune(r)
				i += 2
			} else {
				sb.WriteByte(e)
			}
		case 'u':
			if i+1 < len(body) && body[i+1] == '{' {
				end := strings.IndexByte(body[i+1:], '}')
				if end > 1 {
					if r, ok := hexRune(body, i+2, end-1); ok {
						sb.WriteRune(r)
						i += end + 1
						continue
					}
				}
				sb.WriteByte(e)
			} else if r, ok := hexRune(body, i+1, 4); ok {
				sb.WriteRune(r)
				i += 4
			} else {
				sb.WriteByte(e)
			}
		default:
			sb.WriteByte(e)
		}
	}
	return sb.String(), true
}

func hexRune(s string, start, width int) (rune, bool) {
	if start+width > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[start:start+width], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}
