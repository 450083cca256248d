// Package parse converts document text into ordered element trees with
// source-offset metadata.
package parse

import (
	"path/filepath"
	"strings"

	"domsync/element"
)

// Kind selects a parser implementation at the document boundary.
type Kind int

const (
	// KindMarkup is the tag-stream variant for plain markup.
	KindMarkup Kind = iota
	// KindComponent is the syntax-tree variant for component source.
	KindComponent
)

func (k Kind) String() string {
	switch k {
	case KindMarkup:
		return "markup"
	case KindComponent:
		return "component"
	}
	return "<unknown kind>"
}

// Result is one successful parse. Roots are the top-level elements in
// source order; Identities indexes nodes that carry an identity marker
// in the parsed text itself. Both are discarded on the next parse.
type Result struct {
	Roots      []*element.Node
	Identities map[string]*element.Node
	Doc        *PosDoc
}

// Find returns the first node in the result for which f returns true.
func (r *Result) Find(f func(*element.Node) bool) *element.Node {
	var res *element.Node
	for _, root := range r.Roots {
		if res != nil {
			break
		}
		root.Visit(func(n *element.Node) bool {
			if res != nil {
				return false
			}
			if f(n) {
				res = n
				return false
			}
			return true
		})
	}
	return res
}

// Parser is the capability interface both variants implement. A failed
// parse returns an empty result and a wrapped ErrParse; callers must
// disable mutation until a parse succeeds.
type Parser interface {
	Parse(text []byte) (*Result, error)
}

// ForPath returns the parser for a file path based on its extension.
func ForPath(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx", ".js", ".mjs", ".cjs":
		return newComponentParser(scriptLang())
	case ".tsx", ".ts":
		return newComponentParser(tsxLang())
	default:
		return For(KindMarkup)
	}
}

// indexIdentities fills Result.Identities from marker attributes found
// in the parsed text.
func indexIdentities(res *Result) {
	res.Identities = map[string]*element.Node{}
	for _, root := range res.Roots {
		root.Visit(func(n *element.Node) bool {
			if id, ok := n.Attr(element.IdentityAttr); ok && id != "" {
				n.Identity = id
				res.Identities[id] = n
			}
			return true
		})
	}
}
