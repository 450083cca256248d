package parse

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"

	"domsync/debug"
	"domsync/element"
)

func init() {
	if err := Register(KindComponent, func() Parser { return newComponentParser(tsxLang()) }); err != nil {
		panic(err)
	}
}

func tsxLang() *sitter.Language    { return tsx.GetLanguage() }
func scriptLang() *sitter.Language { return javascript.GetLanguage() }

// ExprPlaceholder stands in for dynamic attribute expressions, which
// are recorded but never evaluated.
const ExprPlaceholder = "{expression}"

var errSyntax = errors.New("syntax error in component source")

// componentParser walks a syntax tree and collects every markup element
// anywhere in the source, not only inside a designated return
// expression.
type componentParser struct {
	parser *sitter.Parser
}

func newComponentParser(lang *sitter.Language) *componentParser {
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &componentParser{parser: p}
}

func (p *componentParser) Parse(text []byte) (*Result, error) {
	doc := NewPosDoc(text)
	tree, err := p.parser.ParseCtx(context.Background(), nil, text)
	if err != nil {
		return &Result{Doc: doc}, parseErrAt(err, 0, 0)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		l, c := errorPos(root)
		return &Result{Doc: doc}, parseErrAt(errSyntax, l, c)
	}
	res := &Result{Doc: doc}
	p.walk(root, nil, text, doc, res)
	indexIdentities(res)
	if debug.Parse() {
		debug.Logf("parse component: %d roots, %d bytes\n", len(res.Roots), len(text))
	}
	return res, nil
}

func errorPos(root *sitter.Node) (int, int) {
	var pos *sitter.Point
	var find func(n *sitter.Node)
	find = func(n *sitter.Node) {
		if pos != nil {
			return
		}
		if n.IsError() {
			p := n.StartPoint()
			pos = &p
			return
		}
		if !n.HasError() {
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			find(n.NamedChild(i))
		}
	}
	find(root)
	if pos == nil {
		return 0, 0
	}
	return int(pos.Row), int(pos.Column)
}

func (p *componentParser) walk(n *sitter.Node, parent *element.Node, src []byte, doc *PosDoc, res *Result) {
	next := parent
	switch n.Type() {
	case "jsx_element":
		if open := childOfType(n, "jsx_opening_element"); open != nil {
			en := p.makeElement(n, open, src, doc)
			p.attach(res, parent, en)
			p.leadingText(n, src, en)
			next = en
		}
	case "jsx_self_closing_element":
		en := p.makeElement(n, n, src, doc)
		p.attach(res, parent, en)
		// Self-closing elements have no descendants to walk into,
		// but child expressions do not occur either.
		next = en
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		p.walk(n.NamedChild(i), next, src, doc, res)
	}
}

func (p *componentParser) attach(res *Result, parent, n *element.Node) {
	if parent == nil {
		n.Ordinal = len(res.Roots) + 1
		res.Roots = append(res.Roots, n)
		return
	}
	parent.AddChild(n)
}

// makeElement builds a node from elem's span and the attribute-bearing
// open node (the element itself when self-closing).
func (p *componentParser) makeElement(elem, open *sitter.Node, src []byte, doc *PosDoc) *element.Node {
	name := ""
	if nn := open.ChildByFieldName("name"); nn != nil {
		name = string(src[nn.StartByte():nn.EndByte()])
	}
	start, end := int(elem.StartByte()), int(elem.EndByte())
	// Nested element extents from the grammar can include the
	// inter-element whitespace before the tag; the span must begin at
	// the '<' itself so marker insertion lands inside the open tag.
	if i := bytes.IndexByte(src[start:end], '<'); i > 0 {
		start += i
	}
	n := &element.Node{
		TagName:     name,
		SourceStart: start,
		SourceEnd:   end,
		Start:       doc.Pos(start),
		End:         doc.Pos(end),
		Component:   isComponentName(name),
	}
	for i := 0; i < int(open.NamedChildCount()); i++ {
		c := open.NamedChild(i)
		if c.Type() != "jsx_attribute" {
			continue
		}
		n.Attrs = append(n.Attrs, attrOf(c, src))
	}
	return n
}

func attrOf(n *sitter.Node, src []byte) element.Attr {
	a := element.Attr{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "property_identifier":
			a.Name = string(src[c.StartByte():c.EndByte()])
		case "string":
			a.Value = strings.Trim(string(src[c.StartByte():c.EndByte()]), `"'`)
		case "jsx_expression":
			a.Value = ExprPlaceholder
		}
	}
	return a
}

func (p *componentParser) leadingText(n *sitter.Node, src []byte, en *element.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "jsx_text" {
			continue
		}
		if s := strings.TrimSpace(string(src[c.StartByte():c.EndByte()])); s != "" {
			en.TextContent = s
			return
		}
	}
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func isComponentName(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
