package parse

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"

	"domsync/debug"
	"domsync/element"
)

func init() {
	if err := Register(KindMarkup, func() Parser { return &markupParser{} }); err != nil {
		panic(err)
	}
}

// markupParser builds element trees from a raw tag stream. It uses the
// low-level tokenizer rather than the document parser so offsets track
// the original source exactly, with none of the html/head/body
// normalization a browser-grade parse would impose.
type markupParser struct{}

func (p *markupParser) Parse(text []byte) (*Result, error) {
	doc := NewPosDoc(text)
	res := &Result{Doc: doc}
	z := html.NewTokenizer(bytes.NewReader(text))

	var stack []*element.Node
	consumed := 0
	for {
		tt := z.Next()
		raw := z.Raw()
		tokStart := consumed
		consumed += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				l, c := doc.LineCol(tokStart)
				return &Result{Doc: doc}, parseErrAt(err, l, c)
			}
			// Unclosed elements run to end of input.
			for _, n := range stack {
				n.SourceEnd = len(text)
				n.End = doc.Pos(len(text))
			}
			indexIdentities(res)
			if debug.Parse() {
				debug.Logf("parse markup: %d roots, %d bytes\n", len(res.Roots), len(text))
			}
			return res, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			n := &element.Node{
				TagName:     tok.Data,
				SourceStart: tokStart,
				Start:       doc.Pos(tokStart),
			}
			for _, a := range tok.Attr {
				n.Attrs = append(n.Attrs, element.Attr{Name: a.Key, Value: a.Val})
			}
			p.attach(res, stack, n)
			if tt == html.SelfClosingTagToken || element.IsVoid(n.TagName) {
				n.SourceEnd = consumed
				n.End = doc.Pos(consumed)
				continue
			}
			stack = append(stack, n)

		case html.EndTagToken:
			tok := z.Token()
			i := len(stack) - 1
			for i >= 0 && stack[i].TagName != tok.Data {
				i--
			}
			if i < 0 {
				// Unknown close tag, skip it.
				continue
			}
			// Implicitly close anything the source left open
			// above the matching tag.
			for j := len(stack) - 1; j > i; j-- {
				stack[j].SourceEnd = tokStart
				stack[j].End = doc.Pos(tokStart)
			}
			stack[i].SourceEnd = consumed
			stack[i].End = doc.Pos(consumed)
			stack = stack[:i]

		case html.TextToken:
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if top.TextContent != "" {
				continue
			}
			if s := strings.TrimSpace(string(raw)); s != "" {
				top.TextContent = s
			}

		case html.CommentToken, html.DoctypeToken:
			// No structural significance.
		}
	}
}

// attach places n in the tree, computing its ordinal from the parent's
// already-collected children.
func (p *markupParser) attach(res *Result, stack []*element.Node, n *element.Node) {
	if len(stack) == 0 {
		n.Ordinal = len(res.Roots) + 1
		res.Roots = append(res.Roots, n)
		return
	}
	stack[len(stack)-1].AddChild(n)
}
