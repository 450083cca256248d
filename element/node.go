// Package element defines the parsed element model shared by the
// parser, resolver and mutation layers.
package element

import (
	"strconv"
	"strings"
)

// Pos is a zero-based line/column position in the source text.
type Pos struct {
	Line int
	Col  int
}

// Attr is a single attribute in source order.
type Attr struct {
	Name  string
	Value string
}

// Node is one parsed tag or component instance. Identity, when set, is
// valid only for the parse that produced the node; any re-parse
// invalidates it.
type Node struct {
	Identity string
	TagName  string
	Attrs    []Attr

	// SourceStart/SourceEnd delimit the node's full source span,
	// end-exclusive, in byte offsets of the parsed text.
	SourceStart int
	SourceEnd   int

	Start Pos
	End   Pos

	// Ordinal is the 1-based position among structural siblings,
	// fixed before the node joins its parent's child list.
	Ordinal int

	// Component marks upper-case component references in component
	// source. Components are tracked but never edited at tag-name
	// level.
	Component bool

	// TextContent is the best-effort leading text directly under
	// this node.
	TextContent string

	Parent   *Node
	Children []*Node
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			return n.Attrs[i].Value, true
		}
	}
	return "", false
}

func (n *Node) ID() string {
	v, _ := n.Attr("id")
	return v
}

func (n *Node) Class() string {
	v, _ := n.Attr("class")
	return v
}

// ClassList splits the class attribute into its tokens.
func (n *Node) ClassList() []string {
	return strings.Fields(n.Class())
}

// HasClass reports whether c is one of the node's class tokens.
func (n *Node) HasClass(c string) bool {
	for _, t := range n.ClassList() {
		if t == c {
			return true
		}
	}
	return false
}

// AddChild appends c with its ordinal computed from the children
// collected so far.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	c.Ordinal = len(n.Children) + 1
	n.Children = append(n.Children, c)
}

// Visit walks the subtree rooted at n in source order. The callback is
// invoked pre-order; returning false prunes the node's children.
func (n *Node) Visit(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Visit(f)
	}
}

// Path renders the ancestor chain of n as a selector path.
func (n *Node) Path() string {
	var segs []string
	for x := n; x != nil; x = x.Parent {
		segs = append(segs, x.segment())
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, " > ")
}

func (n *Node) segment() string {
	var b strings.Builder
	b.WriteString(n.TagName)
	if id := n.ID(); id != "" {
		b.WriteByte('#')
		b.WriteString(id)
	}
	if n.Ordinal > 0 {
		b.WriteString(":nth-child(")
		b.WriteString(strconv.Itoa(n.Ordinal))
		b.WriteByte(')')
	}
	return b.String()
}
