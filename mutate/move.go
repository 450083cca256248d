package mutate

import (
	"fmt"

	"domsync/debug"
	"domsync/element"
	"domsync/parse"
	"domsync/resolve"
)

// Move excises the element and splices it back among the direct
// structural children of the destination parent at the requested
// index. The source span is removed first; only then is the parent
// resolved, against the already-modified text, because the excision
// shifts every offset behind it. The index is clamped to the range
// [first-child-position, just-before-close-tag].
func Move(text []byte, loc, parentLoc element.Locator, index int, sess *resolve.Session, p parse.Parser) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(text, tgt); err != nil {
		return nil, err
	}
	removed := append([]byte(nil), text[tgt.Start:tgt.End]...)
	out := splice(text, tgt.Start, tgt.End, nil)

	parent, err := LocateInText(out, parentLoc, p)
	if err != nil {
		return nil, err
	}
	openEnd := OpenTagEnd(out, parent.Start)
	if openEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated open tag for <%s>", ErrMalformedSpan, parent.TagName)
	}
	if element.IsVoid(parent.TagName) || selfClosing(out, openEnd) {
		return nil, fmt.Errorf("%w: <%s> cannot hold children", ErrMalformedSpan, parent.TagName)
	}
	closeStart, err := FindMatchingClose(out, openEnd, parent.TagName)
	if err != nil {
		return nil, err
	}
	children := DirectChildren(out, openEnd, closeStart)
	at := insertionOffset(children, index, openEnd, closeStart)
	if debug.Mutate() {
		debug.Logf("move <%s> to <%s>[%d] at offset %d\n", tgt.TagName, parent.TagName, index, at)
	}
	return splice(out, at, at, removed), nil
}

func insertionOffset(children []Span, index, openEnd, closeStart int) int {
	switch {
	case index <= 0:
		if len(children) > 0 {
			return children[0].Start
		}
		return openEnd
	case index >= len(children):
		return closeStart
	default:
		return children[index].Start
	}
}
