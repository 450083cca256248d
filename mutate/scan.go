// Package mutate performs text-level structural mutations over
// resolved element spans, returning new document text.
package mutate

import (
	"bytes"
	"fmt"
	"strings"

	"domsync/debug"
	"domsync/element"
)

// Span is a half-open byte range in the document text.
type Span struct {
	Start int
	End   int
}

// OpenTagEnd returns the offset just past the '>' closing the tag that
// starts at start, honoring quoted attribute values. It returns -1 on
// truncated input.
func OpenTagEnd(text []byte, start int) int {
	var quote byte
	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i + 1
		}
	}
	return -1
}

// selfClosing reports whether the open tag ending at openEnd closes
// itself with '/>'.
func selfClosing(text []byte, openEnd int) bool {
	return openEnd >= 2 && text[openEnd-2] == '/'
}

// skipComment returns the offset just past a comment block starting at
// i, or -1 if i does not start one.
func skipComment(text []byte, i int) int {
	if !bytes.HasPrefix(text[i:], []byte("<!--")) {
		return -1
	}
	j := bytes.Index(text[i+4:], []byte("-->"))
	if j < 0 {
		return len(text)
	}
	return i + 4 + j + 3
}

// tagNameAt reads the tag name beginning at i (just past '<' or '</').
func tagNameAt(text []byte, i int) string {
	j := i
	for j < len(text) {
		c := text[j]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '>' || c == '/' {
			break
		}
		j++
	}
	return string(text[i:j])
}

// FindMatchingClose scans forward from openEnd for the close tag
// balancing the open tag of tagName that ended there. Depth increases
// on further non-self-closing, non-void opens of the same tag and
// decreases on its closes; comment blocks are skipped whole. The
// returned offset is the '<' of the matching close tag.
func FindMatchingClose(text []byte, openEnd int, tagName string) (int, error) {
	depth := 1
	i := openEnd
	for i < len(text) {
		if text[i] != '<' {
			i++
			continue
		}
		if next := skipComment(text, i); next >= 0 {
			i = next
			continue
		}
		if i+1 < len(text) && text[i+1] == '/' {
			name := tagNameAt(text, i+2)
			if strings.EqualFold(name, tagName) {
				depth--
				if depth == 0 {
					if debug.Scan() {
						debug.Logf("scan: close of %s at %d\n", tagName, i)
					}
					return i, nil
				}
			}
			end := OpenTagEnd(text, i)
			if end < 0 {
				break
			}
			i = end
			continue
		}
		name := tagNameAt(text, i+1)
		end := OpenTagEnd(text, i)
		if end < 0 {
			break
		}
		if strings.EqualFold(name, tagName) && !element.IsVoid(name) && !selfClosing(text, end) {
			depth++
		}
		i = end
	}
	return -1, fmt.Errorf("%w: <%s> at offset %d", ErrMalformedSpan, tagName, openEnd)
}

// DirectChildren enumerates the spans of the direct structural
// children lying between openEnd and closeStart, applying the same
// depth, comment and void-tag rules as FindMatchingClose. Text runs
// are not children.
func DirectChildren(text []byte, openEnd, closeStart int) []Span {
	var res []Span
	i := openEnd
	for i < closeStart {
		if text[i] != '<' {
			i++
			continue
		}
		if next := skipComment(text, i); next >= 0 {
			i = next
			continue
		}
		if i+1 < len(text) && text[i+1] == '/' {
			// Stray close at this depth; step over it.
			end := OpenTagEnd(text, i)
			if end < 0 {
				break
			}
			i = end
			continue
		}
		name := tagNameAt(text, i+1)
		end := OpenTagEnd(text, i)
		if end < 0 {
			break
		}
		if element.IsVoid(name) || selfClosing(text, end) {
			res = append(res, Span{Start: i, End: end})
			i = end
			continue
		}
		closeAt, err := FindMatchingClose(text, end, name)
		if err != nil {
			// Unclosed child swallows the rest of the parent.
			res = append(res, Span{Start: i, End: closeStart})
			return res
		}
		childEnd := OpenTagEnd(text, closeAt)
		if childEnd < 0 || childEnd > closeStart {
			childEnd = closeStart
		}
		res = append(res, Span{Start: i, End: childEnd})
		i = childEnd
	}
	return res
}
