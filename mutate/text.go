package mutate

import (
	"errors"
	"fmt"

	"domsync/debug"
	"domsync/element"
	"domsync/parse"
	"domsync/resolve"
)

// EditText replaces the element's inner content with newText, splicing
// between the end of its open tag and the start of its matching close
// tag. When no matching close exists in truncated or malformed input,
// the edit degrades to replacing the first bare text run on the
// element's own source line.
func EditText(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser, newText string) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(text, tgt); err != nil {
		return nil, err
	}
	openEnd := OpenTagEnd(text, tgt.Start)
	if openEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated open tag for <%s>", ErrMalformedSpan, tgt.TagName)
	}
	if element.IsVoid(tgt.TagName) || selfClosing(text, openEnd) {
		return nil, fmt.Errorf("%w: <%s> has no text content", ErrMalformedSpan, tgt.TagName)
	}
	closeStart, err := FindMatchingClose(text, openEnd, tgt.TagName)
	if err != nil {
		if !errors.Is(err, ErrMalformedSpan) {
			return nil, err
		}
		return editTextOnLine(text, tgt, newText)
	}
	if debug.Mutate() {
		debug.Logf("editText <%s>: splice [%d,%d)\n", tgt.TagName, openEnd, closeStart)
	}
	return splice(text, openEnd, closeStart, []byte(newText)), nil
}

// editTextOnLine is the malformed-span fallback: replace the first
// bare text run between tags on the element's source line.
func editTextOnLine(text []byte, tgt Target, newText string) ([]byte, error) {
	doc := parse.NewPosDoc(text)
	line, _ := doc.LineCol(tgt.Start)
	ls, le := doc.LineSpan(line)
	i := ls
	for i < le {
		if text[i] != '>' {
			i++
			continue
		}
		runStart := i + 1
		j := runStart
		for j < le && text[j] != '<' {
			j++
		}
		if trimmedNonEmpty(text[runStart:j]) {
			if debug.Mutate() {
				debug.Logf("editText <%s>: line fallback [%d,%d)\n", tgt.TagName, runStart, j)
			}
			return splice(text, runStart, j, []byte(newText)), nil
		}
		i = j
	}
	return nil, fmt.Errorf("%w: <%s> and no text run on its line", ErrMalformedSpan, tgt.TagName)
}

func trimmedNonEmpty(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			return true
		}
	}
	return false
}
