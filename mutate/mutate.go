package mutate

import (
	"bytes"

	"domsync/debug"
	"domsync/element"
	"domsync/parse"
	"domsync/resolve"
)

// Delete excises the element's span from the text.
func Delete(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(text, tgt); err != nil {
		return nil, err
	}
	if debug.Mutate() {
		debug.Logf("delete <%s> [%d,%d)\n", tgt.TagName, tgt.Start, tgt.End)
	}
	return splice(text, tgt.Start, tgt.End, nil), nil
}

// Duplicate reinserts a copy of the element immediately after its span,
// newline separated. Identity markers are stripped from the copy so it
// never aliases the original or its descendants.
func Duplicate(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(text, tgt); err != nil {
		return nil, err
	}
	attr := element.IdentityAttr
	if sess != nil {
		attr = sess.Attr()
	}
	cp := stripIdentityMarkers(append([]byte(nil), text[tgt.Start:tgt.End]...), attr)
	ins := append([]byte("\n"), cp...)
	if debug.Mutate() {
		debug.Logf("duplicate <%s> [%d,%d), %d bytes\n", tgt.TagName, tgt.Start, tgt.End, len(cp))
	}
	return splice(text, tgt.End, tgt.End, ins), nil
}

// splice replaces text[start:end] with ins in a fresh buffer.
func splice(text []byte, start, end int, ins []byte) []byte {
	out := make([]byte, 0, len(text)-(end-start)+len(ins))
	out = append(out, text[:start]...)
	out = append(out, ins...)
	out = append(out, text[end:]...)
	return out
}

// stripIdentityMarkers removes every marker attribute named attr from
// the fragment, including those of nested elements.
func stripIdentityMarkers(frag []byte, attr string) []byte {
	marker := []byte(" " + attr + "=")
	for {
		i := bytes.Index(frag, marker)
		if i < 0 {
			return frag
		}
		j := i + len(marker)
		if j < len(frag) && (frag[j] == '"' || frag[j] == '\'') {
			q := frag[j]
			k := bytes.IndexByte(frag[j+1:], q)
			if k < 0 {
				return frag
			}
			frag = splice(frag, i, j+1+k+1, nil)
			continue
		}
		// Unquoted value, cut to the next delimiter.
		k := j
		for k < len(frag) && frag[k] != ' ' && frag[k] != '>' && frag[k] != '/' {
			k++
		}
		frag = splice(frag, i, k, nil)
	}
}
