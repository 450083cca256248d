package mutate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"

	"domsync/debug"
	"domsync/element"
	"domsync/parse"
	"domsync/resolve"
)

// EditStyle sets one CSS property on the element's style attribute,
// replacing an existing declaration for the property or appending a
// new one. Elements without a style attribute get one inserted just
// before the tag's closing '>' or '/>'. camelCase property names are
// folded to kebab-case before writing.
func EditStyle(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser, property, value string) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	return editStyleAt(text, tgt, map[string]string{property: value}, nil)
}

// BatchStyle merges a set of property updates into the style attribute
// in one pass with JSON merge-patch semantics: an empty value removes
// the declaration, any other value upserts it.
func BatchStyle(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser, styles map[string]string) ([]byte, error) {
	tgt, err := Locate(text, loc, sess, p)
	if err != nil {
		return nil, err
	}
	var removed []string
	upserts := make(map[string]string, len(styles))
	for k, v := range styles {
		if strings.TrimSpace(v) == "" {
			removed = append(removed, CamelToKebab(k))
			continue
		}
		upserts[k] = v
	}
	return editStyleAt(text, tgt, upserts, removed)
}

func editStyleAt(text []byte, tgt Target, styles map[string]string, removed []string) ([]byte, error) {
	if err := checkTarget(text, tgt); err != nil {
		return nil, err
	}
	openEnd := OpenTagEnd(text, tgt.Start)
	if openEnd < 0 {
		return nil, fmt.Errorf("%w: unterminated open tag for <%s>", ErrMalformedSpan, tgt.TagName)
	}
	openTag := text[tgt.Start:openEnd]

	valStart, valEnd, ok := attrValueSpan(openTag, "style")
	var decls []styleDecl
	if ok {
		decls = parseDecls(string(openTag[valStart:valEnd]))
	}
	merged, err := mergeDecls(decls, styles, removed)
	if err != nil {
		return nil, err
	}
	rendered := renderDecls(merged)
	if debug.Mutate() {
		debug.Logf("editStyle <%s>: %q\n", tgt.TagName, rendered)
	}

	if ok {
		return splice(text, tgt.Start+valStart, tgt.Start+valEnd, []byte(rendered)), nil
	}
	at := openEnd - 1
	if selfClosing(text, openEnd) {
		at = openEnd - 2
		for at > tgt.Start && text[at-1] == ' ' {
			at--
		}
	}
	ins := fmt.Sprintf(` style=%q`, rendered)
	return splice(text, at, at, []byte(ins)), nil
}

type styleDecl struct {
	Prop  string
	Value string
}

// parseDecls splits a style attribute value into ';'-separated
// prop/value pairs, tolerating surrounding whitespace.
func parseDecls(v string) []styleDecl {
	var res []styleDecl
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i := strings.IndexByte(part, ':')
		if i < 0 {
			continue
		}
		res = append(res, styleDecl{
			Prop:  strings.TrimSpace(part[:i]),
			Value: strings.TrimSpace(part[i+1:]),
		})
	}
	return res
}

// mergeDecls applies updates to the existing declarations through a
// JSON merge patch, keeping the original declaration order and
// appending new properties in sorted order.
func mergeDecls(decls []styleDecl, styles map[string]string, removed []string) ([]styleDecl, error) {
	cur := make(map[string]string, len(decls))
	for _, d := range decls {
		cur[d.Prop] = d.Value
	}
	patch := make(map[string]any, len(styles)+len(removed))
	for k, v := range styles {
		patch[CamelToKebab(k)] = v
	}
	for _, k := range removed {
		patch[k] = nil
	}
	curJSON, err := json.Marshal(cur)
	if err != nil {
		return nil, err
	}
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	mergedJSON, err := jsonpatch.MergePatch(curJSON, patchJSON)
	if err != nil {
		return nil, fmt.Errorf("style merge: %w", err)
	}
	var merged map[string]string
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, err
	}

	res := make([]styleDecl, 0, len(merged))
	seen := map[string]bool{}
	for _, d := range decls {
		v, ok := merged[d.Prop]
		if !ok || seen[d.Prop] {
			continue
		}
		seen[d.Prop] = true
		res = append(res, styleDecl{Prop: d.Prop, Value: v})
	}
	var added []string
	for k := range merged {
		if !seen[k] {
			added = append(added, k)
		}
	}
	sort.Strings(added)
	for _, k := range added {
		res = append(res, styleDecl{Prop: k, Value: merged[k]})
	}
	return res, nil
}

func renderDecls(decls []styleDecl) string {
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Prop + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}

// attrValueSpan finds the quoted value of name within an open tag,
// returning offsets relative to the tag.
func attrValueSpan(openTag []byte, name string) (int, int, bool) {
	var quote byte
	i := 0
	for i < len(openTag) {
		c := openTag[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			i++
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			i++
			continue
		}
		if c == ' ' || c == '\t' || c == '\n' {
			j := i + 1
			k := j
			for k < len(openTag) && isAttrNameByte(openTag[k]) {
				k++
			}
			if string(openTag[j:k]) == name {
				m := k
				for m < len(openTag) && (openTag[m] == ' ' || openTag[m] == '\t') {
					m++
				}
				if m < len(openTag) && openTag[m] == '=' {
					m++
					for m < len(openTag) && (openTag[m] == ' ' || openTag[m] == '\t') {
						m++
					}
					if m < len(openTag) && (openTag[m] == '"' || openTag[m] == '\'') {
						q := openTag[m]
						e := m + 1
						for e < len(openTag) && openTag[e] != q {
							e++
						}
						if e < len(openTag) {
							return m + 1, e, true
						}
					}
				}
			}
			i = k
			if k == j {
				i = j
			}
			continue
		}
		i++
	}
	return 0, 0, false
}

func isAttrNameByte(c byte) bool {
	return c == '-' || c == '_' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// CamelToKebab folds camelCase CSS property names to their kebab-case
// form, e.g. backgroundColor -> background-color.
func CamelToKebab(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
