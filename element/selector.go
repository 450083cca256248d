package element

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrSelector = errors.New("selector error")

// Segment is one step of a selector path. Zero values mean
// "unspecified"; Tag may also be "*" which matches any tag.
type Segment struct {
	Tag     string
	ID      string
	Class   string
	Ordinal int
}

// SelectorPath is an ordered ancestor-chain description, outermost
// segment first. It is the resilient fallback used when an identity
// lookup misses.
type SelectorPath []Segment

func (s Segment) String() string {
	var b strings.Builder
	b.WriteString(s.Tag)
	if s.ID != "" {
		b.WriteByte('#')
		b.WriteString(s.ID)
	}
	if s.Class != "" {
		b.WriteByte('.')
		b.WriteString(s.Class)
	}
	if s.Ordinal > 0 {
		b.WriteString(":nth-child(")
		b.WriteString(strconv.Itoa(s.Ordinal))
		b.WriteByte(')')
	}
	return b.String()
}

func (p SelectorPath) String() string {
	segs := make([]string, len(p))
	for i := range p {
		segs[i] = p[i].String()
	}
	return strings.Join(segs, " > ")
}

// ParseSelectorPath parses the textual form
// tag?(#id)?(.class)?(:nth-child(N))? joined by '>'.
func ParseSelectorPath(s string) (SelectorPath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSelector)
	}
	parts := strings.Split(s, ">")
	path := make(SelectorPath, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}
	return path, nil
}

func parseSegment(s string) (Segment, error) {
	if s == "" {
		return Segment{}, fmt.Errorf("%w: empty segment", ErrSelector)
	}
	var seg Segment
	i := 0
	for i < len(s) && s[i] != '#' && s[i] != '.' && s[i] != ':' {
		i++
	}
	seg.Tag = s[:i]
	for i < len(s) {
		switch s[i] {
		case '#':
			j := i + 1
			for j < len(s) && s[j] != '.' && s[j] != ':' {
				j++
			}
			if j == i+1 {
				return Segment{}, fmt.Errorf("%w: empty id in %q", ErrSelector, s)
			}
			seg.ID = s[i+1 : j]
			i = j
		case '.':
			j := i + 1
			for j < len(s) && s[j] != '#' && s[j] != ':' {
				j++
			}
			if j == i+1 {
				return Segment{}, fmt.Errorf("%w: empty class in %q", ErrSelector, s)
			}
			// a.b.c keeps all tokens, space separated, so
			// matching can require each of them.
			seg.Class = strings.ReplaceAll(s[i+1:j], ".", " ")
			i = j
		case ':':
			rest := s[i:]
			const pre = ":nth-child("
			if !strings.HasPrefix(rest, pre) {
				return Segment{}, fmt.Errorf("%w: unsupported pseudo-class in %q", ErrSelector, s)
			}
			k := strings.IndexByte(rest, ')')
			if k < 0 {
				return Segment{}, fmt.Errorf("%w: unterminated nth-child in %q", ErrSelector, s)
			}
			n, err := strconv.Atoi(rest[len(pre):k])
			if err != nil || n < 1 {
				return Segment{}, fmt.Errorf("%w: bad nth-child index in %q", ErrSelector, s)
			}
			seg.Ordinal = n
			i += k + 1
		default:
			return Segment{}, fmt.Errorf("%w: unexpected %q in %q", ErrSelector, s[i], s)
		}
	}
	return seg, nil
}
