package parse

import (
	"sort"

	"domsync/element"
)

// PosDoc maps byte offsets of one text to line/column positions via a
// newline index.
type PosDoc struct {
	d []byte
	n []int
}

func NewPosDoc(d []byte) *PosDoc {
	p := &PosDoc{d: d}
	for i, c := range d {
		if c == '\n' {
			p.n = append(p.n, i)
		}
	}
	return p
}

// LineCol returns the zero-based line and column of off.
func (p *PosDoc) LineCol(off int) (int, int) {
	N := len(p.n)
	di := sort.Search(N, func(i int) bool {
		return p.n[i] >= off
	})
	if di == 0 {
		return 0, off
	}
	return di, off - p.n[di-1] - 1
}

func (p *PosDoc) Pos(off int) element.Pos {
	l, c := p.LineCol(off)
	return element.Pos{Line: l, Col: c}
}

// LineSpan returns the [start,end) byte offsets of the given zero-based
// line, excluding the newline.
func (p *PosDoc) LineSpan(line int) (int, int) {
	if line < 0 || line > len(p.n) {
		return 0, 0
	}
	start := 0
	if line > 0 {
		start = p.n[line-1] + 1
	}
	end := len(p.d)
	if line < len(p.n) {
		end = p.n[line]
	}
	return start, end
}
