package linediff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// InlineOp tags a segment of an inline highlight.
type InlineOp int

const (
	InlineEqual InlineOp = iota
	InlineInsert
	InlineDelete
)

// InlineSpan is one segment of a character-level line highlight.
type InlineSpan struct {
	Op   InlineOp
	Text string
}

// Inline computes character-level highlight spans between two lines
// for display beside the line sets. This is purely presentational;
// reconciliation never consumes it.
func Inline(oldLine, newLine string) []InlineSpan {
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(oldLine, newLine, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	res := make([]InlineSpan, 0, len(diffs))
	for _, d := range diffs {
		span := InlineSpan{Text: d.Text}
		switch d.Type {
		case diffpatch.DiffInsert:
			span.Op = InlineInsert
		case diffpatch.DiffDelete:
			span.Op = InlineDelete
		default:
			span.Op = InlineEqual
		}
		res = append(res, span)
	}
	return res
}
