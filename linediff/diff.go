// Package linediff computes added/deleted line sets between two text
// versions and drives the accept/reject staging workflow.
package linediff

import (
	"strings"

	"domsync/debug"
)

// DeletedLine is one removed line with a best-effort display anchor in
// the new text. The anchor is presentation-only and never used to
// reconstruct content.
type DeletedLine struct {
	Anchor  int
	Content string
}

// Result holds the zero-based added line numbers in the new text and
// the deleted lines of the old text.
type Result struct {
	Added   []int
	Deleted []DeletedLine
}

func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Deleted) == 0
}

// Diff matches lines by positional similarity rather than a classic
// LCS: for the small, localized, line-preserving edits the mutation
// engine produces, claiming the closest content-identical old line to
// a forward-moving cursor is both faster and stable. Blank lines take
// part in matching but are excluded from both output sets.
func Diff(oldText, newText string) *Result {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	index := make(map[string][]int, len(oldLines))
	for i, l := range oldLines {
		index[l] = append(index[l], i)
	}

	claimed := make([]bool, len(oldLines))
	matched := make([]bool, len(newLines))
	cursor := 0
	for i, l := range newLines {
		if cursor < len(oldLines) && !claimed[cursor] && oldLines[cursor] == l {
			claimed[cursor] = true
			matched[i] = true
			cursor++
			continue
		}
		if at, ok := closestUnclaimed(index[l], claimed, cursor); ok {
			claimed[at] = true
			matched[i] = true
			cursor = at + 1
			continue
		}
		// Tentatively unmatched; becomes an addition if non-blank.
	}

	res := &Result{}
	for i, ok := range matched {
		if !ok && !blank(newLines[i]) {
			res.Added = append(res.Added, i)
		}
	}
	for j, ok := range claimed {
		if !ok && !blank(oldLines[j]) {
			res.Deleted = append(res.Deleted, DeletedLine{
				Anchor:  anchorFor(j, res.Added, claimed, len(newLines)),
				Content: oldLines[j],
			})
		}
	}
	if debug.Diff() {
		debug.Logf("diff: %d added, %d deleted\n", len(res.Added), len(res.Deleted))
	}
	return res
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func blank(l string) bool {
	return strings.TrimSpace(l) == ""
}

// closestUnclaimed picks the unclaimed occurrence nearest the cursor.
func closestUnclaimed(positions []int, claimed []bool, cursor int) (int, bool) {
	best, bestDist := -1, 0
	for _, p := range positions {
		if claimed[p] {
			continue
		}
		d := p - cursor
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, best >= 0
}

// anchorFor shifts an old line number by the net add/delete count
// before it and clamps the result into the new text's line range.
func anchorFor(oldLine int, added []int, claimed []bool, newLen int) int {
	adds := 0
	for _, a := range added {
		if a < oldLine {
			adds++
		}
	}
	dels := 0
	for j := 0; j < oldLine && j < len(claimed); j++ {
		if !claimed[j] {
			dels++
		}
	}
	anchor := oldLine + adds - dels
	if anchor < 0 {
		anchor = 0
	}
	if max := newLen - 1; anchor > max {
		anchor = max
	}
	if anchor < 0 {
		anchor = 0
	}
	return anchor
}
