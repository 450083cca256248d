// Package resolve locates elements from selector paths and identity
// markers.
package resolve

import (
	"strings"

	"domsync/debug"
	"domsync/element"
)

// MatchSegment reports whether n satisfies seg. The tag must match
// unless the segment specifies only an id with a default or wildcard
// tag; then the id alone decides, which guards against client/source
// tag-name mismatches.
func MatchSegment(n *element.Node, seg element.Segment) bool {
	if debug.Resolve() {
		debug.Logf("match %s against %s\n", n.TagName, seg.String())
	}
	idOnly := seg.ID != "" && (seg.Tag == "" || seg.Tag == "*")
	if idOnly {
		if n.ID() != seg.ID {
			return false
		}
	} else {
		if seg.Tag != "*" && !strings.EqualFold(n.TagName, seg.Tag) {
			return false
		}
		if seg.ID != "" && n.ID() != seg.ID {
			return false
		}
	}
	if seg.Class != "" {
		for _, c := range strings.Fields(seg.Class) {
			if !n.HasClass(c) {
				return false
			}
		}
	}
	if seg.Ordinal > 0 && n.Ordinal != seg.Ordinal {
		return false
	}
	return true
}
