package resolve

import (
	"errors"
	"fmt"

	"domsync/debug"
	"domsync/element"
)

// ErrNotFound is returned when a locator resolves to nothing. It is
// never swallowed into a silent no-op.
var ErrNotFound = errors.New("element not found")

// Resolve walks path through the forest. If the first segment carries
// an id, the whole forest is searched for it first and the descent
// anchors there, ids being assumed unique. Otherwise each level's
// candidates are filtered by MatchSegment and the descent continues
// into the match's children. There is no backtracking: an unmatched
// segment at any depth yields ErrNotFound.
//
// When several siblings satisfy a segment and no ordinal disambiguates
// them, the first match in source order wins.
func Resolve(roots []*element.Node, path element.SelectorPath) (*element.Node, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty selector path", ErrNotFound)
	}
	candidates := roots
	if path[0].ID != "" {
		anchor := findByID(roots, path[0].ID)
		if anchor == nil {
			return nil, fmt.Errorf("%w: #%s", ErrNotFound, path[0].ID)
		}
		if !MatchSegment(anchor, path[0]) {
			return nil, fmt.Errorf("%w: #%s does not satisfy %s", ErrNotFound, path[0].ID, path[0].String())
		}
		if len(path) == 1 {
			return anchor, nil
		}
		return descend(anchor.Children, path[1:])
	}
	return descend(candidates, path)
}

func descend(candidates []*element.Node, path element.SelectorPath) (*element.Node, error) {
	cur := candidates
	for i, seg := range path {
		var matches []*element.Node
		for _, n := range cur {
			if MatchSegment(n, seg) {
				matches = append(matches, n)
			}
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no match for %q at depth %d", ErrNotFound, seg.String(), i)
		}
		if len(matches) > 1 && seg.Ordinal == 0 && debug.Resolve() {
			debug.Logf("resolve: %d ambiguous matches for %q at depth %d, picking first\n",
				len(matches), seg.String(), i)
		}
		if i == len(path)-1 {
			return matches[0], nil
		}
		cur = matches[0].Children
	}
	return nil, ErrNotFound
}

func findByID(roots []*element.Node, id string) *element.Node {
	var res *element.Node
	for _, root := range roots {
		if res != nil {
			break
		}
		root.Visit(func(n *element.Node) bool {
			if res != nil {
				return false
			}
			if n.ID() == id {
				res = n
				return false
			}
			return true
		})
	}
	return res
}
