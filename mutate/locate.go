package mutate

import (
	"fmt"

	"domsync/debug"
	"domsync/element"
	"domsync/parse"
	"domsync/resolve"
)

// Target is a resolved element span ready for mutation. It is valid
// only for the exact text it was resolved against; any mutation
// invalidates it.
type Target struct {
	Start   int
	End     int
	TagName string
}

// Locate resolves a locator against text. The identity session is
// consulted first; on a miss, the text is parsed fresh and the locator
// falls back to embedded identity markers and then the selector path.
// An unresolved locator is always an explicit resolve.ErrNotFound,
// never a silent no-op.
func Locate(text []byte, loc element.Locator, sess *resolve.Session, p parse.Parser) (Target, error) {
	if loc.IsZero() {
		return Target{}, ErrBadLocator
	}
	if loc.Identity != "" && sess != nil {
		if info, ok := sess.Find(loc.Identity); ok {
			if debug.Mutate() {
				debug.Logf("locate: identity %s via session [%d,%d)\n", loc.Identity, info.Start, info.End)
			}
			return Target{Start: info.Start, End: info.End, TagName: info.TagName}, nil
		}
	}
	return LocateInText(text, loc, p)
}

// LocateInText resolves a locator by parsing text from scratch,
// ignoring any session. Mutations that change offsets mid-operation
// use this for their second resolution step.
func LocateInText(text []byte, loc element.Locator, p parse.Parser) (Target, error) {
	if loc.IsZero() {
		return Target{}, ErrBadLocator
	}
	if p == nil {
		return Target{}, ErrNoParser
	}
	res, err := p.Parse(text)
	if err != nil {
		return Target{}, err
	}
	if loc.Identity != "" {
		if n, ok := res.Identities[loc.Identity]; ok {
			return targetOf(n), nil
		}
		if len(loc.Path) == 0 {
			return Target{}, fmt.Errorf("%w: identity %q", resolve.ErrNotFound, loc.Identity)
		}
	}
	n, err := resolve.Resolve(res.Roots, loc.Path)
	if err != nil {
		return Target{}, err
	}
	return targetOf(n), nil
}

func targetOf(n *element.Node) Target {
	return Target{Start: n.SourceStart, End: n.SourceEnd, TagName: n.TagName}
}

func checkTarget(text []byte, t Target) error {
	if t.Start < 0 || t.End > len(text) || t.Start >= t.End {
		return fmt.Errorf("%w: span [%d,%d) out of range", resolve.ErrNotFound, t.Start, t.End)
	}
	return nil
}
