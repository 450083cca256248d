package resolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"domsync/debug"
	"domsync/element"
)

// SpanInfo locates one identity-marked element in the text the session
// was built from.
type SpanInfo struct {
	Start   int
	End     int
	TagName string
}

// Session owns the identity map for one document version. It is passed
// explicitly by the caller; there is no ambient global map, so two
// panels editing different documents can never race on each other's
// identities. Each Inject replaces the entries wholesale and bumps
// Version, invalidating everything issued before.
type Session struct {
	Version int64
	attr    string
	entries map[string]SpanInfo
}

func NewSession(version int64) *Session {
	return NewSessionAttr(version, element.IdentityAttr)
}

// NewSessionAttr uses a custom marker attribute name, for hosts whose
// preview already reserves the default one.
func NewSessionAttr(version int64, attr string) *Session {
	if attr == "" {
		attr = element.IdentityAttr
	}
	return &Session{
		Version: version,
		attr:    attr,
		entries: map[string]SpanInfo{},
	}
}

// Attr returns the marker attribute name this session injects.
func (s *Session) Attr() string {
	return s.attr
}

// Len returns the number of live identities.
func (s *Session) Len() int {
	return len(s.entries)
}

// Find is a pure map lookup.
func (s *Session) Find(id string) (SpanInfo, bool) {
	info, ok := s.entries[id]
	return info, ok
}

// Inject inserts an identity marker attribute into every structural
// element of the forest except the excluded tags, working in
// descending source-offset order so no insertion invalidates a
// not-yet-processed offset. It returns the instrumented text; the
// recorded spans refer to the original, pre-injection text and remain
// authoritative for identity lookups against it.
func (s *Session) Inject(roots []*element.Node, text []byte) []byte {
	var nodes []*element.Node
	for _, root := range roots {
		root.Visit(func(n *element.Node) bool {
			if !element.Excluded(n.TagName) {
				nodes = append(nodes, n)
			}
			return true
		})
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].SourceStart > nodes[j].SourceStart
	})

	s.entries = make(map[string]SpanInfo, len(nodes))
	s.Version++
	out := append([]byte(nil), text...)
	for _, n := range nodes {
		id := newIdentity()
		n.Identity = id
		s.entries[id] = SpanInfo{
			Start:   n.SourceStart,
			End:     n.SourceEnd,
			TagName: n.TagName,
		}
		marker := fmt.Sprintf(` %s=%q`, s.attr, id)
		at := n.SourceStart + 1 + len(n.TagName)
		out = append(out[:at], append([]byte(marker), out[at:]...)...)
	}
	if debug.Resolve() {
		debug.Logf("inject: %d identities at version %d\n", len(nodes), s.Version)
	}
	return out
}

// newIdentity returns a short parse-scoped unique token.
func newIdentity() string {
	u := uuid.New()
	return strings.ReplaceAll(u.String(), "-", "")[:12]
}
