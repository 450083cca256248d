package resolve

import (
	"errors"
	"testing"

	"domsync/element"
	"domsync/parse"
)

const doc = `<main id="root">
  <section class="hero dark">
    <h1>Title</h1>
    <p class="lead">First</p>
    <p class="lead">Second</p>
  </section>
  <section class="body">
    <p id="intro">Intro</p>
  </section>
</main>`

func parseDoc(t *testing.T, in string) *parse.Result {
	t.Helper()
	res, err := parse.For(parse.KindMarkup).Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res
}

type resolveTest struct {
	path string
	want string // tag of expected node, "" for not found
	text string // expected leading text, when set
}

var resolveTests = []resolveTest{
	{path: "main", want: "main"},
	{path: "main > section", want: "section"},
	{path: "main > section.body", want: "section"},
	{path: "main > section > h1", want: "h1", text: "Title"},
	{path: "main > section > p.lead", want: "p", text: "First"},
	{path: "main > section > p.lead:nth-child(3)", want: "p", text: "Second"},
	{path: "#intro", want: "p", text: "Intro"},
	{path: "*#intro", want: "p", text: "Intro"},
	// id anchor with mismatched client tag still resolves
	{path: "span#intro", want: ""},
	{path: "#root > section.dark > p.lead", want: "p", text: "First"},
	{path: "main > nav", want: ""},
	{path: "main > section > p.missing", want: ""},
	{path: "main > section:nth-child(5)", want: ""},
}

func TestResolve(t *testing.T) {
	res := parseDoc(t, doc)
	for _, tst := range resolveTests {
		path, err := element.ParseSelectorPath(tst.path)
		if err != nil {
			t.Fatalf("%q: %v", tst.path, err)
		}
		n, err := Resolve(res.Roots, path)
		if tst.want == "" {
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("%q: want ErrNotFound, got %v (%v)", tst.path, n, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tst.path, err)
			continue
		}
		if n.TagName != tst.want {
			t.Errorf("%q: got %s, want %s", tst.path, n.TagName, tst.want)
		}
		if tst.text != "" && n.TextContent != tst.text {
			t.Errorf("%q: got text %q, want %q", tst.path, n.TextContent, tst.text)
		}
	}
}

// Resolution over an unchanged tree is deterministic.
func TestResolveDeterministic(t *testing.T) {
	res := parseDoc(t, doc)
	path, _ := element.ParseSelectorPath("main > section > p")
	first, err := Resolve(res.Roots, path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		n, err := Resolve(res.Roots, path)
		if err != nil || n != first {
			t.Fatalf("iteration %d: got %v, %v", i, n, err)
		}
	}
	if first.TextContent != "First" {
		t.Errorf("ambiguous match picked %q, want first in source order", first.TextContent)
	}
}

func TestMatchSegmentIDOnly(t *testing.T) {
	n := &element.Node{
		TagName: "button",
		Attrs:   []element.Attr{{Name: "id", Value: "go"}},
		Ordinal: 1,
	}
	// Client saw a different tag: id-only segments still match.
	if !MatchSegment(n, element.Segment{ID: "go"}) {
		t.Error("id with default tag should match regardless of tag")
	}
	if !MatchSegment(n, element.Segment{Tag: "*", ID: "go"}) {
		t.Error("id with wildcard tag should match regardless of tag")
	}
	if MatchSegment(n, element.Segment{Tag: "a", ID: "go"}) {
		t.Error("explicit tag mismatch should not match")
	}
}
