package resolve

import (
	"strings"
	"testing"

	"domsync/element"
	"domsync/parse"
)

func TestSessionInject(t *testing.T) {
	in := `<div><p>Hello</p><script>x()</script></div>`
	res := parseDoc(t, in)
	sess := NewSession(0)
	out := sess.Inject(res.Roots, []byte(in))

	if sess.Version != 1 {
		t.Errorf("version %d", sess.Version)
	}
	// div and p are marked; script is excluded.
	if sess.Len() != 2 {
		t.Fatalf("got %d identities", sess.Len())
	}
	if strings.Count(string(out), "data-domsync-id=") != 2 {
		t.Errorf("instrumented text: %s", out)
	}
	if strings.Contains(string(out), "<script data-domsync-id") {
		t.Errorf("script should be excluded: %s", out)
	}

	// Recorded spans refer to the pre-injection text.
	for id, info := range sess.entries {
		frag := in[info.Start:info.End]
		if !strings.HasPrefix(frag, "<"+info.TagName) {
			t.Errorf("identity %s: span %q does not start at <%s", id, frag, info.TagName)
		}
		got, ok := sess.Find(id)
		if !ok || got != info {
			t.Errorf("Find(%s) = %v, %v", id, got, ok)
		}
	}
	if _, ok := sess.Find("nope"); ok {
		t.Error("unknown identity found")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	in := `<ul><li>A</li><li>B</li></ul>`
	res := parseDoc(t, in)
	sess := NewSession(3)
	out := sess.Inject(res.Roots, []byte(in))

	// The instrumented text parses back with the same identities.
	res2, err := parse.For(parse.KindMarkup).Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(res2.Identities) != sess.Len() {
		t.Fatalf("re-parse found %d identities, session has %d", len(res2.Identities), sess.Len())
	}
	for id := range res2.Identities {
		if _, ok := sess.Find(id); !ok {
			t.Errorf("identity %s not in session", id)
		}
	}
}

func TestSessionReplacedWholesale(t *testing.T) {
	in := `<div><p>x</p></div>`
	res := parseDoc(t, in)
	sess := NewSession(0)
	sess.Inject(res.Roots, []byte(in))
	var old string
	for id := range sess.entries {
		old = id
		break
	}
	res2 := parseDoc(t, in)
	sess.Inject(res2.Roots, []byte(in))
	if _, ok := sess.Find(old); ok {
		t.Error("identity survived re-injection")
	}
	if sess.Version != 2 {
		t.Errorf("version %d", sess.Version)
	}
}

func TestSessionCustomAttr(t *testing.T) {
	in := `<div><p>x</p></div>`
	res := parseDoc(t, in)
	sess := NewSessionAttr(0, "data-host-id")
	out := sess.Inject(res.Roots, []byte(in))
	if !strings.Contains(string(out), ` data-host-id="`) {
		t.Errorf("custom attr not injected: %s", out)
	}
	if strings.Contains(string(out), element.IdentityAttr) {
		t.Errorf("default attr leaked: %s", out)
	}
}

func TestSessionInjectComponentSource(t *testing.T) {
	in := `export function Card() {
  return (
    <div id="card">
      <h2>Title</h2>
      <p>Body</p>
    </div>
  );
}
`
	res, err := parse.For(parse.KindComponent).Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	sess := NewSession(0)
	out := string(sess.Inject(res.Roots, []byte(in)))
	// Markers must sit inside the open tags, never in the
	// inter-element whitespace where they would render as text.
	for _, tag := range []string{"div", "h2", "p"} {
		if !strings.Contains(out, "<"+tag+" "+element.IdentityAttr+"=\"") {
			t.Errorf("no marker inside <%s>: %s", tag, out)
		}
	}
	if strings.Contains(out, "\n "+element.IdentityAttr) {
		t.Errorf("marker injected as bare text: %s", out)
	}
	for id, info := range sess.entries {
		if !strings.HasPrefix(in[info.Start:], "<"+info.TagName) {
			t.Errorf("span for %s starts at %q", id, in[info.Start:info.Start+1])
		}
	}
}
