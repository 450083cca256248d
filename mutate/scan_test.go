package mutate

import (
	"errors"
	"strings"
	"testing"

	"domsync/element"
)

type closeTest struct {
	name string
	text string
	tag  string
	// expected text from the returned offset, "" for ErrMalformedSpan
	at string
}

var closeTests = []closeTest{
	{
		name: "flat",
		text: `<p>Hello</p>`,
		tag:  "p",
		at:   `</p>`,
	},
	{
		name: "nested same tag",
		text: `<div><div>a</div><div>b</div></div> trailing`,
		tag:  "div",
		at:   `</div> trailing`,
	},
	{
		name: "comment containing close",
		text: `<div><!-- </div> -->x</div>!`,
		tag:  "div",
		at:   `</div>!`,
	},
	{
		name: "void tag inside span",
		text: `<p><br>x</p>!`,
		tag:  "p",
		at:   `</p>!`,
	},
	{
		name: "self closing same tag ignored",
		text: `<a href="#"><a id="x"/>y</a>z`,
		tag:  "a",
		at:   `</a>z`,
	},
	{
		name: "angle bracket in attribute",
		text: `<div title="a>b"><span title="x<y">s</span></div>e`,
		tag:  "div",
		at:   `</div>e`,
	},
	{
		name: "case insensitive",
		text: `<DIV>x</div>!`,
		tag:  "div",
		at:   `</div>!`,
	},
	{
		name: "truncated",
		text: `<div><p>never closed`,
		tag:  "div",
	},
	{
		name: "unterminated comment",
		text: `<div><!-- open forever`,
		tag:  "div",
	},
}

func TestFindMatchingClose(t *testing.T) {
	for _, tst := range closeTests {
		openEnd := OpenTagEnd([]byte(tst.text), 0)
		if openEnd < 0 {
			t.Fatalf("%s: bad fixture", tst.name)
		}
		got, err := FindMatchingClose([]byte(tst.text), openEnd, tst.tag)
		if tst.at == "" {
			if !errors.Is(err, ErrMalformedSpan) {
				t.Errorf("%s: got %v, want ErrMalformedSpan", tst.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tst.name, err)
			continue
		}
		if !strings.HasPrefix(tst.text[got:], tst.at) {
			t.Errorf("%s: close at %d = %q, want prefix %q", tst.name, got, tst.text[got:], tst.at)
		}
	}
}

func TestOpenTagEnd(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{`<p>`, 3},
		{`<img src="a>b.png">`, 19},
		{`<a href='x>y'>`, 14},
		{`<broken `, -1},
	}
	for _, c := range cases {
		if got := OpenTagEnd([]byte(c.text), 0); got != c.want {
			t.Errorf("%q: got %d, want %d", c.text, got, c.want)
		}
	}
}

func TestDirectChildren(t *testing.T) {
	text := `<ul><li>A<b>x</b></li><!-- gap --><li>B</li><br><li self="y"/></ul>`
	openEnd := OpenTagEnd([]byte(text), 0)
	closeStart, err := FindMatchingClose([]byte(text), openEnd, "ul")
	if err != nil {
		t.Fatal(err)
	}
	kids := DirectChildren([]byte(text), openEnd, closeStart)
	want := []string{
		`<li>A<b>x</b></li>`,
		`<li>B</li>`,
		`<br>`,
		`<li self="y"/>`,
	}
	if len(kids) != len(want) {
		t.Fatalf("got %d children, want %d: %+v", len(kids), len(want), kids)
	}
	for i, k := range kids {
		if got := text[k.Start:k.End]; got != want[i] {
			t.Errorf("child %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestEditTextLineFallback(t *testing.T) {
	// Truncated input: no matching close for <p>, so the edit falls
	// back to the first bare text run on the element's line.
	in := []byte("<div>\n<p>old text\n</div>")
	out, err := EditText(in, pathLoc(t, "div > p"), nil, markup(), "new")
	if err != nil {
		t.Fatal(err)
	}
	want := "<div>\n<p>new\n</div>"
	if string(out) != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestStripIdentityMarkers(t *testing.T) {
	in := `<div data-domsync-id="a1"><p data-domsync-id="b2">x</p></div>`
	got := string(stripIdentityMarkers([]byte(in), element.IdentityAttr))
	want := `<div><p>x</p></div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStripIdentityMarkersCustomAttr(t *testing.T) {
	in := `<div data-host-id="a1"><p data-host-id="b2">x</p></div>`
	got := string(stripIdentityMarkers([]byte(in), "data-host-id"))
	want := `<div><p>x</p></div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
