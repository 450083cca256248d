package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.lsp.dev/uri"

	"domsync/element"
	"domsync/linediff"
	"domsync/parse"
	"domsync/resolve"
)

const testURI = uri.URI("file:///tmp/index.html")

func openDoc(t *testing.T, text string) *Engine {
	t.Helper()
	e := New()
	if err := e.Open(testURI, parse.KindMarkup, []byte(text)); err != nil {
		t.Fatal(err)
	}
	return e
}

func loc(t *testing.T, s string) element.Locator {
	t.Helper()
	p, err := element.ParseSelectorPath(s)
	if err != nil {
		t.Fatal(err)
	}
	return element.Locator{Path: p}
}

func TestEditPipeline(t *testing.T) {
	e := openDoc(t, "<div>\n<p>Hello</p>\n</div>")
	sum, err := e.EditText(testURI, loc(t, "div > p"), "Goodbye")
	if err != nil {
		t.Fatal(err)
	}
	if sum.AddedCount != 1 || sum.DeletedCount != 1 {
		t.Errorf("summary %+v", sum)
	}
	text, err := e.Text(testURI)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "<div>\n<p>Goodbye</p>\n</div>" {
		t.Errorf("text %q", text)
	}
}

func TestAcceptFinalizes(t *testing.T) {
	e := openDoc(t, "<div>\n<p>Hello</p>\n</div>")
	if _, err := e.EditText(testURI, loc(t, "div > p"), "Goodbye"); err != nil {
		t.Fatal(err)
	}
	text, err := e.Accept(testURI)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != "<div>\n<p>Goodbye</p>\n</div>" {
		t.Errorf("accepted %q", text)
	}
	if _, ok, _ := e.PendingSummary(testURI); ok {
		t.Error("pending after accept")
	}
}

func TestRejectRestores(t *testing.T) {
	orig := "<div>\n<p>Hello</p>\n</div>"
	e := openDoc(t, orig)
	if _, err := e.EditText(testURI, loc(t, "div > p"), "One"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.EditText(testURI, loc(t, "div > p"), "Two"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := e.PendingSummary(testURI); !ok {
		t.Fatal("no pending")
	}
	text, err := e.Reject(testURI)
	if err != nil {
		t.Fatal(err)
	}
	if string(text) != orig {
		t.Errorf("reject gave %q, want original verbatim", text)
	}
	cur, _ := e.Text(testURI)
	if string(cur) != orig {
		t.Errorf("document text %q after reject", cur)
	}
}

func TestSecondMutationExtendsSession(t *testing.T) {
	e := openDoc(t, "<ul>\n<li>A</li>\n</ul>")
	if _, err := e.Duplicate(testURI, loc(t, "ul > li")); err != nil {
		t.Fatal(err)
	}
	sum, err := e.EditText(testURI, loc(t, "ul > li:nth-child(2)"), "B")
	if err != nil {
		t.Fatal(err)
	}
	if sum.AddedCount < 1 {
		t.Errorf("summary %+v", sum)
	}
	d, _ := e.doc(testURI)
	if d.rec.Changes() != 2 {
		t.Errorf("changes %d, want one extended session", d.rec.Changes())
	}
}

func TestNotFoundDoesNotStage(t *testing.T) {
	e := openDoc(t, "<div></div>")
	_, err := e.Delete(testURI, loc(t, "div > nav"))
	if !errors.Is(err, resolve.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
	if _, ok, _ := e.PendingSummary(testURI); ok {
		t.Error("failed mutation opened a pending session")
	}
}

func TestNoOpDoesNotStage(t *testing.T) {
	e := openDoc(t, "<div><p>same</p></div>")
	sum, err := e.EditText(testURI, loc(t, "div > p"), "same")
	if err != nil {
		t.Fatal(err)
	}
	if sum.AddedCount != 0 || sum.DeletedCount != 0 {
		t.Errorf("summary %+v", sum)
	}
	if _, ok, _ := e.PendingSummary(testURI); ok {
		t.Error("no-op opened a pending session")
	}
}

func TestParseErrorDisablesMutation(t *testing.T) {
	e := New()
	u := uri.URI("file:///tmp/app.tsx")
	if err := e.Open(u, parse.KindComponent, []byte("const x = <div><p></div>;")); err != nil {
		t.Fatal(err)
	}
	_, err := e.EditText(u, loc(t, "div"), "x")
	if !errors.Is(err, ErrParseFailed) {
		t.Errorf("got %v, want ErrParseFailed", err)
	}
}

func TestInstrumentKeepsTextClean(t *testing.T) {
	e := openDoc(t, "<div><p>x</p></div>")
	out, err := e.Instrument(testURI)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) <= len("<div><p>x</p></div>") {
		t.Errorf("instrumented text has no markers: %s", out)
	}
	text, _ := e.Text(testURI)
	if string(text) != "<div><p>x</p></div>" {
		t.Errorf("document text was instrumented: %s", text)
	}
	// The preview sees the markers; parsing its copy yields the
	// identities the engine resolves against the clean text.
	res, err := parse.For(parse.KindMarkup).Parse(out)
	if err != nil {
		t.Fatal(err)
	}
	var id string
	if n := res.Find(func(n *element.Node) bool { return n.TagName == "p" }); n != nil {
		id = n.Identity
	}
	if id == "" {
		t.Fatal("no identity on p")
	}
	if _, err := e.EditText(testURI, element.Locator{Identity: id}, "y"); err != nil {
		t.Fatal(err)
	}
	text, _ = e.Text(testURI)
	if string(text) != "<div><p>y</p></div>" {
		t.Errorf("identity edit gave %q", text)
	}
}

func TestSerializedMutations(t *testing.T) {
	e := openDoc(t, "<ul><li>seed</li></ul>")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Duplicate(testURI, loc(t, "ul > li:nth-child(1)"))
		}()
	}
	wg.Wait()
	text, _ := e.Text(testURI)
	res, err := parse.For(parse.KindMarkup).Parse(text)
	if err != nil {
		t.Fatalf("document corrupted by concurrent mutations: %v\n%s", err, text)
	}
	if got := len(res.Roots[0].Children); got != 9 {
		t.Errorf("li count %d, want 9", got)
	}
}

func TestDragSingleMove(t *testing.T) {
	e := openDoc(t, "<ul><li>A</li><li>B</li></ul>")
	if err := e.BeginDrag(testURI, loc(t, "ul > li:nth-child(2)")); err != nil {
		t.Fatal(err)
	}
	// A stream of live position events must not touch the text.
	for i := 0; i < 5; i++ {
		if err := e.DragOver(testURI, loc(t, "ul"), i%2); err != nil {
			t.Fatal(err)
		}
	}
	text, _ := e.Text(testURI)
	if string(text) != "<ul><li>A</li><li>B</li></ul>" {
		t.Fatalf("drag events mutated text: %s", text)
	}
	if _, ok, _ := e.PendingSummary(testURI); ok {
		t.Fatal("drag events staged a change")
	}
	if _, err := e.EndDrag(testURI); err != nil {
		t.Fatal(err)
	}
	text, _ = e.Text(testURI)
	// Final index from the last event (index 0).
	if string(text) != "<ul><li>B</li><li>A</li></ul>" {
		t.Errorf("after drag: %s", text)
	}
	d, _ := e.doc(testURI)
	if d.rec.Changes() != 1 {
		t.Errorf("changes %d, want exactly one move", d.rec.Changes())
	}
}

func TestCancelDrag(t *testing.T) {
	e := openDoc(t, "<ul><li>A</li><li>B</li></ul>")
	if err := e.BeginDrag(testURI, loc(t, "ul > li:nth-child(1)")); err != nil {
		t.Fatal(err)
	}
	e.DragOver(testURI, loc(t, "ul"), 1)
	if err := e.CancelDrag(testURI); err != nil {
		t.Fatal(err)
	}
	text, _ := e.Text(testURI)
	if string(text) != "<ul><li>A</li><li>B</li></ul>" {
		t.Errorf("cancel mutated text: %s", text)
	}
	if _, err := e.EndDrag(testURI); !errors.Is(err, ErrNoDrag) {
		t.Errorf("EndDrag after cancel: %v", err)
	}
}

func TestAwaitReady(t *testing.T) {
	e := New(WithConfig(&Config{ReadyTimeout: 20 * time.Millisecond}))
	ch := make(chan struct{})
	go func() { close(ch) }()
	if err := e.AwaitReady(context.Background(), ch); err != nil {
		t.Errorf("signalled wait failed: %v", err)
	}

	if err := e.AwaitReady(context.Background(), make(chan struct{})); !errors.Is(err, ErrNotReady) {
		t.Errorf("timeout gave %v", err)
	}
}

func TestPendingDiff(t *testing.T) {
	e := openDoc(t, "A\n<p>x</p>\nB")
	if _, err := e.PendingDiff(testURI); !errors.Is(err, linediff.ErrNoPending) {
		t.Errorf("clean doc: %v", err)
	}
	if _, err := e.EditText(testURI, loc(t, "p"), "y"); err != nil {
		t.Fatal(err)
	}
	res, err := e.PendingDiff(testURI)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Added) != 1 || len(res.Deleted) != 1 {
		t.Errorf("diff %+v", res)
	}
}

func TestWatchToggleWhileOpening(t *testing.T) {
	e := New()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := uri.URI(fmt.Sprintf("file:///tmp/doc%d.html", i))
			for j := 0; j < 20; j++ {
				e.Open(u, parse.KindMarkup, []byte("<div></div>"))
				e.Close(u)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			if err := e.Watch(); err != nil {
				t.Error(err)
				return
			}
			e.StopWatch()
		}
	}()
	wg.Wait()
	e.StopWatch()
}
