package linediff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type diffTest struct {
	name string
	old  string
	new  string
	res  Result
}

var diffTests = []diffTest{
	{
		name: "identical",
		old:  "A\nB\nC",
		new:  "A\nB\nC",
	},
	{
		name: "replace middle line",
		old:  "A\nB\nC",
		new:  "A\nX\nC",
		res: Result{
			Added:   []int{1},
			Deleted: []DeletedLine{{Anchor: 1, Content: "B"}},
		},
	},
	{
		name: "pure insert",
		old:  "A\nB",
		new:  "A\nNEW\nB",
		res: Result{
			Added: []int{1},
		},
	},
	{
		name: "pure delete",
		old:  "A\nB\nC",
		new:  "A\nC",
		res: Result{
			Deleted: []DeletedLine{{Anchor: 1, Content: "B"}},
		},
	},
	{
		name: "blank lines excluded from sets",
		old:  "A\n\nB",
		new:  "A\n\n\nB\nX",
		res: Result{
			Added: []int{4},
		},
	},
	{
		name: "duplicate content claims closest",
		old:  "x\ny\nx",
		new:  "x\nx",
		res: Result{
			Deleted: []DeletedLine{{Anchor: 1, Content: "y"}},
		},
	},
	{
		name: "append at end",
		old:  "A",
		new:  "A\nB\nC",
		res: Result{
			Added: []int{1, 2},
		},
	},
	{
		name: "everything replaced",
		old:  "old1\nold2",
		new:  "new1\nnew2",
		res: Result{
			Added: []int{0, 1},
			Deleted: []DeletedLine{
				{Anchor: 0, Content: "old1"},
				{Anchor: 1, Content: "old2"},
			},
		},
	},
}

func TestDiff(t *testing.T) {
	for _, tst := range diffTests {
		got := Diff(tst.old, tst.new)
		want := tst.res
		if d := cmp.Diff(&want, got); d != "" {
			t.Errorf("%s: (-want +got):\n%s", tst.name, d)
		}
	}
}

func TestDiffIdempotent(t *testing.T) {
	texts := []string{"", "one", "a\nb\nc\n", "x\n\n\ny"}
	for _, s := range texts {
		if res := Diff(s, s); !res.Empty() {
			t.Errorf("Diff(%q, same) = %+v, want empty", s, res)
		}
	}
}

func TestRecorderLifecycle(t *testing.T) {
	r := &Recorder{}
	if r.Pending() {
		t.Fatal("new recorder should be clean")
	}
	if _, err := r.Accept(); err != ErrNoPending {
		t.Errorf("accept on clean: %v", err)
	}

	r.Record("A\nB\nC", "A\nX\nC", "edit text")
	if !r.Pending() || r.Changes() != 1 {
		t.Fatalf("pending=%v changes=%d", r.Pending(), r.Changes())
	}
	sum, ok := r.Summary()
	if !ok || sum.AddedCount != 1 || sum.DeletedCount != 1 || sum.Description != "edit text" {
		t.Errorf("summary %+v", sum)
	}

	// A second mutation extends the session; the base stays.
	r.Record("A\nX\nC", "A\nX\nC\nD", "add line")
	if r.Changes() != 2 {
		t.Errorf("changes %d", r.Changes())
	}
	res := r.Result()
	if len(res.Added) != 2 || len(res.Deleted) != 1 {
		t.Errorf("extended diff %+v", res)
	}

	text, err := r.Accept()
	if err != nil || text != "A\nX\nC\nD" {
		t.Errorf("accept got %q, %v", text, err)
	}
	if r.Pending() {
		t.Error("accept should clear the session")
	}
}

func TestRecorderReject(t *testing.T) {
	r := &Recorder{}
	r.Record("orig", "step1", "first")
	r.Record("step1", "step2", "second")
	text, err := r.Reject()
	if err != nil || text != "orig" {
		t.Errorf("reject got %q, %v, want the session base verbatim", text, err)
	}
	if r.Pending() {
		t.Error("reject should clear the session")
	}
}

func TestInline(t *testing.T) {
	spans := Inline("color: blue", "color: red")
	var ins, del bool
	for _, s := range spans {
		switch s.Op {
		case InlineInsert:
			ins = true
		case InlineDelete:
			del = true
		}
	}
	if !ins || !del {
		t.Errorf("expected both insert and delete spans: %+v", spans)
	}
	var rebuilt string
	for _, s := range spans {
		if s.Op != InlineDelete {
			rebuilt += s.Text
		}
	}
	if rebuilt != "color: red" {
		t.Errorf("non-delete spans rebuild %q", rebuilt)
	}
}
